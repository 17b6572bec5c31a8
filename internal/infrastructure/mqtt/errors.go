package mqtt

import "errors"

// Sentinel errors for the status bus. Callers match with errors.Is.
var (
	// ErrNotConnected reports an operation attempted while disconnected.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed reports a failed initial connection. After
	// that, reconnection is paho's job and never surfaces here.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed reports a failed, timed-out, or oversized publish.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed reports a failed subscribe.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrUnsubscribeFailed reports a failed unsubscribe.
	ErrUnsubscribeFailed = errors.New("mqtt: unsubscribe failed")

	// ErrInvalidQoS reports a QoS level outside 0..2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrInvalidTopic reports an empty topic.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")
)
