package mqtt

import "fmt"

// Topic prefixes for the Stagelight status bus.
//
// Stagelight publishes its runtime state over MQTT so external consumers
// (house automation, recording rigs, monitoring dashboards) can follow a
// show without polling the HTTP API. The core only publishes; nothing on
// the bus drives the lighting engine.
const (
	// TopicPrefix is the base for all Stagelight topics.
	TopicPrefix = "stagelight"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "stagelight/system"
)

// Topics provides builders for Stagelight MQTT topics. Using these helpers
// keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	topic := topics.PlaybackChanged("cl-act1")
//	// Returns: "stagelight/playback/cl-act1/changed"
type Topics struct{}

// PlaybackChanged returns the topic for cue position updates of a list.
//
// Example: stagelight/playback/cl-act1/changed
func (Topics) PlaybackChanged(cueListID string) string {
	return fmt.Sprintf("%s/playback/%s/changed", TopicPrefix, cueListID)
}

// PlaybackStopped returns the topic for playback stop events of a list.
//
// Example: stagelight/playback/cl-act1/stopped
func (Topics) PlaybackStopped(cueListID string) string {
	return fmt.Sprintf("%s/playback/%s/stopped", TopicPrefix, cueListID)
}

// SceneActivated returns the topic for scene activation events.
//
// Example: stagelight/scene/scn-warm/activated
func (Topics) SceneActivated(sceneID string) string {
	return fmt.Sprintf("%s/scene/%s/activated", TopicPrefix, sceneID)
}

// FadeCompleted returns the topic for fade completion events.
//
// Example: stagelight/fade/fade-to-black/completed
func (Topics) FadeCompleted(fadeID string) string {
	return fmt.Sprintf("%s/fade/%s/completed", TopicPrefix, fadeID)
}

// DMXRate returns the topic for transmission rate transitions.
//
// Example: stagelight/dmx/rate
func (Topics) DMXRate() string {
	return fmt.Sprintf("%s/dmx/rate", TopicPrefix)
}

// SystemStatus returns the system status topic. Online/offline payloads
// are retained here, and the broker publishes the LWT crash marker to the
// same topic.
//
// Example: stagelight/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllPlayback returns a pattern matching every playback event.
//
// Pattern: stagelight/playback/+/+
func (Topics) AllPlayback() string {
	return fmt.Sprintf("%s/playback/+/+", TopicPrefix)
}

// AllTopics returns a pattern matching all Stagelight topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: stagelight/#
func (Topics) AllTopics() string {
	return "stagelight/#"
}
