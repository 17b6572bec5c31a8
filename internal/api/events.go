package api

import (
	"github.com/nerrad567/stagelight-core/internal/dmx"
	"github.com/nerrad567/stagelight-core/internal/infrastructure/logging"
	"github.com/nerrad567/stagelight-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/stagelight-core/internal/playback"
)

// Events pushes engine notifications to WebSocket subscribers and,
// when configured, mirrors them on the MQTT status bus.
//
// It implements playback.Notifier and the DMX service's Recorder
// interface, so one instance wires both engines:
//
//	events := api.NewEvents(hub, mqttClient, logger)
//	playbackEngine.SetNotifier(events)
//	dmxService.SetRecorder(events)
type Events struct {
	hub    *Hub
	mqtt   *mqtt.Client // optional
	logger *logging.Logger
}

// NewEvents creates an event publisher. mqttClient may be nil.
func NewEvents(hub *Hub, mqttClient *mqtt.Client, logger *logging.Logger) *Events {
	return &Events{
		hub:    hub,
		mqtt:   mqttClient,
		logger: logger,
	}
}

// PlaybackChanged announces a cue list position change.
func (e *Events) PlaybackChanged(listID string, index int, playing bool) {
	payload := map[string]any{
		"cue_list_id": listID,
		"cue_index":   index,
		"playing":     playing,
	}
	e.hub.Broadcast(ChannelPlaybackChanged, payload)
	e.publish(mqtt.Topics{}.PlaybackChanged(listID), payload)
}

// PlaybackStopped announces that a cue list's playback state was cleared.
func (e *Events) PlaybackStopped(listID string) {
	payload := map[string]any{
		"cue_list_id": listID,
		"playing":     false,
		"stopped":     true,
	}
	e.hub.Broadcast(ChannelPlaybackChanged, payload)
	e.publish(mqtt.Topics{}.PlaybackStopped(listID), payload)
}

// RecordRateChange announces an adaptive-sender rate transition.
// Called from the DMX send loop, so it must not block; hub sends are
// buffered and the MQTT mirror runs on its own goroutine.
func (e *Events) RecordRateChange(rate float64, active bool) {
	payload := map[string]any{
		"rate_hz": rate,
		"active":  active,
	}
	e.hub.Broadcast(ChannelDMXRateChanged, payload)
	e.publish(mqtt.Topics{}.DMXRate(), payload)
}

// RecordTransmit is part of the Recorder interface. Per-cycle transmit
// counts are telemetry, not UI events, so nothing is broadcast.
func (e *Events) RecordTransmit(int) {}

// publish mirrors a payload on the MQTT status bus when configured.
// The publish runs asynchronously; a slow broker must never stall the
// engines that raise these events.
func (e *Events) publish(topic string, payload any) {
	if e.mqtt == nil {
		return
	}
	go func() {
		if err := e.mqtt.PublishJSON(topic, 0, false, payload); err != nil {
			e.logger.Debug("status bus publish failed", "topic", topic, "error", err)
		}
	}()
}

// compile-time interface checks
var (
	_ playback.Notifier = (*Events)(nil)
	_ dmx.Recorder      = (*Events)(nil)
)
