// Package mqtt provides MQTT client connectivity for Stagelight Core.
//
// It wraps the Eclipse Paho MQTT client with:
//   - Connection management and automatic reconnection
//   - Last Will and Testament (LWT) for crash detection
//   - Subscription restoration after reconnect
//   - Consistent topic naming via the Topics builder
//   - Panic recovery in message handlers
//
// Stagelight uses MQTT as an outbound status bus: playback transitions,
// scene activations, and transmission rate changes are published for
// external consumers (house automation, monitoring, show recording). The
// bus is optional and read-only from the outside; lighting control always
// goes through the HTTP API.
//
//	Stagelight Core → MQTT Broker → External Consumers
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//		return fmt.Errorf("connecting to broker: %w", err)
//	}
//	defer client.Close()
//
//	// Publish a playback transition
//	topic := mqtt.Topics{}.PlaybackChanged("cl-act1")
//	err = client.PublishJSON(topic, 1, false, payload)
//
// # Connection Lifecycle
//
// On connect, the client publishes a retained online status to
// stagelight/system/status. The LWT replaces it with an offline marker if
// the process dies without a clean shutdown; Close publishes a graceful
// offline status first.
package mqtt
