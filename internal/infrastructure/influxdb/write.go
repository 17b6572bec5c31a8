package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordRateChange records an adaptive-sender rate transition.
//
// It satisfies the DMX service's Recorder interface: writes are
// non-blocking and batched, so calling from the send loop is safe.
//
// Parameters:
//   - rate: New transmission rate in Hz
//   - active: Whether the sender entered active mode (true) or idle (false)
func (c *Client) RecordRateChange(rate float64, active bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"dmx_rate",
		map[string]string{
			"active": strconv.FormatBool(active),
		},
		map[string]interface{}{
			"rate_hz": rate,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// RecordTransmit records a completed transmission cycle.
//
// Parameters:
//   - universes: Number of universes sent in this cycle
func (c *Client) RecordTransmit(universes int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"dmx_transmit",
		nil,
		map[string]interface{}{
			"universes": universes,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteFadeCompleted records a finished fade for timing analysis.
//
// Parameters:
//   - fadeID: The fade identifier (e.g., "cuelist-cl-act1", "fade-to-black")
//   - channels: Number of channels the fade drove
//   - duration: Requested fade duration
func (c *Client) WriteFadeCompleted(fadeID string, channels int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"fade",
		map[string]string{
			"fade_id": fadeID,
		},
		map[string]interface{}{
			"channels":    channels,
			"duration_ms": duration.Milliseconds(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePlaybackEvent records a cue list position change.
//
// Used for post-show review of cue timing (when operators actually
// fired each cue versus the rehearsed plan).
//
// Parameters:
//   - cueListID: Cue list identifier
//   - cueIndex: Zero-based position within the list
//   - playing: Whether the list is actively playing after this event
func (c *Client) WritePlaybackEvent(cueListID string, cueIndex int, playing bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"playback",
		map[string]string{
			"cue_list_id": cueListID,
		},
		map[string]interface{}{
			"cue_index": cueIndex,
			"playing":   playing,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "stage-01"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
