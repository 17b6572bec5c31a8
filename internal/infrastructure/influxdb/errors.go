package influxdb

import "errors"

// Sentinel errors for telemetry. Callers match with errors.Is; in
// practice only ErrDisabled matters, since a venue without InfluxDB
// runs the show exactly the same.
var (
	// ErrNotConnected reports an operation on a closed or zero client.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed reports a failed initial ping.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrDisabled reports that telemetry is switched off in config.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)
