package influxdb

import (
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/stagelight-core/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	cfg := config.InfluxDBConfig{Enabled: false}

	if _, err := Connect(cfg); !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	cfg := config.InfluxDBConfig{
		Enabled: true,
		URL:     "http://127.0.0.1:1", // nothing listens here
		Token:   "test-token",
		Org:     "stagelight",
		Bucket:  "telemetry",
	}

	if _, err := Connect(cfg); !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

// Disconnected clients must silently drop writes; the DMX send loop
// calls the Recorder methods without checking connectivity first.
func TestWrites_NoOpWhenDisconnected(t *testing.T) {
	c := &Client{}

	c.RecordRateChange(44.0, true)
	c.RecordTransmit(2)
	c.WriteFadeCompleted("fade-to-black", 12, 3*time.Second)
	c.WritePlaybackEvent("cl-act1", 0, true)
	c.WritePoint("system_stats", nil, map[string]interface{}{"cpu_percent": 1.0})
	c.WritePointWithTime("system_stats", nil, map[string]interface{}{"cpu_percent": 1.0}, time.Now())
}

func TestCloseAndFlush_SafeOnZeroClient(t *testing.T) {
	c := &Client{}

	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	c.Flush()

	if c.IsConnected() {
		t.Error("IsConnected() = true on zero client")
	}
}
