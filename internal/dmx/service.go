package dmx

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/stagelight-core/internal/infrastructure/config"
)

// Logger defines the logging interface used by the Service.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Recorder receives transmission telemetry from the adaptive sender.
// Implementations must not block; they are called from the send loop.
type Recorder interface {
	// RecordRateChange is called when the sender switches between the
	// active and idle transmission rates.
	RecordRateChange(rate float64, active bool)

	// RecordTransmit is called after each transmission with the number
	// of universes sent.
	RecordTransmit(universes int)
}

// ChannelKey identifies a single channel slot across all universes.
type ChannelKey struct {
	Universe int
	Channel  int
}

// Service owns the current value of every DMX channel across all configured
// universes and streams the effective output as Art-Net packets.
//
// The base channel arrays and the override map are mutated only through the
// Service's own methods. Reads return defensive copies.
type Service struct {
	cfg    config.DMXConfig
	logger Logger

	mu        sync.Mutex
	universes map[int]*[UniverseSize]byte
	overrides map[ChannelKey]byte

	// Adaptive transmission state (guarded by mu).
	lastSent    map[int][UniverseSize]byte
	currentRate float64
	activeMode  bool
	lastChange  time.Time

	conn     packetConn
	recorder Recorder

	cancel  context.CancelFunc
	done    chan struct{}
	running bool

	// now is the clock source; replaceable in tests.
	now func() time.Time
}

// NewService creates a DMX output service with universes 1..cfg.UniverseCount
// allocated and zeroed.
//
// The service does not transmit until Start is called.
func NewService(cfg config.DMXConfig) *Service {
	universes := make(map[int]*[UniverseSize]byte, cfg.UniverseCount)
	for u := 1; u <= cfg.UniverseCount; u++ {
		universes[u] = &[UniverseSize]byte{}
	}

	return &Service{
		cfg:         cfg,
		logger:      noopLogger{},
		universes:   universes,
		overrides:   make(map[ChannelKey]byte),
		lastSent:    make(map[int][UniverseSize]byte),
		currentRate: cfg.ActiveRefreshRate,
		activeMode:  true,
		now:         time.Now,
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// SetRecorder sets an optional telemetry sink for the adaptive sender.
func (s *Service) SetRecorder(r Recorder) {
	s.mu.Lock()
	s.recorder = r
	s.mu.Unlock()
}

// SetChannelValue writes a channel's base value.
//
// The value is clamped to [0,255]. Writes to a nonexistent universe or a
// channel outside 1..512 are silently ignored: patch data may reference
// addresses that are not configured on this rig. Every call, including the
// no-op case, counts as activity for the adaptive sender.
func (s *Service) SetChannelValue(universe, channel, value int) {
	s.mu.Lock()
	if arr, ok := s.universes[universe]; ok && channel >= 1 && channel <= UniverseSize {
		arr[channel-1] = clampByte(value)
	}
	s.bumpRateLocked(s.now())
	s.mu.Unlock()
}

// SetChannelOverride pins a channel's output value, taking precedence over
// the base array until cleared. The value is clamped to [0,255]. Overrides
// on unconfigured addresses are ignored.
func (s *Service) SetChannelOverride(universe, channel, value int) {
	s.mu.Lock()
	if _, ok := s.universes[universe]; ok && channel >= 1 && channel <= UniverseSize {
		s.overrides[ChannelKey{Universe: universe, Channel: channel}] = clampByte(value)
	}
	s.bumpRateLocked(s.now())
	s.mu.Unlock()
}

// ClearChannelOverride removes a single override. Clearing an absent
// override is a no-op.
func (s *Service) ClearChannelOverride(universe, channel int) {
	s.mu.Lock()
	delete(s.overrides, ChannelKey{Universe: universe, Channel: channel})
	s.bumpRateLocked(s.now())
	s.mu.Unlock()
}

// ClearAllOverrides removes every override.
func (s *Service) ClearAllOverrides() {
	s.mu.Lock()
	s.overrides = make(map[ChannelKey]byte)
	s.bumpRateLocked(s.now())
	s.mu.Unlock()
}

// OverrideCount returns the number of active channel overrides.
func (s *Service) OverrideCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.overrides)
}

// GetChannelValue returns the effective value of one channel (base merged
// with any override). The second return reports whether the address exists.
func (s *Service) GetChannelValue(universe, channel int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	arr, ok := s.universes[universe]
	if !ok || channel < 1 || channel > UniverseSize {
		return 0, false
	}
	if v, overridden := s.overrides[ChannelKey{Universe: universe, Channel: channel}]; overridden {
		return int(v), true
	}
	return int(arr[channel-1]), true
}

// GetUniverseOutput returns a defensive copy of one universe's effective
// output. The second return reports whether the universe exists.
func (s *Service) GetUniverseOutput(universe int) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	arr, ok := s.universes[universe]
	if !ok {
		return nil, false
	}
	out := s.effectiveOutputLocked(universe, arr)
	return out[:], true
}

// GetAllUniverseOutputs returns defensive copies of every universe's
// effective output, keyed by universe id.
func (s *Service) GetAllUniverseOutputs() map[int][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	outputs := make(map[int][]byte, len(s.universes))
	for u, arr := range s.universes {
		out := s.effectiveOutputLocked(u, arr)
		outputs[u] = out[:]
	}
	return outputs
}

// UniverseCount returns the number of configured universes.
func (s *Service) UniverseCount() int {
	return len(s.universes)
}

// TriggerChangeDetection forces an immediate switch to the active
// transmission rate without waiting for the next diff. The fade engine
// calls this when a fade starts so the first frame goes out at full rate.
func (s *Service) TriggerChangeDetection() {
	s.mu.Lock()
	s.bumpRateLocked(s.now())
	s.mu.Unlock()
}

// CurrentRate returns the current transmission rate in Hz and whether the
// sender is in active (high-rate) mode.
func (s *Service) CurrentRate() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRate, s.activeMode
}

// effectiveOutputLocked merges the base array with overrides for one universe.
// Caller must hold s.mu.
func (s *Service) effectiveOutputLocked(universe int, arr *[UniverseSize]byte) [UniverseSize]byte {
	out := *arr
	for key, v := range s.overrides {
		if key.Universe == universe {
			out[key.Channel-1] = v
		}
	}
	return out
}

// bumpRateLocked records activity and ensures the sender is at the active
// rate. Caller must hold s.mu.
func (s *Service) bumpRateLocked(now time.Time) {
	s.lastChange = now
	if !s.activeMode {
		s.activeMode = true
		s.currentRate = s.cfg.ActiveRefreshRate
		s.logger.Debug("transmission rate raised", "rate_hz", s.currentRate)
		if s.recorder != nil {
			s.recorder.RecordRateChange(s.currentRate, true)
		}
	}
}

// clampByte clamps an int to the DMX value range [0,255].
func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
