package fade

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// TickInterval is the fixed interpolation cadence. 40 frames per second
// sits just under the DMX refresh ceiling and keeps fades visually smooth.
const TickInterval = 25 * time.Millisecond

// FadeToBlackID is the fixed id used by FadeToBlack so that repeated
// blackout requests replace each other instead of stacking.
const FadeToBlackID = "fade-to-black"

// Logger is the minimal logging interface the engine needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// DMXWriter is the slice of the DMX output service the engine depends on.
type DMXWriter interface {
	SetChannelValue(universe, channel, value int)
	GetChannelValue(universe, channel int) (int, bool)
	GetAllUniverseOutputs() map[int][]byte
	TriggerChangeDetection()
}

// ChannelTarget names one channel and the value it should fade to.
type ChannelTarget struct {
	Universe int `json:"universe"`
	Channel  int `json:"channel"`
	Value    int `json:"value"`
}

// FadeOptions carries the optional parts of a fade request.
type FadeOptions struct {
	// ID identifies the fade. Submitting under an id that is already
	// fading replaces the running fade, continuing from its current
	// interpolated position. Left empty, an id is generated.
	ID string

	// Easing selects the progress curve. Empty means DefaultEasing.
	Easing Easing

	// OnComplete runs once, after the completion frame has been written,
	// and receives the completed fade's id. It is invoked outside the
	// engine lock, so it may safely call back into the engine.
	OnComplete func(id string)
}

// channelKey is the composite key for the interpolated-value cache.
type channelKey struct {
	Universe int
	Channel  int
}

// fadeChannel is one channel's descriptor within an active fade. The start
// is fractional so a replacement fade picks up exactly where the previous
// one was, not at the last rounded byte.
type fadeChannel struct {
	universe int
	channel  int
	start    float64
	target   int
}

type activeFade struct {
	id         string
	channels   []fadeChannel
	startedAt  time.Time
	duration   time.Duration
	ease       func(float64) float64
	onComplete func(id string)
}

// Engine interpolates channel values over time and writes each frame
// through the DMX output service. Construct with NewEngine, then Start.
type Engine struct {
	dmx    DMXWriter
	logger Logger

	mu     sync.Mutex
	fades  map[string]*activeFade
	interp map[channelKey]float64

	cancel  context.CancelFunc
	done    chan struct{}
	running bool

	// now is the time source; replaced in tests.
	now func() time.Time
}

// NewEngine creates a fade engine writing through the given output service.
func NewEngine(dmx DMXWriter) *Engine {
	return &Engine{
		dmx:    dmx,
		logger: noopLogger{},
		fades:  make(map[string]*activeFade),
		interp: make(map[channelKey]float64),
		now:    time.Now,
	}
}

// SetLogger sets the logger for the engine.
func (e *Engine) SetLogger(logger Logger) {
	e.logger = logger
}

// Start launches the 25ms tick loop.
//
// Returns:
//   - error: ErrAlreadyStarted if the engine is running
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	tickCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})
	e.running = true
	e.mu.Unlock()

	go e.run(tickCtx)

	e.logger.Info("fade engine started", "tick_ms", TickInterval.Milliseconds())
	return nil
}

// Stop halts the tick loop and discards every active fade. Channels keep
// their last written values; callers compose with FadeToBlack when they
// want a blackout first.
//
// Returns:
//   - error: ErrNotStarted if the engine was never started
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return ErrNotStarted
	}
	e.running = false
	cancel := e.cancel
	done := e.done
	e.mu.Unlock()

	cancel()
	<-done

	e.CancelAllFades()
	e.logger.Info("fade engine stopped")
	return nil
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick(e.now())
		}
	}
}

// FadeChannels starts (or replaces) a fade over the given channels.
//
// Each channel's start value is the current interpolated position when the
// channel is already mid-fade, otherwise the output service's current
// value, otherwise 0. When opts.ID names a running fade, its state is read
// for those start values strictly before the old fade is dropped; reading
// after would lose the baseline and cause a visible jump.
//
// Parameters:
//   - targets: channels and the values they should reach
//   - duration: total fade time; zero or negative completes on the next tick
//   - opts: id, easing, and completion callback (all optional)
//
// Returns:
//   - string: the fade id, generated when opts.ID is empty
func (e *Engine) FadeChannels(targets []ChannelTarget, duration time.Duration, opts FadeOptions) string {
	id := opts.ID
	if id == "" {
		id = e.generateID()
	}
	if len(targets) == 0 {
		return id
	}

	easing := opts.Easing
	if easing == "" {
		easing = DefaultEasing
	}

	e.mu.Lock()
	channels := make([]fadeChannel, 0, len(targets))
	for _, t := range targets {
		key := channelKey{Universe: t.Universe, Channel: t.Channel}
		var start float64
		if v, ok := e.interp[key]; ok {
			start = v
		} else if v, ok := e.dmx.GetChannelValue(t.Universe, t.Channel); ok {
			start = float64(v)
		}
		channels = append(channels, fadeChannel{
			universe: t.Universe,
			channel:  t.Channel,
			start:    start,
			target:   t.Value,
		})
	}

	// Start values are captured above; only now is a same-id fade safe
	// to drop. Cached positions for channels the old fade drove but the
	// replacement does not must go with it, or a later fade on such a
	// channel would start from a stale value.
	if old, ok := e.fades[id]; ok {
		kept := make(map[channelKey]struct{}, len(channels))
		for _, ch := range channels {
			kept[channelKey{Universe: ch.universe, Channel: ch.channel}] = struct{}{}
		}
		for _, ch := range old.channels {
			key := channelKey{Universe: ch.universe, Channel: ch.channel}
			if _, stillFading := kept[key]; !stillFading {
				delete(e.interp, key)
			}
		}
		delete(e.fades, id)
	}

	e.fades[id] = &activeFade{
		id:         id,
		channels:   channels,
		startedAt:  e.now(),
		duration:   duration,
		ease:       easingFunc(easing),
		onComplete: opts.OnComplete,
	}
	e.mu.Unlock()

	e.dmx.TriggerChangeDetection()
	e.logger.Debug("fade started",
		"fade_id", id,
		"channels", len(channels),
		"duration_ms", duration.Milliseconds(),
		"easing", string(easing),
	)
	return id
}

// FadeToScene fades the flattened channel values of a scene. It is
// FadeChannels under a name that matches what callers are doing; cue
// execution and scene activation both come through here.
func (e *Engine) FadeToScene(targets []ChannelTarget, fadeIn time.Duration, opts FadeOptions) string {
	return e.FadeChannels(targets, fadeIn, opts)
}

// FadeToBlack fades every currently nonzero channel to 0 under the fixed
// id FadeToBlackID. A second blackout while one is running replaces it.
//
// Returns:
//   - string: FadeToBlackID
func (e *Engine) FadeToBlack(fadeOut time.Duration, easing Easing) string {
	var targets []ChannelTarget
	for universe, data := range e.dmx.GetAllUniverseOutputs() {
		for i, v := range data {
			if v != 0 {
				targets = append(targets, ChannelTarget{
					Universe: universe,
					Channel:  i + 1,
					Value:    0,
				})
			}
		}
	}
	return e.FadeChannels(targets, fadeOut, FadeOptions{ID: FadeToBlackID, Easing: easing})
}

// CancelFade removes a fade and its cached channel positions. Unknown ids
// are a no-op; once this returns, no further frames for the fade are
// written.
func (e *Engine) CancelFade(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	f, ok := e.fades[id]
	if !ok {
		return
	}
	for _, ch := range f.channels {
		delete(e.interp, channelKey{Universe: ch.universe, Channel: ch.channel})
	}
	delete(e.fades, id)
}

// CancelAllFades removes every active fade and clears the cache.
func (e *Engine) CancelAllFades() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fades = make(map[string]*activeFade)
	e.interp = make(map[channelKey]float64)
}

// ActiveFadeCount returns the number of fades currently running.
func (e *Engine) ActiveFadeCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.fades)
}

// tick advances every active fade one frame. Exposed on the struct so
// tests can drive it with a synthetic clock.
func (e *Engine) tick(now time.Time) {
	e.mu.Lock()

	var completedIDs []string
	var callbacks []func()

	for id, f := range e.fades {
		progress := 1.0
		if f.duration > 0 {
			progress = float64(now.Sub(f.startedAt)) / float64(f.duration)
			if progress < 0 {
				progress = 0
			} else if progress > 1 {
				progress = 1
			}
		}

		if progress >= 1 {
			// Completion frame: exact targets, no rounding or clamping.
			// The output service clamps on write.
			for _, ch := range f.channels {
				e.dmx.SetChannelValue(ch.universe, ch.channel, ch.target)
				delete(e.interp, channelKey{Universe: ch.universe, Channel: ch.channel})
			}
			if f.onComplete != nil {
				cb, fadeID := f.onComplete, id
				callbacks = append(callbacks, func() { cb(fadeID) })
			}
			completedIDs = append(completedIDs, id)
			continue
		}

		eased := f.ease(progress)
		for _, ch := range f.channels {
			value := ch.start + (float64(ch.target)-ch.start)*eased
			e.interp[channelKey{Universe: ch.universe, Channel: ch.channel}] = value
			rounded := int(math.Round(value))
			if rounded < 0 {
				rounded = 0
			} else if rounded > 255 {
				rounded = 255
			}
			e.dmx.SetChannelValue(ch.universe, ch.channel, rounded)
		}
	}

	// Removal happens after the scan so the map is never mutated while
	// being iterated.
	for _, id := range completedIDs {
		delete(e.fades, id)
		e.logger.Debug("fade completed", "fade_id", id)
	}
	e.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
}

// generateID builds a fade id from the submission time and a random
// fraction, unique enough for ids that live for seconds.
func (e *Engine) generateID() string {
	return fmt.Sprintf("fade-%d-%06d", e.now().UnixMilli(), rand.Intn(1000000))
}
