package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/stagelight-core/internal/fade"
	"github.com/nerrad567/stagelight-core/internal/show"
)

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

// ShowResolver is the slice of the show registry playback depends on.
type ShowResolver interface {
	CueList(ctx context.Context, id string) (*show.CueList, error)
	Scene(ctx context.Context, id string) (*show.Scene, error)
	Fixture(ctx context.Context, id string) (*show.Fixture, error)
}

// Fader is the slice of the fade engine playback depends on.
type Fader interface {
	FadeToScene(targets []fade.ChannelTarget, fadeIn time.Duration, opts fade.FadeOptions) string
}

// Notifier receives playback state transitions; the API layer uses it to
// push updates to connected clients. Implementations must not block.
type Notifier interface {
	PlaybackChanged(listID string, cueIndex int, playing bool)
	PlaybackStopped(listID string)
}

// Status is a snapshot of one cue list's playback state.
type Status struct {
	CueListID       string `json:"cue_list_id"`
	CurrentCueIndex int    `json:"current_cue_index"`
	CurrentCueID    string `json:"current_cue_id,omitempty"`
	IsPlaying       bool   `json:"is_playing"`
}

// PlayOptions carries optional overrides for cue execution.
type PlayOptions struct {
	// FadeInSec overrides the cue's stored fade-in time when set.
	FadeInSec *float64
}

type listState struct {
	index   int
	playing bool
	cueID   string
	follow  *time.Timer
}

// Engine is the cue playback state machine. Construct with NewEngine.
type Engine struct {
	shows    ShowResolver
	fader    Fader
	logger   Logger
	notifier Notifier

	mu     sync.Mutex
	states map[string]*listState
}

// NewEngine creates a playback engine over the given show resolver and
// fade engine.
func NewEngine(shows ShowResolver, fader Fader) *Engine {
	return &Engine{
		shows:  shows,
		fader:  fader,
		logger: noopLogger{},
		states: make(map[string]*listState),
	}
}

// SetLogger sets the logger for the engine.
func (e *Engine) SetLogger(logger Logger) {
	e.logger = logger
}

// SetNotifier sets the playback event sink.
func (e *Engine) SetNotifier(n Notifier) {
	e.notifier = n
}

// StartCueList begins playback of a cue list at the given index.
//
// Parameters:
//   - listID: the cue list to play
//   - startIndex: cue to start from, normally 0
//
// Returns:
//   - error: ErrListEmpty, ErrIndexOutOfRange, or a resolution failure
func (e *Engine) StartCueList(ctx context.Context, listID string, startIndex int) error {
	list, err := e.shows.CueList(ctx, listID)
	if err != nil {
		return err
	}
	if len(list.Cues) == 0 {
		return ErrListEmpty
	}
	if startIndex < 0 || startIndex >= len(list.Cues) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, startIndex, len(list.Cues))
	}

	if err := e.executeCue(ctx, list, startIndex, PlayOptions{}); err != nil {
		return err
	}
	e.recordPosition(list, startIndex)
	e.logger.Info("cue list started", "cue_list_id", listID, "index", startIndex)
	return nil
}

// NextCue advances a playing list to its next cue. On the last cue it
// wraps to 0 when the list loops, otherwise returns ErrAtLastCue.
func (e *Engine) NextCue(ctx context.Context, listID string) error {
	e.mu.Lock()
	state, ok := e.states[listID]
	if !ok || !state.playing {
		e.mu.Unlock()
		return ErrNotPlaying
	}
	current := state.index
	e.mu.Unlock()

	// Resolve fresh every navigation; the list may have been edited
	// since the last cue.
	list, err := e.shows.CueList(ctx, listID)
	if err != nil {
		return err
	}
	if len(list.Cues) == 0 {
		return ErrListEmpty
	}

	next := current + 1
	if next >= len(list.Cues) {
		if !list.Loop {
			return ErrAtLastCue
		}
		next = 0
	}

	if err := e.executeCue(ctx, list, next, PlayOptions{}); err != nil {
		return err
	}
	e.recordPosition(list, next)
	e.logger.Info("cue advanced", "cue_list_id", listID, "index", next)
	return nil
}

// PreviousCue steps a playing list back one cue. On the first cue it
// returns ErrAtFirstCue; there is no reverse wraparound.
func (e *Engine) PreviousCue(ctx context.Context, listID string) error {
	e.mu.Lock()
	state, ok := e.states[listID]
	if !ok || !state.playing {
		e.mu.Unlock()
		return ErrNotPlaying
	}
	current := state.index
	e.mu.Unlock()

	prev := current - 1
	if prev < 0 {
		return ErrAtFirstCue
	}

	list, err := e.shows.CueList(ctx, listID)
	if err != nil {
		return err
	}
	if prev >= len(list.Cues) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, prev, len(list.Cues))
	}

	if err := e.executeCue(ctx, list, prev, PlayOptions{}); err != nil {
		return err
	}
	e.recordPosition(list, prev)
	e.logger.Info("cue stepped back", "cue_list_id", listID, "index", prev)
	return nil
}

// GoToCue jumps straight to a cue by index, whether or not the list is
// already playing.
func (e *Engine) GoToCue(ctx context.Context, listID string, index int) error {
	list, err := e.shows.CueList(ctx, listID)
	if err != nil {
		return err
	}
	if len(list.Cues) == 0 {
		return ErrListEmpty
	}
	if index < 0 || index >= len(list.Cues) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(list.Cues))
	}

	if err := e.executeCue(ctx, list, index, PlayOptions{}); err != nil {
		return err
	}
	e.recordPosition(list, index)
	e.logger.Info("jumped to cue", "cue_list_id", listID, "index", index)
	return nil
}

// PlayCue executes a single cue. The fade always runs; the owning list's
// recorded position updates only when the cue is actually found in that
// list, so a cue detached from its list changes light state without
// corrupting navigation.
func (e *Engine) PlayCue(ctx context.Context, cue *show.Cue, opts PlayOptions) error {
	if err := e.fadeCue(ctx, cue, opts); err != nil {
		return err
	}

	if cue.CueListID == "" {
		return nil
	}
	list, err := e.shows.CueList(ctx, cue.CueListID)
	if err != nil {
		e.logger.Warn("cue played outside a resolvable list",
			"cue_id", cue.ID, "cue_list_id", cue.CueListID, "error", err)
		return nil
	}
	for i := range list.Cues {
		if list.Cues[i].ID == cue.ID {
			e.recordPosition(list, i)
			return nil
		}
	}
	e.logger.Warn("cue not found in its list, playback position unchanged",
		"cue_id", cue.ID, "cue_list_id", cue.CueListID)
	return nil
}

// ActivateScene fades the stage to a scene directly, outside any cue
// list. No playback state is recorded. The default fade id is derived
// from the scene, so re-firing the same scene replaces its in-flight
// fade instead of stacking a second one.
func (e *Engine) ActivateScene(ctx context.Context, sceneID string, fadeIn time.Duration, opts fade.FadeOptions) (string, error) {
	targets, err := e.flattenScene(ctx, sceneID)
	if err != nil {
		return "", err
	}

	if opts.ID == "" {
		opts.ID = "scene-" + sceneID
	}
	if opts.Easing == "" {
		opts.Easing = fade.DefaultEasing
	}

	id := e.fader.FadeToScene(targets, fadeIn, opts)
	e.logger.Info("scene activated",
		"scene_id", sceneID, "channels", len(targets), "fade_id", id)
	return id, nil
}

// StopCueList clears a list's playback state. It does not change light
// output; compose with a blackout fade when the stage should go dark.
func (e *Engine) StopCueList(listID string) {
	e.mu.Lock()
	state, ok := e.states[listID]
	if ok {
		if state.follow != nil {
			state.follow.Stop()
		}
		delete(e.states, listID)
	}
	e.mu.Unlock()

	if !ok {
		return
	}
	if e.notifier != nil {
		e.notifier.PlaybackStopped(listID)
	}
	e.logger.Info("cue list stopped", "cue_list_id", listID)
}

// StopAll clears every list's playback state.
func (e *Engine) StopAll() {
	e.mu.Lock()
	ids := make([]string, 0, len(e.states))
	for id := range e.states {
		ids = append(ids, id)
	}
	e.mu.Unlock()

	for _, id := range ids {
		e.StopCueList(id)
	}
}

// Status returns a list's playback snapshot and whether one exists.
func (e *Engine) Status(listID string) (Status, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.states[listID]
	if !ok {
		return Status{CueListID: listID}, false
	}
	return Status{
		CueListID:       listID,
		CurrentCueIndex: state.index,
		CurrentCueID:    state.cueID,
		IsPlaying:       state.playing,
	}, true
}

// AllStatuses returns a snapshot for every list with playback state.
func (e *Engine) AllStatuses() []Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	statuses := make([]Status, 0, len(e.states))
	for id, state := range e.states {
		statuses = append(statuses, Status{
			CueListID:       id,
			CurrentCueIndex: state.index,
			CurrentCueID:    state.cueID,
			IsPlaying:       state.playing,
		})
	}
	return statuses
}

// executeCue runs one cue of a resolved list through the fade engine.
func (e *Engine) executeCue(ctx context.Context, list *show.CueList, index int, opts PlayOptions) error {
	return e.fadeCue(ctx, &list.Cues[index], opts)
}

// fadeCue is the single resolution path every playback operation uses:
// scene → flattened channel targets → fade submission.
func (e *Engine) fadeCue(ctx context.Context, cue *show.Cue, opts PlayOptions) error {
	targets, err := e.flattenScene(ctx, cue.SceneID)
	if err != nil {
		return err
	}

	fadeIn := cue.FadeInSec
	if opts.FadeInSec != nil {
		fadeIn = *opts.FadeInSec
	}
	easing := fade.DefaultEasing
	if cue.Easing != nil && *cue.Easing != "" {
		easing = fade.Easing(*cue.Easing)
	}

	// One fade id per list: advancing cues crossfades from wherever the
	// previous cue's fade currently is.
	fadeID := "cue-" + cue.ID
	if cue.CueListID != "" {
		fadeID = "cuelist-" + cue.CueListID
	}

	e.fader.FadeToScene(targets, secondsToDuration(fadeIn), fade.FadeOptions{
		ID:     fadeID,
		Easing: easing,
	})
	e.logger.Debug("cue executed",
		"cue_id", cue.ID,
		"scene_id", cue.SceneID,
		"channels", len(targets),
		"fade_in_sec", fadeIn,
	)
	return nil
}

// flattenScene turns a scene's per-fixture value arrays into absolute
// channel targets. Value N lands on the fixture's start channel plus N.
// Fixtures that no longer resolve are skipped with a warning; a half
// dark scene beats a dead cue button mid-show.
func (e *Engine) flattenScene(ctx context.Context, sceneID string) ([]fade.ChannelTarget, error) {
	scene, err := e.shows.Scene(ctx, sceneID)
	if err != nil {
		return nil, err
	}

	var targets []fade.ChannelTarget
	for _, fv := range scene.FixtureValues {
		fixture, err := e.shows.Fixture(ctx, fv.FixtureID)
		if err != nil {
			e.logger.Warn("scene references unknown fixture",
				"scene_id", sceneID, "fixture_id", fv.FixtureID, "error", err)
			continue
		}
		for offset, value := range fv.Values {
			targets = append(targets, fade.ChannelTarget{
				Universe: fixture.Universe,
				Channel:  fixture.StartChannel + offset,
				Value:    value,
			})
		}
	}
	return targets, nil
}

// recordPosition updates a list's playback state and arms the cue's
// follow timer, replacing any pending one.
func (e *Engine) recordPosition(list *show.CueList, index int) {
	cue := &list.Cues[index]

	e.mu.Lock()
	state, ok := e.states[list.ID]
	if !ok {
		state = &listState{}
		e.states[list.ID] = state
	}
	if state.follow != nil {
		state.follow.Stop()
		state.follow = nil
	}
	state.index = index
	state.playing = true
	state.cueID = cue.ID

	if cue.FollowSec != nil && *cue.FollowSec >= 0 {
		listID := list.ID
		state.follow = time.AfterFunc(secondsToDuration(*cue.FollowSec), func() {
			e.autoFollow(listID)
		})
	}
	e.mu.Unlock()

	if e.notifier != nil {
		e.notifier.PlaybackChanged(list.ID, index, true)
	}
}

// autoFollow advances a list when a cue's follow time elapses. Reaching
// the end of a non-looping list just lets the last cue sit.
func (e *Engine) autoFollow(listID string) {
	err := e.NextCue(context.Background(), listID)
	switch err {
	case nil, ErrAtLastCue, ErrNotPlaying:
	default:
		e.logger.Error("auto-follow failed", "cue_list_id", listID, "error", err)
	}
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
