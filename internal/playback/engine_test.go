package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/stagelight-core/internal/fade"
	"github.com/nerrad567/stagelight-core/internal/show"
)

// ─── Test Doubles ───────────────────────────────────────────────────────────

type mockShow struct {
	cueLists map[string]*show.CueList
	scenes   map[string]*show.Scene
	fixtures map[string]*show.Fixture
}

func (m *mockShow) CueList(_ context.Context, id string) (*show.CueList, error) {
	list, ok := m.cueLists[id]
	if !ok {
		return nil, show.ErrCueListNotFound
	}
	return list.DeepCopy(), nil
}

func (m *mockShow) Scene(_ context.Context, id string) (*show.Scene, error) {
	scene, ok := m.scenes[id]
	if !ok {
		return nil, show.ErrSceneNotFound
	}
	return scene.DeepCopy(), nil
}

func (m *mockShow) Fixture(_ context.Context, id string) (*show.Fixture, error) {
	fixture, ok := m.fixtures[id]
	if !ok {
		return nil, show.ErrFixtureNotFound
	}
	return fixture.DeepCopy(), nil
}

type fadeCall struct {
	targets []fade.ChannelTarget
	fadeIn  time.Duration
	opts    fade.FadeOptions
}

type mockFader struct {
	mu    sync.Mutex
	calls []fadeCall
}

func (f *mockFader) FadeToScene(targets []fade.ChannelTarget, fadeIn time.Duration, opts fade.FadeOptions) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fadeCall{targets: targets, fadeIn: fadeIn, opts: opts})
	return opts.ID
}

func (f *mockFader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *mockFader) lastCall(t *testing.T) fadeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("no fades submitted")
	}
	return f.calls[len(f.calls)-1]
}

// testShow builds a two-cue list over two fixtures.
func testShow(loop bool) *mockShow {
	easing := "linear"
	return &mockShow{
		fixtures: map[string]*show.Fixture{
			"fix-wash": {ID: "fix-wash", Name: "Wash", Universe: 1, StartChannel: 10, ChannelCount: 3},
			"fix-spot": {ID: "fix-spot", Name: "Spot", Universe: 2, StartChannel: 1, ChannelCount: 1},
		},
		scenes: map[string]*show.Scene{
			"scn-warm": {ID: "scn-warm", Name: "Warm", FixtureValues: []show.FixtureValue{
				{FixtureID: "fix-wash", Values: []int{255, 200, 64}},
				{FixtureID: "fix-spot", Values: []int{128}},
			}},
			"scn-cool": {ID: "scn-cool", Name: "Cool", FixtureValues: []show.FixtureValue{
				{FixtureID: "fix-wash", Values: []int{0, 80, 255}},
			}},
		},
		cueLists: map[string]*show.CueList{
			"cl-act1": {ID: "cl-act1", Name: "Act One", Loop: loop, Cues: []show.Cue{
				{ID: "cue-1", CueListID: "cl-act1", Name: "Warm Open", SceneID: "scn-warm",
					FadeInSec: 3, Easing: &easing},
				{ID: "cue-2", CueListID: "cl-act1", Name: "Cool Shift", SceneID: "scn-cool",
					FadeInSec: 1.5},
			}},
		},
	}
}

func newTestEngine(loop bool) (*Engine, *mockShow, *mockFader) {
	shows := testShow(loop)
	fader := &mockFader{}
	return NewEngine(shows, fader), shows, fader
}

// ─── Start / Navigation ─────────────────────────────────────────────────────

func TestStartCueList(t *testing.T) {
	eng, _, fader := newTestEngine(false)
	ctx := context.Background()

	if err := eng.StartCueList(ctx, "cl-act1", 0); err != nil {
		t.Fatalf("StartCueList() error = %v", err)
	}

	status, ok := eng.Status("cl-act1")
	if !ok || !status.IsPlaying || status.CurrentCueIndex != 0 || status.CurrentCueID != "cue-1" {
		t.Errorf("status = %+v, want playing at cue-1/index 0", status)
	}

	call := fader.lastCall(t)
	if call.opts.ID != "cuelist-cl-act1" {
		t.Errorf("fade id = %q, want cuelist-cl-act1", call.opts.ID)
	}
	if call.fadeIn != 3*time.Second {
		t.Errorf("fade in = %v, want 3s", call.fadeIn)
	}
	if call.opts.Easing != fade.EasingLinear {
		t.Errorf("easing = %q, want linear from cue", call.opts.Easing)
	}

	// Scene flattening: wash at 1/10 spans 10-12, spot at 2/1.
	want := []fade.ChannelTarget{
		{Universe: 1, Channel: 10, Value: 255},
		{Universe: 1, Channel: 11, Value: 200},
		{Universe: 1, Channel: 12, Value: 64},
		{Universe: 2, Channel: 1, Value: 128},
	}
	if len(call.targets) != len(want) {
		t.Fatalf("got %d targets, want %d", len(call.targets), len(want))
	}
	for i, wt := range want {
		if call.targets[i] != wt {
			t.Errorf("target[%d] = %+v, want %+v", i, call.targets[i], wt)
		}
	}
}

func TestStartCueList_Errors(t *testing.T) {
	eng, shows, _ := newTestEngine(false)
	ctx := context.Background()

	shows.cueLists["cl-empty"] = &show.CueList{ID: "cl-empty", Name: "Empty"}

	if err := eng.StartCueList(ctx, "cl-empty", 0); !errors.Is(err, ErrListEmpty) {
		t.Errorf("empty list error = %v, want ErrListEmpty", err)
	}
	if err := eng.StartCueList(ctx, "cl-act1", 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("bad index error = %v, want ErrIndexOutOfRange", err)
	}
	if err := eng.StartCueList(ctx, "cl-act1", -1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("negative index error = %v, want ErrIndexOutOfRange", err)
	}
	if err := eng.StartCueList(ctx, "cl-missing", 0); !errors.Is(err, show.ErrCueListNotFound) {
		t.Errorf("missing list error = %v, want ErrCueListNotFound", err)
	}
}

func TestNextCue(t *testing.T) {
	eng, _, fader := newTestEngine(false)
	ctx := context.Background()

	if err := eng.NextCue(ctx, "cl-act1"); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("next without state error = %v, want ErrNotPlaying", err)
	}

	if err := eng.StartCueList(ctx, "cl-act1", 0); err != nil {
		t.Fatalf("StartCueList() error = %v", err)
	}
	if err := eng.NextCue(ctx, "cl-act1"); err != nil {
		t.Fatalf("NextCue() error = %v", err)
	}

	status, _ := eng.Status("cl-act1")
	if status.CurrentCueIndex != 1 || status.CurrentCueID != "cue-2" {
		t.Errorf("status = %+v, want index 1 / cue-2", status)
	}
	if call := fader.lastCall(t); call.fadeIn != 1500*time.Millisecond {
		t.Errorf("fade in = %v, want cue-2's 1.5s", call.fadeIn)
	}
}

func TestNextCue_LastCue(t *testing.T) {
	t.Run("non-looping list refuses", func(t *testing.T) {
		eng, _, fader := newTestEngine(false)
		ctx := context.Background()

		if err := eng.StartCueList(ctx, "cl-act1", 1); err != nil {
			t.Fatalf("StartCueList() error = %v", err)
		}
		fades := fader.callCount()

		if err := eng.NextCue(ctx, "cl-act1"); !errors.Is(err, ErrAtLastCue) {
			t.Errorf("NextCue() error = %v, want ErrAtLastCue", err)
		}
		if fader.callCount() != fades {
			t.Error("refused advance still submitted a fade")
		}
		if status, _ := eng.Status("cl-act1"); status.CurrentCueIndex != 1 {
			t.Errorf("index moved to %d on refused advance", status.CurrentCueIndex)
		}
	})

	t.Run("looping list wraps to cue 0", func(t *testing.T) {
		eng, _, fader := newTestEngine(true)
		ctx := context.Background()

		if err := eng.StartCueList(ctx, "cl-act1", 1); err != nil {
			t.Fatalf("StartCueList() error = %v", err)
		}
		if err := eng.NextCue(ctx, "cl-act1"); err != nil {
			t.Fatalf("NextCue() error = %v", err)
		}

		status, _ := eng.Status("cl-act1")
		if status.CurrentCueIndex != 0 || status.CurrentCueID != "cue-1" {
			t.Errorf("status = %+v, want wrapped to index 0", status)
		}
		// Wrapping applied cue 0's scene.
		call := fader.lastCall(t)
		if len(call.targets) == 0 || call.targets[0].Value != 255 {
			t.Errorf("wrap did not apply cue 0's scene: %+v", call.targets)
		}
	})
}

func TestPreviousCue(t *testing.T) {
	eng, _, _ := newTestEngine(false)
	ctx := context.Background()

	if err := eng.PreviousCue(ctx, "cl-act1"); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("previous without state error = %v, want ErrNotPlaying", err)
	}

	if err := eng.StartCueList(ctx, "cl-act1", 1); err != nil {
		t.Fatalf("StartCueList() error = %v", err)
	}
	if err := eng.PreviousCue(ctx, "cl-act1"); err != nil {
		t.Fatalf("PreviousCue() error = %v", err)
	}
	if status, _ := eng.Status("cl-act1"); status.CurrentCueIndex != 0 {
		t.Errorf("index = %d, want 0", status.CurrentCueIndex)
	}

	if err := eng.PreviousCue(ctx, "cl-act1"); !errors.Is(err, ErrAtFirstCue) {
		t.Errorf("previous at first cue error = %v, want ErrAtFirstCue", err)
	}
}

func TestGoToCue(t *testing.T) {
	eng, _, _ := newTestEngine(false)
	ctx := context.Background()

	// Works without any prior playback state.
	if err := eng.GoToCue(ctx, "cl-act1", 1); err != nil {
		t.Fatalf("GoToCue() error = %v", err)
	}
	if status, ok := eng.Status("cl-act1"); !ok || status.CurrentCueIndex != 1 {
		t.Errorf("status = %+v, want index 1", status)
	}

	if err := eng.GoToCue(ctx, "cl-act1", 9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("GoToCue(9) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestStopCueList(t *testing.T) {
	eng, _, fader := newTestEngine(false)
	ctx := context.Background()

	if err := eng.StartCueList(ctx, "cl-act1", 0); err != nil {
		t.Fatalf("StartCueList() error = %v", err)
	}
	fades := fader.callCount()

	eng.StopCueList("cl-act1")

	if _, ok := eng.Status("cl-act1"); ok {
		t.Error("playback state survived stop")
	}
	if fader.callCount() != fades {
		t.Error("stop submitted a fade; blackout is the caller's choice")
	}

	// Stopping again is a no-op.
	eng.StopCueList("cl-act1")
}

// ─── Direct Cue Execution ───────────────────────────────────────────────────

func TestPlayCue_UpdatesListPosition(t *testing.T) {
	eng, shows, _ := newTestEngine(false)
	ctx := context.Background()

	cue := shows.cueLists["cl-act1"].Cues[1]
	if err := eng.PlayCue(ctx, &cue, PlayOptions{}); err != nil {
		t.Fatalf("PlayCue() error = %v", err)
	}

	status, ok := eng.Status("cl-act1")
	if !ok || status.CurrentCueIndex != 1 || !status.IsPlaying {
		t.Errorf("status = %+v, want playing at index 1", status)
	}
}

func TestPlayCue_DetachedCueLeavesStateAlone(t *testing.T) {
	eng, _, fader := newTestEngine(false)
	ctx := context.Background()

	// A cue claiming membership of the list but absent from it: the
	// fade runs, the bookkeeping does not move.
	ghost := &show.Cue{ID: "cue-ghost", CueListID: "cl-act1", Name: "Ghost", SceneID: "scn-warm"}
	if err := eng.PlayCue(ctx, ghost, PlayOptions{}); err != nil {
		t.Fatalf("PlayCue() error = %v", err)
	}

	if fader.callCount() != 1 {
		t.Errorf("fades = %d, want 1 (output still mutated)", fader.callCount())
	}
	if _, ok := eng.Status("cl-act1"); ok {
		t.Error("detached cue created playback state")
	}
}

func TestActivateScene(t *testing.T) {
	eng, _, fader := newTestEngine(false)
	ctx := context.Background()

	id, err := eng.ActivateScene(ctx, "scn-warm", 2*time.Second, fade.FadeOptions{})
	if err != nil {
		t.Fatalf("ActivateScene() error = %v", err)
	}
	if id != "scene-scn-warm" {
		t.Errorf("fade id = %q, want scene-scn-warm", id)
	}

	call := fader.lastCall(t)
	if call.fadeIn != 2*time.Second {
		t.Errorf("fade in = %v, want 2s", call.fadeIn)
	}
	if call.opts.Easing != fade.DefaultEasing {
		t.Errorf("easing = %q, want default", call.opts.Easing)
	}
	if len(call.targets) != 4 {
		t.Errorf("targets = %d, want 4", len(call.targets))
	}

	// Direct scene activation is detached from cue list bookkeeping.
	if _, ok := eng.Status("cl-act1"); ok {
		t.Error("scene activation created playback state")
	}
}

func TestActivateScene_UnknownScene(t *testing.T) {
	eng, _, fader := newTestEngine(false)

	if _, err := eng.ActivateScene(context.Background(), "scn-missing", time.Second, fade.FadeOptions{}); !errors.Is(err, show.ErrSceneNotFound) {
		t.Errorf("error = %v, want ErrSceneNotFound", err)
	}
	if fader.callCount() != 0 {
		t.Errorf("fades = %d, want 0", fader.callCount())
	}
}

func TestPlayCue_FadeOverride(t *testing.T) {
	eng, shows, fader := newTestEngine(false)
	ctx := context.Background()

	override := 0.25
	cue := shows.cueLists["cl-act1"].Cues[0]
	if err := eng.PlayCue(ctx, &cue, PlayOptions{FadeInSec: &override}); err != nil {
		t.Fatalf("PlayCue() error = %v", err)
	}

	if call := fader.lastCall(t); call.fadeIn != 250*time.Millisecond {
		t.Errorf("fade in = %v, want override 250ms over cue's 3s", call.fadeIn)
	}
}

func TestFlattenScene_SkipsUnknownFixture(t *testing.T) {
	eng, shows, fader := newTestEngine(false)
	ctx := context.Background()

	shows.scenes["scn-warm"].FixtureValues = append(
		shows.scenes["scn-warm"].FixtureValues,
		show.FixtureValue{FixtureID: "fix-gone", Values: []int{1, 2}},
	)

	if err := eng.StartCueList(ctx, "cl-act1", 0); err != nil {
		t.Fatalf("StartCueList() error = %v", err)
	}

	// The known fixtures' four channels, nothing from fix-gone.
	if call := fader.lastCall(t); len(call.targets) != 4 {
		t.Errorf("targets = %d, want 4 (unknown fixture skipped)", len(call.targets))
	}
}

// ─── Follow & Events ────────────────────────────────────────────────────────

func TestFollowTime_AutoAdvances(t *testing.T) {
	eng, shows, _ := newTestEngine(false)
	ctx := context.Background()

	follow := 0.02
	shows.cueLists["cl-act1"].Cues[0].FollowSec = &follow

	if err := eng.StartCueList(ctx, "cl-act1", 0); err != nil {
		t.Fatalf("StartCueList() error = %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if status, _ := eng.Status("cl-act1"); status.CurrentCueIndex == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("follow time did not advance to the next cue")
}

func TestFollowTime_CancelledByStop(t *testing.T) {
	eng, shows, _ := newTestEngine(false)
	ctx := context.Background()

	follow := 0.02
	shows.cueLists["cl-act1"].Cues[0].FollowSec = &follow

	if err := eng.StartCueList(ctx, "cl-act1", 0); err != nil {
		t.Fatalf("StartCueList() error = %v", err)
	}
	eng.StopCueList("cl-act1")

	time.Sleep(60 * time.Millisecond)
	if _, ok := eng.Status("cl-act1"); ok {
		t.Error("stopped list came back to life via follow timer")
	}
}

type captureNotifier struct {
	mu      sync.Mutex
	changes []Status
	stops   []string
}

func (n *captureNotifier) PlaybackChanged(listID string, index int, playing bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, Status{CueListID: listID, CurrentCueIndex: index, IsPlaying: playing})
}

func (n *captureNotifier) PlaybackStopped(listID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stops = append(n.stops, listID)
}

func TestNotifier_ReceivesTransitions(t *testing.T) {
	eng, _, _ := newTestEngine(false)
	notifier := &captureNotifier{}
	eng.SetNotifier(notifier)
	ctx := context.Background()

	if err := eng.StartCueList(ctx, "cl-act1", 0); err != nil {
		t.Fatalf("StartCueList() error = %v", err)
	}
	if err := eng.NextCue(ctx, "cl-act1"); err != nil {
		t.Fatalf("NextCue() error = %v", err)
	}
	eng.StopCueList("cl-act1")

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.changes) != 2 {
		t.Errorf("change events = %d, want 2", len(notifier.changes))
	}
	if len(notifier.stops) != 1 || notifier.stops[0] != "cl-act1" {
		t.Errorf("stop events = %v, want [cl-act1]", notifier.stops)
	}
}
