package show

import (
	"context"
	"testing"
)

// mockRepository counts repository hits so tests can observe caching.
type mockRepository struct {
	Repository

	cueLists map[string]*CueList
	scenes   map[string]*Scene

	cueListGets int
	sceneGets   int
	reorders    int
	bulkUpdates int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		cueLists: make(map[string]*CueList),
		scenes:   make(map[string]*Scene),
	}
}

func (m *mockRepository) GetCueList(_ context.Context, id string) (*CueList, error) {
	m.cueListGets++
	list, ok := m.cueLists[id]
	if !ok {
		return nil, ErrCueListNotFound
	}
	return list.DeepCopy(), nil
}

func (m *mockRepository) GetScene(_ context.Context, id string) (*Scene, error) {
	m.sceneGets++
	scene, ok := m.scenes[id]
	if !ok {
		return nil, ErrSceneNotFound
	}
	return scene.DeepCopy(), nil
}

func (m *mockRepository) UpdateCue(_ context.Context, _ *Cue) error { return nil }

func (m *mockRepository) UpdateCues(_ context.Context, _ string, cues []*Cue) error {
	m.bulkUpdates += len(cues)
	return nil
}

func (m *mockRepository) ReorderCues(_ context.Context, _ string, _ []string) error {
	m.reorders++
	return nil
}

func TestRegistry_CueListCaching(t *testing.T) {
	repo := newMockRepository()
	repo.cueLists["cl-001"] = &CueList{
		ID:   "cl-001",
		Name: "Act One",
		Cues: []Cue{{ID: "cue-a", CueListID: "cl-001", Name: "Opening", SceneID: "scn-a"}},
	}
	reg := NewRegistry(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := reg.CueList(ctx, "cl-001"); err != nil {
			t.Fatalf("CueList() error = %v", err)
		}
	}
	if repo.cueListGets != 1 {
		t.Errorf("repository hits = %d, want 1 (cached after first read)", repo.cueListGets)
	}
}

func TestRegistry_StructuralMutationInvalidates(t *testing.T) {
	repo := newMockRepository()
	repo.cueLists["cl-001"] = &CueList{ID: "cl-001", Name: "Act One"}
	reg := NewRegistry(repo)
	ctx := context.Background()

	if _, err := reg.CueList(ctx, "cl-001"); err != nil {
		t.Fatalf("CueList() error = %v", err)
	}

	if err := reg.UpdateCue(ctx, &Cue{ID: "cue-a", CueListID: "cl-001", Name: "Opening", SceneID: "scn-a"}); err != nil {
		t.Fatalf("UpdateCue() error = %v", err)
	}

	if _, err := reg.CueList(ctx, "cl-001"); err != nil {
		t.Fatalf("CueList() after invalidation error = %v", err)
	}
	if repo.cueListGets != 2 {
		t.Errorf("repository hits = %d, want 2 (cache dropped by cue update)", repo.cueListGets)
	}
}

func TestRegistry_BulkUpdateInvalidates(t *testing.T) {
	repo := newMockRepository()
	repo.cueLists["cl-001"] = &CueList{ID: "cl-001", Name: "Act One"}
	reg := NewRegistry(repo)
	ctx := context.Background()

	if _, err := reg.CueList(ctx, "cl-001"); err != nil {
		t.Fatalf("CueList() error = %v", err)
	}

	cues := []*Cue{
		{ID: "cue-a", CueListID: "cl-001", Name: "Opening", SceneID: "scn-a", FadeInSec: 3},
		{ID: "cue-b", CueListID: "cl-001", Name: "Blackout", SceneID: "scn-b", FadeInSec: 3},
	}
	if err := reg.UpdateCues(ctx, "cl-001", cues); err != nil {
		t.Fatalf("UpdateCues() error = %v", err)
	}

	if _, err := reg.CueList(ctx, "cl-001"); err != nil {
		t.Fatalf("CueList() after invalidation error = %v", err)
	}
	if repo.bulkUpdates != 2 {
		t.Errorf("bulk updates = %d, want 2", repo.bulkUpdates)
	}
	if repo.cueListGets != 2 {
		t.Errorf("repository hits = %d, want 2 (cache dropped by bulk update)", repo.cueListGets)
	}
}

func TestRegistry_ReorderInvalidates(t *testing.T) {
	repo := newMockRepository()
	repo.cueLists["cl-001"] = &CueList{ID: "cl-001", Name: "Act One"}
	reg := NewRegistry(repo)
	ctx := context.Background()

	if _, err := reg.CueList(ctx, "cl-001"); err != nil {
		t.Fatalf("CueList() error = %v", err)
	}
	if err := reg.ReorderCues(ctx, "cl-001", []string{"cue-b", "cue-a"}); err != nil {
		t.Fatalf("ReorderCues() error = %v", err)
	}
	if _, err := reg.CueList(ctx, "cl-001"); err != nil {
		t.Fatalf("CueList() error = %v", err)
	}

	if repo.reorders != 1 {
		t.Errorf("reorders = %d, want 1", repo.reorders)
	}
	if repo.cueListGets != 2 {
		t.Errorf("repository hits = %d, want 2", repo.cueListGets)
	}
}

func TestRegistry_ReturnsDeepCopies(t *testing.T) {
	repo := newMockRepository()
	repo.cueLists["cl-001"] = &CueList{
		ID:   "cl-001",
		Name: "Act One",
		Cues: []Cue{{ID: "cue-a", Name: "Opening", SceneID: "scn-a"}},
	}
	reg := NewRegistry(repo)
	ctx := context.Background()

	first, err := reg.CueList(ctx, "cl-001")
	if err != nil {
		t.Fatalf("CueList() error = %v", err)
	}
	first.Cues[0].Name = "Mutated"

	second, err := reg.CueList(ctx, "cl-001")
	if err != nil {
		t.Fatalf("CueList() error = %v", err)
	}
	if second.Cues[0].Name != "Opening" {
		t.Errorf("cache mutated through returned copy: %q", second.Cues[0].Name)
	}
}

func TestRegistry_SceneCaching(t *testing.T) {
	repo := newMockRepository()
	repo.scenes["scn-a"] = &Scene{
		ID:   "scn-a",
		Name: "Warm Wash",
		FixtureValues: []FixtureValue{
			{FixtureID: "fix-1", Values: []int{255, 128}},
		},
	}
	reg := NewRegistry(repo)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		scene, err := reg.Scene(ctx, "scn-a")
		if err != nil {
			t.Fatalf("Scene() error = %v", err)
		}
		if len(scene.FixtureValues) != 1 {
			t.Fatalf("fixture values lost in cache round trip")
		}
	}
	if repo.sceneGets != 1 {
		t.Errorf("repository hits = %d, want 1", repo.sceneGets)
	}
}
