package show

import (
	"context"
	"sync"
)

// Logger defines the logging interface used by the Registry.
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

// Registry wraps a Repository with an in-memory cache of resolved cue
// lists, scenes, and fixtures. Playback resolves cues through here so the
// sequencing path stays off the database once a list is loaded.
//
// Structural mutations to a cue list (cue create/update/delete, bulk
// update, reorder, list update/delete) drop that list's cached form;
// scene and fixture
// mutations drop the corresponding entries. All public methods are
// thread-safe.
type Registry struct {
	repo   Repository
	logger Logger

	mu       sync.RWMutex
	cueLists map[string]*CueList
	scenes   map[string]*Scene
	fixtures map[string]*Fixture
}

// NewRegistry creates a show registry over the given repository.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:     repo,
		logger:   noopLogger{},
		cueLists: make(map[string]*CueList),
		scenes:   make(map[string]*Scene),
		fixtures: make(map[string]*Fixture),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// ─── Reads ──────────────────────────────────────────────────────────────────

// CueList retrieves a cue list with its cues in playback order, from cache
// when possible. The returned list is a deep copy.
func (r *Registry) CueList(ctx context.Context, id string) (*CueList, error) {
	r.mu.RLock()
	cached, ok := r.cueLists[id]
	r.mu.RUnlock()
	if ok {
		return cached.DeepCopy(), nil
	}

	list, err := r.repo.GetCueList(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cueLists[id] = list.DeepCopy()
	r.mu.Unlock()
	return list, nil
}

// Scene retrieves a scene, from cache when possible. The returned scene is
// a deep copy.
func (r *Registry) Scene(ctx context.Context, id string) (*Scene, error) {
	r.mu.RLock()
	cached, ok := r.scenes[id]
	r.mu.RUnlock()
	if ok {
		return cached.DeepCopy(), nil
	}

	scene, err := r.repo.GetScene(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.scenes[id] = scene.DeepCopy()
	r.mu.Unlock()
	return scene, nil
}

// Fixture retrieves a fixture, from cache when possible. The returned
// fixture is a copy.
func (r *Registry) Fixture(ctx context.Context, id string) (*Fixture, error) {
	r.mu.RLock()
	cached, ok := r.fixtures[id]
	r.mu.RUnlock()
	if ok {
		return cached.DeepCopy(), nil
	}

	fixture, err := r.repo.GetFixture(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.fixtures[id] = fixture.DeepCopy()
	r.mu.Unlock()
	return fixture, nil
}

// ─── Write-Through Mutations ────────────────────────────────────────────────

// CreateCue appends a cue and invalidates its list's cached structure.
func (r *Registry) CreateCue(ctx context.Context, cue *Cue) error {
	if err := r.repo.CreateCue(ctx, cue); err != nil {
		return err
	}
	r.invalidateCueList(cue.CueListID)
	r.logger.Info("cue created", "cue_id", cue.ID, "cue_list_id", cue.CueListID)
	return nil
}

// UpdateCue modifies a cue and invalidates its list's cached structure.
func (r *Registry) UpdateCue(ctx context.Context, cue *Cue) error {
	if err := r.repo.UpdateCue(ctx, cue); err != nil {
		return err
	}
	r.invalidateCueList(cue.CueListID)
	r.logger.Info("cue updated", "cue_id", cue.ID, "cue_list_id", cue.CueListID)
	return nil
}

// UpdateCues modifies several cues of one list atomically and
// invalidates the list's cached structure once.
func (r *Registry) UpdateCues(ctx context.Context, listID string, cues []*Cue) error {
	if err := r.repo.UpdateCues(ctx, listID, cues); err != nil {
		return err
	}
	r.invalidateCueList(listID)
	r.logger.Info("cues updated", "cue_list_id", listID, "count", len(cues))
	return nil
}

// DeleteCue removes a cue and invalidates its list's cached structure. The
// list id is required because the cue row is gone once deleted.
func (r *Registry) DeleteCue(ctx context.Context, listID, cueID string) error {
	if err := r.repo.DeleteCue(ctx, cueID); err != nil {
		return err
	}
	r.invalidateCueList(listID)
	r.logger.Info("cue deleted", "cue_id", cueID, "cue_list_id", listID)
	return nil
}

// ReorderCues rewrites a list's cue order and invalidates its cache.
func (r *Registry) ReorderCues(ctx context.Context, listID string, orderedIDs []string) error {
	if err := r.repo.ReorderCues(ctx, listID, orderedIDs); err != nil {
		return err
	}
	r.invalidateCueList(listID)
	r.logger.Info("cues reordered", "cue_list_id", listID, "count", len(orderedIDs))
	return nil
}

// CreateCueList inserts a cue list.
func (r *Registry) CreateCueList(ctx context.Context, list *CueList) error {
	return r.repo.CreateCueList(ctx, list)
}

// UpdateCueList modifies a cue list and invalidates its cache; the loop
// flag changes wraparound behavior, so sequencing must see it fresh.
func (r *Registry) UpdateCueList(ctx context.Context, list *CueList) error {
	if err := r.repo.UpdateCueList(ctx, list); err != nil {
		return err
	}
	r.invalidateCueList(list.ID)
	return nil
}

// DeleteCueList removes a cue list and its cached structure.
func (r *Registry) DeleteCueList(ctx context.Context, id string) error {
	if err := r.repo.DeleteCueList(ctx, id); err != nil {
		return err
	}
	r.invalidateCueList(id)
	return nil
}

// CreateScene inserts a scene.
func (r *Registry) CreateScene(ctx context.Context, scene *Scene) error {
	return r.repo.CreateScene(ctx, scene)
}

// UpdateScene modifies a scene and drops it from the cache.
func (r *Registry) UpdateScene(ctx context.Context, scene *Scene) error {
	if err := r.repo.UpdateScene(ctx, scene); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.scenes, scene.ID)
	r.mu.Unlock()
	return nil
}

// DeleteScene removes a scene and drops it from the cache.
func (r *Registry) DeleteScene(ctx context.Context, id string) error {
	if err := r.repo.DeleteScene(ctx, id); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.scenes, id)
	r.mu.Unlock()
	return nil
}

// CreateFixture inserts a fixture.
func (r *Registry) CreateFixture(ctx context.Context, fixture *Fixture) error {
	return r.repo.CreateFixture(ctx, fixture)
}

// UpdateFixture modifies a fixture and drops it from the cache. Cached
// scenes survive; they reference fixtures by id and re-resolve addresses
// at playback time.
func (r *Registry) UpdateFixture(ctx context.Context, fixture *Fixture) error {
	if err := r.repo.UpdateFixture(ctx, fixture); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.fixtures, fixture.ID)
	r.mu.Unlock()
	return nil
}

// DeleteFixture removes a fixture and drops it from the cache.
func (r *Registry) DeleteFixture(ctx context.Context, id string) error {
	if err := r.repo.DeleteFixture(ctx, id); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.fixtures, id)
	r.mu.Unlock()
	return nil
}

// ─── Pass-Through Lists ─────────────────────────────────────────────────────

// ListFixtures retrieves all fixtures from the repository.
func (r *Registry) ListFixtures(ctx context.Context) ([]Fixture, error) {
	return r.repo.ListFixtures(ctx)
}

// ListScenes retrieves all scenes from the repository.
func (r *Registry) ListScenes(ctx context.Context) ([]Scene, error) {
	return r.repo.ListScenes(ctx)
}

// ListCueLists retrieves all cue lists from the repository.
func (r *Registry) ListCueLists(ctx context.Context) ([]CueList, error) {
	return r.repo.ListCueLists(ctx)
}

// ─── Invalidation ───────────────────────────────────────────────────────────

// InvalidateAll clears every cached entry.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	r.cueLists = make(map[string]*CueList)
	r.scenes = make(map[string]*Scene)
	r.fixtures = make(map[string]*Fixture)
	r.mu.Unlock()
	r.logger.Debug("show cache cleared")
}

func (r *Registry) invalidateCueList(id string) {
	r.mu.Lock()
	delete(r.cueLists, id)
	r.mu.Unlock()
	r.logger.Debug("cue list cache invalidated", "cue_list_id", id)
}
