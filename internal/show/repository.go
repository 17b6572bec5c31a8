package show

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for show data persistence. The
// abstraction keeps the playback and API layers testable without a
// database.
type Repository interface {
	// GetFixture retrieves a fixture by id.
	// Returns ErrFixtureNotFound if it does not exist.
	GetFixture(ctx context.Context, id string) (*Fixture, error)

	// ListFixtures retrieves all fixtures ordered by universe and
	// start channel.
	ListFixtures(ctx context.Context) ([]Fixture, error)

	// CreateFixture inserts a fixture, generating an id when empty.
	CreateFixture(ctx context.Context, fixture *Fixture) error

	// UpdateFixture modifies an existing fixture.
	UpdateFixture(ctx context.Context, fixture *Fixture) error

	// DeleteFixture removes a fixture by id.
	DeleteFixture(ctx context.Context, id string) error

	// GetScene retrieves a scene by id.
	// Returns ErrSceneNotFound if it does not exist.
	GetScene(ctx context.Context, id string) (*Scene, error)

	// ListScenes retrieves all scenes ordered by name.
	ListScenes(ctx context.Context) ([]Scene, error)

	// CreateScene inserts a scene, generating an id when empty.
	CreateScene(ctx context.Context, scene *Scene) error

	// UpdateScene modifies an existing scene.
	UpdateScene(ctx context.Context, scene *Scene) error

	// DeleteScene removes a scene.
	// Returns ErrSceneInUse if any cue still references it.
	DeleteScene(ctx context.Context, id string) error

	// GetCueList retrieves a cue list with its cues in playback order.
	// Returns ErrCueListNotFound if it does not exist.
	GetCueList(ctx context.Context, id string) (*CueList, error)

	// ListCueLists retrieves all cue lists (without cues) ordered by name.
	ListCueLists(ctx context.Context) ([]CueList, error)

	// CreateCueList inserts a cue list, generating an id when empty.
	CreateCueList(ctx context.Context, list *CueList) error

	// UpdateCueList modifies a cue list's name and loop flag.
	UpdateCueList(ctx context.Context, list *CueList) error

	// DeleteCueList removes a cue list and, via cascade, its cues.
	DeleteCueList(ctx context.Context, id string) error

	// CreateCue appends a cue to its list, generating an id when empty.
	// Sort order defaults to the end of the list.
	CreateCue(ctx context.Context, cue *Cue) error

	// UpdateCue modifies an existing cue.
	UpdateCue(ctx context.Context, cue *Cue) error

	// UpdateCues modifies several cues of one list in a single
	// transaction. Every cue must already belong to the list; on any
	// failure no cue is changed.
	UpdateCues(ctx context.Context, listID string, cues []*Cue) error

	// DeleteCue removes a cue by id.
	DeleteCue(ctx context.Context, id string) error

	// ReorderCues rewrites the sort order of a list's cues to match the
	// given id sequence. Every id must belong to the list.
	ReorderCues(ctx context.Context, listID string, orderedIDs []string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection with the show
// schema migrated.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ─── Fixtures ───────────────────────────────────────────────────────────────

func (r *SQLiteRepository) GetFixture(ctx context.Context, id string) (*Fixture, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, universe, start_channel, channel_count, created_at, updated_at
		FROM fixtures WHERE id = ?`, id)

	fixture, err := scanFixture(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureNotFound
		}
		return nil, fmt.Errorf("querying fixture by id: %w", err)
	}
	return fixture, nil
}

func (r *SQLiteRepository) ListFixtures(ctx context.Context) ([]Fixture, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, universe, start_channel, channel_count, created_at, updated_at
		FROM fixtures ORDER BY universe, start_channel`)
	if err != nil {
		return nil, fmt.Errorf("querying fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []Fixture
	for rows.Next() {
		f, err := scanFixture(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fixture: %w", err)
		}
		fixtures = append(fixtures, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fixtures: %w", err)
	}
	return fixtures, nil
}

func (r *SQLiteRepository) CreateFixture(ctx context.Context, fixture *Fixture) error {
	if fixture.ID == "" {
		fixture.ID = "fix-" + uuid.NewString()[:16]
	}
	if err := fixture.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if fixture.CreatedAt.IsZero() {
		fixture.CreatedAt = now
	}
	fixture.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fixtures (id, name, universe, start_channel, channel_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fixture.ID,
		fixture.Name,
		fixture.Universe,
		fixture.StartChannel,
		fixture.ChannelCount,
		fixture.CreatedAt.Format(time.RFC3339),
		fixture.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("inserting fixture: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateFixture(ctx context.Context, fixture *Fixture) error {
	if err := fixture.Validate(); err != nil {
		return err
	}
	fixture.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE fixtures
		SET name = ?, universe = ?, start_channel = ?, channel_count = ?, updated_at = ?
		WHERE id = ?`,
		fixture.Name,
		fixture.Universe,
		fixture.StartChannel,
		fixture.ChannelCount,
		fixture.UpdatedAt.Format(time.RFC3339),
		fixture.ID,
	)
	if err != nil {
		return fmt.Errorf("updating fixture: %w", err)
	}
	return requireRow(result, ErrFixtureNotFound)
}

func (r *SQLiteRepository) DeleteFixture(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM fixtures WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting fixture: %w", err)
	}
	return requireRow(result, ErrFixtureNotFound)
}

// ─── Scenes ─────────────────────────────────────────────────────────────────

func (r *SQLiteRepository) GetScene(ctx context.Context, id string) (*Scene, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, fixture_values, created_at, updated_at
		FROM scenes WHERE id = ?`, id)

	scene, err := scanScene(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSceneNotFound
		}
		return nil, fmt.Errorf("querying scene by id: %w", err)
	}
	return scene, nil
}

func (r *SQLiteRepository) ListScenes(ctx context.Context) ([]Scene, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, fixture_values, created_at, updated_at
		FROM scenes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying scenes: %w", err)
	}
	defer rows.Close()

	var scenes []Scene
	for rows.Next() {
		s, err := scanScene(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scene: %w", err)
		}
		scenes = append(scenes, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scenes: %w", err)
	}
	return scenes, nil
}

func (r *SQLiteRepository) CreateScene(ctx context.Context, scene *Scene) error {
	if scene.ID == "" {
		scene.ID = "scn-" + uuid.NewString()[:16]
	}
	if err := scene.Validate(); err != nil {
		return err
	}

	valuesJSON, err := json.Marshal(scene.FixtureValues)
	if err != nil {
		return fmt.Errorf("marshalling fixture values: %w", err)
	}

	now := time.Now().UTC()
	if scene.CreatedAt.IsZero() {
		scene.CreatedAt = now
	}
	scene.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO scenes (id, name, description, fixture_values, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		scene.ID,
		scene.Name,
		nullableString(scene.Description),
		string(valuesJSON),
		scene.CreatedAt.Format(time.RFC3339),
		scene.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("inserting scene: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateScene(ctx context.Context, scene *Scene) error {
	if err := scene.Validate(); err != nil {
		return err
	}

	valuesJSON, err := json.Marshal(scene.FixtureValues)
	if err != nil {
		return fmt.Errorf("marshalling fixture values: %w", err)
	}
	scene.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE scenes
		SET name = ?, description = ?, fixture_values = ?, updated_at = ?
		WHERE id = ?`,
		scene.Name,
		nullableString(scene.Description),
		string(valuesJSON),
		scene.UpdatedAt.Format(time.RFC3339),
		scene.ID,
	)
	if err != nil {
		return fmt.Errorf("updating scene: %w", err)
	}
	return requireRow(result, ErrSceneNotFound)
}

func (r *SQLiteRepository) DeleteScene(ctx context.Context, id string) error {
	var refs int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cues WHERE scene_id = ?", id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("checking scene references: %w", err)
	}
	if refs > 0 {
		return ErrSceneInUse
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM scenes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting scene: %w", err)
	}
	return requireRow(result, ErrSceneNotFound)
}

// ─── Cue Lists ──────────────────────────────────────────────────────────────

func (r *SQLiteRepository) GetCueList(ctx context.Context, id string) (*CueList, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, loop, created_at, updated_at
		FROM cue_lists WHERE id = ?`, id)

	list, err := scanCueList(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCueListNotFound
		}
		return nil, fmt.Errorf("querying cue list by id: %w", err)
	}

	cues, err := r.listCues(ctx, id)
	if err != nil {
		return nil, err
	}
	list.Cues = cues
	return list, nil
}

func (r *SQLiteRepository) ListCueLists(ctx context.Context) ([]CueList, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, loop, created_at, updated_at
		FROM cue_lists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying cue lists: %w", err)
	}
	defer rows.Close()

	var lists []CueList
	for rows.Next() {
		l, err := scanCueList(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cue list: %w", err)
		}
		lists = append(lists, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cue lists: %w", err)
	}
	return lists, nil
}

func (r *SQLiteRepository) CreateCueList(ctx context.Context, list *CueList) error {
	if list.ID == "" {
		list.ID = "cl-" + uuid.NewString()[:16]
	}
	if err := list.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if list.CreatedAt.IsZero() {
		list.CreatedAt = now
	}
	list.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cue_lists (id, name, loop, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		list.ID,
		list.Name,
		boolToInt(list.Loop),
		list.CreatedAt.Format(time.RFC3339),
		list.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("inserting cue list: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateCueList(ctx context.Context, list *CueList) error {
	if err := list.Validate(); err != nil {
		return err
	}
	list.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE cue_lists SET name = ?, loop = ?, updated_at = ? WHERE id = ?`,
		list.Name,
		boolToInt(list.Loop),
		list.UpdatedAt.Format(time.RFC3339),
		list.ID,
	)
	if err != nil {
		return fmt.Errorf("updating cue list: %w", err)
	}
	return requireRow(result, ErrCueListNotFound)
}

func (r *SQLiteRepository) DeleteCueList(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM cue_lists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting cue list: %w", err)
	}
	return requireRow(result, ErrCueListNotFound)
}

// ─── Cues ───────────────────────────────────────────────────────────────────

func (r *SQLiteRepository) CreateCue(ctx context.Context, cue *Cue) error {
	if cue.ID == "" {
		cue.ID = "cue-" + uuid.NewString()[:16]
	}
	if err := cue.Validate(); err != nil {
		return err
	}
	if cue.CueListID == "" {
		return fmt.Errorf("%w: cue %q has no cue list", ErrValidation, cue.Name)
	}

	// New cues land at the end of the list unless an order is given.
	if cue.SortOrder == 0 {
		var maxOrder sql.NullInt64
		err := r.db.QueryRowContext(ctx,
			"SELECT MAX(sort_order) FROM cues WHERE cue_list_id = ?", cue.CueListID).Scan(&maxOrder)
		if err != nil {
			return fmt.Errorf("finding cue order: %w", err)
		}
		if maxOrder.Valid {
			cue.SortOrder = int(maxOrder.Int64) + 1
		}
	}

	now := time.Now().UTC()
	if cue.CreatedAt.IsZero() {
		cue.CreatedAt = now
	}
	cue.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cues (id, cue_list_id, name, scene_id, fade_in_sec, fade_out_sec,
			follow_sec, easing, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cue.ID,
		cue.CueListID,
		cue.Name,
		cue.SceneID,
		cue.FadeInSec,
		cue.FadeOutSec,
		nullableFloat(cue.FollowSec),
		nullableString(cue.Easing),
		cue.SortOrder,
		cue.CreatedAt.Format(time.RFC3339),
		cue.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("inserting cue: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateCue(ctx context.Context, cue *Cue) error {
	if err := cue.Validate(); err != nil {
		return err
	}
	cue.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE cues
		SET name = ?, scene_id = ?, fade_in_sec = ?, fade_out_sec = ?,
			follow_sec = ?, easing = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		cue.Name,
		cue.SceneID,
		cue.FadeInSec,
		cue.FadeOutSec,
		nullableFloat(cue.FollowSec),
		nullableString(cue.Easing),
		cue.SortOrder,
		cue.UpdatedAt.Format(time.RFC3339),
		cue.ID,
	)
	if err != nil {
		return fmt.Errorf("updating cue: %w", err)
	}
	return requireRow(result, ErrCueNotFound)
}

func (r *SQLiteRepository) UpdateCues(ctx context.Context, listID string, cues []*Cue) error {
	for _, cue := range cues {
		if err := cue.Validate(); err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting bulk cue update: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, cue := range cues {
		cue.UpdatedAt = now
		result, err := tx.ExecContext(ctx, `
			UPDATE cues
			SET name = ?, scene_id = ?, fade_in_sec = ?, fade_out_sec = ?,
				follow_sec = ?, easing = ?, sort_order = ?, updated_at = ?
			WHERE id = ? AND cue_list_id = ?`,
			cue.Name,
			cue.SceneID,
			cue.FadeInSec,
			cue.FadeOutSec,
			nullableFloat(cue.FollowSec),
			nullableString(cue.Easing),
			cue.SortOrder,
			cue.UpdatedAt.Format(time.RFC3339),
			cue.ID,
			listID,
		)
		if err != nil {
			return fmt.Errorf("updating cue %s: %w", cue.ID, err)
		}
		if err := requireRow(result, ErrCueNotFound); err != nil {
			return fmt.Errorf("cue %s not in list %s: %w", cue.ID, listID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing bulk cue update: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCue(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM cues WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting cue: %w", err)
	}
	return requireRow(result, ErrCueNotFound)
}

func (r *SQLiteRepository) ReorderCues(ctx context.Context, listID string, orderedIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting reorder transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, cueID := range orderedIDs {
		result, err := tx.ExecContext(ctx, `
			UPDATE cues SET sort_order = ?, updated_at = ?
			WHERE id = ? AND cue_list_id = ?`,
			i, now, cueID, listID,
		)
		if err != nil {
			return fmt.Errorf("reordering cue %s: %w", cueID, err)
		}
		if err := requireRow(result, ErrCueNotFound); err != nil {
			return fmt.Errorf("cue %s not in list %s: %w", cueID, listID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reorder: %w", err)
	}
	return nil
}

// listCues returns a list's cues in playback order.
func (r *SQLiteRepository) listCues(ctx context.Context, listID string) ([]Cue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cue_list_id, name, scene_id, fade_in_sec, fade_out_sec,
			follow_sec, easing, sort_order, created_at, updated_at
		FROM cues WHERE cue_list_id = ? ORDER BY sort_order`, listID)
	if err != nil {
		return nil, fmt.Errorf("querying cues: %w", err)
	}
	defer rows.Close()

	var cues []Cue
	for rows.Next() {
		c, err := scanCue(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cue: %w", err)
		}
		cues = append(cues, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cues: %w", err)
	}
	return cues, nil
}

// ─── Scanners ───────────────────────────────────────────────────────────────

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFixture(scanner rowScanner) (*Fixture, error) {
	var f Fixture
	var createdAt, updatedAt string

	err := scanner.Scan(&f.ID, &f.Name, &f.Universe, &f.StartChannel,
		&f.ChannelCount, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if f.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if f.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &f, nil
}

func scanScene(scanner rowScanner) (*Scene, error) {
	var s Scene
	var description sql.NullString
	var valuesJSON string
	var createdAt, updatedAt string

	err := scanner.Scan(&s.ID, &s.Name, &description, &valuesJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		s.Description = &description.String
	}
	if err := json.Unmarshal([]byte(valuesJSON), &s.FixtureValues); err != nil {
		return nil, fmt.Errorf("unmarshalling fixture values: %w", err)
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}

func scanCueList(scanner rowScanner) (*CueList, error) {
	var cl CueList
	var loop int
	var createdAt, updatedAt string

	err := scanner.Scan(&cl.ID, &cl.Name, &loop, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	cl.Loop = loop != 0
	if cl.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if cl.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &cl, nil
}

func scanCue(scanner rowScanner) (*Cue, error) {
	var c Cue
	var followSec sql.NullFloat64
	var easing sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(&c.ID, &c.CueListID, &c.Name, &c.SceneID,
		&c.FadeInSec, &c.FadeOutSec, &followSec, &easing, &c.SortOrder,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if followSec.Valid {
		c.FollowSec = &followSec.Float64
	}
	if easing.Valid {
		c.Easing = &easing.String
	}
	if c.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// requireRow converts a zero-rows-affected result into notFound.
func requireRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

// nullableString returns a sql.NullString for optional string pointers.
func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullableFloat returns a sql.NullFloat64 for optional float pointers.
func nullableFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// boolToInt converts a boolean to 0/1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint
// violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
