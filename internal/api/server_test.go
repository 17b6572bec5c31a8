package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nerrad567/stagelight-core/internal/dmx"
	"github.com/nerrad567/stagelight-core/internal/fade"
	"github.com/nerrad567/stagelight-core/internal/infrastructure/config"
	"github.com/nerrad567/stagelight-core/internal/infrastructure/logging"
	"github.com/nerrad567/stagelight-core/internal/playback"
	"github.com/nerrad567/stagelight-core/internal/show"
)

const testJWTSecret = "test-secret-key-at-least-32-characters-long"

// testServer builds a Server wired to real engines and an in-memory
// show database. The engines are not started; handler behaviour that
// only registers work (fades, playback state) is observable without
// the tick loops.
func testServer(t *testing.T) (*Server, *show.Registry, *dmx.Service) {
	t.Helper()

	db := setupTestDB(t)
	registry := show.NewRegistry(show.NewSQLiteRepository(db))

	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	dmxSvc := dmx.NewService(config.DMXConfig{
		UniverseCount:     2,
		ActiveRefreshRate: 44,
		IdleRefreshRate:   1,
		HoldoverMS:        2000,
	})
	fades := fade.NewEngine(dmxSvc)
	pb := playback.NewEngine(registry, fades)

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logger:   log,
		DMX:      dmxSvc,
		Fades:    fades,
		Playback: pb,
		Shows:    registry,
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// Initialise hub for tests
	srv.hub = NewHub(srv.wsCfg, log)
	go srv.hub.Run(context.Background())

	return srv, registry, dmxSvc
}

// setupTestDB creates an in-memory SQLite database with the show schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE fixtures (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			universe      INTEGER NOT NULL,
			start_channel INTEGER NOT NULL,
			channel_count INTEGER NOT NULL DEFAULT 1,
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		);
		CREATE TABLE scenes (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			description    TEXT,
			fixture_values TEXT NOT NULL DEFAULT '[]',
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		);
		CREATE TABLE cue_lists (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			loop       INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE cues (
			id           TEXT PRIMARY KEY,
			cue_list_id  TEXT NOT NULL REFERENCES cue_lists(id) ON DELETE CASCADE,
			name         TEXT NOT NULL,
			scene_id     TEXT NOT NULL REFERENCES scenes(id),
			fade_in_sec  REAL NOT NULL DEFAULT 0,
			fade_out_sec REAL NOT NULL DEFAULT 0,
			follow_sec   REAL,
			easing       TEXT,
			sort_order   INTEGER NOT NULL DEFAULT 0,
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// doRequest runs a request through the full middleware + router stack.
func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a JSON response body into a map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body: %v (body: %s)", err, rec.Body.String())
	}
	return body
}

func TestHealth(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
}

func TestStatus(t *testing.T) {
	srv, _, dmxSvc := testServer(t)
	srv.started = time.Now()
	dmxSvc.SetChannelOverride(1, 5, 255)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["universes"] != float64(2) {
		t.Errorf("universes = %v, want 2", body["universes"])
	}
	if body["overrides"] != float64(1) {
		t.Errorf("overrides = %v, want 1", body["overrides"])
	}
	if body["rate_hz"] != float64(44) {
		t.Errorf("rate_hz = %v, want 44", body["rate_hz"])
	}
}

func signedToken(t *testing.T, secret string, expiry time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "console",
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	srv, _, _ := testServer(t)
	srv.secCfg.JWT = config.JWTConfig{Enabled: true, Secret: testJWTSecret}
	router := srv.buildRouter()

	request := func(authHeader string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := request(""); code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", code)
	}
	if code := request("Bearer not-a-token"); code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", code)
	}

	expired := signedToken(t, testJWTSecret, time.Now().Add(-time.Hour))
	if code := request("Bearer " + expired); code != http.StatusUnauthorized {
		t.Errorf("expired token: status = %d, want 401", code)
	}

	wrongKey := signedToken(t, "some-other-secret-that-is-long-enough", time.Now().Add(time.Hour))
	if code := request("Bearer " + wrongKey); code != http.StatusUnauthorized {
		t.Errorf("wrong secret: status = %d, want 401", code)
	}

	valid := signedToken(t, testJWTSecret, time.Now().Add(time.Hour))
	if code := request("Bearer " + valid); code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", code)
	}

	// Health stays open without a token
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("health with auth enabled: status = %d, want 200", rec.Code)
	}
}

func TestAuthDisabled_PassesThrough(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with auth disabled", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	srv, _, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "console-42")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "console-42" {
		t.Errorf("X-Request-ID = %q, want console-42 (client id preserved)", got)
	}
}

func TestNew_RequiredDeps(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	if _, err := New(Deps{Logger: log}); err == nil {
		t.Error("New() without engines should fail")
	}
	if _, err := New(Deps{}); err == nil {
		t.Error("New() without logger should fail")
	}
}
