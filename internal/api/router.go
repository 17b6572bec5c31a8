package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// WebSocket upgrade. Browsers cannot set an Authorization header
		// here, so the handler validates a token query parameter itself.
		r.Get("/ws", s.handleWebSocket)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/status", s.handleStatus)

			// Live DMX output
			r.Route("/dmx", func(r chi.Router) {
				r.Get("/rate", s.handleGetRate)
				r.Get("/universes", s.handleListUniverses)
				r.Get("/universes/{universe}", s.handleGetUniverse)
				r.Put("/channels", s.handleSetChannel)
				r.Get("/channels/{universe}/{channel}", s.handleGetChannel)
				r.Put("/overrides", s.handleSetOverride)
				r.Delete("/overrides", s.handleClearAllOverrides)
				r.Delete("/overrides/{universe}/{channel}", s.handleClearOverride)
			})

			// Fades
			r.Route("/fades", func(r chi.Router) {
				r.Post("/", s.handleStartFade)
				r.Post("/black", s.handleFadeToBlack)
				r.Delete("/", s.handleCancelAllFades)
				r.Delete("/{id}", s.handleCancelFade)
			})

			// Cue playback
			r.Route("/playback", func(r chi.Router) {
				r.Get("/", s.handleAllPlayback)
				r.Post("/stop", s.handleStopAllPlayback)

				r.Route("/{listID}", func(r chi.Router) {
					r.Get("/", s.handlePlaybackStatus)
					r.Post("/start", s.handleStartCueList)
					r.Post("/next", s.handleNextCue)
					r.Post("/previous", s.handlePreviousCue)
					r.Post("/goto", s.handleGoToCue)
					r.Post("/stop", s.handleStopCueList)
				})
			})

			// Fixture endpoints
			r.Route("/fixtures", func(r chi.Router) {
				r.Get("/", s.handleListFixtures)
				r.Post("/", s.handleCreateFixture)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetFixture)
					r.Patch("/", s.handleUpdateFixture)
					r.Delete("/", s.handleDeleteFixture)
				})
			})

			// Scene endpoints
			r.Route("/scenes", func(r chi.Router) {
				r.Get("/", s.handleListScenes)
				r.Post("/", s.handleCreateScene)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetScene)
					r.Patch("/", s.handleUpdateScene)
					r.Delete("/", s.handleDeleteScene)
					r.Post("/activate", s.handleActivateScene)
				})
			})

			// Cue list endpoints
			r.Route("/cuelists", func(r chi.Router) {
				r.Get("/", s.handleListCueLists)
				r.Post("/", s.handleCreateCueList)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetCueList)
					r.Patch("/", s.handleUpdateCueList)
					r.Delete("/", s.handleDeleteCueList)

					r.Post("/cues", s.handleCreateCue)
					r.Put("/cues", s.handleUpdateCues)
					r.Put("/cues/order", s.handleReorderCues)
					r.Patch("/cues/{cueID}", s.handleUpdateCue)
					r.Delete("/cues/{cueID}", s.handleDeleteCue)
				})
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// handleStatus returns a live snapshot of the lighting engines.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	rate, active := s.dmx.CurrentRate()
	writeJSON(w, http.StatusOK, map[string]any{
		"version":      s.version,
		"uptime_sec":   int(time.Since(s.started).Seconds()),
		"universes":    s.dmx.UniverseCount(),
		"overrides":    s.dmx.OverrideCount(),
		"rate_hz":      rate,
		"active":       active,
		"active_fades": s.fades.ActiveFadeCount(),
		"playback":     s.playback.AllStatuses(),
		"ws_clients":   s.hub.ClientCount(),
	})
}
