package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/stagelight-core/internal/fade"
	"github.com/nerrad567/stagelight-core/internal/infrastructure/mqtt"
)

// maxURLParamLen limits URL parameter length to prevent abuse via oversized ids.
const maxURLParamLen = 100

// fadeRequest is the request body for POST /fades.
type fadeRequest struct {
	Targets     []fade.ChannelTarget `json:"targets"`
	DurationSec float64              `json:"duration_sec"`
	Easing      string               `json:"easing,omitempty"`
	ID          string               `json:"id,omitempty"`
}

// blackoutRequest is the request body for POST /fades/black.
type blackoutRequest struct {
	DurationSec float64 `json:"duration_sec"`
	Easing      string  `json:"easing,omitempty"`
}

// handleStartFade submits a multi-channel fade.
//
// The fade runs asynchronously; 202 Accepted is returned with the fade
// id, and completion is announced on the fade.completed WebSocket
// channel.
func (s *Server) handleStartFade(w http.ResponseWriter, r *http.Request) {
	var req fadeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(req.Targets) == 0 {
		writeBadRequest(w, "targets must not be empty")
		return
	}
	if req.DurationSec < 0 {
		writeBadRequest(w, "duration_sec must not be negative")
		return
	}
	for _, target := range req.Targets {
		if target.Universe < 1 || target.Universe > s.dmx.UniverseCount() {
			writeBadRequest(w, "invalid universe in targets")
			return
		}
		if target.Channel < 1 || target.Channel > 512 {
			writeBadRequest(w, "invalid channel in targets (1-512)")
			return
		}
	}

	id := s.fades.FadeChannels(req.Targets, secondsToDuration(req.DurationSec), fade.FadeOptions{
		ID:         req.ID,
		Easing:     fade.Easing(req.Easing),
		OnComplete: s.fadeCompleted,
	})

	writeJSON(w, http.StatusAccepted, map[string]any{
		"fade_id":  id,
		"channels": len(req.Targets),
		"status":   "accepted",
	})
}

// handleFadeToBlack fades every lit channel to zero.
func (s *Server) handleFadeToBlack(w http.ResponseWriter, r *http.Request) {
	var req blackoutRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
	}
	if req.DurationSec < 0 {
		writeBadRequest(w, "duration_sec must not be negative")
		return
	}

	id := s.fades.FadeToBlack(secondsToDuration(req.DurationSec), fade.Easing(req.Easing))

	writeJSON(w, http.StatusAccepted, map[string]any{
		"fade_id": id,
		"status":  "accepted",
	})
}

// handleCancelFade stops an in-flight fade, freezing output where it is.
func (s *Server) handleCancelFade(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxURLParamLen {
		writeBadRequest(w, "invalid fade ID")
		return
	}

	s.fades.CancelFade(id)
	w.WriteHeader(http.StatusNoContent)
}

// handleCancelAllFades stops every in-flight fade.
func (s *Server) handleCancelAllFades(w http.ResponseWriter, _ *http.Request) {
	s.fades.CancelAllFades()
	w.WriteHeader(http.StatusNoContent)
}

// fadeCompleted announces a finished fade to WebSocket subscribers and,
// when configured, the MQTT status bus. Registered as the OnComplete
// callback on API-submitted fades, which the fade engine invokes on its
// tick goroutine. The MQTT leg runs asynchronously; a slow broker must
// never stall the 25ms loop.
func (s *Server) fadeCompleted(id string) {
	payload := map[string]any{"fade_id": id}
	s.hub.Broadcast("fade.completed", payload)

	if s.mqtt != nil {
		topic := mqtt.Topics{}.FadeCompleted(id)
		go func() {
			if err := s.mqtt.PublishJSON(topic, 0, false, payload); err != nil {
				s.logger.Debug("fade completion publish failed", "fade_id", id, "error", err)
			}
		}()
	}
}

// secondsToDuration converts a fractional seconds value to a Duration.
func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
