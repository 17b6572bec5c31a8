package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/stagelight-core/internal/playback"
	"github.com/nerrad567/stagelight-core/internal/show"
)

// startCueListRequest is the request body for POST /playback/{listID}/start.
type startCueListRequest struct {
	StartIndex int `json:"start_index"`
}

// goToCueRequest is the request body for POST /playback/{listID}/goto.
type goToCueRequest struct {
	Index int `json:"index"`
}

// listIDParam extracts and validates the cue list id from the URL.
func listIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "listID")
	if id == "" || len(id) > maxURLParamLen {
		writeBadRequest(w, "invalid cue list ID")
		return "", false
	}
	return id, true
}

// writePlaybackError maps playback and show errors to HTTP responses.
func writePlaybackError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, show.ErrCueListNotFound):
		writeNotFound(w, "cue list not found")
	case errors.Is(err, show.ErrSceneNotFound):
		writeNotFound(w, "cue references unknown scene")
	case errors.Is(err, playback.ErrListEmpty):
		writeConflict(w, "cue list has no cues")
	case errors.Is(err, playback.ErrIndexOutOfRange):
		writeBadRequest(w, "cue index out of range")
	case errors.Is(err, playback.ErrNotPlaying):
		writeConflict(w, "cue list is not playing")
	case errors.Is(err, playback.ErrAtLastCue):
		writeConflict(w, "already at last cue")
	case errors.Is(err, playback.ErrAtFirstCue):
		writeConflict(w, "already at first cue")
	default:
		writeInternalError(w, "playback operation failed")
	}
}

// handleAllPlayback returns playback status for every active cue list.
func (s *Server) handleAllPlayback(w http.ResponseWriter, _ *http.Request) {
	statuses := s.playback.AllStatuses()
	writeJSON(w, http.StatusOK, map[string]any{
		"playback": statuses,
		"count":    len(statuses),
	})
}

// handlePlaybackStatus returns one cue list's playback status.
func (s *Server) handlePlaybackStatus(w http.ResponseWriter, r *http.Request) {
	listID, ok := listIDParam(w, r)
	if !ok {
		return
	}

	status, active := s.playback.Status(listID)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": status,
		"active": active,
	})
}

// handleStartCueList starts a cue list from the requested index.
func (s *Server) handleStartCueList(w http.ResponseWriter, r *http.Request) {
	listID, ok := listIDParam(w, r)
	if !ok {
		return
	}

	var req startCueListRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
	}

	if err := s.playback.StartCueList(r.Context(), listID, req.StartIndex); err != nil {
		writePlaybackError(w, err)
		return
	}

	status, _ := s.playback.Status(listID)
	writeJSON(w, http.StatusOK, status)
}

// handleNextCue advances to the next cue.
func (s *Server) handleNextCue(w http.ResponseWriter, r *http.Request) {
	listID, ok := listIDParam(w, r)
	if !ok {
		return
	}

	if err := s.playback.NextCue(r.Context(), listID); err != nil {
		writePlaybackError(w, err)
		return
	}

	status, _ := s.playback.Status(listID)
	writeJSON(w, http.StatusOK, status)
}

// handlePreviousCue steps back to the previous cue.
func (s *Server) handlePreviousCue(w http.ResponseWriter, r *http.Request) {
	listID, ok := listIDParam(w, r)
	if !ok {
		return
	}

	if err := s.playback.PreviousCue(r.Context(), listID); err != nil {
		writePlaybackError(w, err)
		return
	}

	status, _ := s.playback.Status(listID)
	writeJSON(w, http.StatusOK, status)
}

// handleGoToCue jumps directly to a cue by index.
func (s *Server) handleGoToCue(w http.ResponseWriter, r *http.Request) {
	listID, ok := listIDParam(w, r)
	if !ok {
		return
	}

	var req goToCueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.playback.GoToCue(r.Context(), listID, req.Index); err != nil {
		writePlaybackError(w, err)
		return
	}

	status, _ := s.playback.Status(listID)
	writeJSON(w, http.StatusOK, status)
}

// handleStopCueList clears a cue list's playback state.
// Light output is untouched; clients that want a dark stage compose
// this with POST /fades/black.
func (s *Server) handleStopCueList(w http.ResponseWriter, r *http.Request) {
	listID, ok := listIDParam(w, r)
	if !ok {
		return
	}

	s.playback.StopCueList(listID)
	w.WriteHeader(http.StatusNoContent)
}

// handleStopAllPlayback clears every cue list's playback state.
func (s *Server) handleStopAllPlayback(w http.ResponseWriter, _ *http.Request) {
	s.playback.StopAll()
	w.WriteHeader(http.StatusNoContent)
}
