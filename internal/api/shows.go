package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/stagelight-core/internal/fade"
	"github.com/nerrad567/stagelight-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/stagelight-core/internal/show"
)

// idParam extracts and validates the {id} URL parameter.
func idParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxURLParamLen {
		writeBadRequest(w, "invalid ID")
		return "", false
	}
	return id, true
}

// writeShowError maps show repository errors to HTTP responses.
func writeShowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, show.ErrValidation):
		writeBadRequest(w, err.Error())
	case errors.Is(err, show.ErrAlreadyExists):
		writeConflict(w, err.Error())
	case errors.Is(err, show.ErrSceneInUse):
		writeConflict(w, "scene is referenced by cues")
	case errors.Is(err, show.ErrFixtureNotFound):
		writeNotFound(w, "fixture not found")
	case errors.Is(err, show.ErrSceneNotFound):
		writeNotFound(w, "scene not found")
	case errors.Is(err, show.ErrCueListNotFound):
		writeNotFound(w, "cue list not found")
	case errors.Is(err, show.ErrCueNotFound):
		writeNotFound(w, "cue not found")
	default:
		writeInternalError(w, "show operation failed")
	}
}

// ─── Fixtures ───────────────────────────────────────────────────────────────

// handleListFixtures returns all patched fixtures.
func (s *Server) handleListFixtures(w http.ResponseWriter, r *http.Request) {
	fixtures, err := s.shows.ListFixtures(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list fixtures")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fixtures": fixtures, "count": len(fixtures)})
}

// handleGetFixture returns a single fixture by ID.
func (s *Server) handleGetFixture(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	fixture, err := s.shows.Fixture(r.Context(), id)
	if err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fixture)
}

// handleCreateFixture patches a new fixture.
func (s *Server) handleCreateFixture(w http.ResponseWriter, r *http.Request) {
	var fixture show.Fixture
	if err := json.NewDecoder(r.Body).Decode(&fixture); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.shows.CreateFixture(r.Context(), &fixture); err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fixture)
}

// handleUpdateFixture partially updates a fixture.
func (s *Server) handleUpdateFixture(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	existing, err := s.shows.Fixture(r.Context(), id)
	if err != nil {
		writeShowError(w, err)
		return
	}

	// Decode partial update onto the existing fixture
	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	existing.ID = id // Ensure ID cannot be changed

	if err := s.shows.UpdateFixture(r.Context(), existing); err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

// handleDeleteFixture removes a fixture from the patch.
func (s *Server) handleDeleteFixture(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := s.shows.DeleteFixture(r.Context(), id); err != nil {
		writeShowError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Scenes ─────────────────────────────────────────────────────────────────

// handleListScenes returns all stored scenes.
func (s *Server) handleListScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := s.shows.ListScenes(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list scenes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenes": scenes, "count": len(scenes)})
}

// handleGetScene returns a single scene by ID.
func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	scene, err := s.shows.Scene(r.Context(), id)
	if err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scene)
}

// handleCreateScene stores a new scene.
func (s *Server) handleCreateScene(w http.ResponseWriter, r *http.Request) {
	var scene show.Scene
	if err := json.NewDecoder(r.Body).Decode(&scene); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.shows.CreateScene(r.Context(), &scene); err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, scene)
}

// handleUpdateScene partially updates a scene.
func (s *Server) handleUpdateScene(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	existing, err := s.shows.Scene(r.Context(), id)
	if err != nil {
		writeShowError(w, err)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	existing.ID = id

	if err := s.shows.UpdateScene(r.Context(), existing); err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

// handleDeleteScene removes a scene.
func (s *Server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := s.shows.DeleteScene(r.Context(), id); err != nil {
		writeShowError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// activateSceneRequest is the request body for POST /scenes/{id}/activate.
type activateSceneRequest struct {
	FadeInSec float64 `json:"fade_in_sec"`
	Easing    string  `json:"easing,omitempty"`
}

// handleActivateScene fades the live output to a stored scene.
//
// The fade runs asynchronously; 202 Accepted is returned with the fade
// id. Completion arrives on the fade.completed WebSocket channel.
func (s *Server) handleActivateScene(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req activateSceneRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
	}
	if req.FadeInSec < 0 {
		writeBadRequest(w, "fade_in_sec must not be negative")
		return
	}

	fadeID, err := s.playback.ActivateScene(r.Context(), id, secondsToDuration(req.FadeInSec), fade.FadeOptions{
		Easing:     fade.Easing(req.Easing),
		OnComplete: s.fadeCompleted,
	})
	if err != nil {
		writeShowError(w, err)
		return
	}

	if s.mqtt != nil {
		topic := mqtt.Topics{}.SceneActivated(id)
		if err := s.mqtt.PublishJSON(topic, 0, false, map[string]any{
			"scene_id": id,
			"fade_id":  fadeID,
		}); err != nil {
			s.logger.Debug("scene activation publish failed", "scene_id", id, "error", err)
		}
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"scene_id": id,
		"fade_id":  fadeID,
		"status":   "accepted",
	})
}

// ─── Cue Lists ──────────────────────────────────────────────────────────────

// handleListCueLists returns all cue lists with their cues.
func (s *Server) handleListCueLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.shows.ListCueLists(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list cue lists")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cue_lists": lists, "count": len(lists)})
}

// handleGetCueList returns a single cue list with ordered cues.
func (s *Server) handleGetCueList(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	list, err := s.shows.CueList(r.Context(), id)
	if err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleCreateCueList creates a new cue list.
func (s *Server) handleCreateCueList(w http.ResponseWriter, r *http.Request) {
	var list show.CueList
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.shows.CreateCueList(r.Context(), &list); err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// handleUpdateCueList partially updates a cue list's own fields.
// Cues are managed through the nested cue endpoints.
func (s *Server) handleUpdateCueList(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	existing, err := s.shows.CueList(r.Context(), id)
	if err != nil {
		writeShowError(w, err)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	existing.ID = id

	if err := s.shows.UpdateCueList(r.Context(), existing); err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

// handleDeleteCueList removes a cue list and its cues.
func (s *Server) handleDeleteCueList(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := s.shows.DeleteCueList(r.Context(), id); err != nil {
		writeShowError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Cues ───────────────────────────────────────────────────────────────────

// handleCreateCue appends a cue to a list.
func (s *Server) handleCreateCue(w http.ResponseWriter, r *http.Request) {
	listID, ok := idParam(w, r)
	if !ok {
		return
	}

	var cue show.Cue
	if err := json.NewDecoder(r.Body).Decode(&cue); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	cue.CueListID = listID

	if err := s.shows.CreateCue(r.Context(), &cue); err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cue)
}

// handleUpdateCue partially updates a cue.
func (s *Server) handleUpdateCue(w http.ResponseWriter, r *http.Request) {
	listID, ok := idParam(w, r)
	if !ok {
		return
	}
	cueID := chi.URLParam(r, "cueID")
	if cueID == "" || len(cueID) > maxURLParamLen {
		writeBadRequest(w, "invalid cue ID")
		return
	}

	list, err := s.shows.CueList(r.Context(), listID)
	if err != nil {
		writeShowError(w, err)
		return
	}

	var existing *show.Cue
	for i := range list.Cues {
		if list.Cues[i].ID == cueID {
			existing = &list.Cues[i]
			break
		}
	}
	if existing == nil {
		writeNotFound(w, "cue not found")
		return
	}

	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	existing.ID = cueID
	existing.CueListID = listID

	if err := s.shows.UpdateCue(r.Context(), existing); err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

// bulkUpdateCuesRequest is the request body for PUT /cuelists/{id}/cues.
type bulkUpdateCuesRequest struct {
	Cues []show.Cue `json:"cues"`
}

// handleUpdateCues applies edits to several cues of a list in one
// transaction. Typical use is retiming a whole act (nudging fade times
// across every cue) without racing a running playback between edits.
func (s *Server) handleUpdateCues(w http.ResponseWriter, r *http.Request) {
	listID, ok := idParam(w, r)
	if !ok {
		return
	}

	var req bulkUpdateCuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(req.Cues) == 0 {
		writeBadRequest(w, "cues must not be empty")
		return
	}

	cues := make([]*show.Cue, len(req.Cues))
	for i := range req.Cues {
		if req.Cues[i].ID == "" {
			writeBadRequest(w, "every cue needs an id")
			return
		}
		req.Cues[i].CueListID = listID
		cues[i] = &req.Cues[i]
	}

	if err := s.shows.UpdateCues(r.Context(), listID, cues); err != nil {
		writeShowError(w, err)
		return
	}

	list, err := s.shows.CueList(r.Context(), listID)
	if err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleDeleteCue removes a cue from a list.
func (s *Server) handleDeleteCue(w http.ResponseWriter, r *http.Request) {
	listID, ok := idParam(w, r)
	if !ok {
		return
	}
	cueID := chi.URLParam(r, "cueID")
	if cueID == "" || len(cueID) > maxURLParamLen {
		writeBadRequest(w, "invalid cue ID")
		return
	}

	if err := s.shows.DeleteCue(r.Context(), listID, cueID); err != nil {
		writeShowError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reorderCuesRequest is the request body for PUT /cuelists/{id}/cues/order.
type reorderCuesRequest struct {
	CueIDs []string `json:"cue_ids"`
}

// handleReorderCues rewrites a list's cue order in one transaction.
func (s *Server) handleReorderCues(w http.ResponseWriter, r *http.Request) {
	listID, ok := idParam(w, r)
	if !ok {
		return
	}

	var req reorderCuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(req.CueIDs) == 0 {
		writeBadRequest(w, "cue_ids must not be empty")
		return
	}

	if err := s.shows.ReorderCues(r.Context(), listID, req.CueIDs); err != nil {
		writeShowError(w, err)
		return
	}

	list, err := s.shows.CueList(r.Context(), listID)
	if err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
