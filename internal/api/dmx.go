package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// channelRequest is the request body for channel and override writes.
type channelRequest struct {
	Universe int `json:"universe"`
	Channel  int `json:"channel"`
	Value    int `json:"value"`
}

// universeParam parses a universe id from the URL and checks it exists.
func (s *Server) universeParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	universe, err := strconv.Atoi(chi.URLParam(r, "universe"))
	if err != nil || universe < 1 || universe > s.dmx.UniverseCount() {
		writeBadRequest(w, "invalid universe")
		return 0, false
	}
	return universe, true
}

// channelParam parses a channel number from the URL.
func channelParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	channel, err := strconv.Atoi(chi.URLParam(r, "channel"))
	if err != nil || channel < 1 || channel > 512 {
		writeBadRequest(w, "invalid channel (1-512)")
		return 0, false
	}
	return channel, true
}

// handleGetRate returns the sender's current transmission rate.
func (s *Server) handleGetRate(w http.ResponseWriter, _ *http.Request) {
	rate, active := s.dmx.CurrentRate()
	writeJSON(w, http.StatusOK, map[string]any{
		"rate_hz": rate,
		"active":  active,
	})
}

// handleListUniverses returns the effective output of every universe.
func (s *Server) handleListUniverses(w http.ResponseWriter, _ *http.Request) {
	outputs := s.dmx.GetAllUniverseOutputs()

	universes := make(map[string][]int, len(outputs))
	for id, data := range outputs {
		universes[strconv.Itoa(id)] = bytesToInts(data)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"universes": universes,
		"count":     len(universes),
	})
}

// handleGetUniverse returns the effective output of a single universe.
func (s *Server) handleGetUniverse(w http.ResponseWriter, r *http.Request) {
	universe, ok := s.universeParam(w, r)
	if !ok {
		return
	}

	data, ok := s.dmx.GetUniverseOutput(universe)
	if !ok {
		writeNotFound(w, "universe not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"universe": universe,
		"values":   bytesToInts(data),
	})
}

// handleSetChannel writes a channel's base value.
// Values outside [0,255] are clamped, matching the output service.
func (s *Server) handleSetChannel(w http.ResponseWriter, r *http.Request) {
	var req channelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Universe < 1 || req.Universe > s.dmx.UniverseCount() {
		writeBadRequest(w, "invalid universe")
		return
	}
	if req.Channel < 1 || req.Channel > 512 {
		writeBadRequest(w, "invalid channel (1-512)")
		return
	}

	s.dmx.SetChannelValue(req.Universe, req.Channel, req.Value)

	value, _ := s.dmx.GetChannelValue(req.Universe, req.Channel)
	writeJSON(w, http.StatusOK, map[string]any{
		"universe": req.Universe,
		"channel":  req.Channel,
		"value":    value,
	})
}

// handleGetChannel returns a channel's effective output value.
func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	universe, ok := s.universeParam(w, r)
	if !ok {
		return
	}
	channel, ok := channelParam(w, r)
	if !ok {
		return
	}

	value, ok := s.dmx.GetChannelValue(universe, channel)
	if !ok {
		writeNotFound(w, "channel not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"universe": universe,
		"channel":  channel,
		"value":    value,
	})
}

// handleSetOverride pins a channel to a value that wins over base writes.
func (s *Server) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	var req channelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Universe < 1 || req.Universe > s.dmx.UniverseCount() {
		writeBadRequest(w, "invalid universe")
		return
	}
	if req.Channel < 1 || req.Channel > 512 {
		writeBadRequest(w, "invalid channel (1-512)")
		return
	}

	s.dmx.SetChannelOverride(req.Universe, req.Channel, req.Value)

	writeJSON(w, http.StatusOK, map[string]any{
		"universe":  req.Universe,
		"channel":   req.Channel,
		"overrides": s.dmx.OverrideCount(),
	})
}

// handleClearOverride removes a single channel override.
func (s *Server) handleClearOverride(w http.ResponseWriter, r *http.Request) {
	universe, ok := s.universeParam(w, r)
	if !ok {
		return
	}
	channel, ok := channelParam(w, r)
	if !ok {
		return
	}

	s.dmx.ClearChannelOverride(universe, channel)
	w.WriteHeader(http.StatusNoContent)
}

// handleClearAllOverrides removes every channel override.
func (s *Server) handleClearAllOverrides(w http.ResponseWriter, _ *http.Request) {
	s.dmx.ClearAllOverrides()
	w.WriteHeader(http.StatusNoContent)
}

// bytesToInts converts a universe snapshot to a JSON-friendly int slice.
// Raw []byte would encode as base64, which is hostile to UI clients.
func bytesToInts(data []byte) []int {
	values := make([]int, len(data))
	for i, b := range data {
		values[i] = int(b)
	}
	return values
}
