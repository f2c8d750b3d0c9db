package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ─── Timer Endpoints ────────────────────────────────────────────────────────
//
// POST /timer/start — begin a study session for a character
// POST /timer/stop  — finalize a session and apply its reward

// decodeJSON strictly decodes a request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// handleTimerStart begins a study session.
// POST /timer/start
func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CharacterID int64  `json:"character_id"`
		Subject     string `json:"subject"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CharacterID <= 0 {
		writeError(w, http.StatusBadRequest, "character_id is required")
		return
	}

	sessionID, err := s.progression.Start(req.CharacterID, req.Subject)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": sessionID,
		"status":     "started",
	})
}

// handleTimerStop finalizes a session, applying the reward exactly once.
// A repeated stop for the same session id reports 404.
// POST /timer/stop
func (s *Server) handleTimerStop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	result, err := s.progression.Stop(req.SessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
