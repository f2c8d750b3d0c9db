package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ─── Character Endpoints ────────────────────────────────────────────────────
//
// POST /characters                 — create a character
// GET  /characters                 — list all characters
// GET  /characters/{id}            — one character
// GET  /characters/{id}/appearance — level-derived look + equipment overlay
// GET  /sessions/{characterID}     — finalized sessions, newest first
// GET  /stats/{characterID}        — today / week / total aggregates

func characterID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	return id, err == nil && id > 0
}

// handleCreateCharacter creates a new character.
// POST /characters
func (s *Server) handleCreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	char, err := s.characters.CreateCharacter(req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, char)
}

// handleListCharacters returns all characters.
// GET /characters
func (s *Server) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	chars, err := s.characters.ListCharacters()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"characters": chars,
	})
}

// handleGetCharacter returns one character.
// GET /characters/{id}
func (s *Server) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	char, err := s.characters.GetCharacter(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, char)
}

// handleAppearance returns the character's current look.
// GET /characters/{id}/appearance
func (s *Server) handleAppearance(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	view, err := s.progression.Appearance(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleSessions returns a character's finalized sessions.
// GET /sessions/{characterID}
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(r, "characterID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	sessions, err := s.progression.Sessions(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
	})
}

// handleStats returns study-time aggregates.
// GET /stats/{characterID}
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(r, "characterID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	stats, err := s.progression.Stats(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
