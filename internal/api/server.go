// Package api provides the HTTP server for StudyQuest.
// It exposes the character, timer, shop, and stats endpoints consumed by the
// desktop UI and the CLI.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/studyquest/studyquest/internal/app/progression"
	"github.com/studyquest/studyquest/internal/app/shop"
	"github.com/studyquest/studyquest/internal/domain"
)

// Server is the StudyQuest HTTP API server.
type Server struct {
	characters     domain.CharacterStore
	ledger         domain.LedgerStore
	progression    *progression.Service
	shop           *shop.Service
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(
	characters domain.CharacterStore,
	ledger domain.LedgerStore,
	prog *progression.Service,
	shopSvc *shop.Service,
) *Server {
	return &Server{
		characters:  characters,
		ledger:      ledger,
		progression: prog,
		shop:        shopSvc,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":          "ok",
			"active_sessions": s.progression.Registry().Active(),
		})
	})

	r.Route("/characters", func(r chi.Router) {
		r.Post("/", s.handleCreateCharacter)
		r.Get("/", s.handleListCharacters)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetCharacter)
			r.Get("/appearance", s.handleAppearance)
			r.Get("/equipment", s.handleOwnedEquipment)
			r.Post("/equipment/{equipmentID}/purchase", s.handlePurchase)
			r.Post("/equipment/{equipmentID}/equip", s.handleEquip)
			r.Post("/equipment/{equipmentID}/unequip", s.handleUnequip)
			r.Get("/transactions", s.handleTransactions)
		})
	})

	r.Route("/timer", func(r chi.Router) {
		r.Post("/start", s.handleTimerStart)
		r.Post("/stop", s.handleTimerStop)
	})

	r.Get("/sessions/{characterID}", s.handleSessions)
	r.Get("/stats/{characterID}", s.handleStats)
	r.Get("/equipment", s.handleCatalog)

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Error Mapping ──────────────────────────────────────────────────────────

// statusFor maps domain errors onto HTTP status codes. Unknown errors are
// treated as internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCharacterNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrEquipmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateSession),
		errors.Is(err, domain.ErrAlreadyOwned),
		errors.Is(err, domain.ErrNotOwned),
		errors.Is(err, domain.ErrInsufficientCoins):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the local desktop UI.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
