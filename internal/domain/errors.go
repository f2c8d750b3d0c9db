package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.
// Callers check them with errors.Is after unwrapping.

var (
	// Character errors
	ErrCharacterNotFound = errors.New("character not found")

	// Timer / session errors
	ErrSessionNotFound  = errors.New("active session not found")
	ErrDuplicateSession = errors.New("session already running")

	// Shop errors
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrAlreadyOwned      = errors.New("equipment already owned")
	ErrNotOwned          = errors.New("equipment not owned")
	ErrInsufficientCoins = errors.New("not enough coins")

	// Store errors
	ErrPersistence = errors.New("persistent store unavailable")
)
