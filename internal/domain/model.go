// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import "time"

// BaseColor is the default character color before any color skin is equipped.
const BaseColor = "#8B4513"

// ─── Character ──────────────────────────────────────────────────────────────

// Character is the persistent player-progression record.
// Level is always a pure function of Experience (see LevelFor) and is
// recomputed after every experience change, never stored independently.
type Character struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Level          int       `json:"level"`
	Experience     int       `json:"experience"`
	Coins          int64     `json:"coins"`
	TotalStudyTime float64   `json:"total_study_time"` // minutes
	CurrentColor   string    `json:"current_color"`
	CreatedAt      time.Time `json:"created_at"`
}

// ─── Study Sessions ─────────────────────────────────────────────────────────

// StudySession is a single timed study interval. EndedAt is nil while the
// timer is running; only sessions with a non-nil EndedAt count toward stats.
type StudySession struct {
	ID          string     `json:"id"`
	CharacterID int64      `json:"character_id"`
	Subject     string     `json:"subject,omitempty"`
	Duration    float64    `json:"duration"` // minutes, 0 while running
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

// Finished reports whether the session has been finalized.
func (s StudySession) Finished() bool {
	return s.EndedAt != nil
}

// ─── Equipment ──────────────────────────────────────────────────────────────

// EquipmentCategory separates stat-bearing accessories from color skins.
type EquipmentCategory string

const (
	CategoryAccessory EquipmentCategory = "accessory"
	CategoryColor     EquipmentCategory = "color"
)

// Equipment is an immutable catalog item.
type Equipment struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Category    EquipmentCategory `json:"category"`
	Price       int64             `json:"price"`
	Description string            `json:"description,omitempty"`
	ColorCode   string            `json:"color_code,omitempty"` // colors only
}

// OwnedEquipment is an ownership edge between a character and a catalog item.
// At most one color-category item may be equipped per character at a time;
// accessories have no such limit.
type OwnedEquipment struct {
	Equipment
	IsEquipped  bool      `json:"is_equipped"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// ─── Coin Ledger ────────────────────────────────────────────────────────────

// TransactionType is the business direction of a ledger entry.
type TransactionType string

const (
	TxEarned TransactionType = "earned"
	TxSpent  TransactionType = "spent"
)

// CoinTransaction is an append-only ledger entry. The sum of a character's
// entries always reconciles with its coins balance.
type CoinTransaction struct {
	ID          string          `json:"id"`
	CharacterID int64           `json:"character_id"`
	Amount      int64           `json:"amount"` // signed: earned > 0, spent < 0
	Type        TransactionType `json:"transaction_type"`
	Source      string          `json:"source"` // "study", "shop", ...
	SessionID   string          `json:"study_session_id,omitempty"`
	EquipmentID string          `json:"equipment_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ─── Appearance ─────────────────────────────────────────────────────────────

// Appearance is the level-derived look of a character.
type Appearance struct {
	Color       string   `json:"color"`
	Size        string   `json:"size"`
	Accessories []string `json:"accessories"`
}

// ─── Stats ──────────────────────────────────────────────────────────────────

// StudyStats aggregates finalized sessions for a character.
type StudyStats struct {
	TodayStudyTime float64 `json:"today_study_time"` // minutes
	WeekStudyTime  float64 `json:"week_study_time"`  // minutes
	TotalSessions  int     `json:"total_sessions"`
}
