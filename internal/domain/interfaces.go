package domain

import "time"

// ─── Store Interfaces ───────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// CharacterStore abstracts persistent character records.
type CharacterStore interface {
	CreateCharacter(name string) (*Character, error)
	GetCharacter(id int64) (*Character, error)
	ListCharacters() ([]Character, error)
}

// SessionStore abstracts persistent study-session records.
type SessionStore interface {
	InsertSession(s *StudySession) error
	GetSession(id string) (*StudySession, error)

	// FinishedSessions returns finalized sessions, newest first.
	FinishedSessions(characterID int64) ([]StudySession, error)

	// Stats aggregates finalized sessions: study time since dayStart,
	// since weekStart, and the total finalized-session count.
	Stats(characterID int64, dayStart, weekStart time.Time) (*StudyStats, error)

	// StaleSessions returns unfinished sessions started before cutoff.
	// These are orphans left behind by a process restart; the registry
	// entries that made them "running" died with the process.
	StaleSessions(cutoff time.Time) ([]StudySession, error)

	// CloseStale finalizes an orphan with zero duration and no reward.
	CloseStale(id string, endedAt time.Time) error
}

// EquipmentStore abstracts the catalog and per-character ownership.
type EquipmentStore interface {
	SeedEquipment(items []Equipment) error
	ListEquipment() ([]Equipment, error)
	GetEquipment(id string) (*Equipment, error)

	OwnedEquipment(characterID int64) ([]OwnedEquipment, error)

	// EquippedAccessoryIDs returns the ids of currently equipped
	// accessory-category items, ordered by equipment id ascending so the
	// bonus effect list is deterministic across store implementations.
	EquippedAccessoryIDs(characterID int64) ([]string, error)

	// Purchase atomically charges the price, records ownership, and appends
	// the "spent" ledger entry. Fails with ErrInsufficientCoins or
	// ErrAlreadyOwned without touching the balance.
	Purchase(characterID int64, eq Equipment, entry CoinTransaction) error

	// SetAccessoryEquipped toggles an owned accessory.
	SetAccessoryEquipped(characterID int64, equipmentID string, equipped bool) error

	// EquipColor equips an owned color skin, silently unequipping any other
	// color, and sets the character's current_color to the skin's code.
	EquipColor(characterID int64, eq Equipment) error

	// UnequipColor unequips an owned color skin and resets current_color
	// to BaseColor.
	UnequipColor(characterID int64, equipmentID string) error
}

// LedgerStore reads the append-only coin ledger.
type LedgerStore interface {
	// Transactions returns a character's ledger entries, newest first.
	Transactions(characterID int64) ([]CoinTransaction, error)

	// LedgerBalance sums a character's ledger amounts. It must always
	// reconcile with the character's coins balance.
	LedgerBalance(characterID int64) (int64, error)
}

// StopReward is the computed reward for one stopped session. It is applied
// as a single all-or-nothing unit; the values are computed once and reused
// verbatim on retry so a retried stop never recomputes duration from a
// mutated "now".
type StopReward struct {
	SessionID   string
	CharacterID int64
	LedgerID    string
	EndedAt     time.Time
	Duration    float64 // minutes
	Experience  int     // bonus-scaled
	Coins       int     // bonus-scaled
}

// RewardStore applies stop rewards atomically.
type RewardStore interface {
	// ApplyStopReward applies the reward in one transaction: character
	// counters (+ level recompute), ledger append, session finalization.
	// Applying the same reward twice is a no-op, which makes retries after
	// an ambiguous failure safe.
	ApplyStopReward(r StopReward) error
}
