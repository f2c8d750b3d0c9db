package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/studyquest/studyquest/internal/domain"
)

// ─── Stop Reward Transaction ────────────────────────────────────────────────

// ApplyStopReward applies one stopped session's reward as a single
// all-or-nothing unit: character counters and level, ledger append, session
// finalization. A partially applied reward (coins without a ledger entry, or
// the reverse) can never be observed.
//
// The session row is the idempotence guard: finalization only matches a row
// with NULL ended_at, so re-applying the same reward after an ambiguous
// failure — committed but reported as failed — is a no-op.
func (d *DB) ApplyStopReward(r domain.StopReward) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin stop: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE study_sessions SET ended_at = ?, duration = ?
		WHERE id = ? AND ended_at IS NULL
	`, formatTime(r.EndedAt), r.Duration, r.SessionID)
	if err != nil {
		return fmt.Errorf("%w: finalize session: %v", domain.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: finalize session: %v", domain.ErrPersistence, err)
	}
	if n == 0 {
		// Already finalized: a previous attempt committed. Nothing to redo.
		return nil
	}

	var experience int
	err = tx.QueryRow(`SELECT experience FROM characters WHERE id = ?`, r.CharacterID).
		Scan(&experience)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCharacterNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: read character: %v", domain.ErrPersistence, err)
	}

	// Level is derived from experience, recomputed on every change.
	newLevel := domain.LevelFor(experience + r.Experience)

	if _, err := tx.Exec(`
		UPDATE characters
		SET total_study_time = total_study_time + ?,
		    experience       = experience + ?,
		    coins            = coins + ?,
		    level            = ?
		WHERE id = ?
	`, r.Duration, r.Experience, r.Coins, newLevel, r.CharacterID); err != nil {
		return fmt.Errorf("%w: update character: %v", domain.ErrPersistence, err)
	}

	if _, err := tx.Exec(`
		INSERT INTO coin_transactions (id, character_id, amount, transaction_type, source, study_session_id, created_at)
		VALUES (?, ?, ?, 'earned', 'study', ?, ?)
	`, r.LedgerID, r.CharacterID, r.Coins, r.SessionID, formatTime(r.EndedAt)); err != nil {
		return fmt.Errorf("%w: append ledger: %v", domain.ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit stop: %v", domain.ErrPersistence, err)
	}
	return nil
}
