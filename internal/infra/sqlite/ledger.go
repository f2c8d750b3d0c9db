package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/studyquest/studyquest/internal/domain"
)

// ─── Coin Ledger ────────────────────────────────────────────────────────────
// The ledger is append-only; entries are written inside the purchase and
// stop-reward transactions and never mutated afterwards.

// Transactions returns a character's ledger entries, newest first.
func (d *DB) Transactions(characterID int64) ([]domain.CoinTransaction, error) {
	rows, err := d.db.Query(`
		SELECT id, character_id, amount, transaction_type, source,
		       study_session_id, equipment_id, created_at
		FROM coin_transactions
		WHERE character_id = ?
		ORDER BY created_at DESC, id DESC
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.CoinTransaction
	for rows.Next() {
		var t domain.CoinTransaction
		var txType, createdAt string
		var sessionID, equipmentID sql.NullString
		if err := rows.Scan(&t.ID, &t.CharacterID, &t.Amount, &txType, &t.Source,
			&sessionID, &equipmentID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = domain.TransactionType(txType)
		t.SessionID = sessionID.String
		t.EquipmentID = equipmentID.String
		t.CreatedAt = parseTime(createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

// LedgerBalance sums a character's ledger amounts. By the reconciliation
// invariant this always equals the characters.coins column.
func (d *DB) LedgerBalance(characterID int64) (int64, error) {
	var sum int64
	err := d.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM coin_transactions WHERE character_id = ?
	`, characterID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("ledger balance: %w", err)
	}
	return sum, nil
}
