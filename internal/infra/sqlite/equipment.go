package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studyquest/studyquest/internal/domain"
)

// ─── Equipment Catalog ──────────────────────────────────────────────────────

// SeedEquipment inserts catalog items, leaving already-seeded rows untouched.
func (d *DB) SeedEquipment(items []domain.Equipment) error {
	for _, eq := range items {
		_, err := d.db.Exec(`
			INSERT OR IGNORE INTO equipment (id, name, category, price, description, color_code)
			VALUES (?, ?, ?, ?, ?, ?)
		`, eq.ID, eq.Name, string(eq.Category), eq.Price, eq.Description, eq.ColorCode)
		if err != nil {
			return fmt.Errorf("seed equipment %s: %w", eq.ID, err)
		}
	}
	return nil
}

// ListEquipment returns the full catalog, id ascending.
func (d *DB) ListEquipment() ([]domain.Equipment, error) {
	rows, err := d.db.Query(`
		SELECT id, name, category, price, description, color_code
		FROM equipment ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var out []domain.Equipment
	for rows.Next() {
		var eq domain.Equipment
		var cat string
		if err := rows.Scan(&eq.ID, &eq.Name, &cat, &eq.Price, &eq.Description, &eq.ColorCode); err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		eq.Category = domain.EquipmentCategory(cat)
		out = append(out, eq)
	}
	return out, rows.Err()
}

// GetEquipment loads one catalog item.
func (d *DB) GetEquipment(id string) (*domain.Equipment, error) {
	eq := &domain.Equipment{}
	var cat string
	err := d.db.QueryRow(`
		SELECT id, name, category, price, description, color_code
		FROM equipment WHERE id = ?
	`, id).Scan(&eq.ID, &eq.Name, &cat, &eq.Price, &eq.Description, &eq.ColorCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEquipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get equipment %s: %w", id, err)
	}
	eq.Category = domain.EquipmentCategory(cat)
	return eq, nil
}

// ─── Ownership ──────────────────────────────────────────────────────────────

// OwnedEquipment returns a character's items, equipment id ascending.
func (d *DB) OwnedEquipment(characterID int64) ([]domain.OwnedEquipment, error) {
	rows, err := d.db.Query(`
		SELECT e.id, e.name, e.category, e.price, e.description, e.color_code,
		       ce.is_equipped, ce.purchased_at
		FROM character_equipment ce
		JOIN equipment e ON e.id = ce.equipment_id
		WHERE ce.character_id = ?
		ORDER BY e.id
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("list owned equipment: %w", err)
	}
	defer rows.Close()

	var out []domain.OwnedEquipment
	for rows.Next() {
		var o domain.OwnedEquipment
		var cat, purchasedAt string
		var equipped int
		if err := rows.Scan(&o.ID, &o.Name, &cat, &o.Price, &o.Description,
			&o.ColorCode, &equipped, &purchasedAt); err != nil {
			return nil, fmt.Errorf("scan owned equipment: %w", err)
		}
		o.Category = domain.EquipmentCategory(cat)
		o.IsEquipped = equipped == 1
		o.PurchasedAt = parseTime(purchasedAt)
		out = append(out, o)
	}
	return out, rows.Err()
}

// EquippedAccessoryIDs returns equipped accessory ids, equipment id
// ascending. The fixed order keeps the combined bonus effect list
// deterministic regardless of purchase order.
func (d *DB) EquippedAccessoryIDs(characterID int64) ([]string, error) {
	rows, err := d.db.Query(`
		SELECT e.id
		FROM character_equipment ce
		JOIN equipment e ON e.id = ce.equipment_id
		WHERE ce.character_id = ? AND ce.is_equipped = 1 AND e.category = 'accessory'
		ORDER BY e.id
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("list equipped accessories: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan accessory id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ─── Purchase ───────────────────────────────────────────────────────────────

// Purchase atomically charges the item price, records ownership, and appends
// the "spent" ledger entry. The balance guard runs inside the transaction so
// coins can never go below zero.
func (d *DB) Purchase(characterID int64, eq domain.Equipment, entry domain.CoinTransaction) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin purchase: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	var owned int
	if err := tx.QueryRow(`
		SELECT COUNT(*) FROM character_equipment
		WHERE character_id = ? AND equipment_id = ?
	`, characterID, eq.ID).Scan(&owned); err != nil {
		return fmt.Errorf("%w: check ownership: %v", domain.ErrPersistence, err)
	}
	if owned > 0 {
		return domain.ErrAlreadyOwned
	}

	var coins int64
	err = tx.QueryRow(`SELECT coins FROM characters WHERE id = ?`, characterID).Scan(&coins)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCharacterNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: read balance: %v", domain.ErrPersistence, err)
	}
	if coins < eq.Price {
		return domain.ErrInsufficientCoins
	}

	if _, err := tx.Exec(`
		UPDATE characters SET coins = coins - ? WHERE id = ?
	`, eq.Price, characterID); err != nil {
		return fmt.Errorf("%w: charge coins: %v", domain.ErrPersistence, err)
	}

	if _, err := tx.Exec(`
		INSERT INTO character_equipment (character_id, equipment_id, is_equipped, purchased_at)
		VALUES (?, ?, 0, ?)
	`, characterID, eq.ID, formatTime(time.Now())); err != nil {
		return fmt.Errorf("%w: record ownership: %v", domain.ErrPersistence, err)
	}

	if _, err := tx.Exec(`
		INSERT INTO coin_transactions (id, character_id, amount, transaction_type, source, equipment_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.CharacterID, entry.Amount, string(entry.Type), entry.Source,
		entry.EquipmentID, formatTime(entry.CreatedAt)); err != nil {
		return fmt.Errorf("%w: append ledger: %v", domain.ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit purchase: %v", domain.ErrPersistence, err)
	}
	return nil
}

// ─── Equip / Unequip ────────────────────────────────────────────────────────

// SetAccessoryEquipped toggles an owned accessory. Accessories stack freely;
// no mutual exclusion applies.
func (d *DB) SetAccessoryEquipped(characterID int64, equipmentID string, equipped bool) error {
	val := 0
	if equipped {
		val = 1
	}
	res, err := d.db.Exec(`
		UPDATE character_equipment SET is_equipped = ?
		WHERE character_id = ? AND equipment_id = ?
	`, val, characterID, equipmentID)
	if err != nil {
		return fmt.Errorf("toggle accessory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("toggle accessory: %w", err)
	}
	if n == 0 {
		return domain.ErrNotOwned
	}
	return nil
}

// EquipColor equips an owned color skin, silently unequipping any previously
// equipped color, and updates the character's current_color — one transaction
// so at most one color is ever equipped.
func (d *DB) EquipColor(characterID int64, eq domain.Equipment) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin equip: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE character_equipment SET is_equipped = 0
		WHERE character_id = ? AND is_equipped = 1
		  AND equipment_id IN (SELECT id FROM equipment WHERE category = 'color')
	`, characterID); err != nil {
		return fmt.Errorf("%w: unequip colors: %v", domain.ErrPersistence, err)
	}

	res, err := tx.Exec(`
		UPDATE character_equipment SET is_equipped = 1
		WHERE character_id = ? AND equipment_id = ?
	`, characterID, eq.ID)
	if err != nil {
		return fmt.Errorf("%w: equip color: %v", domain.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: equip color: %v", domain.ErrPersistence, err)
	}
	if n == 0 {
		return domain.ErrNotOwned
	}

	if _, err := tx.Exec(`
		UPDATE characters SET current_color = ? WHERE id = ?
	`, eq.ColorCode, characterID); err != nil {
		return fmt.Errorf("%w: set color: %v", domain.ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit equip: %v", domain.ErrPersistence, err)
	}
	return nil
}

// UnequipColor unequips an owned color skin and resets current_color.
func (d *DB) UnequipColor(characterID int64, equipmentID string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin unequip: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE character_equipment SET is_equipped = 0
		WHERE character_id = ? AND equipment_id = ?
	`, characterID, equipmentID)
	if err != nil {
		return fmt.Errorf("%w: unequip color: %v", domain.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: unequip color: %v", domain.ErrPersistence, err)
	}
	if n == 0 {
		return domain.ErrNotOwned
	}

	if _, err := tx.Exec(`
		UPDATE characters SET current_color = ? WHERE id = ?
	`, domain.BaseColor, characterID); err != nil {
		return fmt.Errorf("%w: reset color: %v", domain.ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit unequip: %v", domain.ErrPersistence, err)
	}
	return nil
}
