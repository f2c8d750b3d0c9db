package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studyquest/studyquest/internal/domain"
)

// ─── Character Operations ───────────────────────────────────────────────────

// CreateCharacter inserts a new character with fresh progression state.
func (d *DB) CreateCharacter(name string) (*domain.Character, error) {
	now := time.Now().UTC()
	res, err := d.db.Exec(`
		INSERT INTO characters (name, level, experience, coins, total_study_time, current_color, created_at)
		VALUES (?, 1, 0, 0, 0, ?, ?)
	`, name, domain.BaseColor, formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("create character: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create character id: %w", err)
	}
	return d.GetCharacter(id)
}

// GetCharacter loads a character by id.
func (d *DB) GetCharacter(id int64) (*domain.Character, error) {
	c := &domain.Character{}
	var createdAt string
	err := d.db.QueryRow(`
		SELECT id, name, level, experience, coins, total_study_time, current_color, created_at
		FROM characters WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Level, &c.Experience, &c.Coins,
		&c.TotalStudyTime, &c.CurrentColor, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCharacterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get character %d: %w", id, err)
	}
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

// ListCharacters returns all characters, oldest first.
func (d *DB) ListCharacters() ([]domain.Character, error) {
	rows, err := d.db.Query(`
		SELECT id, name, level, experience, coins, total_study_time, current_color, created_at
		FROM characters ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var out []domain.Character
	for rows.Next() {
		var c domain.Character
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Level, &c.Experience, &c.Coins,
			&c.TotalStudyTime, &c.CurrentColor, &createdAt); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}
