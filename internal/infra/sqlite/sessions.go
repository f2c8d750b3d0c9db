package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studyquest/studyquest/internal/domain"
)

// ─── Study Session Operations ───────────────────────────────────────────────

// InsertSession persists a session stub. A running session has NULL ended_at
// and zero duration; it is finalized exactly once at stop (reward.go) or by
// the stale-session sweep.
func (d *DB) InsertSession(s *domain.StudySession) error {
	_, err := d.db.Exec(`
		INSERT INTO study_sessions (id, character_id, subject, duration, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, NULL)
	`, s.ID, s.CharacterID, s.Subject, s.Duration, formatTime(s.StartedAt))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession loads a session by id.
func (d *DB) GetSession(id string) (*domain.StudySession, error) {
	s := &domain.StudySession{}
	var startedAt string
	var endedAt sql.NullString
	err := d.db.QueryRow(`
		SELECT id, character_id, subject, duration, started_at, ended_at
		FROM study_sessions WHERE id = ?
	`, id).Scan(&s.ID, &s.CharacterID, &s.Subject, &s.Duration, &startedAt, &endedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	s.StartedAt = parseTime(startedAt)
	if endedAt.Valid {
		t := parseTime(endedAt.String)
		s.EndedAt = &t
	}
	return s, nil
}

// FinishedSessions returns a character's finalized sessions, newest first.
func (d *DB) FinishedSessions(characterID int64) ([]domain.StudySession, error) {
	rows, err := d.db.Query(`
		SELECT id, character_id, subject, duration, started_at, ended_at
		FROM study_sessions
		WHERE character_id = ? AND ended_at IS NOT NULL
		ORDER BY started_at DESC
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// Stats aggregates finalized sessions: minutes studied since dayStart and
// weekStart (bucketed by start instant, as the original does) plus the
// all-time finalized count.
func (d *DB) Stats(characterID int64, dayStart, weekStart time.Time) (*domain.StudyStats, error) {
	stats := &domain.StudyStats{}
	err := d.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN started_at >= ? THEN duration ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN started_at >= ? THEN duration ELSE 0 END), 0),
			COUNT(*)
		FROM study_sessions
		WHERE character_id = ? AND ended_at IS NOT NULL
	`, formatTime(dayStart), formatTime(weekStart), characterID).
		Scan(&stats.TodayStudyTime, &stats.WeekStudyTime, &stats.TotalSessions)
	if err != nil {
		return nil, fmt.Errorf("session stats: %w", err)
	}
	return stats, nil
}

// StaleSessions returns unfinished sessions started before cutoff. After a
// process restart these are orphans: their registry entries are gone, so no
// stop can ever finalize them.
func (d *DB) StaleSessions(cutoff time.Time) ([]domain.StudySession, error) {
	rows, err := d.db.Query(`
		SELECT id, character_id, subject, duration, started_at, ended_at
		FROM study_sessions
		WHERE ended_at IS NULL AND started_at < ?
		ORDER BY started_at
	`, formatTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("list stale sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// CloseStale finalizes an orphan with zero duration and no reward. The
// elapsed time is unknowable once the registry entry is lost, so nothing is
// credited — accepted data loss, not silently masked as a normal stop.
func (d *DB) CloseStale(id string, endedAt time.Time) error {
	_, err := d.db.Exec(`
		UPDATE study_sessions SET ended_at = ?, duration = 0
		WHERE id = ? AND ended_at IS NULL
	`, formatTime(endedAt), id)
	if err != nil {
		return fmt.Errorf("close stale session %s: %w", id, err)
	}
	return nil
}

func scanSessions(rows *sql.Rows) ([]domain.StudySession, error) {
	var out []domain.StudySession
	for rows.Next() {
		var s domain.StudySession
		var startedAt string
		var endedAt sql.NullString
		if err := rows.Scan(&s.ID, &s.CharacterID, &s.Subject, &s.Duration,
			&startedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.StartedAt = parseTime(startedAt)
		if endedAt.Valid {
			t := parseTime(endedAt.String)
			s.EndedAt = &t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
