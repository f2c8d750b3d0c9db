// Package progression orchestrates the study-timer lifecycle: start registers
// a running session, stop converts elapsed time plus equipment bonuses into
// experience, coins, and level, applied to the character in one atomic unit.
package progression

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/studyquest/studyquest/internal/domain"
	"github.com/studyquest/studyquest/internal/infra/observability"
	"github.com/studyquest/studyquest/internal/infra/registry"
)

// stopAttempts bounds persistence retries during stop. The reward values are
// computed once and reused verbatim on every attempt.
const stopAttempts = 3

// Service is the progression updater. The registry is an injected value, not
// a hidden global, so lifecycle and tests stay explicit.
type Service struct {
	characters domain.CharacterStore
	sessions   domain.SessionStore
	equipment  domain.EquipmentStore
	rewards    domain.RewardStore
	registry   *registry.Registry
}

// NewService wires the progression updater.
func NewService(
	characters domain.CharacterStore,
	sessions domain.SessionStore,
	equipment domain.EquipmentStore,
	rewards domain.RewardStore,
	reg *registry.Registry,
) *Service {
	return &Service{
		characters: characters,
		sessions:   sessions,
		equipment:  equipment,
		rewards:    rewards,
		registry:   reg,
	}
}

// Registry exposes the injected registry (for the API's health/debug surface).
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// ─── Start ──────────────────────────────────────────────────────────────────

// Start creates a persisted session stub and registers it as running.
// Returns the new session id.
func (s *Service) Start(characterID int64, subject string) (string, error) {
	if _, err := s.characters.GetCharacter(characterID); err != nil {
		return "", err
	}

	sessionID := uuid.NewString()
	now := time.Now().UTC()

	sess := &domain.StudySession{
		ID:          sessionID,
		CharacterID: characterID,
		Subject:     subject,
		StartedAt:   now,
	}
	if err := s.sessions.InsertSession(sess); err != nil {
		return "", err
	}
	if err := s.registry.Start(sessionID, characterID, now); err != nil {
		// Unreachable with uuid session ids, but the registry contract
		// is enforced regardless.
		return "", err
	}

	observability.SessionsStarted.Inc()
	observability.ActiveSessions.Set(float64(s.registry.Active()))
	log.Printf("[progression] session %s started for character %d", sessionID, characterID)
	return sessionID, nil
}

// ─── Stop ───────────────────────────────────────────────────────────────────

// StopResult summarizes one applied session reward.
type StopResult struct {
	DurationMinutes  float64      `json:"duration_minutes"`
	ExperienceGained int          `json:"experience_gained"`
	CoinsGained      int          `json:"coins_gained"`
	LevelUp          bool         `json:"level_up"`
	NewLevel         int          `json:"new_level"`
	TotalExperience  int          `json:"total_experience"`
	TotalCoins       int64        `json:"total_coins"`
	EquipmentBonus   domain.Bonus `json:"equipment_bonus"`
}

// Stop finalizes a running session: claims the registry entry, computes the
// bonus-scaled reward, and applies it atomically. Of two concurrent stops for
// the same session exactly one claims the entry; the loser reports
// ErrSessionNotFound and the reward is applied once.
func (s *Service) Stop(sessionID string) (*StopResult, error) {
	entry, err := s.registry.Claim(sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	duration := now.Sub(entry.StartedAt).Minutes()
	if duration < 0 {
		duration = 0
	}

	char, err := s.characters.GetCharacter(entry.CharacterID)
	if err != nil {
		s.registry.Restore(entry)
		return nil, err
	}

	equippedIDs, err := s.equipment.EquippedAccessoryIDs(entry.CharacterID)
	if err != nil {
		s.registry.Restore(entry)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	bonus := domain.ResolveBonus(equippedIDs)

	expGained := bonus.ScaleExperience(domain.ExperienceFor(duration))
	coinsGained := bonus.ScaleCoins(domain.CoinsFor(duration))

	reward := domain.StopReward{
		SessionID:   sessionID,
		CharacterID: entry.CharacterID,
		LedgerID:    uuid.NewString(),
		EndedAt:     now,
		Duration:    duration,
		Experience:  expGained,
		Coins:       coinsGained,
	}

	// Once computation starts the stop runs to completion: the same reward
	// values are retried on persistence failure, and the registry entry is
	// only dropped for good after the store confirms the update.
	if err := s.applyWithRetry(reward); err != nil {
		s.registry.Restore(entry)
		log.Printf("[progression] session %s stop failed, entry restored: %v", sessionID, err)
		return nil, err
	}

	newLevel := domain.LevelFor(char.Experience + expGained)

	observability.SessionsStopped.Inc()
	observability.ActiveSessions.Set(float64(s.registry.Active()))
	observability.StudyMinutes.Add(duration)
	observability.ExperienceGranted.Add(float64(expGained))
	observability.CoinsGranted.Add(float64(coinsGained))
	if newLevel > char.Level {
		observability.LevelUps.Inc()
	}

	log.Printf("[progression] session %s stopped: %.1f min, +%d xp, +%d coins",
		sessionID, duration, expGained, coinsGained)

	return &StopResult{
		DurationMinutes:  duration,
		ExperienceGained: expGained,
		CoinsGained:      coinsGained,
		LevelUp:          newLevel > char.Level,
		NewLevel:         newLevel,
		TotalExperience:  char.Experience + expGained,
		TotalCoins:       char.Coins + int64(coinsGained),
		EquipmentBonus:   bonus,
	}, nil
}

func (s *Service) applyWithRetry(reward domain.StopReward) error {
	var err error
	for attempt := 0; attempt < stopAttempts; attempt++ {
		if attempt > 0 {
			observability.StopRetries.Inc()
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
		err = s.rewards.ApplyStopReward(reward)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrCharacterNotFound) {
			return err // not retryable
		}
		log.Printf("[progression] stop attempt %d for session %s failed: %v",
			attempt+1, reward.SessionID, err)
	}
	return err
}

// ─── Appearance ─────────────────────────────────────────────────────────────

// AppearanceView is the full look of a character: the level-derived base with
// the equipped-item overlay, plus level progress and the active bonus.
type AppearanceView struct {
	Character        *domain.Character `json:"character"`
	Appearance       domain.Appearance `json:"appearance"`
	LevelAccessories []string          `json:"level_accessories"`
	NextLevelExp     int               `json:"next_level_exp"`
	ExpToNextLevel   int               `json:"exp_to_next_level"`
	EquipmentBonus   domain.Bonus      `json:"equipment_bonus"`
}

// Appearance returns the character's current look. An equipped color skin
// overrides the level color; equipped accessories extend the level set.
func (s *Service) Appearance(characterID int64) (*AppearanceView, error) {
	char, err := s.characters.GetCharacter(characterID)
	if err != nil {
		return nil, err
	}

	look := domain.AppearanceFor(char.Level)
	levelAccessories := make([]string, len(look.Accessories))
	copy(levelAccessories, look.Accessories)

	owned, err := s.equipment.OwnedEquipment(characterID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	var accessoryIDs []string
	colorEquipped := false
	for _, o := range owned {
		if !o.IsEquipped {
			continue
		}
		switch o.Category {
		case domain.CategoryColor:
			colorEquipped = true
		case domain.CategoryAccessory:
			accessoryIDs = append(accessoryIDs, o.ID)
			if !contains(look.Accessories, o.ID) {
				look.Accessories = append(look.Accessories, o.ID)
			}
		}
	}
	if colorEquipped {
		look.Color = char.CurrentColor
	}

	threshold := domain.NextLevelThreshold(char.Level)
	return &AppearanceView{
		Character:        char,
		Appearance:       look,
		LevelAccessories: levelAccessories,
		NextLevelExp:     threshold,
		ExpToNextLevel:   threshold - char.Experience,
		EquipmentBonus:   domain.ResolveBonus(accessoryIDs),
	}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ─── Stats & Sessions ───────────────────────────────────────────────────────

// StatsView pairs a character with its study-time aggregates.
type StatsView struct {
	Character      *domain.Character `json:"character"`
	TodayStudyTime float64           `json:"today_study_time"`
	WeekStudyTime  float64           `json:"week_study_time"`
	TotalSessions  int               `json:"total_sessions"`
}

// Stats aggregates finalized sessions: today since local midnight, this week
// since Monday.
func (s *Service) Stats(characterID int64) (*StatsView, error) {
	char, err := s.characters.GetCharacter(characterID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -((int(dayStart.Weekday()) + 6) % 7)) // back to Monday

	stats, err := s.sessions.Stats(characterID, dayStart, weekStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	return &StatsView{
		Character:      char,
		TodayStudyTime: stats.TodayStudyTime,
		WeekStudyTime:  stats.WeekStudyTime,
		TotalSessions:  stats.TotalSessions,
	}, nil
}

// Sessions returns a character's finalized sessions, newest first.
func (s *Service) Sessions(characterID int64) ([]domain.StudySession, error) {
	if _, err := s.characters.GetCharacter(characterID); err != nil {
		return nil, err
	}
	return s.sessions.FinishedSessions(characterID)
}

// ─── Orphan Sweep ───────────────────────────────────────────────────────────

// Sweep closes unfinished sessions older than maxAge whose registry entries
// were lost to a restart. Sessions still present in the registry are genuine
// running timers and are left alone. Returns the number of sessions closed.
func (s *Service) Sweep(maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	stale, err := s.sessions.StaleSessions(cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	closed := 0
	now := time.Now().UTC()
	for _, sess := range stale {
		if _, err := s.registry.Lookup(sess.ID); err == nil {
			continue // still running for real
		}
		if err := s.sessions.CloseStale(sess.ID, now); err != nil {
			return closed, err
		}
		closed++
		log.Printf("[progression] closed orphaned session %s (started %s)",
			sess.ID, sess.StartedAt.Format(time.RFC3339))
	}
	return closed, nil
}
