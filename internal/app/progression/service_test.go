package progression

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/studyquest/studyquest/internal/app/shop"
	"github.com/studyquest/studyquest/internal/domain"
	"github.com/studyquest/studyquest/internal/infra/registry"
	"github.com/studyquest/studyquest/internal/infra/sqlite"
)

func setup(t *testing.T) (*Service, *shop.Service, *sqlite.DB, *registry.Registry) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.SeedEquipment(shop.DefaultCatalog()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	reg := registry.New()
	svc := NewService(db, db, db, db, reg)
	shopSvc := shop.NewService(db, db)
	return svc, shopSvc, db, reg
}

// backdate shifts a running session's registered start into the past so a
// test can stop it with a meaningful elapsed duration.
func backdate(t *testing.T, reg *registry.Registry, sessionID string, age time.Duration) {
	t.Helper()
	e, err := reg.Claim(sessionID)
	if err != nil {
		t.Fatalf("claim for backdate: %v", err)
	}
	e.StartedAt = e.StartedAt.Add(-age)
	reg.Restore(e)
}

// ─── Start Tests ────────────────────────────────────────────────────────────

func TestStart_UnknownCharacter(t *testing.T) {
	svc, _, _, _ := setup(t)

	_, err := svc.Start(99, "math")
	if !errors.Is(err, domain.ErrCharacterNotFound) {
		t.Errorf("err = %v, want ErrCharacterNotFound", err)
	}
}

func TestStart_RegistersRunningSession(t *testing.T) {
	svc, _, db, reg := setup(t)
	c, _ := db.CreateCharacter("Hiro")

	id, err := svc.Start(c.ID, "math")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	entry, err := reg.Lookup(id)
	if err != nil {
		t.Fatalf("registry lookup: %v", err)
	}
	if entry.CharacterID != c.ID {
		t.Errorf("entry character = %d, want %d", entry.CharacterID, c.ID)
	}

	sess, err := db.GetSession(id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.Finished() || sess.Duration != 0 {
		t.Errorf("stub session = %+v, want running with zero duration", sess)
	}
}

// ─── Stop Tests ─────────────────────────────────────────────────────────────

// A 65-minute session with no equipment: 650 XP, 95 coins (65 base + 30
// stacked tier bonus), level 1 → 3.
func TestStop_EndToEnd65Minutes(t *testing.T) {
	svc, _, db, reg := setup(t)
	c, _ := db.CreateCharacter("Hiro")

	id, _ := svc.Start(c.ID, "math")
	backdate(t, reg, id, 65*time.Minute)

	res, err := svc.Stop(id)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}

	if res.ExperienceGained != 650 {
		t.Errorf("experience gained = %d, want 650", res.ExperienceGained)
	}
	if res.CoinsGained != 95 {
		t.Errorf("coins gained = %d, want 95", res.CoinsGained)
	}
	if res.NewLevel != 3 || !res.LevelUp {
		t.Errorf("level result = %d (up=%v), want 3 (up=true)", res.NewLevel, res.LevelUp)
	}
	if res.TotalExperience != 650 {
		t.Errorf("total experience = %d, want 650", res.TotalExperience)
	}

	got, _ := db.GetCharacter(c.ID)
	if got.Level != 3 || got.Experience != 650 || got.Coins != 95 {
		t.Errorf("persisted character = %+v", got)
	}

	balance, _ := db.LedgerBalance(c.ID)
	if balance != got.Coins {
		t.Errorf("ledger balance %d != coins %d", balance, got.Coins)
	}
}

func TestStop_SecondStopFails(t *testing.T) {
	svc, _, db, reg := setup(t)
	c, _ := db.CreateCharacter("Hiro")

	id, _ := svc.Start(c.ID, "math")
	backdate(t, reg, id, 10*time.Minute)

	if _, err := svc.Stop(id); err != nil {
		t.Fatalf("first stop: %v", err)
	}
	before, _ := db.GetCharacter(c.ID)

	_, err := svc.Stop(id)
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("second stop = %v, want ErrSessionNotFound", err)
	}

	after, _ := db.GetCharacter(c.ID)
	if after.Experience != before.Experience || after.Coins != before.Coins {
		t.Errorf("second stop altered the character: %+v → %+v", before, after)
	}
}

func TestStop_ConcurrentStopsApplyOnce(t *testing.T) {
	svc, _, db, reg := setup(t)
	c, _ := db.CreateCharacter("Hiro")

	id, _ := svc.Start(c.ID, "math")
	backdate(t, reg, id, 30*time.Minute)

	const stoppers = 8
	var wg sync.WaitGroup
	results := make(chan *StopResult, stoppers)

	for i := 0; i < stoppers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res, err := svc.Stop(id); err == nil {
				results <- res
			}
		}()
	}
	wg.Wait()
	close(results)

	var wins int
	for range results {
		wins++
	}
	if wins != 1 {
		t.Fatalf("%d stops succeeded, want exactly 1", wins)
	}

	got, _ := db.GetCharacter(c.ID)
	balance, _ := db.LedgerBalance(c.ID)
	if balance != got.Coins {
		t.Errorf("ledger balance %d != coins %d", balance, got.Coins)
	}
	txs, _ := db.Transactions(c.ID)
	if len(txs) != 1 {
		t.Errorf("%d ledger entries, want 1", len(txs))
	}
}

// Equipped crown and book scale experience ×1.26; coins stay unscaled.
func TestStop_EquipmentBonusApplied(t *testing.T) {
	svc, shopSvc, db, reg := setup(t)
	c, _ := db.CreateCharacter("Hiro")

	// Fund the character through a study reward, then gear up.
	fund, _ := svc.Start(c.ID, "warmup")
	backdate(t, reg, fund, 620*time.Minute)
	if _, err := svc.Stop(fund); err != nil {
		t.Fatalf("funding stop: %v", err)
	}

	for _, item := range []string{"crown", "book"} {
		if _, err := shopSvc.Purchase(c.ID, item); err != nil {
			t.Fatalf("purchase %s: %v", item, err)
		}
		if err := shopSvc.Equip(c.ID, item); err != nil {
			t.Fatalf("equip %s: %v", item, err)
		}
	}

	before, _ := db.GetCharacter(c.ID)

	id, _ := svc.Start(c.ID, "math")
	backdate(t, reg, id, 10*time.Minute)
	res, err := svc.Stop(id)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}

	// 10 minutes: base 100 XP ×1.26 = 126, base 10 coins ×1.0 = 10.
	if res.ExperienceGained != 126 {
		t.Errorf("experience gained = %d, want 126", res.ExperienceGained)
	}
	if res.CoinsGained != 10 {
		t.Errorf("coins gained = %d, want 10", res.CoinsGained)
	}
	if len(res.EquipmentBonus.Effects) != 2 {
		t.Errorf("bonus effects = %v, want two", res.EquipmentBonus.Effects)
	}

	got, _ := db.GetCharacter(c.ID)
	if got.Experience != before.Experience+126 {
		t.Errorf("experience = %d, want %d", got.Experience, before.Experience+126)
	}

	balance, _ := db.LedgerBalance(c.ID)
	if balance != got.Coins {
		t.Errorf("ledger balance %d != coins %d after study+shop flow", balance, got.Coins)
	}
}

// ─── Appearance Tests ───────────────────────────────────────────────────────

func TestAppearance_FreshCharacter(t *testing.T) {
	svc, _, db, _ := setup(t)
	c, _ := db.CreateCharacter("Hiro")

	view, err := svc.Appearance(c.ID)
	if err != nil {
		t.Fatalf("appearance: %v", err)
	}

	if view.Appearance.Color != domain.BaseColor || view.Appearance.Size != "small" {
		t.Errorf("appearance = %+v", view.Appearance)
	}
	if view.NextLevelExp != 100 || view.ExpToNextLevel != 100 {
		t.Errorf("next level = %d / to-next = %d, want 100/100",
			view.NextLevelExp, view.ExpToNextLevel)
	}
	if view.EquipmentBonus.ExpMultiplier != 1.0 {
		t.Errorf("bonus = %+v, want neutral", view.EquipmentBonus)
	}
}

func TestAppearance_EquippedOverlay(t *testing.T) {
	svc, shopSvc, db, reg := setup(t)
	c, _ := db.CreateCharacter("Hiro")

	fund, _ := svc.Start(c.ID, "warmup")
	backdate(t, reg, fund, 900*time.Minute)
	if _, err := svc.Stop(fund); err != nil {
		t.Fatalf("funding stop: %v", err)
	}

	for _, item := range []string{"crown", "color_gold"} {
		if _, err := shopSvc.Purchase(c.ID, item); err != nil {
			t.Fatalf("purchase %s: %v", item, err)
		}
		if err := shopSvc.Equip(c.ID, item); err != nil {
			t.Fatalf("equip %s: %v", item, err)
		}
	}

	view, err := svc.Appearance(c.ID)
	if err != nil {
		t.Fatalf("appearance: %v", err)
	}

	if view.Appearance.Color != "#FFD700" {
		t.Errorf("color = %q, want the equipped gold skin", view.Appearance.Color)
	}
	if !contains(view.Appearance.Accessories, "crown") {
		t.Errorf("accessories %v missing equipped crown", view.Appearance.Accessories)
	}
	// Level accessories stay the pure level-derived list.
	for _, a := range view.LevelAccessories {
		if a == "color_gold" {
			t.Errorf("level accessories polluted by equipment: %v", view.LevelAccessories)
		}
	}
	if view.EquipmentBonus.ExpMultiplier != 1.20 {
		t.Errorf("bonus = %+v, want crown's ×1.20", view.EquipmentBonus)
	}
}

// ─── Sweep Tests ────────────────────────────────────────────────────────────

func TestSweep_ClosesOnlyLostSessions(t *testing.T) {
	svc, _, db, reg := setup(t)
	c, _ := db.CreateCharacter("Hiro")

	// A genuinely running old session (registry entry present).
	running, _ := svc.Start(c.ID, "deep work")
	backdate(t, reg, running, 48*time.Hour)
	// Registry holds the backdated instant but the session row holds the
	// real start; backdate the row too so both look 48h old.
	// The row's started_at predates the cutoff only for the orphan below,
	// so insert the orphan directly — simulating a pre-restart session.
	orphanID := "orphan-session"
	db.InsertSession(&domain.StudySession{
		ID:          orphanID,
		CharacterID: c.ID,
		StartedAt:   time.Now().UTC().Add(-48 * time.Hour),
	})

	closed, err := svc.Sweep(24 * time.Hour)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if closed != 1 {
		t.Fatalf("closed %d sessions, want 1", closed)
	}

	orphan, _ := db.GetSession(orphanID)
	if !orphan.Finished() || orphan.Duration != 0 {
		t.Errorf("orphan = %+v, want finalized with zero duration", orphan)
	}

	// The running session was untouched and can still be stopped.
	if _, err := reg.Lookup(running); err != nil {
		t.Errorf("running session lost from registry: %v", err)
	}
}
