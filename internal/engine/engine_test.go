package engine

import (
	"math/rand"
	"testing"

	"github.com/niletry/beijing-fushengji-server/internal/domain/city"
	"github.com/niletry/beijing-fushengji-server/internal/domain/goods"
	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/domain/street"
	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
)

// Shared fixtures for the engine package tests.

func testState() *session.State {
	preset := session.Preset{Label: "经典", InitialCash: 2000, TotalDays: 40}
	return session.New("S_TEST", "测试玩家", preset, "tianqiao", goods.MustIndex().IDs())
}

func testRig() (*events.EventLog, *logger.Logger) {
	return events.NewEventLog(nil), logger.NewLogger()
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	el, log := testRig()
	eng, err := NewEngine(goods.MustIndex(), city.MustIndex(), street.Catalog, street.Tips, nil, el, log)
	if err != nil {
		t.Fatalf("Failed to build engine: %v", err)
	}
	return eng
}

func TestStartSession(t *testing.T) {
	eng := testEngine(t)

	st, err := eng.StartSession("小王", "经典", 42)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if st.Cash != 2000 {
		t.Errorf("Expected classic difficulty cash 2000, got %d", st.Cash)
	}
	if st.CurrentLocation != "tianqiao" {
		t.Errorf("Expected starting location tianqiao, got %s", st.CurrentLocation)
	}

	// The first price board must already be rolled.
	priced := 0
	for _, p := range st.Prices {
		if p > 0 {
			priced++
		}
	}
	if priced == 0 {
		t.Error("Expected at least one priced good after session start")
	}
}

func TestStartSessionRejectsUnknownDifficulty(t *testing.T) {
	eng := testEngine(t)
	if _, err := eng.StartSession("小王", "不存在的难度", 1); err == nil {
		t.Error("Expected unknown difficulty to be rejected")
	}
	if _, err := eng.StartSession("", "经典", 1); err == nil {
		t.Error("Expected empty player name to be rejected")
	}
}

func TestOperationsOnUnknownSession(t *testing.T) {
	eng := testEngine(t)
	if _, err := eng.NextDay("no-such-session"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestFinishedSessionRejectsActions(t *testing.T) {
	eng := testEngine(t)
	st, err := eng.StartSession("小王", "经典", 7)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	// Burn through the whole calendar.
	for i := 0; i < 40; i++ {
		if _, err := eng.NextDay(st.ID); err != nil {
			t.Fatalf("NextDay %d failed: %v", i, err)
		}
	}

	snap, _ := eng.Snapshot(st.ID)
	if !snap.IsOver() {
		t.Fatalf("Expected game over after %d day advances, day=%d", 40, snap.CurrentDay)
	}

	res, err := eng.NextDay(st.ID)
	if err != nil {
		t.Fatalf("NextDay on finished session errored: %v", err)
	}
	if res.OK || res.Kind != FailGameOver {
		t.Errorf("Expected GAME_OVER rejection, got %+v", res)
	}
}

func TestBankDepositAndWithdraw(t *testing.T) {
	eng := testEngine(t)
	st, _ := eng.StartSession("小王", "经典", 3)

	res, err := eng.Deposit(st.ID, 1500)
	if err != nil || !res.OK {
		t.Fatalf("Deposit failed: err=%v res=%+v", err, res)
	}

	snap, _ := eng.Snapshot(st.ID)
	if snap.Cash != 500 || snap.Bank != 1500 {
		t.Errorf("Expected cash=500 bank=1500, got cash=%d bank=%d", snap.Cash, snap.Bank)
	}

	res, _ = eng.Withdraw(st.ID, 2000)
	if res.OK || res.Kind != FailInsufficientBank {
		t.Errorf("Expected over-withdrawal to fail with INSUFFICIENT_BANK, got %+v", res)
	}

	res, _ = eng.Withdraw(st.ID, 1500)
	if !res.OK {
		t.Fatalf("Withdraw failed: %+v", res)
	}
	snap, _ = eng.Snapshot(st.ID)
	if snap.Cash != 2000 || snap.Bank != 0 {
		t.Errorf("Expected money back in cash, got cash=%d bank=%d", snap.Cash, snap.Bank)
	}
}

func TestHospitalHeal(t *testing.T) {
	el, log := testRig()
	hs := NewHospitalSystem(el, log)
	st := testState()

	res := hs.Heal(st)
	if res.OK || res.Kind != FailAlreadyHealthy {
		t.Errorf("Expected heal at full health to fail, got %+v", res)
	}

	st.Health = 40
	res = hs.Heal(st)
	if !res.OK {
		t.Fatalf("Heal failed: %+v", res)
	}
	if res.Amount != 600 {
		t.Errorf("Expected heal cost 600 for 60 missing points, got %d", res.Amount)
	}
	if st.Health != 100 {
		t.Errorf("Expected full health after treatment, got %d", st.Health)
	}
	if st.Cash != 1400 {
		t.Errorf("Expected cash 1400 after paying, got %d", st.Cash)
	}
}

func TestHospitalHealInsufficientCash(t *testing.T) {
	el, log := testRig()
	hs := NewHospitalSystem(el, log)
	st := testState()
	st.Health = 10
	st.Cash = 100 // treatment costs 900

	res := hs.Heal(st)
	if res.OK || res.Kind != FailInsufficientCash {
		t.Errorf("Expected INSUFFICIENT_CASH, got %+v", res)
	}
	if st.Health != 10 || st.Cash != 100 {
		t.Error("A failed heal must not change state")
	}
}

func TestRentalUpgradeLadder(t *testing.T) {
	el, log := testRig()
	rs := NewRentalSystem(el, log)
	st := testState()
	st.Cash = 20000

	wantCapacity := []int{120, 170, 270, 470}
	for i, want := range wantCapacity {
		res := rs.Upgrade(st)
		if !res.OK {
			t.Fatalf("Upgrade %d failed: %+v", i, res)
		}
		if st.Capacity != want {
			t.Errorf("After upgrade %d expected capacity %d, got %d", i, want, st.Capacity)
		}
	}

	res := rs.Upgrade(st)
	if res.OK || res.Kind != FailMaxRentalLevel {
		t.Errorf("Expected top tier to be final, got %+v", res)
	}
}

func TestBuyTip(t *testing.T) {
	el, log := testRig()
	as := NewAdviceSystem(street.Tips, el, log)
	st := testState()
	rng := rand.New(rand.NewSource(1))

	tip, res := as.BuyTip(st, rng)
	if !res.OK {
		t.Fatalf("BuyTip failed: %+v", res)
	}
	if tip.Text == "" {
		t.Error("Expected a non-empty tip")
	}
	if st.Cash != 1950 {
		t.Errorf("Expected tip to cost 50, cash=%d", st.Cash)
	}

	st.Cash = 10
	if _, res := as.BuyTip(st, rng); res.OK || res.Kind != FailInsufficientCash {
		t.Errorf("Expected INSUFFICIENT_CASH, got %+v", res)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	eng := testEngine(t)
	st, _ := eng.StartSession("小王", "经典", 11)

	snap, err := eng.Snapshot(st.ID)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	snap.Cash = -999

	fresh, _ := eng.Snapshot(st.ID)
	if fresh.Cash != 2000 {
		t.Errorf("Mutating a snapshot leaked into the live session: cash=%d", fresh.Cash)
	}
}
