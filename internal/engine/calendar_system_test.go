package engine

import (
	"math/rand"
	"testing"

	"github.com/niletry/beijing-fushengji-server/internal/domain/goods"
	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/domain/street"
)

func newCalendar() *CalendarSystem {
	el, log := testRig()
	market := NewMarketSystem(goods.MustIndex(), el, log)
	fortune := NewFortuneSystem(street.Catalog, market, el, log)
	return NewCalendarSystem(market, fortune, el, log)
}

func TestAdvanceDayIncrementsAndRerolls(t *testing.T) {
	cs := newCalendar()
	st := testState()
	rng := rand.New(rand.NewSource(21))

	st.ActiveEvents = append(st.ActiveEvents, session.MarketShock{Message: "昨天的消息"})

	res := cs.AdvanceDay(st, rng)
	if !res.OK {
		t.Fatalf("AdvanceDay failed: %+v", res)
	}
	if st.CurrentDay != 2 {
		t.Errorf("Expected day 2, got %d", st.CurrentDay)
	}

	// Yesterday's shock list must be gone; only shocks fired today (if a
	// market event triggered) may remain.
	for _, ev := range st.ActiveEvents {
		if ev.Message == "昨天的消息" {
			t.Error("Stale market shock survived the day transition")
		}
	}

	priced := 0
	for _, p := range st.Prices {
		if p > 0 {
			priced++
		}
	}
	if priced == 0 {
		t.Error("Expected a fresh price board after the day transition")
	}
}

func TestFullCalendarEndsWithTimeUp(t *testing.T) {
	cs := newCalendar()
	st := testState()
	st.Bank = 1000000000 // keeps cash losses irrelevant and exercises interest
	rng := rand.New(rand.NewSource(8))

	for day := 1; day <= st.TotalDays; day++ {
		if cs.IsGameOver(st) {
			t.Fatalf("Unexpected game over on day %d", st.CurrentDay)
		}
		// Pin health so accumulated street misfortunes cannot end the run
		// early; this test is about the calendar, not survival.
		st.Health = 100
		cs.AdvanceDay(st, rng)
	}

	if st.CurrentDay != st.TotalDays+1 {
		t.Errorf("Expected day %d after the final advance, got %d", st.TotalDays+1, st.CurrentDay)
	}
	if !cs.IsGameOver(st) {
		t.Error("Expected game over after the final day")
	}
	if cs.GameOverReason(st) != session.ReasonTimeUp {
		t.Errorf("Expected TIME_UP, got %s", cs.GameOverReason(st))
	}
}

func TestAdvanceDayAccruesInterest(t *testing.T) {
	cs := newCalendar()
	st := testState()
	st.Bank = 5000
	rng := rand.New(rand.NewSource(2))

	res := cs.AdvanceDay(st, rng)

	if st.Bank < 5050 {
		t.Errorf("Expected 1%% interest on 5000, bank=%d", st.Bank)
	}
	found := false
	for _, eff := range res.Effects {
		if eff.Kind == EffectBankInterest && eff.Magnitude == 50 {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a 50 yuan interest effect, got %+v", res.Effects)
	}
}

func TestAdvanceDayRegeneratesHealth(t *testing.T) {
	cs := newCalendar()
	st := testState()
	st.Health = 50
	rng := rand.New(rand.NewSource(3))

	cs.AdvanceDay(st, rng)

	// Regen adds 2; a street event that day may shift it further, but the
	// result stays within [0, 100].
	if st.Health < 0 || st.Health > 100 {
		t.Errorf("Health out of bounds after day transition: %d", st.Health)
	}

	// Dead players do not regenerate.
	st.Health = 0
	res := cs.AdvanceDay(st, rng)
	for _, eff := range res.Effects {
		if eff.Kind == EffectHealthRegen {
			t.Errorf("Expected no regen effect at 0 health, got %+v", eff)
		}
	}
}

func TestGameOverHealthPriority(t *testing.T) {
	cs := newCalendar()
	st := testState()
	st.CurrentDay = st.TotalDays + 1
	st.Health = 0

	if cs.GameOverReason(st) != session.ReasonHealthDepleted {
		t.Errorf("Health depletion must take priority, got %s", cs.GameOverReason(st))
	}
}
