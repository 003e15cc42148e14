package engine

import (
	"math/rand"
	"testing"

	"github.com/niletry/beijing-fushengji-server/internal/domain/city"
	"github.com/niletry/beijing-fushengji-server/internal/domain/goods"
)

func newTravel() *TravelSystem {
	el, log := testRig()
	market := NewMarketSystem(goods.MustIndex(), el, log)
	return NewTravelSystem(city.MustIndex(), market, el, log)
}

func TestTravelMovesAndCharges(t *testing.T) {
	tv := newTravel()
	st := testState()
	rng := rand.New(rand.NewSource(17))

	res := tv.Travel(st, rng, "zhongguancun")
	if !res.OK {
		t.Fatalf("Travel failed: %+v", res)
	}
	if st.CurrentLocation != "zhongguancun" {
		t.Errorf("Expected location zhongguancun, got %s", st.CurrentLocation)
	}
	if st.Cash != 1990 {
		t.Errorf("Expected travel fee of 10, cash=%d", st.Cash)
	}

	// Arrival rolls a fresh price board.
	priced := 0
	for _, p := range st.Prices {
		if p > 0 {
			priced++
		}
	}
	if priced == 0 {
		t.Error("Expected prices after arrival")
	}
}

func TestTravelRejectsSameLocation(t *testing.T) {
	tv := newTravel()
	st := testState()
	rng := rand.New(rand.NewSource(1))

	res := tv.Travel(st, rng, st.CurrentLocation)
	if res.OK || res.Kind != FailSameLocation {
		t.Errorf("Expected SAME_LOCATION, got %+v", res)
	}
	if st.Cash != 2000 {
		t.Error("A failed travel must not charge the fee")
	}
}

func TestTravelRejectsUnknownLocation(t *testing.T) {
	tv := newTravel()
	st := testState()
	rng := rand.New(rand.NewSource(1))

	res := tv.Travel(st, rng, "atlantis")
	if res.OK || res.Kind != FailUnknownLocation {
		t.Errorf("Expected UNKNOWN_LOCATION, got %+v", res)
	}
}

func TestTravelRejectsWhenBroke(t *testing.T) {
	tv := newTravel()
	st := testState()
	st.Cash = 9
	rng := rand.New(rand.NewSource(1))

	res := tv.Travel(st, rng, "houhai")
	if res.OK || res.Kind != FailInsufficientFunds {
		t.Errorf("Expected INSUFFICIENT_FUNDS, got %+v", res)
	}
	if st.CurrentLocation != "tianqiao" {
		t.Error("A failed travel must not move the player")
	}
}
