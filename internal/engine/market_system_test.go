package engine

import (
	"math/rand"
	"testing"

	"github.com/niletry/beijing-fushengji-server/internal/domain/goods"
	"github.com/niletry/beijing-fushengji-server/internal/domain/street"
)

func TestRollPricesHidesThreeGoods(t *testing.T) {
	el, log := testRig()
	ms := NewMarketSystem(goods.MustIndex(), el, log)
	st := testState()
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 20; trial++ {
		ms.RollPrices(st, rng)

		hidden := 0
		for id, price := range st.Prices {
			if price == 0 {
				hidden++
				continue
			}
			g, _ := goods.MustIndex().Get(id)
			if price < g.BasePrice || price >= g.BasePrice+g.PriceRange {
				t.Errorf("Price %d for good %d outside [%d, %d)", price, id, g.BasePrice, g.BasePrice+g.PriceRange)
			}
		}
		if hidden != 3 {
			t.Errorf("Trial %d: expected exactly 3 hidden goods, got %d", trial, hidden)
		}
	}
}

func TestRollPricesFullMarketInFinalDays(t *testing.T) {
	el, log := testRig()
	ms := NewMarketSystem(goods.MustIndex(), el, log)
	st := testState()
	st.CurrentDay = st.TotalDays - 1 // 2 days left
	rng := rand.New(rand.NewSource(5))

	ms.RollPrices(st, rng)

	for id, price := range st.Prices {
		if price == 0 {
			t.Errorf("Good %d hidden in the final stretch; the full market should be open", id)
		}
	}
}

func TestApplyShockMultipliesPrice(t *testing.T) {
	el, log := testRig()
	ms := NewMarketSystem(goods.MustIndex(), el, log)
	st := testState()
	st.Prices[goods.ID(2)] = 40

	ev := street.Event{
		Kind:            street.KindMarket,
		Message:         "市场消息!",
		GoodID:          2,
		PriceMultiplier: 3.5,
	}
	eff, ok := ms.ApplyShock(st, ev)
	if !ok {
		t.Fatal("Expected shock to apply to a priced good")
	}

	if st.Prices[goods.ID(2)] != 140 {
		t.Errorf("Expected price floor(40*3.5)=140, got %d", st.Prices[goods.ID(2)])
	}
	if eff.Before != 40 || eff.After != 140 {
		t.Errorf("Effect before/after wrong: %+v", eff)
	}
	if len(st.ActiveEvents) != 1 || st.ActiveEvents[0].NewPrice != 140 {
		t.Errorf("Shock not recorded in active events: %+v", st.ActiveEvents)
	}
}

func TestApplyShockFloorsDownward(t *testing.T) {
	el, log := testRig()
	ms := NewMarketSystem(goods.MustIndex(), el, log)
	st := testState()
	st.Prices[goods.ID(0)] = 333

	ev := street.Event{Kind: street.KindMarket, GoodID: 0, PriceMultiplier: 0.1}
	if _, ok := ms.ApplyShock(st, ev); !ok {
		t.Fatal("Expected crash shock to apply")
	}
	if st.Prices[goods.ID(0)] != 33 {
		t.Errorf("Expected price floor(333*0.1)=33, got %d", st.Prices[goods.ID(0)])
	}
}

func TestApplyShockSkipsHiddenGood(t *testing.T) {
	el, log := testRig()
	ms := NewMarketSystem(goods.MustIndex(), el, log)
	st := testState()
	st.Prices[goods.ID(4)] = 0

	ev := street.Event{Kind: street.KindMarket, GoodID: 4, PriceMultiplier: 8}
	if _, ok := ms.ApplyShock(st, ev); ok {
		t.Error("A hidden good must not receive a shock")
	}
	if st.Prices[goods.ID(4)] != 0 {
		t.Errorf("Hidden price must stay 0, got %d", st.Prices[goods.ID(4)])
	}
	if len(st.ActiveEvents) != 0 {
		t.Errorf("No active event should be recorded for a skipped shock: %+v", st.ActiveEvents)
	}
}

func TestRollPricesDeterministicUnderSeed(t *testing.T) {
	el, log := testRig()
	ms := NewMarketSystem(goods.MustIndex(), el, log)

	st1 := testState()
	st2 := testState()
	ms.RollPrices(st1, rand.New(rand.NewSource(1234)))
	ms.RollPrices(st2, rand.New(rand.NewSource(1234)))

	for id, p := range st1.Prices {
		if st2.Prices[id] != p {
			t.Errorf("Same seed produced different price for good %d: %d vs %d", id, p, st2.Prices[id])
		}
	}
}
