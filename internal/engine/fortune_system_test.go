package engine

import (
	"math/rand"
	"testing"

	"github.com/niletry/beijing-fushengji-server/internal/domain/goods"
	"github.com/niletry/beijing-fushengji-server/internal/domain/street"
)

func newFortune(catalog []street.Event) *FortuneSystem {
	el, log := testRig()
	market := NewMarketSystem(goods.MustIndex(), el, log)
	return NewFortuneSystem(catalog, market, el, log)
}

func TestPickRespectsWeights(t *testing.T) {
	catalog := []street.Event{
		{Kind: street.KindGood, Message: "rare", MoneyChange: 1, Frequency: 1},
		{Kind: street.KindGood, Message: "common", MoneyChange: 1, Frequency: 99},
	}
	fs := newFortune(catalog)
	rng := rand.New(rand.NewSource(77))

	rare := 0
	const trials = 10000
	for i := 0; i < trials; i++ {
		if fs.Pick(rng).Message == "rare" {
			rare++
		}
	}

	// Expected ~1% of 10000 = 100. A generous band avoids flakiness while
	// still catching inverted or uniform selection.
	if rare < 40 || rare > 200 {
		t.Errorf("Expected roughly 100 rare draws out of %d, got %d", trials, rare)
	}
}

func TestPickDeterministicUnderSeed(t *testing.T) {
	fs := newFortune(street.Catalog)

	rng1 := rand.New(rand.NewSource(31337))
	rng2 := rand.New(rand.NewSource(31337))
	for i := 0; i < 100; i++ {
		a := fs.Pick(rng1)
		b := fs.Pick(rng2)
		if a.Message != b.Message {
			t.Fatalf("Draw %d diverged under the same seed: %q vs %q", i, a.Message, b.Message)
		}
	}
}

func TestApplyMoneyGain(t *testing.T) {
	fs := newFortune(street.Catalog)
	st := testState()

	ev := street.Event{Kind: street.KindGood, Message: "捡到钱包!", MoneyChange: 200, Frequency: 1}
	effects := fs.Apply(st, ev)

	if st.Cash != 2200 {
		t.Errorf("Expected cash 2200, got %d", st.Cash)
	}
	if len(effects) != 1 || effects[0].Kind != EffectMoneyGain || effects[0].Magnitude != 200 {
		t.Errorf("Unexpected effects: %+v", effects)
	}
}

func TestApplyMoneyLossClampedAtCash(t *testing.T) {
	fs := newFortune(street.Catalog)
	st := testState()
	st.Cash = 100

	ev := street.Event{Kind: street.KindBad, Message: "被抢了!", MoneyChange: -500, Frequency: 1}
	effects := fs.Apply(st, ev)

	if st.Cash != 0 {
		t.Errorf("Cash must not go negative, got %d", st.Cash)
	}
	if len(effects) != 1 || effects[0].Magnitude != 100 {
		t.Errorf("Expected loss clamped to 100, got %+v", effects)
	}
}

func TestApplyHealthClamped(t *testing.T) {
	fs := newFortune(street.Catalog)
	st := testState()
	st.Health = 5

	ev := street.Event{Kind: street.KindBad, Message: "被打了!", HealthChange: -20, Frequency: 1}
	fs.Apply(st, ev)

	if st.Health != 0 {
		t.Errorf("Expected health clamped to 0, got %d", st.Health)
	}

	st.Health = 98
	ev = street.Event{Kind: street.KindGood, Message: "心情大好!", HealthChange: 10, Frequency: 1}
	fs.Apply(st, ev)
	if st.Health != 100 {
		t.Errorf("Expected health clamped to 100, got %d", st.Health)
	}
}

func TestApplyMarketEventShocksPrice(t *testing.T) {
	fs := newFortune(street.Catalog)
	st := testState()
	st.Prices[goods.ID(2)] = 30

	ev := street.Event{
		Kind:            street.KindMarket,
		Message:         "盗版VCD涨价了!",
		GoodID:          2,
		PriceMultiplier: 7,
		Frequency:       1,
	}
	effects := fs.Apply(st, ev)

	if st.Prices[goods.ID(2)] != 210 {
		t.Errorf("Expected shocked price 210, got %d", st.Prices[goods.ID(2)])
	}
	if len(effects) != 1 || effects[0].Kind != EffectMarketShock {
		t.Errorf("Expected a market shock effect, got %+v", effects)
	}
}

func TestMaybeTriggerRate(t *testing.T) {
	catalog := []street.Event{
		{Kind: street.KindGood, Message: "ev", MoneyChange: 1, Frequency: 1},
	}
	fs := newFortune(catalog)
	rng := rand.New(rand.NewSource(55))

	fired := 0
	const trials = 10000
	for i := 0; i < trials; i++ {
		st := testState()
		if effects := fs.MaybeTrigger(st, rng); effects != nil {
			fired++
		}
	}

	// Daily chance is 40%. Allow a wide band around 4000.
	if fired < 3500 || fired > 4500 {
		t.Errorf("Expected roughly 4000 triggers out of %d, got %d", trials, fired)
	}
}

func TestCatalogValidates(t *testing.T) {
	if err := street.Validate(street.Catalog); err != nil {
		t.Fatalf("Shipped catalog failed validation: %v", err)
	}
	if street.TotalFrequency(street.Catalog) <= 0 {
		t.Fatal("Catalog total frequency must be positive")
	}
}
