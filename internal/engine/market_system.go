// Package engine - market_system.go
// Price generation and market shock application.
//
// Prices have no memory: arriving at a location or starting a new day
// re-rolls the whole board independently of yesterday's values.
package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/niletry/beijing-fushengji-server/internal/domain/goods"
	"github.com/niletry/beijing-fushengji-server/internal/domain/rules"
	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/domain/street"
	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
)

// MarketShockPayload records a price shock for the journal.
type MarketShockPayload struct {
	GoodID     goods.ID `json:"good_id"`
	Multiplier float64  `json:"multiplier"`
	OldPrice   int      `json:"old_price"`
	NewPrice   int      `json:"new_price"`
	Message    string   `json:"message"`
}

// MarketSystem rolls location prices and applies catalog price shocks.
type MarketSystem struct {
	catalog  *goods.Index
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewMarketSystem creates the pricing system.
func NewMarketSystem(catalog *goods.Index, el *events.EventLog, log *logger.Logger) *MarketSystem {
	return &MarketSystem{
		catalog:  catalog,
		eventLog: el,
		logger:   log,
	}
}

// RollPrices regenerates st.Prices in place for the current location and
// day. Exactly leaveout goods (3, or 0 in the final two days) are hidden
// with price 0, chosen uniformly without replacement; every other good
// gets basePrice + rng draw over its range.
func (ms *MarketSystem) RollPrices(st *session.State, rng *rand.Rand) {
	ids := ms.catalog.IDs()
	leaveout := rules.LeaveoutCount(st.DaysLeft())
	if leaveout > len(ids) {
		leaveout = len(ids)
	}

	hidden := make(map[goods.ID]bool, leaveout)
	for _, i := range rng.Perm(len(ids))[:leaveout] {
		hidden[ids[i]] = true
	}

	for _, id := range ids {
		if hidden[id] {
			st.Prices[id] = 0
			continue
		}
		g, _ := ms.catalog.Get(id)
		st.Prices[id] = g.BasePrice + rng.Intn(g.PriceRange)
	}
}

// ApplyShock applies a market event to the current board. Hidden goods
// (price 0) are unaffected. On success the shock is appended to
// st.ActiveEvents for same-day display and journaled.
func (ms *MarketSystem) ApplyShock(st *session.State, ev street.Event) (Effect, bool) {
	current := st.Prices[ev.GoodID]
	if current <= 0 {
		return Effect{}, false
	}

	newPrice := int(math.Floor(float64(current) * ev.PriceMultiplier))
	st.Prices[ev.GoodID] = newPrice
	st.ActiveEvents = append(st.ActiveEvents, session.MarketShock{
		Message:    ev.Message,
		GoodID:     ev.GoodID,
		Multiplier: ev.PriceMultiplier,
		OldPrice:   current,
		NewPrice:   newPrice,
	})

	ms.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeMarketShock,
		SessionID: st.ID,
		GameDay:   st.CurrentDay,
		Payload: MarketShockPayload{
			GoodID:     ev.GoodID,
			Multiplier: ev.PriceMultiplier,
			OldPrice:   current,
			NewPrice:   newPrice,
			Message:    ev.Message,
		},
	})
	ms.logger.Event("MARKET_SHOCK", st.ID, ev.Message)

	return Effect{
		Kind:      EffectMarketShock,
		Message:   ev.Message,
		GoodID:    ev.GoodID,
		Magnitude: newPrice - current,
		Before:    current,
		After:     newPrice,
	}, true
}
