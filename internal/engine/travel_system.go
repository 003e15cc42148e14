// Package engine - travel_system.go
// Moving between city locations. Arrival always re-rolls prices,
// independent of day advancement.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/niletry/beijing-fushengji-server/internal/domain/city"
	"github.com/niletry/beijing-fushengji-server/internal/domain/rules"
	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
)

// TravelPayload records a completed move for the journal.
type TravelPayload struct {
	From city.LocationID `json:"from"`
	To   city.LocationID `json:"to"`
	Cost int             `json:"cost"`
}

// TravelSystem moves the player across the city.
type TravelSystem struct {
	locations *city.Index
	market    *MarketSystem
	eventLog  *events.EventLog
	logger    *logger.Logger
}

// NewTravelSystem creates the travel system.
func NewTravelSystem(locations *city.Index, market *MarketSystem, el *events.EventLog, log *logger.Logger) *TravelSystem {
	return &TravelSystem{
		locations: locations,
		market:    market,
		eventLog:  el,
		logger:    log,
	}
}

// Travel moves to another location for a fixed fee and re-rolls the board.
func (tv *TravelSystem) Travel(st *session.State, rng *rand.Rand, dest city.LocationID) Result {
	loc, ok := tv.locations.Get(dest)
	if !ok {
		return failure(FailUnknownLocation, "没有这个地方!")
	}
	if st.CurrentLocation == dest {
		return failure(FailSameLocation, "已经在这个位置了!")
	}
	if st.Cash < rules.TravelCost {
		return failure(FailInsufficientFunds, fmt.Sprintf("旅费不足! 需要 ¥%d", rules.TravelCost))
	}

	from := st.CurrentLocation
	st.Cash -= rules.TravelCost
	st.CurrentLocation = dest
	tv.market.RollPrices(st, rng)

	tv.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeTravel,
		SessionID: st.ID,
		GameDay:   st.CurrentDay,
		Payload:   TravelPayload{From: from, To: dest, Cost: rules.TravelCost},
	})
	tv.logger.Event("TRAVEL", st.ID, string(from)+" -> "+string(loc.ID))

	return success(rules.TravelCost)
}
