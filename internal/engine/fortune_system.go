// Package engine - fortune_system.go
// Weighted random street events: windfalls, misfortunes, market news.
//
// Selection is the standard cumulative-weight walk over the catalog in
// table order, which keeps draws reproducible under a seeded rng.
package engine

import (
	"math/rand"
	"time"

	"github.com/niletry/beijing-fushengji-server/internal/domain/rules"
	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/domain/street"
	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
	"github.com/niletry/beijing-fushengji-server/internal/platform/metrics"
)

// StreetEventPayload records a fired street event for the journal.
type StreetEventPayload struct {
	Kind         street.Kind `json:"kind"`
	Message      string      `json:"message"`
	MoneyChange  int         `json:"money_change,omitempty"`
	HealthChange int         `json:"health_change,omitempty"`
}

// FortuneSystem draws and applies random street events.
type FortuneSystem struct {
	catalog  []street.Event
	total    int
	market   *MarketSystem
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewFortuneSystem creates the street event system.
func NewFortuneSystem(catalog []street.Event, market *MarketSystem, el *events.EventLog, log *logger.Logger) *FortuneSystem {
	return &FortuneSystem{
		catalog:  catalog,
		total:    street.TotalFrequency(catalog),
		market:   market,
		eventLog: el,
		logger:   log,
	}
}

// Pick draws one event by weight: r uniform in [0, totalFrequency), then
// walk the catalog subtracting each weight until the remainder drops to
// zero or below.
func (fs *FortuneSystem) Pick(rng *rand.Rand) street.Event {
	r := rng.Float64() * float64(fs.total)
	for _, ev := range fs.catalog {
		r -= float64(ev.Frequency)
		if r <= 0 {
			return ev
		}
	}
	// Unreachable for a validated catalog; the last entry absorbs any
	// floating point residue.
	return fs.catalog[len(fs.catalog)-1]
}

// Apply mutates the session with an event's effects. The money, health,
// and market effects are processed independently when present. Negative
// money is clamped so cash never goes below zero; health is clamped to
// [0, 100]; market shocks skip hidden goods.
func (fs *FortuneSystem) Apply(st *session.State, ev street.Event) []Effect {
	var effects []Effect

	if ev.MoneyChange != 0 {
		before := st.Cash
		if ev.MoneyChange > 0 {
			st.Cash += ev.MoneyChange
			effects = append(effects, Effect{
				Kind:      EffectMoneyGain,
				Message:   ev.Message,
				Magnitude: ev.MoneyChange,
				Before:    before,
				After:     st.Cash,
			})
		} else {
			loss := -ev.MoneyChange
			if loss > st.Cash {
				loss = st.Cash
			}
			st.Cash -= loss
			effects = append(effects, Effect{
				Kind:      EffectMoneyLoss,
				Message:   ev.Message,
				Magnitude: loss,
				Before:    before,
				After:     st.Cash,
			})
		}
	}

	if ev.HealthChange != 0 {
		before := st.Health
		st.Health = rules.Clamp(st.Health+ev.HealthChange, 0, rules.MaxHealth)
		effects = append(effects, Effect{
			Kind:      EffectHealthChange,
			Message:   ev.Message,
			Magnitude: st.Health - before,
			Before:    before,
			After:     st.Health,
		})
	}

	if ev.Kind == street.KindMarket && ev.PriceMultiplier > 0 {
		if eff, ok := fs.market.ApplyShock(st, ev); ok {
			effects = append(effects, eff)
		}
	}

	fs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeStreetEvent,
		SessionID: st.ID,
		GameDay:   st.CurrentDay,
		Payload: StreetEventPayload{
			Kind:         ev.Kind,
			Message:      ev.Message,
			MoneyChange:  ev.MoneyChange,
			HealthChange: ev.HealthChange,
		},
	})
	metrics.Get().RecordStreetEvent()

	return effects
}

// MaybeTrigger fires at most one street event with the daily probability.
func (fs *FortuneSystem) MaybeTrigger(st *session.State, rng *rand.Rand) []Effect {
	if rng.Float64() >= rules.EventChance {
		return nil
	}
	return fs.Apply(st, fs.Pick(rng))
}
