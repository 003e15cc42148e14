// Package engine - calendar_system.go
// Day transitions. One atomic step: increment day, re-roll prices, clear
// yesterday's shocks, maybe fire a street event, accrue interest,
// regenerate health. There is no partial-day state.
package engine

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/niletry/beijing-fushengji-server/internal/domain/rules"
	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
	"github.com/niletry/beijing-fushengji-server/internal/platform/metrics"
)

// DayAdvancedPayload records a day transition for the journal.
type DayAdvancedPayload struct {
	Day      int `json:"day"`
	DaysLeft int `json:"days_left"`
}

// InterestPayload records accrued bank interest.
type InterestPayload struct {
	Interest int `json:"interest"`
	Bank     int `json:"bank"`
}

// CalendarSystem owns day progression and game-over detection.
type CalendarSystem struct {
	market   *MarketSystem
	fortune  *FortuneSystem
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewCalendarSystem creates the day progression system.
func NewCalendarSystem(market *MarketSystem, fortune *FortuneSystem, el *events.EventLog, log *logger.Logger) *CalendarSystem {
	return &CalendarSystem{
		market:   market,
		fortune:  fortune,
		eventLog: el,
		logger:   log,
	}
}

// AdvanceDay moves the session to the next day. Always invoked by the
// caller after a successful move, never automatically.
func (cs *CalendarSystem) AdvanceDay(st *session.State, rng *rand.Rand) Result {
	st.CurrentDay++
	cs.market.RollPrices(st, rng)
	st.ActiveEvents = st.ActiveEvents[:0]

	effects := cs.fortune.MaybeTrigger(st, rng)

	if interest := rules.DailyInterest(st.Bank); interest > 0 {
		before := st.Bank
		st.Bank += interest
		effects = append(effects, Effect{
			Kind:      EffectBankInterest,
			Magnitude: interest,
			Before:    before,
			After:     st.Bank,
		})
		cs.eventLog.Append(events.GameEvent{
			ID:        events.GenerateEventID(),
			Timestamp: time.Now(),
			Type:      events.EventTypeBankInterest,
			SessionID: st.ID,
			GameDay:   st.CurrentDay,
			Payload:   InterestPayload{Interest: interest, Bank: st.Bank},
		})
	}

	if st.Health > 0 && st.Health < rules.MaxHealth {
		before := st.Health
		st.Health = rules.Clamp(st.Health+rules.HealthRegen, 0, rules.MaxHealth)
		effects = append(effects, Effect{
			Kind:      EffectHealthRegen,
			Magnitude: st.Health - before,
			Before:    before,
			After:     st.Health,
		})
	}

	cs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeDayAdvanced,
		SessionID: st.ID,
		GameDay:   st.CurrentDay,
		Payload:   DayAdvancedPayload{Day: st.CurrentDay, DaysLeft: st.DaysLeft()},
	})
	metrics.Get().RecordDayAdvance()
	cs.logger.Event("DAY_ADVANCED", st.ID, "day "+strconv.Itoa(st.CurrentDay))

	return success(st.CurrentDay, effects...)
}

// IsGameOver reports whether the playthrough has ended.
func (cs *CalendarSystem) IsGameOver(st *session.State) bool {
	return st.IsOver()
}

// GameOverReason returns the cause of a finished playthrough; health
// depletion takes priority over time running out.
func (cs *CalendarSystem) GameOverReason(st *session.State) session.OverReason {
	return st.Reason()
}
