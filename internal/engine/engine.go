package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/niletry/beijing-fushengji-server/internal/domain/city"
	"github.com/niletry/beijing-fushengji-server/internal/domain/goods"
	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/domain/street"
	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
	"github.com/niletry/beijing-fushengji-server/internal/platform/metrics"
)

// ErrSessionNotFound is returned for operations on unknown session IDs.
var ErrSessionNotFound = fmt.Errorf("session not found")

// Session pairs a game aggregate with its critical section and its own
// random source. Multi-field invariants (capacity, cost basis,
// price-zero-means-unavailable) span fields updated together, so every
// player action runs under the session mutex as one logical transaction.
type Session struct {
	mu    sync.Mutex
	state *session.State
	rng   *rand.Rand
}

// Engine is the central orchestrator that wires the catalogs, the event
// journal, and the game systems together. It owns the session registry;
// nothing else holds references to live aggregates.
type Engine struct {
	goods     *goods.Index
	locations *city.Index
	presets   []session.Preset
	eventLog  *events.EventLog
	logger    *logger.Logger

	// Sub-systems
	market   *MarketSystem
	trade    *TradeSystem
	travel   *TravelSystem
	calendar *CalendarSystem
	fortune  *FortuneSystem
	bank     *BankSystem
	hospital *HospitalSystem
	rental   *RentalSystem
	advice   *AdviceSystem

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewEngine initializes the core game systems and dependencies. Catalog
// data is validated here, once; malformed tables abort startup.
func NewEngine(goodsIdx *goods.Index, locations *city.Index, eventCatalog []street.Event, tips []street.Tip, presets []session.Preset, eventLog *events.EventLog, log *logger.Logger) (*Engine, error) {
	if err := street.Validate(eventCatalog); err != nil {
		return nil, err
	}
	if len(presets) == 0 {
		presets = session.DefaultPresets()
	}

	market := NewMarketSystem(goodsIdx, eventLog, log)
	fortune := NewFortuneSystem(eventCatalog, market, eventLog, log)

	e := &Engine{
		goods:     goodsIdx,
		locations: locations,
		presets:   presets,
		eventLog:  eventLog,
		logger:    log,

		market:   market,
		fortune:  fortune,
		trade:    NewTradeSystem(goodsIdx, eventLog, log),
		travel:   NewTravelSystem(locations, market, eventLog, log),
		calendar: NewCalendarSystem(market, fortune, eventLog, log),
		bank:     NewBankSystem(eventLog, log),
		hospital: NewHospitalSystem(eventLog, log),
		rental:   NewRentalSystem(eventLog, log),
		advice:   NewAdviceSystem(tips, eventLog, log),

		sessions: make(map[string]*Session),
	}
	return e, nil
}

// Presets returns the configured difficulty options.
func (e *Engine) Presets() []session.Preset {
	return e.presets
}

// StartSession creates a playthrough for a player and difficulty, places
// the player at the starting location, and rolls the first price board.
// A seed of 0 picks a time-based seed; tests pass a fixed one.
func (e *Engine) StartSession(playerName, difficulty string, seed int64) (*session.State, error) {
	if playerName == "" {
		return nil, fmt.Errorf("player name required")
	}
	preset, ok := session.FindPreset(e.presets, difficulty)
	if !ok {
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	st := session.New(uuid.NewString(), playerName, preset, e.locations.Default(), e.goods.IDs())
	sess := &Session{state: st, rng: rand.New(rand.NewSource(seed))}

	sess.mu.Lock()
	e.market.RollPrices(st, sess.rng)
	sess.mu.Unlock()

	e.mu.Lock()
	e.sessions[st.ID] = sess
	e.mu.Unlock()

	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeSessionStarted,
		SessionID: st.ID,
		GameDay:   st.CurrentDay,
		Payload: map[string]interface{}{
			"player_name": playerName,
			"difficulty":  preset.Label,
			"total_days":  preset.TotalDays,
		},
	})
	metrics.Get().RecordSessionStart()
	e.logger.Info("Session started for " + playerName + " (" + preset.Label + "): " + st.ID)

	return st.Clone(), nil
}

// RestoreSession re-registers a deserialized aggregate, repairing old
// snapshots that predate cost tracking.
func (e *Engine) RestoreSession(st *session.State) {
	st.EnsureInventoryCostInitialized(e.goods.IDs())
	if st.Prices == nil {
		st.Prices = make(map[goods.ID]int, e.goods.Count())
	}

	sess := &Session{state: st, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	e.mu.Lock()
	e.sessions[st.ID] = sess
	e.mu.Unlock()
	e.logger.Info("Session restored: " + st.ID)
}

// EndSession drops a finished playthrough from the registry.
func (e *Engine) EndSession(sessionID string) {
	e.mu.Lock()
	delete(e.sessions, sessionID)
	e.mu.Unlock()
}

// Sessions returns snapshots of all live aggregates, for backup routines.
func (e *Engine) Sessions() []*session.State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snaps := make([]*session.State, 0, len(e.sessions))
	for _, sess := range e.sessions {
		sess.mu.Lock()
		snaps = append(snaps, sess.state.Clone())
		sess.mu.Unlock()
	}
	return snaps
}

// Snapshot returns a deep copy of one aggregate for rendering.
func (e *Engine) Snapshot(sessionID string) (*session.State, error) {
	sess, err := e.get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state.Clone(), nil
}

func (e *Engine) get(sessionID string) (*Session, error) {
	e.mu.RLock()
	sess, ok := e.sessions[sessionID]
	e.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// run executes one player action under the session's critical section.
// Finished playthroughs reject further actions.
func (e *Engine) run(sessionID string, fn func(st *session.State, rng *rand.Rand) Result) (Result, error) {
	sess, err := e.get(sessionID)
	if err != nil {
		return Result{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state.IsOver() {
		return failure(FailGameOver, "游戏已经结束!"), nil
	}
	return fn(sess.state, sess.rng), nil
}

// Buy purchases quantity units of a good for a session.
func (e *Engine) Buy(sessionID string, goodID goods.ID, quantity int) (Result, error) {
	return e.run(sessionID, func(st *session.State, _ *rand.Rand) Result {
		return e.trade.Buy(st, goodID, quantity)
	})
}

// Sell disposes quantity units of a good for a session.
func (e *Engine) Sell(sessionID string, goodID goods.ID, quantity int) (Result, error) {
	return e.run(sessionID, func(st *session.State, _ *rand.Rand) Result {
		return e.trade.Sell(st, goodID, quantity)
	})
}

// Travel moves a session to another location.
func (e *Engine) Travel(sessionID string, dest city.LocationID) (Result, error) {
	return e.run(sessionID, func(st *session.State, rng *rand.Rand) Result {
		return e.travel.Travel(st, rng, dest)
	})
}

// NextDay advances a session by one day and reports game over when the
// transition ends the playthrough.
func (e *Engine) NextDay(sessionID string) (Result, error) {
	res, err := e.run(sessionID, func(st *session.State, rng *rand.Rand) Result {
		r := e.calendar.AdvanceDay(st, rng)
		if st.IsOver() {
			e.eventLog.Append(events.GameEvent{
				ID:        events.GenerateEventID(),
				Timestamp: time.Now(),
				Type:      events.EventTypeGameOver,
				SessionID: st.ID,
				GameDay:   st.CurrentDay,
				Payload: map[string]interface{}{
					"reason":      string(st.Reason()),
					"total_money": st.TotalMoney(),
					"final_day":   st.CurrentDay,
				},
			})
			metrics.Get().RecordSessionEnd()
			e.logger.Info("Session over (" + string(st.Reason()) + "): " + st.ID)
		}
		return r
	})
	return res, err
}

// Deposit moves cash into the bank for a session.
func (e *Engine) Deposit(sessionID string, amount int) (Result, error) {
	return e.run(sessionID, func(st *session.State, _ *rand.Rand) Result {
		return e.bank.Deposit(st, amount)
	})
}

// Withdraw moves bank balance into cash for a session.
func (e *Engine) Withdraw(sessionID string, amount int) (Result, error) {
	return e.run(sessionID, func(st *session.State, _ *rand.Rand) Result {
		return e.bank.Withdraw(st, amount)
	})
}

// Heal restores a session's health at the hospital.
func (e *Engine) Heal(sessionID string) (Result, error) {
	return e.run(sessionID, func(st *session.State, _ *rand.Rand) Result {
		return e.hospital.Heal(st)
	})
}

// UpgradeRental purchases the next warehouse tier for a session.
func (e *Engine) UpgradeRental(sessionID string) (Result, error) {
	return e.run(sessionID, func(st *session.State, _ *rand.Rand) Result {
		return e.rental.Upgrade(st)
	})
}

// BuyTip sells a random strategy hint to a session.
func (e *Engine) BuyTip(sessionID string) (street.Tip, Result, error) {
	var tip street.Tip
	res, err := e.run(sessionID, func(st *session.State, rng *rand.Rand) Result {
		t, r := e.advice.BuyTip(st, rng)
		tip = t
		return r
	})
	return tip, res, err
}
