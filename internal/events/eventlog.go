// Package events provides the append-only journal of the game server.
// Every state-mutating operation records what happened here; the network
// layer and the replay API read it back.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeSessionStarted   EventType = "SESSION_STARTED"
	EventTypeTradeBuy         EventType = "TRADE_BUY"
	EventTypeTradeSell        EventType = "TRADE_SELL"
	EventTypeTravel           EventType = "TRAVEL"
	EventTypeDayAdvanced      EventType = "DAY_ADVANCED"
	EventTypeStreetEvent      EventType = "STREET_EVENT"
	EventTypeMarketShock      EventType = "MARKET_SHOCK"
	EventTypeBankDeposit      EventType = "BANK_DEPOSIT"
	EventTypeBankWithdraw     EventType = "BANK_WITHDRAW"
	EventTypeBankInterest     EventType = "BANK_INTEREST"
	EventTypeHealthRegen      EventType = "HEALTH_REGEN"
	EventTypeHospitalVisit    EventType = "HOSPITAL_VISIT"
	EventTypeRentalUpgrade    EventType = "RENTAL_UPGRADE"
	EventTypeTipBought        EventType = "TIP_BOUGHT"
	EventTypeGameOver         EventType = "GAME_OVER"
	EventTypeRankingSubmitted EventType = "RANKING_SUBMITTED"
)

// GameEvent represents an immutable record of something that happened in
// a playthrough.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	Payload   interface{} `json:"payload"`
	GameDay   int         `json:"game_day"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log, write-through to an optional
// persister.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	el.events = append(el.events, event)
	el.mu.Unlock()

	if el.persister != nil {
		// Write through; durability lag is acceptable for the journal.
		go func(e GameEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetBySession returns all events for a playthrough, in append order.
func (el *EventLog) GetBySession(sessionID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.SessionID == sessionID {
			result = append(result, e)
		}
	}
	return result
}

// GetByDay returns all events of a playthrough for one in-game day.
func (el *EventLog) GetByDay(sessionID string, day int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.SessionID == sessionID && e.GameDay == day {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns the full event history.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.events
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
