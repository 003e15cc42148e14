package events

import (
	"testing"
	"time"
)

func appendTestEvent(el *EventLog, sessionID string, typ EventType, day int) {
	el.Append(GameEvent{
		ID:        GenerateEventID(),
		Timestamp: time.Now(),
		Type:      typ,
		SessionID: sessionID,
		GameDay:   day,
	})
}

func TestEventLogAppendAndQuery(t *testing.T) {
	el := NewEventLog(nil)

	appendTestEvent(el, "S1", EventTypeSessionStarted, 1)
	appendTestEvent(el, "S1", EventTypeTradeBuy, 1)
	appendTestEvent(el, "S1", EventTypeDayAdvanced, 2)
	appendTestEvent(el, "S2", EventTypeSessionStarted, 1)

	if got := len(el.GetBySession("S1")); got != 3 {
		t.Errorf("Expected 3 events for S1, got %d", got)
	}
	if got := len(el.GetBySession("S2")); got != 1 {
		t.Errorf("Expected 1 event for S2, got %d", got)
	}
	if got := len(el.GetByDay("S1", 1)); got != 2 {
		t.Errorf("Expected 2 day-1 events for S1, got %d", got)
	}
	if got := len(el.Replay()); got != 4 {
		t.Errorf("Expected 4 events total, got %d", got)
	}
}

func TestEventLogPreservesOrder(t *testing.T) {
	el := NewEventLog(nil)

	appendTestEvent(el, "S1", EventTypeTradeBuy, 1)
	appendTestEvent(el, "S1", EventTypeTradeSell, 1)
	appendTestEvent(el, "S1", EventTypeTravel, 1)

	got := el.GetBySession("S1")
	want := []EventType{EventTypeTradeBuy, EventTypeTradeSell, EventTypeTravel}
	for i, typ := range want {
		if got[i].Type != typ {
			t.Errorf("Event %d: expected %s, got %s", i, typ, got[i].Type)
		}
	}
}

func TestGenerateEventIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateEventID()
		if seen[id] {
			t.Fatalf("Duplicate event ID generated: %s", id)
		}
		seen[id] = true
	}
}
