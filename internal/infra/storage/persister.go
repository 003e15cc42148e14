package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/platform/metrics"
)

// EventPersisterAdapter bridges the in-memory event log to the SQLite
// repository. It satisfies events.EventPersister without the events
// package importing infrastructure.
type EventPersisterAdapter struct {
	repo EventRepository
}

func NewEventPersisterAdapter(repo EventRepository) *EventPersisterAdapter {
	return &EventPersisterAdapter{repo: repo}
}

// Append persists one journal entry. Typed payloads are flattened to a
// generic map through JSON so the row stays queryable.
func (a *EventPersisterAdapter) Append(event events.GameEvent) error {
	payload := map[string]interface{}{}
	if event.Payload != nil {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return err
		}
	}

	start := time.Now()
	err := a.repo.Append(context.Background(), GameEvent{
		ID:        event.ID,
		SessionID: event.SessionID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		Payload:   payload,
		GameDay:   event.GameDay,
	})
	metrics.Get().RecordEventWrite(time.Since(start), err)
	return err
}
