// Package engine - hospital_system.go
package engine

import (
	"fmt"
	"time"

	"github.com/niletry/beijing-fushengji-server/internal/domain/rules"
	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
)

// HospitalPayload records a paid treatment for the journal.
type HospitalPayload struct {
	Cost      int `json:"cost"`
	OldHealth int `json:"old_health"`
	NewHealth int `json:"new_health"`
}

// HospitalSystem restores health for a fee scaled by the damage.
type HospitalSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewHospitalSystem creates the hospital system.
func NewHospitalSystem(el *events.EventLog, log *logger.Logger) *HospitalSystem {
	return &HospitalSystem{eventLog: el, logger: log}
}

// Heal restores health to full. The fee is 10 yuan per missing point.
func (hs *HospitalSystem) Heal(st *session.State) Result {
	if st.Health >= rules.MaxHealth {
		return failure(FailAlreadyHealthy, "你的健康状况很好，不需要治疗!")
	}

	cost := rules.HealCost(st.Health)
	if st.Cash < cost {
		return failure(FailInsufficientCash, fmt.Sprintf("治疗需要 ¥%d，现金不足!", cost))
	}

	old := st.Health
	st.Cash -= cost
	st.Health = rules.MaxHealth

	hs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeHospitalVisit,
		SessionID: st.ID,
		GameDay:   st.CurrentDay,
		Payload:   HospitalPayload{Cost: cost, OldHealth: old, NewHealth: st.Health},
	})
	hs.logger.Event("HOSPITAL_VISIT", st.ID, fmt.Sprintf("cost=%d health=%d->%d", cost, old, st.Health))

	return success(cost, Effect{
		Kind:      EffectHealthChange,
		Magnitude: st.Health - old,
		Before:    old,
		After:     st.Health,
	})
}
