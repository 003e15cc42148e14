// Package engine - rental_system.go
// Warehouse capacity upgrades over a fixed tier ladder.
package engine

import (
	"fmt"
	"time"

	"github.com/niletry/beijing-fushengji-server/internal/domain/rules"
	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
)

// RentalPayload records a capacity upgrade for the journal.
type RentalPayload struct {
	Level       int `json:"level"`
	Cost        int `json:"cost"`
	NewCapacity int `json:"new_capacity"`
}

// RentalSystem sells warehouse upgrades.
type RentalSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewRentalSystem creates the rental system.
func NewRentalSystem(el *events.EventLog, log *logger.Logger) *RentalSystem {
	return &RentalSystem{eventLog: el, logger: log}
}

// Upgrade purchases the next rental tier, raising capacity.
func (rs *RentalSystem) Upgrade(st *session.State) Result {
	if st.RentalLevel >= len(rules.RentalTiers) {
		return failure(FailMaxRentalLevel, "已经是最大的仓库了!")
	}

	tier := rules.RentalTiers[st.RentalLevel]
	if st.Cash < tier.Cost {
		return failure(FailInsufficientCash, fmt.Sprintf("租房需要 ¥%d，现金不足!", tier.Cost))
	}

	st.Cash -= tier.Cost
	st.Capacity += tier.CapacityGain
	st.RentalLevel++

	rs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeRentalUpgrade,
		SessionID: st.ID,
		GameDay:   st.CurrentDay,
		Payload:   RentalPayload{Level: st.RentalLevel, Cost: tier.Cost, NewCapacity: st.Capacity},
	})
	rs.logger.Event("RENTAL_UPGRADE", st.ID, fmt.Sprintf("level=%d capacity=%d", st.RentalLevel, st.Capacity))

	return success(tier.Cost)
}
