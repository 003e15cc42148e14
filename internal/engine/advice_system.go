// Package engine - advice_system.go
// Paid street-corner tips.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/niletry/beijing-fushengji-server/internal/domain/rules"
	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/domain/street"
	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
)

// TipPayload records a bought tip for the journal.
type TipPayload struct {
	Cost int        `json:"cost"`
	Tip  street.Tip `json:"tip"`
}

// AdviceSystem sells random strategy hints.
type AdviceSystem struct {
	tips     []street.Tip
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewAdviceSystem creates the tips vendor.
func NewAdviceSystem(tips []street.Tip, el *events.EventLog, log *logger.Logger) *AdviceSystem {
	return &AdviceSystem{tips: tips, eventLog: el, logger: log}
}

// BuyTip sells one uniformly random tip.
func (as *AdviceSystem) BuyTip(st *session.State, rng *rand.Rand) (street.Tip, Result) {
	if st.Cash < rules.TipPrice {
		return street.Tip{}, failure(FailInsufficientCash, fmt.Sprintf("打听消息需要 ¥%d!", rules.TipPrice))
	}

	st.Cash -= rules.TipPrice
	tip := as.tips[rng.Intn(len(as.tips))]

	as.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeTipBought,
		SessionID: st.ID,
		GameDay:   st.CurrentDay,
		Payload:   TipPayload{Cost: rules.TipPrice, Tip: tip},
	})
	as.logger.Event("TIP_BOUGHT", st.ID, tip.Category)

	return tip, success(rules.TipPrice)
}
