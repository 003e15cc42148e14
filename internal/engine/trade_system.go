// Package engine - trade_system.go
// Buy/sell with weighted-average cost tracking.
package engine

import (
	"fmt"
	"time"

	"github.com/niletry/beijing-fushengji-server/internal/domain/goods"
	"github.com/niletry/beijing-fushengji-server/internal/domain/rules"
	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
	"github.com/niletry/beijing-fushengji-server/internal/platform/metrics"
)

// TradePayload records a completed trade for the journal.
type TradePayload struct {
	GoodID   goods.ID `json:"good_id"`
	Quantity int      `json:"quantity"`
	Price    int      `json:"price"`
	Total    int      `json:"total"`
	AvgCost  int      `json:"avg_cost,omitempty"`
}

// TradeSystem executes purchases and sales against the current board.
type TradeSystem struct {
	catalog  *goods.Index
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewTradeSystem creates the trading system.
func NewTradeSystem(catalog *goods.Index, el *events.EventLog, log *logger.Logger) *TradeSystem {
	return &TradeSystem{
		catalog:  catalog,
		eventLog: el,
		logger:   log,
	}
}

// Buy purchases quantity units of a good at the current price. A price of
// 0 means the good is not on offer here today and is categorically
// non-tradable; the engine rejects it rather than trusting callers.
// Quantity below 1 is a programming error in the caller.
func (ts *TradeSystem) Buy(st *session.State, goodID goods.ID, quantity int) Result {
	if quantity < 1 {
		panic(fmt.Sprintf("trade: non-positive buy quantity %d", quantity))
	}
	if _, ok := ts.catalog.Get(goodID); !ok {
		return failure(FailUnknownGood, "没有这种商品!")
	}

	price := st.Prices[goodID]
	if price <= 0 {
		return failure(FailNoMarket, "这里今天没有这种商品出售!")
	}

	totalCost := price * quantity
	if st.Cash < totalCost {
		return failure(FailInsufficientCash, "现金不足!")
	}
	if !st.CanCarry(quantity) {
		return failure(FailCapacityExceeded, "背包容量不足!")
	}

	oldQty := st.Inventory[goodID]
	oldAvg := st.InventoryCost[goodID]
	newQty := oldQty + quantity

	st.Cash -= totalCost
	st.Inventory[goodID] = newQty
	st.InventoryCost[goodID] = rules.WeightedAverageCost(oldQty, oldAvg, totalCost, newQty)

	ts.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeTradeBuy,
		SessionID: st.ID,
		GameDay:   st.CurrentDay,
		Payload: TradePayload{
			GoodID:   goodID,
			Quantity: quantity,
			Price:    price,
			Total:    totalCost,
			AvgCost:  st.InventoryCost[goodID],
		},
	})
	metrics.Get().RecordTrade(true)
	ts.logger.Event("TRADE_BUY", st.ID, fmt.Sprintf("good=%d qty=%d total=%d", goodID, quantity, totalCost))

	return success(totalCost)
}

// Sell disposes quantity units of a good at the current price. Selling at
// price 0 would be a nonsensical zero-revenue trade and fails with
// NoMarket. Selling a position down to zero resets its average cost.
func (ts *TradeSystem) Sell(st *session.State, goodID goods.ID, quantity int) Result {
	if quantity < 1 {
		panic(fmt.Sprintf("trade: non-positive sell quantity %d", quantity))
	}
	if _, ok := ts.catalog.Get(goodID); !ok {
		return failure(FailUnknownGood, "没有这种商品!")
	}

	if st.Inventory[goodID] < quantity {
		return failure(FailInsufficientInventory, "持有数量不足!")
	}

	price := st.Prices[goodID]
	if price <= 0 {
		return failure(FailNoMarket, "这里今天没有这种商品的市场!")
	}

	earnings := price * quantity
	st.Cash += earnings
	st.Inventory[goodID] -= quantity
	if st.Inventory[goodID] == 0 {
		// Average cost has no meaning for an empty position.
		st.InventoryCost[goodID] = 0
	}

	ts.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeTradeSell,
		SessionID: st.ID,
		GameDay:   st.CurrentDay,
		Payload: TradePayload{
			GoodID:   goodID,
			Quantity: quantity,
			Price:    price,
			Total:    earnings,
		},
	})
	metrics.Get().RecordTrade(false)
	ts.logger.Event("TRADE_SELL", st.ID, fmt.Sprintf("good=%d qty=%d total=%d", goodID, quantity, earnings))

	return success(earnings)
}
