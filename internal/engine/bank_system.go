// Package engine - bank_system.go
// Cash/deposit movements. Interest accrual lives in the calendar system
// because it is part of the day transition.
package engine

import (
	"fmt"
	"time"

	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
)

// BankPayload records a deposit or withdrawal for the journal.
type BankPayload struct {
	Amount int `json:"amount"`
	Cash   int `json:"cash"`
	Bank   int `json:"bank"`
}

// BankSystem moves money between cash and the bank account.
type BankSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewBankSystem creates the banking system.
func NewBankSystem(el *events.EventLog, log *logger.Logger) *BankSystem {
	return &BankSystem{eventLog: el, logger: log}
}

// Deposit moves cash into the bank account.
func (bs *BankSystem) Deposit(st *session.State, amount int) Result {
	if amount < 1 {
		panic(fmt.Sprintf("bank: non-positive deposit %d", amount))
	}
	if st.Cash < amount {
		return failure(FailInsufficientCash, "现金不足!")
	}

	st.Cash -= amount
	st.Bank += amount
	bs.append(st, events.EventTypeBankDeposit, amount)
	return success(amount)
}

// Withdraw moves bank balance back into cash.
func (bs *BankSystem) Withdraw(st *session.State, amount int) Result {
	if amount < 1 {
		panic(fmt.Sprintf("bank: non-positive withdrawal %d", amount))
	}
	if st.Bank < amount {
		return failure(FailInsufficientBank, "存款不足!")
	}

	st.Bank -= amount
	st.Cash += amount
	bs.append(st, events.EventTypeBankWithdraw, amount)
	return success(amount)
}

func (bs *BankSystem) append(st *session.State, typ events.EventType, amount int) {
	bs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      typ,
		SessionID: st.ID,
		GameDay:   st.CurrentDay,
		Payload:   BankPayload{Amount: amount, Cash: st.Cash, Bank: st.Bank},
	})
	bs.logger.Event(string(typ), st.ID, fmt.Sprintf("amount=%d", amount))
}
