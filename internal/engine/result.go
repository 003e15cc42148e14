package engine

import "github.com/niletry/beijing-fushengji-server/internal/domain/goods"

// FailureKind is the machine-distinguishable reason an operation was
// rejected. Expected conditions return a failed Result; they never panic.
type FailureKind string

const (
	FailNone                  FailureKind = ""
	FailInsufficientCash      FailureKind = "INSUFFICIENT_CASH"
	FailCapacityExceeded      FailureKind = "CAPACITY_EXCEEDED"
	FailInsufficientInventory FailureKind = "INSUFFICIENT_INVENTORY"
	FailNoMarket              FailureKind = "NO_MARKET"
	FailSameLocation          FailureKind = "SAME_LOCATION"
	FailInsufficientFunds     FailureKind = "INSUFFICIENT_FUNDS"
	FailUnknownLocation       FailureKind = "UNKNOWN_LOCATION"
	FailUnknownGood           FailureKind = "UNKNOWN_GOOD"
	FailInsufficientBank      FailureKind = "INSUFFICIENT_BANK"
	FailAlreadyHealthy        FailureKind = "ALREADY_HEALTHY"
	FailMaxRentalLevel        FailureKind = "MAX_RENTAL_LEVEL"
	FailGameOver              FailureKind = "GAME_OVER"
)

// EffectKind classifies a structured effect descriptor.
type EffectKind string

const (
	EffectMoneyGain    EffectKind = "MONEY_GAIN"
	EffectMoneyLoss    EffectKind = "MONEY_LOSS"
	EffectHealthChange EffectKind = "HEALTH_CHANGE"
	EffectMarketShock  EffectKind = "MARKET_SHOCK"
	EffectBankInterest EffectKind = "BANK_INTEREST"
	EffectHealthRegen  EffectKind = "HEALTH_REGEN"
)

// Effect describes one state change caused by an operation: kind,
// magnitude, and before/after values. The core never renders text beyond
// the catalog message; titles, severities, and icons are the caller's
// concern.
type Effect struct {
	Kind      EffectKind `json:"kind"`
	Message   string     `json:"message,omitempty"`
	GoodID    goods.ID   `json:"good_id,omitempty"`
	Magnitude int        `json:"magnitude"`
	Before    int        `json:"before"`
	After     int        `json:"after"`
}

// Result is the outcome of a player operation. Failure carries a kind
// plus a human-readable reason; callers decide presentation.
type Result struct {
	OK      bool        `json:"ok"`
	Kind    FailureKind `json:"kind,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Amount  int         `json:"amount,omitempty"`
	Effects []Effect    `json:"effects,omitempty"`
}

func success(amount int, effects ...Effect) Result {
	return Result{OK: true, Amount: amount, Effects: effects}
}

func failure(kind FailureKind, reason string) Result {
	return Result{OK: false, Kind: kind, Reason: reason}
}
