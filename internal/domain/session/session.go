// Package session defines the mutable game aggregate for one playthrough.
// This package is PURE and must NOT import any infrastructure packages
// (network, events, platform). The engine owns and mutates State; nothing
// here performs I/O.
package session

import (
	"github.com/niletry/beijing-fushengji-server/internal/domain/city"
	"github.com/niletry/beijing-fushengji-server/internal/domain/goods"
	"github.com/niletry/beijing-fushengji-server/internal/domain/rules"
)

// MarketShock records a market event applied today, annotated with the
// before/after prices for same-day display. Cleared on day transition.
type MarketShock struct {
	Message    string   `json:"message"`
	GoodID     goods.ID `json:"good_id"`
	Multiplier float64  `json:"multiplier"`
	OldPrice   int      `json:"old_price"`
	NewPrice   int      `json:"new_price"`
}

// State is the mutable game aggregate. Lifetime = one playthrough. It is
// owned exclusively by the active game session; every engine operation
// takes it as an explicit argument — there is no ambient global.
type State struct {
	ID         string `json:"id"`
	PlayerName string `json:"player_name"`
	Difficulty string `json:"difficulty"`

	Cash       int `json:"cash"`
	Bank       int `json:"bank"`
	Health     int `json:"health"`
	CurrentDay int `json:"current_day"`
	TotalDays  int `json:"total_days"`

	CurrentLocation city.LocationID `json:"current_location"`

	Capacity    int `json:"capacity"`
	RentalLevel int `json:"rental_level"`

	Inventory     map[goods.ID]int `json:"inventory"`
	InventoryCost map[goods.ID]int `json:"inventory_cost"`
	Prices        map[goods.ID]int `json:"prices"`

	ActiveEvents []MarketShock `json:"active_events"`
}

// New creates a fresh aggregate for a playthrough. Prices are rolled by
// the engine after initial placement.
func New(id, playerName string, preset Preset, start city.LocationID, goodIDs []goods.ID) *State {
	s := &State{
		ID:              id,
		PlayerName:      playerName,
		Difficulty:      preset.Label,
		Cash:            preset.InitialCash,
		Bank:            0,
		Health:          rules.MaxHealth,
		CurrentDay:      1,
		TotalDays:       preset.TotalDays,
		CurrentLocation: start,
		Capacity:        rules.BaseCapacity,
		RentalLevel:     0,
		Inventory:       make(map[goods.ID]int, len(goodIDs)),
		InventoryCost:   make(map[goods.ID]int, len(goodIDs)),
		Prices:          make(map[goods.ID]int, len(goodIDs)),
		ActiveEvents:    []MarketShock{},
	}
	for _, id := range goodIDs {
		s.Inventory[id] = 0
		s.InventoryCost[id] = 0
	}
	return s
}

// TotalMoney returns cash plus bank balance.
func (s *State) TotalMoney() int {
	return s.Cash + s.Bank
}

// UsedCapacity returns the total units currently held.
func (s *State) UsedCapacity() int {
	used := 0
	for _, qty := range s.Inventory {
		used += qty
	}
	return used
}

// CanCarry reports whether amount more units fit in the warehouse.
func (s *State) CanCarry(amount int) bool {
	return s.UsedCapacity()+amount <= s.Capacity
}

// DaysLeft returns the remaining days, inclusive of today.
func (s *State) DaysLeft() int {
	return s.TotalDays - s.CurrentDay + 1
}

// IsOver reports whether the playthrough has ended.
func (s *State) IsOver() bool {
	return s.CurrentDay > s.TotalDays || s.Health <= 0
}

// OverReason identifies why a playthrough ended.
type OverReason string

const (
	ReasonNone           OverReason = ""
	ReasonHealthDepleted OverReason = "HEALTH_DEPLETED"
	ReasonTimeUp         OverReason = "TIME_UP"
)

// Reason returns the game-over cause. The health check takes priority
// when both conditions hold at once.
func (s *State) Reason() OverReason {
	if s.Health <= 0 {
		return ReasonHealthDepleted
	}
	if s.CurrentDay > s.TotalDays {
		return ReasonTimeUp
	}
	return ReasonNone
}

// EnsureInventoryCostInitialized repairs snapshots written before cost
// tracking existed: every held good gets a zero average cost so the
// invariant inventory[g]==0 => inventoryCost[g]==0 can be re-established.
func (s *State) EnsureInventoryCostInitialized(goodIDs []goods.ID) {
	if s.InventoryCost == nil {
		s.InventoryCost = make(map[goods.ID]int, len(goodIDs))
	}
	for _, id := range goodIDs {
		if _, ok := s.InventoryCost[id]; !ok {
			s.InventoryCost[id] = 0
		}
	}
}

// Clone returns a deep copy for snapshot reads outside the session's
// critical section.
func (s *State) Clone() *State {
	c := *s
	c.Inventory = make(map[goods.ID]int, len(s.Inventory))
	for k, v := range s.Inventory {
		c.Inventory[k] = v
	}
	c.InventoryCost = make(map[goods.ID]int, len(s.InventoryCost))
	for k, v := range s.InventoryCost {
		c.InventoryCost[k] = v
	}
	c.Prices = make(map[goods.ID]int, len(s.Prices))
	for k, v := range s.Prices {
		c.Prices[k] = v
	}
	c.ActiveEvents = append([]MarketShock(nil), s.ActiveEvents...)
	return &c
}
