package rules

import "testing"

func TestWeightedAverageCost(t *testing.T) {
	// Holding 10 units at avg 100, buying 10 more for 2000 total (200 each)
	// lands exactly on 150.
	got := WeightedAverageCost(10, 100, 2000, 20)
	if got != 150 {
		t.Errorf("Expected weighted average cost 150, got %d", got)
	}

	// First purchase: no prior position.
	got = WeightedAverageCost(0, 0, 750, 5)
	if got != 150 {
		t.Errorf("Expected cost 150 for first purchase, got %d", got)
	}
}

func TestWeightedAverageCostRoundsHalfUp(t *testing.T) {
	// (1*100 + 101) / 2 = 100.5, rounds to 101.
	got := WeightedAverageCost(1, 100, 101, 2)
	if got != 101 {
		t.Errorf("Expected 100.5 to round up to 101, got %d", got)
	}

	// (1*100 + 102) / 2 = 101 exactly.
	got = WeightedAverageCost(1, 100, 102, 2)
	if got != 101 {
		t.Errorf("Expected exact 101, got %d", got)
	}

	// (2*100 + 99) / 3 = 99.67, rounds to 100.
	got = WeightedAverageCost(2, 100, 99, 3)
	if got != 100 {
		t.Errorf("Expected 99.67 to round to 100, got %d", got)
	}
}

func TestWeightedAverageCostEmptyPosition(t *testing.T) {
	if got := WeightedAverageCost(0, 0, 0, 0); got != 0 {
		t.Errorf("Expected cost 0 for empty position, got %d", got)
	}
}

func TestDailyInterest(t *testing.T) {
	cases := []struct {
		bank, want int
	}{
		{0, 0},
		{50, 0},   // below 1% granularity
		{99, 0},   // floor(0.99) = 0
		{100, 1},  // floor(1.0) = 1
		{150, 1},  // floor(1.5) = 1
		{2000, 20},
		{12345, 123},
	}
	for _, c := range cases {
		if got := DailyInterest(c.bank); got != c.want {
			t.Errorf("DailyInterest(%d) = %d, want %d", c.bank, got, c.want)
		}
	}
}

func TestHealCost(t *testing.T) {
	if got := HealCost(50); got != 500 {
		t.Errorf("Expected heal cost 500 at health 50, got %d", got)
	}
	if got := HealCost(99); got != 10 {
		t.Errorf("Expected heal cost 10 at health 99, got %d", got)
	}
	if got := HealCost(100); got != 0 {
		t.Errorf("Expected heal cost 0 at full health, got %d", got)
	}
}

func TestLeaveoutCount(t *testing.T) {
	if got := LeaveoutCount(10); got != NormalLeaveout {
		t.Errorf("Expected %d hidden goods mid-game, got %d", NormalLeaveout, got)
	}
	// Final two days open the full market.
	if got := LeaveoutCount(2); got != 0 {
		t.Errorf("Expected 0 hidden goods with 2 days left, got %d", got)
	}
	if got := LeaveoutCount(1); got != 0 {
		t.Errorf("Expected 0 hidden goods with 1 day left, got %d", got)
	}
	if got := LeaveoutCount(3); got != NormalLeaveout {
		t.Errorf("Expected %d hidden goods with 3 days left, got %d", NormalLeaveout, got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(150, 0, 100); got != 100 {
		t.Errorf("Expected clamp to 100, got %d", got)
	}
	if got := Clamp(-5, 0, 100); got != 0 {
		t.Errorf("Expected clamp to 0, got %d", got)
	}
	if got := Clamp(42, 0, 100); got != 42 {
		t.Errorf("Expected 42 unchanged, got %d", got)
	}
}
