package leaderboard

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/niletry/beijing-fushengji-server/internal/infra/storage"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
)

// memRankingRepo is an in-memory RankingRepository for tests.
type memRankingRepo struct {
	entries []storage.RankingEntry
	nextID  int64
}

func (m *memRankingRepo) Insert(_ context.Context, entry storage.RankingEntry) (int64, error) {
	for _, e := range m.entries {
		if e.GameHash == entry.GameHash {
			return 0, storage.ErrDuplicateRanking
		}
	}
	m.nextID++
	entry.ID = m.nextID
	m.entries = append(m.entries, entry)
	return entry.ID, nil
}

func (m *memRankingRepo) ExistsByHash(_ context.Context, gameHash string) (bool, error) {
	for _, e := range m.entries {
		if e.GameHash == gameHash {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRankingRepo) CountRicher(_ context.Context, totalMoney int) (int, error) {
	n := 0
	for _, e := range m.entries {
		if e.TotalMoney > totalMoney {
			n++
		}
	}
	return n, nil
}

func (m *memRankingRepo) filtered(difficulty string) []storage.RankingEntry {
	if difficulty == "" {
		return append([]storage.RankingEntry(nil), m.entries...)
	}
	var out []storage.RankingEntry
	for _, e := range m.entries {
		if e.Difficulty == difficulty {
			out = append(out, e)
		}
	}
	return out
}

func (m *memRankingRepo) List(_ context.Context, difficulty string, offset, limit int) ([]storage.RankingEntry, error) {
	sorted := m.filtered(difficulty)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TotalMoney > sorted[j].TotalMoney })
	if offset >= len(sorted) {
		return nil, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], nil
}

func (m *memRankingRepo) Count(_ context.Context, difficulty string) (int, error) {
	return len(m.filtered(difficulty)), nil
}

func (m *memRankingRepo) Stats(_ context.Context) (storage.RankingStats, error) {
	stats := storage.RankingStats{
		TotalEntries: len(m.entries),
		ByDifficulty: make(map[string]int),
	}
	if len(m.entries) == 0 {
		return stats, nil
	}
	names := make(map[string]bool)
	moneySum, daySum := 0, 0
	for _, e := range m.entries {
		names[e.PlayerName] = true
		moneySum += e.TotalMoney
		daySum += e.FinalDay
		stats.ByDifficulty[e.Difficulty]++
		if e.TotalMoney > stats.HighestMoney {
			stats.HighestMoney = e.TotalMoney
		}
	}
	stats.UniquePlayers = len(names)
	stats.AverageMoney = moneySum / len(m.entries)
	stats.AverageDays = daySum / len(m.entries)
	return stats, nil
}

func newTestService(t *testing.T) (*Service, *memRankingRepo) {
	t.Helper()
	repo := &memRankingRepo{}
	svc, err := NewService(repo, logger.NewLogger(), "test-salt", []string{"经典", "困难", "休闲"})
	if err != nil {
		t.Fatalf("Failed to build service: %v", err)
	}
	return svc, repo
}

func TestSubmitAndRank(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	submissions := []Submission{
		{PlayerName: "甲", TotalMoney: 50000, FinalDay: 40, Difficulty: "经典", IPHash: "ip1"},
		{PlayerName: "乙", TotalMoney: 90000, FinalDay: 40, Difficulty: "经典", IPHash: "ip2"},
		{PlayerName: "丙", TotalMoney: 10000, FinalDay: 40, Difficulty: "经典", IPHash: "ip3"},
	}
	for _, sub := range submissions {
		if _, err := svc.Submit(ctx, sub); err != nil {
			t.Fatalf("Submit(%s) failed: %v", sub.PlayerName, err)
		}
	}

	// A fourth player slots between 乙 and 甲.
	res, err := svc.Submit(ctx, Submission{
		PlayerName: "丁", TotalMoney: 70000, FinalDay: 35, Difficulty: "困难", IPHash: "ip4",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if res.Rank != 2 {
		t.Errorf("Expected rank 2 (only 乙 is richer), got %d", res.Rank)
	}
}

func TestSubmitDetectsDuplicates(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	sub := Submission{PlayerName: "甲", TotalMoney: 50000, FinalDay: 40, Difficulty: "经典", IPHash: "ip1"}
	if _, err := svc.Submit(ctx, sub); err != nil {
		t.Fatalf("First submit failed: %v", err)
	}

	res, err := svc.Submit(ctx, sub)
	if err != nil {
		t.Fatalf("Duplicate submit errored: %v", err)
	}
	if !res.Duplicate {
		t.Error("Expected the identical resubmission to be flagged as duplicate")
	}
	if len(repo.entries) != 1 {
		t.Errorf("Expected a single stored entry, got %d", len(repo.entries))
	}

	// Same result from a different address is a different game.
	sub.IPHash = "ip2"
	res, err = svc.Submit(ctx, sub)
	if err != nil {
		t.Fatalf("Submit from new address failed: %v", err)
	}
	if res.Duplicate {
		t.Error("A different address must not be treated as duplicate")
	}
}

func TestValidateBounds(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name string
		sub  Submission
	}{
		{"empty name", Submission{PlayerName: "", TotalMoney: 1, FinalDay: 1, Difficulty: "经典"}},
		{"name too long", Submission{PlayerName: "一二三四五六七八九十一二三四五六七八九十一", TotalMoney: 1, FinalDay: 1, Difficulty: "经典"}},
		{"negative money", Submission{PlayerName: "甲", TotalMoney: -1, FinalDay: 1, Difficulty: "经典"}},
		{"money too large", Submission{PlayerName: "甲", TotalMoney: 100000001, FinalDay: 1, Difficulty: "经典"}},
		{"day zero", Submission{PlayerName: "甲", TotalMoney: 1, FinalDay: 0, Difficulty: "经典"}},
		{"day too large", Submission{PlayerName: "甲", TotalMoney: 1, FinalDay: 201, Difficulty: "经典"}},
		{"unknown difficulty", Submission{PlayerName: "甲", TotalMoney: 1, FinalDay: 1, Difficulty: "地狱"}},
	}

	for _, c := range cases {
		err := svc.Validate(c.sub)
		if err == nil {
			t.Errorf("%s: expected validation failure", c.name)
			continue
		}
		if !errors.Is(err, ErrInvalidSubmission) {
			t.Errorf("%s: expected ErrInvalidSubmission, got %v", c.name, err)
		}
	}

	// A 20-rune name is exactly at the limit.
	ok := Submission{PlayerName: "一二三四五六七八九十一二三四五六七八九十", TotalMoney: 1, FinalDay: 1, Difficulty: "经典"}
	if err := svc.Validate(ok); err != nil {
		t.Errorf("20-rune name should pass, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := svc.Submit(ctx, Submission{
			PlayerName: "玩家",
			TotalMoney: 1000 * (i + 1),
			FinalDay:   40,
			Difficulty: "经典",
			IPHash:     string(rune('a' + i)),
		})
		if err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
	}

	page, err := svc.List(ctx, "", 2, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 25 {
		t.Errorf("Expected total 25, got %d", page.Total)
	}
	if len(page.Entries) != 10 {
		t.Errorf("Expected 10 entries on page 2, got %d", len(page.Entries))
	}
	// Page 2 of a descending list starts at the 11th richest: 15000.
	if page.Entries[0].TotalMoney != 15000 {
		t.Errorf("Expected page 2 to start at 15000, got %d", page.Entries[0].TotalMoney)
	}

	// Limits are clamped to the cap.
	page, err = svc.List(ctx, "", 1, 5000)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Limit != 100 {
		t.Errorf("Expected limit clamped to 100, got %d", page.Limit)
	}
}

func TestListDifficultyFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	subs := []Submission{
		{PlayerName: "甲", TotalMoney: 1000, FinalDay: 40, Difficulty: "经典", IPHash: "a"},
		{PlayerName: "乙", TotalMoney: 2000, FinalDay: 40, Difficulty: "困难", IPHash: "b"},
		{PlayerName: "丙", TotalMoney: 3000, FinalDay: 60, Difficulty: "休闲", IPHash: "c"},
		{PlayerName: "丁", TotalMoney: 4000, FinalDay: 40, Difficulty: "困难", IPHash: "d"},
	}
	for _, sub := range subs {
		if _, err := svc.Submit(ctx, sub); err != nil {
			t.Fatalf("Submit(%s) failed: %v", sub.PlayerName, err)
		}
	}

	page, err := svc.List(ctx, "困难", 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 2 || len(page.Entries) != 2 {
		t.Fatalf("Expected 2 困难 entries, got total=%d len=%d", page.Total, len(page.Entries))
	}
	for _, e := range page.Entries {
		if e.Difficulty != "困难" {
			t.Errorf("Filter leaked entry with difficulty %s", e.Difficulty)
		}
	}

	if _, err := svc.List(ctx, "地狱", 1, 10); !errors.Is(err, ErrInvalidSubmission) {
		t.Errorf("Expected ErrInvalidSubmission for unknown filter, got %v", err)
	}
}

func TestStatsCachedUntilSubmit(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, Submission{PlayerName: "甲", TotalMoney: 1000, FinalDay: 10, Difficulty: "经典", IPHash: "x"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 1 || stats.HighestMoney != 1000 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	// Mutating the repo behind the cache is invisible until invalidation.
	repo.entries[0].TotalMoney = 9999
	stats, _ = svc.Stats(ctx)
	if stats.HighestMoney != 1000 {
		t.Errorf("Expected cached stats, got %+v", stats)
	}

	// A new submission purges the cache.
	if _, err := svc.Submit(ctx, Submission{PlayerName: "乙", TotalMoney: 500, FinalDay: 10, Difficulty: "经典", IPHash: "y"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	stats, _ = svc.Stats(ctx)
	if stats.TotalEntries != 2 {
		t.Errorf("Expected fresh stats after submit, got %+v", stats)
	}
}
