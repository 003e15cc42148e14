// Package leaderboard implements ranking submission and queries on top
// of the rankings repository.
package leaderboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/niletry/beijing-fushengji-server/internal/infra/storage"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
	"github.com/niletry/beijing-fushengji-server/internal/platform/metrics"
)

const (
	maxNameLength = 20
	maxTotalMoney = 100000000
	maxFinalDay   = 200
	maxPageLimit  = 100

	statsCacheKey = "stats"
	pageCacheSize = 128
)

// ErrInvalidSubmission wraps all validation failures.
var ErrInvalidSubmission = errors.New("invalid submission")

// Submission is a game result offered for ranking.
type Submission struct {
	PlayerName string `json:"player_name"`
	TotalMoney int    `json:"total_money"`
	FinalDay   int    `json:"final_day"`
	Difficulty string `json:"difficulty"`

	// Transport metadata, never exposed in listings.
	UserAgent string `json:"-"`
	IPHash    string `json:"-"`
}

// SubmitResult reports where a submission landed.
type SubmitResult struct {
	ID        int64 `json:"id"`
	Rank      int   `json:"rank"`
	Duplicate bool  `json:"duplicate"`
}

// Page is one slice of the leaderboard.
type Page struct {
	Entries    []storage.RankingEntry `json:"entries"`
	Total      int                    `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	Difficulty string                 `json:"difficulty,omitempty"`
}

// Service validates, deduplicates, and ranks submissions.
type Service struct {
	repo         storage.RankingRepository
	logger       *logger.Logger
	dedupSalt    string
	difficulties map[string]bool

	// Stats are cheap to recompute but hit on every page load, so they
	// sit behind a small cache invalidated on insert.
	cache *lru.Cache[string, storage.RankingStats]
}

// NewService creates a leaderboard service. difficulties is the set of
// labels accepted from clients.
func NewService(repo storage.RankingRepository, log *logger.Logger, dedupSalt string, difficulties []string) (*Service, error) {
	cache, err := lru.New[string, storage.RankingStats](pageCacheSize)
	if err != nil {
		return nil, err
	}

	accepted := make(map[string]bool, len(difficulties))
	for _, d := range difficulties {
		accepted[d] = true
	}

	return &Service{
		repo:         repo,
		logger:       log,
		dedupSalt:    dedupSalt,
		difficulties: accepted,
		cache:        cache,
	}, nil
}

// Validate checks a submission against the accepted bounds.
func (s *Service) Validate(sub Submission) error {
	if sub.PlayerName == "" || len([]rune(sub.PlayerName)) > maxNameLength {
		return fmt.Errorf("%w: player name must be 1-%d characters", ErrInvalidSubmission, maxNameLength)
	}
	if sub.TotalMoney < 0 || sub.TotalMoney > maxTotalMoney {
		return fmt.Errorf("%w: total money out of range", ErrInvalidSubmission)
	}
	if sub.FinalDay < 1 || sub.FinalDay > maxFinalDay {
		return fmt.Errorf("%w: final day out of range", ErrInvalidSubmission)
	}
	if !s.difficulties[sub.Difficulty] {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSubmission, sub.Difficulty)
	}
	return nil
}

// hash derives the dedup fingerprint. The same player posting the same
// result from the same address is a resubmission, not a new game.
func (s *Service) hash(sub Submission) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d|%s|%s|%s",
		sub.PlayerName, sub.TotalMoney, sub.FinalDay, sub.Difficulty, sub.IPHash, s.dedupSalt)))
	return hex.EncodeToString(h[:])
}

// Submit validates and stores a game result, returning its rank.
// Duplicates are reported, not treated as errors.
func (s *Service) Submit(ctx context.Context, sub Submission) (SubmitResult, error) {
	if err := s.Validate(sub); err != nil {
		return SubmitResult{}, err
	}

	gameHash := s.hash(sub)
	if exists, err := s.repo.ExistsByHash(ctx, gameHash); err != nil {
		return SubmitResult{}, err
	} else if exists {
		metrics.Get().RecordRankingSubmission(true)
		return SubmitResult{Duplicate: true}, nil
	}

	id, err := s.repo.Insert(ctx, storage.RankingEntry{
		PlayerName: sub.PlayerName,
		TotalMoney: sub.TotalMoney,
		FinalDay:   sub.FinalDay,
		Difficulty: sub.Difficulty,
		GameHash:   gameHash,
		UserAgent:  sub.UserAgent,
		IPHash:     sub.IPHash,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		// Concurrent submit can still trip the UNIQUE constraint.
		if errors.Is(err, storage.ErrDuplicateRanking) {
			metrics.Get().RecordRankingSubmission(true)
			return SubmitResult{Duplicate: true}, nil
		}
		return SubmitResult{}, err
	}

	s.cache.Purge()
	metrics.Get().RecordRankingSubmission(false)

	richer, err := s.repo.CountRicher(ctx, sub.TotalMoney)
	if err != nil {
		return SubmitResult{}, err
	}

	s.logger.Event("RANKING_SUBMITTED", sub.PlayerName,
		fmt.Sprintf("money=%d day=%d rank=%d", sub.TotalMoney, sub.FinalDay, richer+1))

	return SubmitResult{ID: id, Rank: richer + 1}, nil
}

// List returns one leaderboard page. Page numbers start at 1; limits
// above the cap are clamped. An empty difficulty lists all entries.
func (s *Service) List(ctx context.Context, difficulty string, page, limit int) (Page, error) {
	if difficulty != "" && !s.difficulties[difficulty] {
		return Page{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSubmission, difficulty)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	total, err := s.repo.Count(ctx, difficulty)
	if err != nil {
		return Page{}, err
	}

	entries, err := s.repo.List(ctx, difficulty, (page-1)*limit, limit)
	if err != nil {
		return Page{}, err
	}

	return Page{Entries: entries, Total: total, Page: page, Limit: limit, Difficulty: difficulty}, nil
}

// Stats returns cached leaderboard aggregates.
func (s *Service) Stats(ctx context.Context) (storage.RankingStats, error) {
	if stats, ok := s.cache.Get(statsCacheKey); ok {
		return stats, nil
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return storage.RankingStats{}, err
	}
	s.cache.Add(statsCacheKey, stats)
	return stats, nil
}
