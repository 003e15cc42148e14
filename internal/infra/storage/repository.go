// Package storage provides the persistence layer for the game server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// GameEvent mirrors the domain event structure for persistence.
// The domain package should NOT import this; use interfaces instead.
type GameEvent struct {
	ID        string                 `json:"id" db:"id"`
	SessionID string                 `json:"session_id" db:"session_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	GameDay   int                    `json:"game_day" db:"game_day"`
}

// EventRepository defines the interface for event persistence.
// The domain uses this interface; the implementation is in infra.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event GameEvent) error

	// GetBySessionID retrieves all events for a playthrough (for replay).
	GetBySessionID(ctx context.Context, sessionID string) ([]GameEvent, error)

	// GetByGameDay retrieves all events from a specific in-game day.
	GetByGameDay(ctx context.Context, sessionID string, day int) ([]GameEvent, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, sessionID string, eventType string) ([]GameEvent, error)
}

// SessionSnapshot holds one serialized playthrough for quick restore.
// StateJSON is the full aggregate; the scalar columns exist so queries
// do not need to parse JSON.
type SessionSnapshot struct {
	SessionID   string    `json:"session_id" db:"session_id"`
	PlayerName  string    `json:"player_name" db:"player_name"`
	Difficulty  string    `json:"difficulty" db:"difficulty"`
	StateJSON   string    `json:"state_json" db:"state_json"`
	IsOver      bool      `json:"is_over" db:"is_over"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// SnapshotRepository defines the interface for session state snapshots.
type SnapshotRepository interface {
	// Upsert updates or inserts a session snapshot.
	Upsert(ctx context.Context, snapshot SessionSnapshot) error

	// GetBySessionID retrieves a specific session's snapshot.
	GetBySessionID(ctx context.Context, sessionID string) (*SessionSnapshot, error)

	// GetActive retrieves all snapshots of unfinished playthroughs.
	GetActive(ctx context.Context) ([]SessionSnapshot, error)

	// Delete removes a session snapshot.
	Delete(ctx context.Context, sessionID string) error
}

// RankingEntry is one persisted leaderboard row.
type RankingEntry struct {
	ID         int64     `json:"id" db:"id"`
	PlayerName string    `json:"player_name" db:"player_name"`
	TotalMoney int       `json:"total_money" db:"total_money"`
	FinalDay   int       `json:"final_day" db:"final_day"`
	Difficulty string    `json:"difficulty" db:"difficulty"`
	GameHash   string    `json:"-" db:"game_hash"`
	UserAgent  string    `json:"-" db:"user_agent"`
	IPHash     string    `json:"-" db:"ip_hash"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// RankingStats aggregates the whole leaderboard.
type RankingStats struct {
	TotalEntries  int            `json:"total_entries"`
	UniquePlayers int            `json:"unique_players"`
	HighestMoney  int            `json:"highest_money"`
	AverageMoney  int            `json:"average_money"`
	AverageDays   int            `json:"average_days"`
	ByDifficulty  map[string]int `json:"by_difficulty"`
}

// RankingRepository defines the interface for leaderboard persistence.
type RankingRepository interface {
	// Insert stores a new ranking entry. ErrDuplicateRanking is returned
	// when the game hash already exists.
	Insert(ctx context.Context, entry RankingEntry) (int64, error)

	// ExistsByHash reports whether a submission hash is already stored.
	ExistsByHash(ctx context.Context, gameHash string) (bool, error)

	// CountRicher counts entries with strictly more money.
	CountRicher(ctx context.Context, totalMoney int) (int, error)

	// List returns a page of entries ordered by money descending. An
	// empty difficulty means no filter.
	List(ctx context.Context, difficulty string, offset, limit int) ([]RankingEntry, error)

	// Count returns the number of entries, optionally filtered by
	// difficulty.
	Count(ctx context.Context, difficulty string) (int, error)

	// Stats aggregates the whole table.
	Stats(ctx context.Context) (RankingStats, error)
}
