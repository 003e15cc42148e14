package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// ErrDuplicateRanking marks a submission whose hash is already stored.
var ErrDuplicateRanking = errors.New("ranking already submitted")

// SQLiteRankingRepository implements RankingRepository for SQLite.
type SQLiteRankingRepository struct {
	db *sql.DB
}

func NewSQLiteRankingRepository(db *sql.DB) *SQLiteRankingRepository {
	return &SQLiteRankingRepository{db: db}
}

func (r *SQLiteRankingRepository) Insert(ctx context.Context, entry RankingEntry) (int64, error) {
	query := `
		INSERT INTO rankings (player_name, total_money, final_day, difficulty, game_hash, user_agent, ip_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, query,
		entry.PlayerName, entry.TotalMoney, entry.FinalDay, entry.Difficulty,
		entry.GameHash, entry.UserAgent, entry.IPHash, entry.CreatedAt,
	)
	if err != nil {
		// The UNIQUE constraint on game_hash is the dedup backstop.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrDuplicateRanking
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRankingRepository) ExistsByHash(ctx context.Context, gameHash string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rankings WHERE game_hash = ?`, gameHash).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteRankingRepository) CountRicher(ctx context.Context, totalMoney int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rankings WHERE total_money > ?`, totalMoney).Scan(&n)
	return n, err
}

func (r *SQLiteRankingRepository) List(ctx context.Context, difficulty string, offset, limit int) ([]RankingEntry, error) {
	query := `
		SELECT id, player_name, total_money, final_day, difficulty, game_hash, created_at
		FROM rankings
		WHERE (? = '' OR difficulty = ?)
		ORDER BY total_money DESC, created_at ASC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, difficulty, difficulty, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []RankingEntry
	for rows.Next() {
		var e RankingEntry
		if err := rows.Scan(&e.ID, &e.PlayerName, &e.TotalMoney, &e.FinalDay, &e.Difficulty, &e.GameHash, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRankingRepository) Count(ctx context.Context, difficulty string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rankings WHERE (? = '' OR difficulty = ?)`,
		difficulty, difficulty,
	).Scan(&n)
	return n, err
}

func (r *SQLiteRankingRepository) Stats(ctx context.Context) (RankingStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(DISTINCT player_name),
		       COALESCE(MAX(total_money), 0),
		       COALESCE(AVG(total_money), 0),
		       COALESCE(AVG(final_day), 0)
		FROM rankings
	`
	var stats RankingStats
	var avgMoney, avgDays float64
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.TotalEntries, &stats.UniquePlayers, &stats.HighestMoney, &avgMoney, &avgDays)
	if err != nil {
		return RankingStats{}, err
	}
	stats.AverageMoney = int(avgMoney)
	stats.AverageDays = int(avgDays)

	stats.ByDifficulty = make(map[string]int)
	rows, err := r.db.QueryContext(ctx, `SELECT difficulty, COUNT(*) FROM rankings GROUP BY difficulty`)
	if err != nil {
		return RankingStats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var difficulty string
		var n int
		if err := rows.Scan(&difficulty, &n); err != nil {
			return RankingStats{}, err
		}
		stats.ByDifficulty[difficulty] = n
	}
	return stats, rows.Err()
}
