// Package network - leaderboard_api.go
// REST API for ranking submissions and queries.
package network

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/niletry/beijing-fushengji-server/internal/leaderboard"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
)

// LeaderboardAPI handles the public rankings endpoints.
type LeaderboardAPI struct {
	service *leaderboard.Service
	logger  *logger.Logger
}

// NewLeaderboardAPI creates the rankings HTTP handler set.
func NewLeaderboardAPI(service *leaderboard.Service, log *logger.Logger) *LeaderboardAPI {
	return &LeaderboardAPI{service: service, logger: log}
}

// RegisterRoutes sets up the rankings API routes.
func (api *LeaderboardAPI) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/rankings", api.HandleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/api/rankings", api.HandleList).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", api.HandleStats).Methods(http.MethodGet)
}

// HandleSubmit accepts a finished game result.
// POST /api/rankings
func (api *LeaderboardAPI) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub leaderboard.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		api.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sub.UserAgent = r.UserAgent()
	sub.IPHash = hashClientIP(r)

	result, err := api.service.Submit(r.Context(), sub)
	if err != nil {
		if errors.Is(err, leaderboard.ErrInvalidSubmission) {
			api.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		api.logger.Error("Ranking submit failed: " + err.Error())
		api.jsonError(w, "Internal error", http.StatusInternalServerError)
		return
	}

	if result.Duplicate {
		api.jsonSuccess(w, map[string]interface{}{
			"success":   true,
			"duplicate": true,
			"message":   "这个成绩已经上榜了",
		})
		return
	}

	api.jsonSuccess(w, map[string]interface{}{
		"success": true,
		"id":      result.ID,
		"rank":    result.Rank,
	})
}

// HandleList returns one page of the leaderboard.
// GET /api/rankings?page=1&limit=10&difficulty=经典
func (api *LeaderboardAPI) HandleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	difficulty := r.URL.Query().Get("difficulty")

	result, err := api.service.List(r.Context(), difficulty, page, limit)
	if err != nil {
		if errors.Is(err, leaderboard.ErrInvalidSubmission) {
			api.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		api.logger.Error("Ranking list failed: " + err.Error())
		api.jsonError(w, "Internal error", http.StatusInternalServerError)
		return
	}
	api.jsonSuccess(w, result)
}

// HandleStats returns leaderboard aggregates.
// GET /api/stats
func (api *LeaderboardAPI) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := api.service.Stats(r.Context())
	if err != nil {
		api.logger.Error("Ranking stats failed: " + err.Error())
		api.jsonError(w, "Internal error", http.StatusInternalServerError)
		return
	}
	api.jsonSuccess(w, stats)
}

// hashClientIP fingerprints the caller without storing the raw address.
func hashClientIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ip = host
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// jsonError sends an error response.
func (api *LeaderboardAPI) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func (api *LeaderboardAPI) jsonSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
