// Package network - replay.go
// JSON export of a playthrough's journal, for post-game reviews.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
)

// ReplayHandler serves the journey of one playthrough.
type ReplayHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewReplayHandler creates a new replay handler.
func NewReplayHandler(el *events.EventLog, log *logger.Logger) *ReplayHandler {
	return &ReplayHandler{
		eventLog: el,
		logger:   log,
	}
}

// ReplayEvent is a sanitized event for public viewing.
type ReplayEvent struct {
	ID        string      `json:"id"`
	Timestamp string      `json:"timestamp"`
	GameDay   int         `json:"game_day"`
	Type      string      `json:"type"`
	Summary   string      `json:"summary"`
	Details   interface{} `json:"details,omitempty"`
}

// ReplayResponse is the API response for a replay request.
type ReplayResponse struct {
	SessionID   string        `json:"session_id"`
	TotalEvents int           `json:"total_events"`
	FilteredBy  string        `json:"filtered_by,omitempty"`
	GeneratedAt string        `json:"generated_at"`
	Events      []ReplayEvent `json:"events"`
}

// RegisterRoutes sets up the replay API routes.
func (rh *ReplayHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/replay", rh.HandleReplay).Methods(http.MethodGet)
}

// HandleReplay returns the journal of a playthrough.
// GET /api/replay?session_id=XXX&day=N&type=TRADE_BUY
func (rh *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		rh.jsonError(w, "Missing session_id", http.StatusBadRequest)
		return
	}

	// Optional filters
	dayStr := r.URL.Query().Get("day")
	eventType := r.URL.Query().Get("type")

	allEvents := rh.eventLog.GetBySession(sessionID)

	var replayEvents []ReplayEvent
	filterDesc := ""

	for _, e := range allEvents {
		if dayStr != "" {
			day, _ := strconv.Atoi(dayStr)
			if e.GameDay != day {
				continue
			}
			filterDesc = "Day " + dayStr
		}
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		replayEvents = append(replayEvents, rh.convertToReplayEvent(e))
	}

	response := ReplayResponse{
		SessionID:   sessionID,
		TotalEvents: len(replayEvents),
		FilteredBy:  filterDesc,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      replayEvents,
	}

	rh.logger.Event("REPLAY_VIEWED", sessionID, "Events:"+strconv.Itoa(len(replayEvents)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// convertToReplayEvent transforms an internal event to public format.
func (rh *ReplayHandler) convertToReplayEvent(e events.GameEvent) ReplayEvent {
	return ReplayEvent{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format("15:04:05"),
		GameDay:   e.GameDay,
		Type:      string(e.Type),
		Summary:   rh.summarizeEvent(e),
		Details:   e.Payload,
	}
}

// summarizeEvent creates a human-readable summary.
func (rh *ReplayHandler) summarizeEvent(e events.GameEvent) string {
	switch e.Type {
	case events.EventTypeSessionStarted:
		return "新的北京生活开始了。"
	case events.EventTypeTradeBuy:
		return "买进了一批货。"
	case events.EventTypeTradeSell:
		return "卖出了一批货。"
	case events.EventTypeTravel:
		return "去了城里的另一个地方。"
	case events.EventTypeDayAdvanced:
		return "新的一天开始了。"
	case events.EventTypeStreetEvent:
		return "街上发生了一件事。"
	case events.EventTypeMarketShock:
		return "市场价格剧烈波动。"
	case events.EventTypeBankDeposit:
		return "把钱存进了银行。"
	case events.EventTypeBankWithdraw:
		return "从银行取了钱。"
	case events.EventTypeBankInterest:
		return "银行结算了利息。"
	case events.EventTypeHospitalVisit:
		return "去医院治疗了一番。"
	case events.EventTypeRentalUpgrade:
		return "租了更大的仓库。"
	case events.EventTypeTipBought:
		return "花钱打听了消息。"
	case events.EventTypeGameOver:
		return "这段浮生记结束了。"
	default:
		return "发生了一些事情……"
	}
}

// jsonError sends an error response.
func (rh *ReplayHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
