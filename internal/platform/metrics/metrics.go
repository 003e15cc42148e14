// Package metrics provides observability for the game server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Session metrics
	SessionsStarted  int64
	SessionsFinished int64

	// Gameplay metrics
	BuyOrders    int64
	SellOrders   int64
	DaysAdvanced int64
	StreetEvents int64

	// Event journal metrics
	EventsWritten    int64
	EventWriteLatSum int64 // nanoseconds
	EventWriteLatMax int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// Leaderboard metrics
	RankingSubmissions int64
	RankingDuplicates  int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordSessionStart records a new playthrough.
func (c *Collector) RecordSessionStart() {
	atomic.AddInt64(&c.SessionsStarted, 1)
}

// RecordSessionEnd records a finished playthrough.
func (c *Collector) RecordSessionEnd() {
	atomic.AddInt64(&c.SessionsFinished, 1)
}

// RecordTrade records a completed buy or sell order.
func (c *Collector) RecordTrade(buy bool) {
	if buy {
		atomic.AddInt64(&c.BuyOrders, 1)
	} else {
		atomic.AddInt64(&c.SellOrders, 1)
	}
}

// RecordDayAdvance records a day transition.
func (c *Collector) RecordDayAdvance() {
	atomic.AddInt64(&c.DaysAdvanced, 1)
}

// RecordStreetEvent records a triggered street event.
func (c *Collector) RecordStreetEvent() {
	atomic.AddInt64(&c.StreetEvents, 1)
}

// RecordEventWrite records an event write to the database.
func (c *Collector) RecordEventWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	atomic.AddInt64(&c.EventWriteLatSum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.EventWriteLatMax) {
		atomic.StoreInt64(&c.EventWriteLatMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// RecordRankingSubmission records a leaderboard submission attempt.
func (c *Collector) RecordRankingSubmission(duplicate bool) {
	atomic.AddInt64(&c.RankingSubmissions, 1)
	if duplicate {
		atomic.AddInt64(&c.RankingDuplicates, 1)
	}
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	eventsWritten := atomic.LoadInt64(&c.EventsWritten)

	var eventAvg float64
	if eventsWritten > 0 {
		eventAvg = float64(atomic.LoadInt64(&c.EventWriteLatSum)) / float64(eventsWritten) / 1e6 // ms
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"sessions": map[string]interface{}{
			"started":  atomic.LoadInt64(&c.SessionsStarted),
			"finished": atomic.LoadInt64(&c.SessionsFinished),
		},

		"gameplay": map[string]interface{}{
			"buy_orders":    atomic.LoadInt64(&c.BuyOrders),
			"sell_orders":   atomic.LoadInt64(&c.SellOrders),
			"days_advanced": atomic.LoadInt64(&c.DaysAdvanced),
			"street_events": atomic.LoadInt64(&c.StreetEvents),
		},

		"events": map[string]interface{}{
			"written":          eventsWritten,
			"avg_write_lat_ms": eventAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.EventWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},

		"rankings": map[string]interface{}{
			"submissions": atomic.LoadInt64(&c.RankingSubmissions),
			"duplicates":  atomic.LoadInt64(&c.RankingDuplicates),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		// Session metrics
		fmt.Fprintf(w, "# HELP fushengji_sessions_started Total playthroughs started\n")
		fmt.Fprintf(w, "# TYPE fushengji_sessions_started counter\n")
		fmt.Fprintf(w, "fushengji_sessions_started %d\n\n", atomic.LoadInt64(&c.SessionsStarted))

		fmt.Fprintf(w, "# HELP fushengji_sessions_finished Total playthroughs finished\n")
		fmt.Fprintf(w, "# TYPE fushengji_sessions_finished counter\n")
		fmt.Fprintf(w, "fushengji_sessions_finished %d\n\n", atomic.LoadInt64(&c.SessionsFinished))

		// Gameplay metrics
		fmt.Fprintf(w, "# HELP fushengji_trades_total Total executed trade orders\n")
		fmt.Fprintf(w, "# TYPE fushengji_trades_total counter\n")
		fmt.Fprintf(w, "fushengji_trades_total{side=\"buy\"} %d\n", atomic.LoadInt64(&c.BuyOrders))
		fmt.Fprintf(w, "fushengji_trades_total{side=\"sell\"} %d\n\n", atomic.LoadInt64(&c.SellOrders))

		fmt.Fprintf(w, "# HELP fushengji_days_advanced Total day transitions\n")
		fmt.Fprintf(w, "# TYPE fushengji_days_advanced counter\n")
		fmt.Fprintf(w, "fushengji_days_advanced %d\n\n", atomic.LoadInt64(&c.DaysAdvanced))

		fmt.Fprintf(w, "# HELP fushengji_street_events Total street events triggered\n")
		fmt.Fprintf(w, "# TYPE fushengji_street_events counter\n")
		fmt.Fprintf(w, "fushengji_street_events %d\n\n", atomic.LoadInt64(&c.StreetEvents))

		// Event journal metrics
		fmt.Fprintf(w, "# HELP fushengji_events_written Total events written\n")
		fmt.Fprintf(w, "# TYPE fushengji_events_written counter\n")
		fmt.Fprintf(w, "fushengji_events_written %d\n\n", atomic.LoadInt64(&c.EventsWritten))

		fmt.Fprintf(w, "# HELP fushengji_event_write_errors Total event write errors\n")
		fmt.Fprintf(w, "# TYPE fushengji_event_write_errors counter\n")
		fmt.Fprintf(w, "fushengji_event_write_errors %d\n\n", atomic.LoadInt64(&c.EventWriteErrors))

		// WebSocket metrics
		fmt.Fprintf(w, "# HELP fushengji_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE fushengji_ws_connections gauge\n")
		fmt.Fprintf(w, "fushengji_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP fushengji_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE fushengji_ws_messages_total counter\n")
		fmt.Fprintf(w, "fushengji_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "fushengji_ws_messages_total{direction=\"out\"} %d\n\n", atomic.LoadInt64(&c.WSMessagesOut))

		// Leaderboard metrics
		fmt.Fprintf(w, "# HELP fushengji_ranking_submissions Total ranking submissions\n")
		fmt.Fprintf(w, "# TYPE fushengji_ranking_submissions counter\n")
		fmt.Fprintf(w, "fushengji_ranking_submissions %d\n\n", atomic.LoadInt64(&c.RankingSubmissions))

		fmt.Fprintf(w, "# HELP fushengji_ranking_duplicates Total rejected duplicate submissions\n")
		fmt.Fprintf(w, "# TYPE fushengji_ranking_duplicates counter\n")
		fmt.Fprintf(w, "fushengji_ranking_duplicates %d\n", atomic.LoadInt64(&c.RankingDuplicates))
	}
}
