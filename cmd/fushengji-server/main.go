// Package main is the entry point for the Beijing Fushengji game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/niletry/beijing-fushengji-server/internal/domain/city"
	"github.com/niletry/beijing-fushengji-server/internal/domain/goods"
	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/domain/street"
	"github.com/niletry/beijing-fushengji-server/internal/engine"
	"github.com/niletry/beijing-fushengji-server/internal/events"
	"github.com/niletry/beijing-fushengji-server/internal/infra/storage"
	"github.com/niletry/beijing-fushengji-server/internal/leaderboard"
	"github.com/niletry/beijing-fushengji-server/internal/network"
	"github.com/niletry/beijing-fushengji-server/internal/platform/config"
	"github.com/niletry/beijing-fushengji-server/internal/platform/logger"
	"github.com/niletry/beijing-fushengji-server/internal/platform/metrics"
	"github.com/niletry/beijing-fushengji-server/internal/platform/optimization"
)

func restoreSessions(ctx context.Context, repo *storage.SQLiteSnapshotRepository, eng *engine.Engine, appLogger *logger.Logger) {
	appLogger.Info("Checking DB for unfinished playthroughs...")
	snaps, err := repo.GetActive(ctx)
	if err != nil {
		appLogger.Error("Failed to query DB for sessions: " + err.Error())
		return
	}

	restored := 0
	for _, snap := range snaps {
		var st session.State
		if err := json.Unmarshal([]byte(snap.StateJSON), &st); err != nil {
			appLogger.Warn("Skipping corrupt session snapshot " + snap.SessionID + ": " + err.Error())
			continue
		}
		eng.RestoreSession(&st)
		restored++
	}
	if restored > 0 {
		appLogger.Info("Restored playthroughs from SQLite state.")
	}
}

func backupSessions(ctx context.Context, repo *storage.SQLiteSnapshotRepository, eng *engine.Engine, interval time.Duration, appLogger *logger.Logger) {
	backupTicker := time.NewTicker(interval)
	defer backupTicker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-backupTicker.C:
			for _, st := range eng.Sessions() {
				stateJSON, err := json.Marshal(st)
				if err != nil {
					appLogger.Error("Failed to serialize session " + st.ID + ": " + err.Error())
					continue
				}
				snap := storage.SessionSnapshot{
					SessionID:   st.ID,
					PlayerName:  st.PlayerName,
					Difficulty:  st.Difficulty,
					StateJSON:   string(stateJSON),
					IsOver:      st.IsOver(),
					LastUpdated: time.Now(),
				}
				if err := repo.Upsert(ctx, snap); err != nil {
					appLogger.Error("Failed to back up session " + st.ID + ": " + err.Error())
				}
			}
		}
	}
}

func main() {
	log.Println("[FUSHENGJI] Initializing 'Beijing Fushengji' Authoritative Server...")

	// .env is optional; real deploys set the environment directly.
	_ = godotenv.Load()

	cfgPath := os.Getenv("FSJ_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	tuning := optimization.ProfileByName(cfg.Tuning.Profile)

	appLogger := logger.NewLogger()

	appLogger.Info("Initializing SQLite database '" + cfg.Storage.SQLitePath + "'...")
	db, err := storage.InitSQLite(cfg.Storage.SQLitePath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	db.SetMaxOpenConns(tuning.DBMaxOpenConns)
	db.SetMaxIdleConns(tuning.DBMaxIdleConns)

	eventRepo := storage.NewSQLiteEventRepository(db)
	snapRepo := storage.NewSQLiteSnapshotRepository(db)
	rankingRepo := storage.NewSQLiteRankingRepository(db)

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(storage.NewEventPersisterAdapter(eventRepo))

	appLogger.Info("Bootstrapping Engine Subsystems...")
	gameEngine, err := engine.NewEngine(
		goods.MustIndex(),
		city.MustIndex(),
		street.Catalog,
		street.Tips,
		cfg.Difficulties,
		eventLog,
		appLogger,
	)
	if err != nil {
		appLogger.Error("Failed to initialize engine: " + err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	restoreSessions(ctx, snapRepo, gameEngine, appLogger)

	// Automated state backup routine
	go backupSessions(ctx, snapRepo, gameEngine, time.Duration(cfg.Storage.BackupInterval)*time.Second, appLogger)

	appLogger.Info("Bootstrapping WebSocket Hub...")
	minActGap := time.Second / time.Duration(tuning.MaxMessagesPerSecond)
	hub := network.NewHub(gameEngine, appLogger, tuning.ClientSendBuffer, minActGap)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	appLogger.Info("Bootstrapping Leaderboard...")
	labels := make([]string, 0, len(cfg.Difficulties))
	for _, p := range cfg.Difficulties {
		labels = append(labels, p.Label)
	}
	rankingService, err := leaderboard.NewService(rankingRepo, appLogger, cfg.Leaderboard.DedupSalt, labels)
	if err != nil {
		appLogger.Error("Failed to initialize leaderboard: " + err.Error())
		os.Exit(1)
	}

	// Setup API routes
	router := mux.NewRouter()

	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})

	network.NewLeaderboardAPI(rankingService, appLogger).RegisterRoutes(router)
	network.NewReplayHandler(eventLog, appLogger).RegisterRoutes(router)

	router.HandleFunc("/api/difficulties", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gameEngine.Presets())
	}).Methods(http.MethodGet)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler()).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: router,
	}

	go func() {
		log.Printf("[FUSHENGJI] HTTP API & WS Server listening on %s", cfg.Server.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[FUSHENGJI] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[FUSHENGJI] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests for the web frontend
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}
	hub.Serve(conn)
}
