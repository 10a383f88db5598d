package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rmoncayo/stellarforge/server/internal/catalog"
	"github.com/rmoncayo/stellarforge/server/internal/domain/state"
	"github.com/rmoncayo/stellarforge/server/internal/engine"
	"github.com/rmoncayo/stellarforge/server/internal/events"
	"github.com/rmoncayo/stellarforge/server/internal/infra/storage"
	"github.com/rmoncayo/stellarforge/server/internal/network"
	"github.com/rmoncayo/stellarforge/server/internal/platform/config"
	"github.com/rmoncayo/stellarforge/server/internal/platform/logger"
	"github.com/rmoncayo/stellarforge/server/internal/platform/metrics"
)

// sqliteSnapshotPersister adapts the save repository to the engine's
// persistence port. Encoding lives in storage so the engine never sees
// the wire format.
type sqliteSnapshotPersister struct {
	repo storage.SaveRepository
}

func (p *sqliteSnapshotPersister) Save(st *state.State) error {
	payload, err := storage.Encode(st)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.repo.Upsert(ctx, storage.SaveSlot, state.Version, payload)
}

func (p *sqliteSnapshotPersister) Load() (*state.State, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	payload, err := p.repo.Get(ctx, storage.SaveSlot)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}
	return storage.Decode(payload)
}

// sqliteEventPersister writes domain events into the durable ledger.
type sqliteEventPersister struct {
	repo storage.EventRepository
}

func (p *sqliteEventPersister) Append(event events.GameEvent) error {
	payload := map[string]interface{}{}
	if event.Payload != nil {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			// Scalar payloads still get stored, just wrapped.
			payload = map[string]interface{}{"value": event.Payload}
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.repo.Append(ctx, storage.GameEvent{
		ID:        event.ID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		SubjectID: event.SubjectID,
		Payload:   payload,
	})
}

func main() {
	log := logger.NewLogger()
	log.Info("Starting StellarForge server...")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Invalid configuration: " + err.Error())
		os.Exit(1)
	}

	var cat *catalog.Catalog
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			log.Error("Failed to load catalog from " + cfg.CatalogPath + ": " + err.Error())
			os.Exit(1)
		}
		log.Info("Loaded catalog from " + cfg.CatalogPath)
	} else {
		cat = catalog.Default()
		log.Info("Using built-in catalog")
	}

	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		log.Error("Failed to initialize database: " + err.Error())
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database ready at " + cfg.DBPath)

	saveRepo := storage.NewSQLiteSaveRepository(db)
	eventRepo := storage.NewSQLiteEventRepository(db)

	eventLog := events.NewEventLog(&sqliteEventPersister{repo: eventRepo})
	eng := engine.NewEngine(cat, eventLog, &sqliteSnapshotPersister{repo: saveRepo}, log)

	// Restore the save before the first tick so catch-up accrual runs
	// against the persisted tLast.
	if err := eng.Load(); err != nil {
		log.Error("Failed to load saved state: " + err.Error())
		os.Exit(1)
	}
	eng.Tick(time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticker := engine.NewTicker(eng, cfg.TickInterval, log)
	go ticker.Start(ctx)

	hub := network.NewHub(eng, log)
	go hub.Run(ctx)
	go hub.StartStatePoller(ctx, cfg.SnapshotInterval)
	go hub.StartEventPoller(ctx, eventLog)

	// Autosave loop. A final save also runs on shutdown.
	go func() {
		saveTicker := time.NewTicker(cfg.AutosaveInterval)
		defer saveTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-saveTicker.C:
				if err := eng.Save(); err != nil {
					log.Error("Autosave failed: " + err.Error())
				}
			}
		}
	}()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("WebSocket upgrade failed: " + err.Error())
			return
		}
		client := network.NewClient(hub, conn, cfg.ClientSendBuffer)
		client.Register()
		go client.WritePump()
		go client.ReadPump()
	})

	api := network.NewAPIServer(eng, log)
	api.RegisterRoutes(mux)
	api.RegisterReplayRoutes(mux, eventLog)

	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	go func() {
		log.Info("Listening on " + cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: " + err.Error())
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
		log.Info("Shutdown signal received")
	case <-ctx.Done():
	}

	cancel()
	ticker.Stop()

	// Fold any accrued time into the state before the final save.
	eng.Tick(time.Now())
	if err := eng.Save(); err != nil {
		log.Error("Final save failed: " + err.Error())
	} else {
		log.Info("State saved")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown error: " + err.Error())
	}
	log.Info("Server stopped")
}
