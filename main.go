package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/stage-score/cliparse"
	"github.com/danielhkuo/stage-score/db"
	"github.com/danielhkuo/stage-score/router"
	"github.com/danielhkuo/stage-score/store"
)

func main() {
	var err error

	// Local .env is optional
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	st, media, cleanup, err := buildStore(cfg)
	if err != nil {
		slog.Error("store initialization failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Create router
	mux := router.NewRouter(st, media, cfg)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "store", cfg.StoreMode)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// buildStore selects the entry store backend from config. The returned
// MediaDir is nil when media lives behind the remote endpoint instead of
// on local disk.
func buildStore(cfg cliparse.Config) (store.EntryStore, *store.MediaDir, func(), error) {
	noop := func() {}

	switch cfg.StoreMode {
	case cliparse.StoreRemote:
		st := store.NewRemote(cfg.RemoteURL, store.RemoteConfig{
			Interval:     cfg.ConfirmInterval,
			Timeout:      cfg.ConfirmTimeout,
			TimeoutVideo: cfg.ConfirmTimeoutVideo,
		})
		return st, nil, noop, nil

	case cliparse.StoreSheets:
		media, err := store.NewMediaDir(cfg.MediaDir)
		if err != nil {
			return nil, nil, noop, err
		}
		st, err := store.NewSheets(context.Background(), cfg.ServiceAccountJSON, cfg.SpreadsheetID, media)
		if err != nil {
			return nil, nil, noop, err
		}
		return st, media, noop, nil

	default:
		driver := "sqlite"
		if cfg.DatabaseType == "postgres" {
			driver = "postgres"
		}
		dbConn, err := sql.Open(driver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, noop, err
		}

		// Verify connection
		if err := dbConn.Ping(); err != nil {
			dbConn.Close()
			return nil, nil, noop, err
		}

		// Create schema (tables)
		if err := db.CreateSchema(dbConn); err != nil {
			dbConn.Close()
			return nil, nil, noop, err
		}
		slog.Info("Database schema ready", "driver", driver)

		media, err := store.NewMediaDir(cfg.MediaDir)
		if err != nil {
			dbConn.Close()
			return nil, nil, noop, err
		}

		return store.NewSQL(dbConn, media), media, func() { dbConn.Close() }, nil
	}
}
