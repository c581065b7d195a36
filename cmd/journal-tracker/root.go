package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/hannaddev/journal-tracker/api/v1"
	"github.com/hannaddev/journal-tracker/internal/config"
	"github.com/hannaddev/journal-tracker/internal/handlers"
	"github.com/hannaddev/journal-tracker/internal/parser"
	"github.com/hannaddev/journal-tracker/internal/server"
	"github.com/hannaddev/journal-tracker/internal/services"
	"github.com/hannaddev/journal-tracker/internal/store"
	"github.com/hannaddev/journal-tracker/internal/store/migrations"
	"github.com/hannaddev/journal-tracker/pkg/cycle"
	"github.com/hannaddev/journal-tracker/pkg/feed"
	"github.com/hannaddev/journal-tracker/pkg/gamestate"
	"github.com/hannaddev/journal-tracker/pkg/scheduler"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:     "journal-tracker",
	Short:   "journal-tracker - parses, deduplicates and aggregates scraped journal entries",
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to the configuration file")
}

func run() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	log := zap.S().Named("main")

	if cfg.Tracker.SessionID == "" {
		cfg.Tracker.SessionID = uuid.NewString()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPath := ":memory:"
	if cfg.Tracker.DataFolder != "" {
		if err := os.MkdirAll(cfg.Tracker.DataFolder, 0o755); err != nil {
			return fmt.Errorf("failed to create data folder: %w", err)
		}
		dbPath = filepath.Join(cfg.Tracker.DataFolder, "journal.db")
	}

	db, err := store.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("failed to run schema migrations: %w", err)
	}

	st := store.New(store.NewDuckDBPersister(db))
	if err := st.Load(ctx); err != nil {
		return fmt.Errorf("failed to load persisted state: %w", err)
	}

	applied, err := st.RunMigrationOnce(ctx, store.FlagNormalizedLocations, store.NormalizeLocations)
	if err != nil {
		return fmt.Errorf("failed to normalize stored locations: %w", err)
	}
	if applied {
		log.Infow("normalized stored location keys")
	}

	sched := scheduler.NewScheduler(cfg.Tracker.NumWorkers)
	defer sched.Close()

	var live services.LiveSource
	if cfg.GameState.URL != "" {
		live = gamestate.NewClient(cfg.GameState.URL, cfg.GameState.Timeout)
	}
	var trigger feed.Trigger
	if cfg.Feed.TriggerURL != "" {
		trigger = feed.NewClient(cfg.Feed.TriggerURL, cfg.Feed.Timeout)
	}

	trackerSrv := services.NewTrackerService(
		st,
		parser.DefaultConfig(),
		cfg.Tracker.EventYear,
		cycle.Tracker{Length: cfg.Tracker.ReportCycle, OverdueAfter: cfg.Tracker.OverdueThreshold},
		sched,
		trigger,
	)
	statsSrv := services.NewStatsService(st, live, cfg.Tracker.EventYear)
	logsSrv := services.NewLogsService(store.NewEntryStore(db))
	transferSrv := services.NewTransferService(st, cfg.Tracker.SessionID)

	handler := handlers.New(trackerSrv, statsSrv, logsSrv, transferSrv)
	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		v1.RegisterHandlers(router, handler)
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	return srv.Stop(context.Background())
}

func newLogger(cfg *config.Configuration) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	return zapCfg.Build()
}
