// Package app wires the core services together: configuration, the SQLite
// store, telemetry and the inventory service that fronts all optimistic
// mutations. The TUI talks to App; App talks to the store through flow
// coordinators.
package app

import (
	"fmt"
	"path/filepath"

	"github.com/oakmere/tally/internal/config"
	"github.com/oakmere/tally/internal/state"
	"github.com/oakmere/tally/internal/store"
	"github.com/oakmere/tally/internal/telemetry"
	"github.com/oakmere/tally/internal/tui/events"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// App holds all the core services and business logic
type App struct {
	Config    *config.Manager
	Store     *store.Store
	Logger    *zap.Logger
	Telemetry *telemetry.Sink
	Inventory *InventoryService
	UI        *state.UIStore

	// Event system
	EventBroker *events.Broker
}

// New creates an app with all services initialized, rooted at workingDir.
func New(workingDir string, eventBroker *events.Broker) (*App, error) {
	cfgManager := config.NewManager(workingDir)
	if err := cfgManager.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := cfgManager.Get()

	logger, err := telemetry.NewLogger(resolve(workingDir, cfg.LogPath()), cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	st, err := store.Open(resolve(workingDir, cfg.DatabasePath), logger.Named("store"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	sink := telemetry.New(logger.Named("flow"), prometheus.DefaultRegisterer)
	telemetry.Serve(cfg.MetricsAddr, logger, nil)

	a := &App{
		Config:      cfgManager,
		Store:       st,
		Logger:      logger,
		Telemetry:   sink,
		UI:          state.NewUIStore(workingDir),
		EventBroker: eventBroker,
	}
	a.Inventory = NewInventoryService(st, eventBroker, sink, logger.Named("inventory"), cfg.MutationTimeout())
	return a, nil
}

// Close shuts down services. The broker is cleared last so in-flight
// publishes have nowhere to land rather than block.
func (a *App) Close() {
	a.Inventory.Stop()
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn("store close", zap.Error(err))
	}
	_ = a.Logger.Sync()
	a.EventBroker.Clear()
}

// resolve anchors relative config paths at the working directory.
func resolve(workingDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDir, path)
}
