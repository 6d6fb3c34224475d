package commands

import (
	"github.com/Gobusters/ectologger"
	"go.uber.org/zap"

	"github.com/Ramsey-B/edelweiss/config"
	"github.com/Ramsey-B/edelweiss/pkg/catalog"
	"github.com/Ramsey-B/edelweiss/pkg/database"
	"github.com/Ramsey-B/edelweiss/pkg/logging"
	"github.com/Ramsey-B/edelweiss/pkg/models"
	"github.com/Ramsey-B/edelweiss/pkg/resolver"
	"github.com/Ramsey-B/edelweiss/pkg/resorts"
)

// app holds what every command needs: configuration, logging and the
// in-memory reference data.
type app struct {
	cfg      *config.Config
	logger   ectologger.Logger
	zap      *zap.Logger
	store    *catalog.Store
	registry *resorts.Registry
}

func newApp() (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	logger, zapLogger, err := logging.New(logging.Config{
		AppName: cfg.AppName,
		Level:   cfg.LogLevel,
		Pretty:  cfg.PrettyLogs,
	})
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, zap: zapLogger}, nil
}

// loadReference reads the catalog tables and the resort registry.
func (a *app) loadReference() error {
	loader := catalog.NewLoader(a.logger, catalog.LoaderConfig{
		ScopeColumn:    a.cfg.ScopeColumn,
		ScopeDelimiter: a.cfg.ScopeDelimiter,
	})

	store, err := catalog.OpenStore(loader, a.cfg.LiftsCSVPath, a.cfg.RunsCSVPath)
	if err != nil {
		return err
	}
	registry, err := resorts.Load(a.cfg.ResortsFile)
	if err != nil {
		return err
	}

	a.store = store
	a.registry = registry
	a.logger.WithFields(map[string]any{
		"lift_rows": store.RowCount(models.EntityKindLift),
		"run_rows":  store.RowCount(models.EntityKindRun),
		"resorts":   len(registry.List()),
	}).Info("Loaded reference catalog")
	return nil
}

func (a *app) resolverConfig() resolver.Config {
	return resolver.Config{
		FuzzyThreshold:     a.cfg.FuzzyThreshold,
		MinCoveragePercent: a.cfg.MinCoveragePercent,
	}
}

func (a *app) databaseConfig() database.Config {
	return database.Config{
		Driver:          a.cfg.DatabaseDriver,
		Host:            a.cfg.DatabaseHost,
		Port:            a.cfg.DatabasePort,
		User:            a.cfg.DatabaseUserName,
		Password:        a.cfg.DatabasePassword,
		Name:            a.cfg.DatabaseName,
		SSLMode:         a.cfg.DatabaseSSLMode,
		MaxOpenConns:    a.cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    a.cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: a.cfg.DatabaseConnMaxLifetime,
	}
}

func (a *app) close() {
	_ = a.zap.Sync()
}
