package app

import (
	"context"
	"errors"
	"io/fs"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/proofbound/textkeep/internal/archive"
	"github.com/proofbound/textkeep/internal/bus"
	"github.com/proofbound/textkeep/internal/config"
	"github.com/proofbound/textkeep/internal/directory"
	"github.com/proofbound/textkeep/internal/export"
	"github.com/proofbound/textkeep/internal/identity"
	"github.com/proofbound/textkeep/internal/logging"
	"github.com/proofbound/textkeep/internal/paths"
	"github.com/proofbound/textkeep/internal/store"
)

// Params holds the resolved CLI configuration passed to the fx module.
// Non-empty fields override the config file.
type Params struct {
	StorePath       string
	AddressBookPath string
}

// Module returns the fx module for the exporter, composing all providers
// and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("textkeep",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideConfig,
			provideBus,
			provideDirectory,
			provideRepository,
			provideExporter,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger() (*zap.Logger, error) {
	return logging.New(paths.LogPath())
}

func provideConfig(p Params, logger *zap.Logger) (*config.Config, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(paths.ConfigPath())
	if err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
		// First run: no config file yet.
		cfg = config.Default()
	}
	if p.StorePath != "" {
		cfg.StorePath = p.StorePath
	}
	if p.AddressBookPath != "" {
		cfg.AddressBookPath = p.AddressBookPath
	}
	if cfg.StorePath == "" {
		cfg.StorePath = paths.DefaultStorePath()
	}
	if cfg.AddressBookPath == "" {
		cfg.AddressBookPath = paths.AddressBookPath()
	}
	logger.Info("configuration loaded",
		zap.String("store", cfg.StorePath),
		zap.String("address_book", cfg.AddressBookPath))
	return cfg, nil
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideDirectory(cfg *config.Config, logger *zap.Logger) (identity.Directory, error) {
	idx, err := directory.Load(paths.ExpandHome(cfg.AddressBookPath))
	if err != nil {
		return nil, err
	}
	logger.Info("address book loaded", zap.Int("entries", idx.Size()))
	return idx, nil
}

func provideRepository(cfg *config.Config, dir identity.Directory, b *bus.Bus, logger *zap.Logger) *store.Repository {
	decoder := archive.Decoder{ScanBudget: cfg.ScanBudgetBytes}
	return store.NewRepository(paths.ExpandHome(cfg.StorePath), dir, decoder, b, logger)
}

func provideExporter(repo *store.Repository, b *bus.Bus, logger *zap.Logger) *export.Exporter {
	return export.NewExporter(repo, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting", zap.String("store", paths.ExpandHome(cfg.StorePath)))
			return nil
		},
		OnStop: func(_ context.Context) error {
			logger.Info("stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
