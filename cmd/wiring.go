package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/config"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/database"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/face"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision"
)

// deps bundles everything every subcommand needs wired the same way.
type deps struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	backend    vision.Backend
	normalizer *vision.Normalizer
}

func setup(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	backend, err := face.NewBackend(cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &deps{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		backend:    backend,
		normalizer: vision.NewNormalizer(cfg.SampleSize),
	}, nil
}

func (d *deps) close() {
	d.pool.Close()
}

// mustGetInt gets an int flag value or panics if the flag doesn't exist.
// Appropriate for flags defined in init(); errors indicate programming bugs.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetString gets a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}
