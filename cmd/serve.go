package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/api"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/repository"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for attendance queries",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	d.logger.Info("starting PontoFace API",
		slog.String("environment", d.cfg.Environment),
		slog.Int("port", d.cfg.Port),
	)

	router := api.NewRouter(d.logger, &api.Dependencies{
		AttendanceRepo: repository.NewAttendanceRepository(d.pool),
		SettingsRepo:   repository.NewSettingsRepository(d.pool),
		DB:             d.pool,
	})
	router.Setup()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", d.cfg.Port)
		d.logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		d.logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	d.logger.Info("shutting down server...")
	if err := router.ShutdownWithTimeout(10 * time.Second); err != nil {
		d.logger.Error("shutdown error", slog.Any("error", err))
	}

	d.logger.Info("server stopped")
	return nil
}
