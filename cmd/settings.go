package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/repository"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the configured work start time",
	Long: `Without flags, settings prints the configured work start time.
With --work-start HH:MM[:SS], it replaces the configuration. Check-ins
strictly after the work start are marked Late; with no configuration
every check-in is Present.`,
	RunE: runSettings,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.Flags().String("work-start", "", "New work start time, e.g. 08:00")
}

func runSettings(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	settingsRepo := repository.NewSettingsRepository(d.pool)

	if raw := mustGetString(cmd, "work-start"); raw != "" {
		workStart, err := domain.ParseTimeOfDay(raw)
		if err != nil {
			return err
		}
		if err := settingsRepo.Set(ctx, &domain.AttendanceSettings{WorkStart: workStart}); err != nil {
			return err
		}
		fmt.Printf("Work start set to %s\n", workStart)
		return nil
	}

	settings, err := settingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if settings == nil {
		fmt.Println("Work start not configured; every check-in counts as Present")
		return nil
	}
	fmt.Printf("Work start: %s\n", settings.WorkStart)
	return nil
}
