package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/enrollment"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/repository"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/training"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll [employee-id]",
	Short: "Capture face samples for an employee and retrain the model",
	Long: `Enroll captures a fixed quota of face samples for one employee from
the camera, stores them and retrains the recognition model so the
employee is recognizable immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)
}

func runEnroll(cmd *cobra.Command, args []string) error {
	employeeID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("employee-id must be an integer, got %q", args[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	sampleRepo := repository.NewSampleRepository(d.pool)
	trainer := training.NewTrainer(sampleRepo, d.backend, d.normalizer, d.cfg.ModelPath, d.logger)
	service := enrollment.NewService(
		d.backend, sampleRepo, trainer, d.normalizer,
		d.cfg.SampleQuota, d.cfg.CameraDevice, d.logger,
	)

	bar := progressbar.NewOptions(d.cfg.SampleQuota,
		progressbar.OptionSetDescription("Capturing samples"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
	service.OnSample = func(collected, quota int) {
		_ = bar.Set(collected)
	}

	result, err := service.Enroll(ctx, employeeID)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	fmt.Printf("\nEnrolled employee %d with %d samples\n", employeeID, result.Samples)
	fmt.Printf("Model retrained: %d employees, %d samples\n",
		result.Training.Employees, result.Training.Samples)
	return nil
}
