package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/repository"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/training"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Rebuild the recognition model from all stored samples",
	RunE:  runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	trainer := training.NewTrainer(
		repository.NewSampleRepository(d.pool),
		d.backend, d.normalizer, d.cfg.ModelPath, d.logger,
	)

	result, err := trainer.Train(ctx)
	if err != nil {
		return err
	}
	if result.Skipped {
		fmt.Println("No samples stored yet; nothing to train")
		return nil
	}

	fmt.Printf("Model trained: %d employees, %d samples -> %s\n",
		result.Employees, result.Samples, d.cfg.ModelPath)
	return nil
}
