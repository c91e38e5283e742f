package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/attendance"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/recognition"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/repository"
)

var attendCmd = &cobra.Command{
	Use:   "attend",
	Short: "Run a live recognition session that records attendance",
	Long: `Attend opens the camera and recognizes enrolled employees in a loop.
Each recognized face below the match threshold records today's check-in,
once per employee per day, with Present or Late status against the
configured work start time. Stop with Ctrl+C.`,
	RunE: runAttend,
}

func init() {
	rootCmd.AddCommand(attendCmd)
}

func runAttend(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	recorder := attendance.NewRecorder(
		repository.NewAttendanceRepository(d.pool),
		repository.NewSettingsRepository(d.pool),
		d.logger,
	).WithThreshold(d.cfg.MatchThreshold)

	engine := recognition.NewEngine(d.backend, d.cfg.ModelPath)
	defer engine.Close()

	session := recognition.NewSession(
		d.backend, engine, recorder, d.normalizer,
		d.cfg.CameraDevice, d.cfg.TickInterval, d.logger,
	)
	session.OnOutcome = func(result *domain.RecognitionResult, outcome *attendance.Outcome) {
		switch outcome.Decision {
		case attendance.DecisionRecorded:
			fmt.Printf("employee %d checked in at %s (%s)\n",
				outcome.Record.EmployeeID, outcome.Record.TimeIn, outcome.Record.Status)
		case attendance.DecisionAlreadyRecorded:
			// Quiet: the same face stays in front of the camera for many ticks.
		case attendance.DecisionNotRecognized:
		}
	}

	if err := session.Start(ctx); err != nil {
		return err
	}
	fmt.Println("Recognition session running, press Ctrl+C to stop")

	ended := make(chan struct{})
	go func() {
		session.Wait()
		close(ended)
	}()

	select {
	case <-ctx.Done():
		session.Stop()
		session.Wait()
	case <-ended:
		// Camera failure tore the session down on its own.
	}
	fmt.Println("Session stopped")
	return nil
}
