package recognition

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/attendance"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision"
)

type RecorderInterface interface {
	Record(ctx context.Context, employeeID int, now time.Time, score float64) (*attendance.Outcome, error)
}

// State is the session lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// Session drives live recognition: on every tick it grabs a frame,
// detects faces, classifies them and feeds matches into the attendance
// recorder. Only one session owns the camera at a time; starting a
// running session fails with ErrSessionRunning.
type Session struct {
	backend      vision.Backend
	engine       *Engine
	recorder     RecorderInterface
	normalizer   *vision.Normalizer
	cameraDevice int
	interval     time.Duration
	logger       *slog.Logger

	// OnOutcome, when set, is called after each recorder feed. Used by
	// the CLI to print live feedback.
	OnOutcome func(result *domain.RecognitionResult, outcome *attendance.Outcome)

	mu       sync.Mutex
	state    State
	camera   vision.Camera
	detector vision.Detector
	done     chan struct{}
	stopOnce *sync.Once
	finished chan struct{}
}

func NewSession(
	backend vision.Backend,
	engine *Engine,
	recorder RecorderInterface,
	normalizer *vision.Normalizer,
	cameraDevice int,
	interval time.Duration,
	logger *slog.Logger,
) *Session {
	if interval == 0 {
		interval = 33 * time.Millisecond
	}
	return &Session{
		backend:      backend,
		engine:       engine,
		recorder:     recorder,
		normalizer:   normalizer,
		cameraDevice: cameraDevice,
		interval:     interval,
		logger:       logger,
		state:        StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start loads the model, acquires the camera and launches the tick loop.
// It returns ErrModelUnavailable when no trained model exists and
// ErrSessionRunning when a session is already active.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		return domain.ErrSessionRunning
	}

	if err := s.engine.Load(); err != nil {
		return err
	}

	camera, err := s.backend.OpenCamera(s.cameraDevice)
	if err != nil {
		return err
	}
	detector, err := s.backend.NewDetector()
	if err != nil {
		camera.Close()
		return err
	}

	s.camera = camera
	s.detector = detector
	s.state = StateRunning
	s.done = make(chan struct{})
	s.stopOnce = new(sync.Once)
	s.finished = make(chan struct{})

	go s.run(ctx, s.done, s.finished)

	s.logger.Info("recognition session started",
		"device", s.cameraDevice,
		"interval", s.interval,
	)
	return nil
}

// Stop requests the tick loop to end. Safe to call repeatedly and from
// any goroutine; a stopped session can be started again.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return
	}
	s.stopOnce.Do(func() { close(s.done) })
}

// Wait blocks until the running tick loop has fully torn down. Returns
// immediately when no session is active.
func (s *Session) Wait() {
	s.mu.Lock()
	finished := s.finished
	s.mu.Unlock()
	if finished != nil {
		<-finished
	}
}

func (s *Session) run(ctx context.Context, done <-chan struct{}, finished chan<- struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.teardown(finished)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("recognition session stopped")
			return
		case <-done:
			s.logger.Info("recognition session stopped")
			return
		case <-ticker.C:
			if err := s.tick(ctx); err != nil {
				// A dead camera cannot recover within the session; a
				// failed tick for any other reason is isolated and the
				// loop keeps going.
				if errors.Is(err, domain.ErrCameraRead) {
					s.logger.Error("camera failed, ending session", "error", err)
					return
				}
				s.logger.Error("tick failed", "error", err)
			}
		}
	}
}

func (s *Session) teardown(finished chan<- struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.camera != nil {
		if err := s.camera.Close(); err != nil {
			s.logger.Error("closing camera", "error", err)
		}
		s.camera = nil
	}
	if s.detector != nil {
		if err := s.detector.Close(); err != nil {
			s.logger.Error("closing detector", "error", err)
		}
		s.detector = nil
	}
	s.state = StateIdle
	close(finished)
}

func (s *Session) tick(ctx context.Context) error {
	frame, err := s.camera.Read(ctx)
	if err != nil {
		return err
	}
	if frame == nil {
		// Empty frame, wait for the next tick.
		return nil
	}

	regions, err := s.detector.Detect(frame)
	if err != nil {
		return err
	}

	for _, region := range regions {
		gray, err := s.normalizer.Normalize(frame, region)
		if err != nil {
			continue
		}

		result, err := s.engine.Recognize(gray)
		if err != nil {
			return err
		}
		result.Region = region

		outcome, err := s.recorder.Record(ctx, result.EmployeeID, time.Now(), result.Score)
		if err != nil {
			s.logger.Error("recording attendance",
				"employee_id", result.EmployeeID,
				"error", err,
			)
			continue
		}
		if s.OnOutcome != nil {
			s.OnOutcome(result, outcome)
		}
	}
	return nil
}
