package enrollment

import (
	"context"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/training"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision"
)

type SampleRepositoryInterface interface {
	CreateBatch(ctx context.Context, samples []domain.FaceSample) error
}

type RetrainerInterface interface {
	Train(ctx context.Context) (*training.Result, error)
}

// Result describes a completed enrollment run.
type Result struct {
	Samples  int
	Training *training.Result
}

// Service runs the full enrollment flow: capture a quota of samples from
// the camera, persist them in one transaction and retrain the model so
// the new employee is recognizable immediately.
type Service struct {
	backend      vision.Backend
	sampleRepo   SampleRepositoryInterface
	retrainer    RetrainerInterface
	normalizer   *vision.Normalizer
	quota        int
	cameraDevice int
	logger       *slog.Logger

	// OnSample is forwarded to the collector; see Collector.OnSample.
	OnSample func(collected, quota int)
}

func NewService(
	backend vision.Backend,
	sampleRepo SampleRepositoryInterface,
	retrainer RetrainerInterface,
	normalizer *vision.Normalizer,
	quota int,
	cameraDevice int,
	logger *slog.Logger,
) *Service {
	return &Service{
		backend:      backend,
		sampleRepo:   sampleRepo,
		retrainer:    retrainer,
		normalizer:   normalizer,
		quota:        quota,
		cameraDevice: cameraDevice,
		logger:       logger,
	}
}

// Enroll captures samples for employeeID and persists them, then triggers
// a full retrain. Nothing is stored unless the whole quota was captured;
// a camera failure mid-run leaves the database untouched.
func (s *Service) Enroll(ctx context.Context, employeeID int) (*Result, error) {
	if employeeID <= 0 {
		return nil, domain.ErrInvalidEmployeeID
	}

	camera, err := s.backend.OpenCamera(s.cameraDevice)
	if err != nil {
		return nil, err
	}
	defer camera.Close()

	detector, err := s.backend.NewDetector()
	if err != nil {
		return nil, err
	}
	defer detector.Close()

	collector := NewCollector(camera, detector, s.normalizer, s.quota, s.logger)
	collector.OnSample = s.OnSample

	samples, err := collector.Collect(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	if err := s.sampleRepo.CreateBatch(ctx, samples); err != nil {
		return nil, err
	}
	s.logger.Info("samples stored",
		slog.Int("employee_id", employeeID),
		slog.Int("samples", len(samples)),
	)

	trainResult, err := s.retrainer.Train(ctx)
	if err != nil {
		return nil, err
	}

	return &Result{Samples: len(samples), Training: trainResult}, nil
}
