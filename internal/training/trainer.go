package training

import (
	"context"
	"image"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision"
)

type SampleRepositoryInterface interface {
	ListAll(ctx context.Context) ([]domain.FaceSample, error)
}

// Result describes a completed training run. Skipped means the sample
// store was empty and the existing model artifact was left untouched.
type Result struct {
	Skipped   bool
	Employees int
	Samples   int
}

// Trainer rebuilds the classifier model from every stored sample.
// Training is always a full rebuild; there is no incremental update.
type Trainer struct {
	sampleRepo SampleRepositoryInterface
	backend    vision.Backend
	normalizer *vision.Normalizer
	modelPath  string
	logger     *slog.Logger
}

func NewTrainer(
	sampleRepo SampleRepositoryInterface,
	backend vision.Backend,
	normalizer *vision.Normalizer,
	modelPath string,
	logger *slog.Logger,
) *Trainer {
	return &Trainer{
		sampleRepo: sampleRepo,
		backend:    backend,
		normalizer: normalizer,
		modelPath:  modelPath,
		logger:     logger,
	}
}

// Train fetches all samples, fits a fresh model and writes it to the
// model path. With zero samples it reports Skipped without error and
// does not touch the artifact.
func (t *Trainer) Train(ctx context.Context) (*Result, error) {
	samples, err := t.sampleRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		t.logger.Warn("no samples stored, skipping training")
		return &Result{Skipped: true}, nil
	}

	images := make([]*image.Gray, 0, len(samples))
	labels := make([]int, 0, len(samples))
	employees := make(map[int]struct{})

	for _, sample := range samples {
		gray, err := t.normalizer.Decode(sample.Data)
		if err != nil {
			return nil, domain.ErrValidationFailed.WithError(err)
		}
		images = append(images, gray)
		labels = append(labels, sample.EmployeeID)
		employees[sample.EmployeeID] = struct{}{}
	}

	fitter, err := t.backend.NewTrainer()
	if err != nil {
		return nil, err
	}
	defer fitter.Close()

	if err := fitter.Fit(images, labels); err != nil {
		return nil, err
	}
	if err := fitter.Save(t.modelPath); err != nil {
		return nil, err
	}

	result := &Result{Employees: len(employees), Samples: len(samples)}
	t.logger.Info("model trained",
		slog.Int("employees", result.Employees),
		slog.Int("samples", result.Samples),
		slog.String("model_path", t.modelPath),
	)
	return result, nil
}
