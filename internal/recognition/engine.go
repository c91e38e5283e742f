package recognition

import (
	"image"
	"sync"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision"
)

// Engine wraps the classifier behind a reloadable snapshot. Recognize
// always sees a fully loaded model or fails with ErrModelUnavailable;
// Load swaps the snapshot atomically so a retrain never disturbs an
// in-flight prediction.
type Engine struct {
	backend   vision.Backend
	modelPath string

	mu         sync.RWMutex
	classifier vision.Classifier
}

func NewEngine(backend vision.Backend, modelPath string) *Engine {
	return &Engine{backend: backend, modelPath: modelPath}
}

// Load reads the model artifact from disk into a fresh classifier and
// swaps it in. On failure the previous snapshot, if any, stays active.
func (e *Engine) Load() error {
	classifier, err := e.backend.NewClassifier()
	if err != nil {
		return err
	}
	if err := classifier.Load(e.modelPath); err != nil {
		classifier.Close()
		return err
	}

	e.mu.Lock()
	old := e.classifier
	e.classifier = classifier
	e.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// Reload re-reads the artifact after a retrain. Same swap semantics as
// Load: readers keep the old snapshot until the new one is in.
func (e *Engine) Reload() error {
	return e.Load()
}

// Ready reports whether a model snapshot is loaded.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.classifier != nil
}

// Recognize predicts the employee for one normalized sample. The score
// keeps distance semantics: lower means more similar. Thresholding is
// the caller's concern.
func (e *Engine) Recognize(sample *image.Gray) (*domain.RecognitionResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.classifier == nil {
		return nil, domain.ErrModelUnavailable
	}
	label, score, err := e.classifier.Predict(sample)
	if err != nil {
		return nil, err
	}
	return &domain.RecognitionResult{EmployeeID: label, Score: score}, nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.classifier == nil {
		return nil
	}
	err := e.classifier.Close()
	e.classifier = nil
	return err
}
