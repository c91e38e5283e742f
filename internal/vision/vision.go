// Package vision define as interfaces de capacidade de visão computacional
// usadas pelo núcleo de ponto: câmera, detector de faces e classificador.
// Concrete backends live in the subpackages (opencv, hist, mock) and are
// selected by the factory in internal/face.
package vision

import (
	"context"
	"image"
)

// Camera owns one capture device handle. The handle is exclusively owned by
// the active session; Read is the only blocking call and is not assumed
// reentrant.
type Camera interface {
	// Read returns the next frame. A (nil, nil) return is an empty frame
	// (camera glitch) and is not an error; callers skip it. A non-nil error
	// means the device failed persistently.
	Read(ctx context.Context) (image.Image, error)

	// Close releases the device handle.
	Close() error
}

// Detector finds face regions in a frame. Zero regions is a normal result.
type Detector interface {
	Detect(frame image.Image) ([]image.Rectangle, error)
	Close() error
}

// Trainer fits a classifier over a full labeled sample set and persists the
// resulting artifact. Each Fit is a full retrain; there is no incremental
// update.
type Trainer interface {
	Fit(samples []*image.Gray, labels []int) error
	Save(path string) error
	Close() error
}

// Classifier predicts the label of one normalized sample against a loaded
// artifact. Score uses distance semantics: lower means more similar.
type Classifier interface {
	Load(path string) error
	Predict(sample *image.Gray) (label int, score float64, err error)
	Close() error
}

// Backend constructs the vision capabilities. Backends are initialized
// explicitly by the process entry point and passed in by reference; none of
// them rely on load-time side effects.
type Backend interface {
	OpenCamera(device int) (Camera, error)
	NewDetector() (Detector, error)
	NewTrainer() (Trainer, error)
	NewClassifier() (Classifier, error)
}
