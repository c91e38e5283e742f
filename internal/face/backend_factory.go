package face

import (
	"fmt"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/config"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision/hist"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision/mock"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision/opencv"
)

// BackendType defines supported vision backend types
type BackendType string

const (
	// BackendTypeOpenCV is the OpenCV backend (camera, cascade, LBPH; needs cgo)
	BackendTypeOpenCV BackendType = "opencv"
	// BackendTypeHist is the pure-Go histogram backend (no camera support)
	BackendTypeHist BackendType = "hist"
	// BackendTypeMock is the deterministic backend for tests
	BackendTypeMock BackendType = "mock"
)

// NewBackend creates a vision.Backend instance based on configuration.
// The backend is initialized once by the process entry point and passed
// into components by reference; no backend relies on load-time side
// effects.
//
// Environment variables:
//   - VISION_BACKEND: "opencv", "hist" or "mock" (default: "opencv")
//   - CASCADE_PATH: Haar cascade file for the opencv detector
func NewBackend(cfg *config.Config) (vision.Backend, error) {
	backendType := BackendType(cfg.VisionBackend)

	switch backendType {
	case BackendTypeOpenCV, "":
		return opencv.New(cfg.CascadePath), nil

	case BackendTypeHist:
		return hist.New(), nil

	case BackendTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown vision backend: %s (supported: %s, %s, %s)",
			cfg.VisionBackend, BackendTypeOpenCV, BackendTypeHist, BackendTypeMock)
	}
}
