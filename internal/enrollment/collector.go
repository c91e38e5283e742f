package enrollment

import (
	"context"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision"
)

// Collector captures face samples from a live camera until the quota is
// reached. Capture stops mid-frame: when a frame carries more detections
// than remaining quota the surplus is discarded.
type Collector struct {
	camera     vision.Camera
	detector   vision.Detector
	normalizer *vision.Normalizer
	quota      int
	logger     *slog.Logger

	// OnSample, when set, is called after each accepted sample with the
	// running count. Used by the CLI to drive a progress bar.
	OnSample func(collected, quota int)
}

func NewCollector(
	camera vision.Camera,
	detector vision.Detector,
	normalizer *vision.Normalizer,
	quota int,
	logger *slog.Logger,
) *Collector {
	return &Collector{
		camera:     camera,
		detector:   detector,
		normalizer: normalizer,
		quota:      quota,
		logger:     logger,
	}
}

// Collect reads frames until exactly quota samples are captured for
// employeeID. Frames with no detectable face are skipped, not errors.
// Camera failures abort the run and any partial batch is discarded.
func (c *Collector) Collect(ctx context.Context, employeeID int) ([]domain.FaceSample, error) {
	if employeeID <= 0 {
		return nil, domain.ErrInvalidEmployeeID
	}

	samples := make([]domain.FaceSample, 0, c.quota)

	for len(samples) < c.quota {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, err := c.camera.Read(ctx)
		if err != nil {
			return nil, err
		}
		if frame == nil {
			// Empty frame, nothing to detect.
			continue
		}

		regions, err := c.detector.Detect(frame)
		if err != nil {
			return nil, err
		}

		for _, region := range regions {
			gray, err := c.normalizer.Normalize(frame, region)
			if err != nil {
				c.logger.Debug("skipping unusable detection", slog.String("error", err.Error()))
				continue
			}
			data, err := vision.Encode(gray)
			if err != nil {
				return nil, err
			}
			samples = append(samples, domain.FaceSample{
				EmployeeID: employeeID,
				Data:       data,
			})
			if c.OnSample != nil {
				c.OnSample(len(samples), c.quota)
			}
			if len(samples) == c.quota {
				break
			}
		}
	}

	return samples, nil
}
