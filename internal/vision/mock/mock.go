// Package mock implementa um backend de visão determinístico para testes e
// desenvolvimento sem câmera ou OpenCV.
package mock

import (
	"context"
	"encoding/gob"
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision"
)

const (
	// featureGrid divides a sample into featureGrid^2 blocks; the feature
	// vector is the mean intensity of each block.
	featureGrid = 8

	// scoreScale maps the [0,1] mean absolute intensity difference onto the
	// 0..255 distance scale shared with the other backends, so the default
	// match threshold of 100 keeps its meaning.
	scoreScale = 255
)

// Backend implements vision.Backend with deterministic in-memory behavior.
// Frames served by its cameras and regions reported by its detector are
// configured up front by the test or dev caller.
type Backend struct {
	mu      sync.Mutex
	frames  []image.Image
	regions func(frame image.Image) []image.Rectangle
}

func New() *Backend {
	return &Backend{}
}

// WithFrames queues the frames every opened camera will serve, in order. A
// nil entry is delivered as an empty frame.
func (b *Backend) WithFrames(frames ...image.Image) *Backend {
	b.frames = frames
	return b
}

// WithRegions overrides the detector. The default reports one centered
// region covering the middle half of any non-nil frame.
func (b *Backend) WithRegions(fn func(frame image.Image) []image.Rectangle) *Backend {
	b.regions = fn
	return b
}

func (b *Backend) OpenCamera(device int) (vision.Camera, error) {
	if device < 0 {
		return nil, domain.ErrCameraOpen.WithError(fmt.Errorf("device %d", device))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	frames := make([]image.Image, len(b.frames))
	copy(frames, b.frames)
	return &camera{frames: frames}, nil
}

func (b *Backend) NewDetector() (vision.Detector, error) {
	return &detector{regions: b.regions}, nil
}

func (b *Backend) NewTrainer() (vision.Trainer, error) {
	return &trainer{}, nil
}

func (b *Backend) NewClassifier() (vision.Classifier, error) {
	return &classifier{}, nil
}

type camera struct {
	mu     sync.Mutex
	frames []image.Image
	closed bool
}

func (c *camera) Read(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, domain.ErrCameraRead.WithError(fmt.Errorf("camera closed"))
	}
	if len(c.frames) == 0 {
		// Exhausted. A real device that stops delivering frames surfaces a
		// persistent read failure.
		return nil, domain.ErrCameraRead.WithError(fmt.Errorf("no frames left"))
	}
	frame := c.frames[0]
	c.frames = c.frames[1:]
	return frame, nil
}

func (c *camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

type detector struct {
	regions func(frame image.Image) []image.Rectangle
}

func (d *detector) Detect(frame image.Image) ([]image.Rectangle, error) {
	if frame == nil {
		return nil, nil
	}
	if d.regions != nil {
		return d.regions(frame), nil
	}
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	return []image.Rectangle{image.Rect(
		b.Min.X+w/4, b.Min.Y+h/4, b.Min.X+3*w/4, b.Min.Y+3*h/4,
	)}, nil
}

func (d *detector) Close() error { return nil }

type model struct {
	Labels   []int
	Features [][]float64
}

type trainer struct {
	m model
}

func (t *trainer) Fit(samples []*image.Gray, labels []int) error {
	if len(samples) != len(labels) {
		return domain.ErrValidationFailed.WithError(fmt.Errorf("%d samples vs %d labels", len(samples), len(labels)))
	}
	t.m = model{Labels: append([]int(nil), labels...)}
	for _, s := range samples {
		t.m.Features = append(t.m.Features, feature(s))
	}
	return nil
}

func (t *trainer) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save mock model: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(t.m); err != nil {
		return fmt.Errorf("save mock model: %w", err)
	}
	return nil
}

func (t *trainer) Close() error { return nil }

type classifier struct {
	m      model
	loaded bool
}

func (c *classifier) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ErrModelUnavailable.WithError(err)
		}
		return fmt.Errorf("load mock model: %w", err)
	}
	defer f.Close()
	var m model
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return fmt.Errorf("load mock model: %w", err)
	}
	c.m = m
	c.loaded = true
	return nil
}

func (c *classifier) Predict(sample *image.Gray) (int, float64, error) {
	if !c.loaded || len(c.m.Labels) == 0 {
		return 0, 0, domain.ErrModelUnavailable
	}

	query := feature(sample)
	bestLabel := c.m.Labels[0]
	bestDist := math.Inf(1)
	for i, feat := range c.m.Features {
		if d := l1(query, feat); d < bestDist {
			bestDist = d
			bestLabel = c.m.Labels[i]
		}
	}
	return bestLabel, bestDist * scoreScale, nil
}

func (c *classifier) Close() error { return nil }

// feature is the mean intensity of each block in a featureGrid x
// featureGrid partition, in [0,1].
func feature(img *image.Gray) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	feat := make([]float64, featureGrid*featureGrid)
	counts := make([]int, len(feat))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := (y*featureGrid/h)*featureGrid + x*featureGrid/w
			feat[cell] += float64(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y) / 255
			counts[cell]++
		}
	}
	for i := range feat {
		if counts[i] > 0 {
			feat[i] /= float64(counts[i])
		}
	}
	return feat
}

func l1(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum / float64(len(a))
}

var _ vision.Backend = (*Backend)(nil)
var _ vision.Camera = (*camera)(nil)
var _ vision.Detector = (*detector)(nil)
var _ vision.Trainer = (*trainer)(nil)
var _ vision.Classifier = (*classifier)(nil)
