// Package hist is a pure-Go vision backend: local-binary-pattern histogram
// features with nearest-neighbor classification over an HNSW index. It
// needs no cgo or camera hardware, which makes it the development and test
// stand-in for the opencv backend. It provides no real camera; sessions
// using it must inject one.
package hist

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/coder/hnsw"
	"gopkg.in/yaml.v3"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision"
)

// scoreScale maps cosine distance [0,2] onto the 0..400 range so that the
// inherited match threshold of 100 corresponds to a cosine distance of 0.5.
const scoreScale = 200

const artifactVersion = 1

type Backend struct{}

func New() *Backend {
	return &Backend{}
}

// OpenCamera always fails: this backend has no device access.
func (b *Backend) OpenCamera(device int) (vision.Camera, error) {
	return nil, domain.ErrCameraOpen.WithError(fmt.Errorf("hist backend has no camera support"))
}

// NewDetector always fails: detection requires the opencv backend or an
// injected detector.
func (b *Backend) NewDetector() (vision.Detector, error) {
	return nil, domain.ErrInternal.WithError(fmt.Errorf("hist backend has no detector support"))
}

func (b *Backend) NewTrainer() (vision.Trainer, error) {
	return &trainer{}, nil
}

func (b *Backend) NewClassifier() (vision.Classifier, error) {
	return &classifier{}, nil
}

// artifact is the on-disk trained model: a YAML manifest whose payload
// carries the gob-encoded labeled feature vectors.
type artifact struct {
	Version   int       `yaml:"version"`
	TrainedAt time.Time `yaml:"trained_at"`
	Samples   int       `yaml:"samples"`
	Grid      int       `yaml:"grid"`
	Payload   []byte    `yaml:"payload"`
}

type payload struct {
	Labels  []int
	Vectors [][]float32
}

type trainer struct {
	p payload
}

func (t *trainer) Fit(samples []*image.Gray, labels []int) error {
	if len(samples) != len(labels) {
		return domain.ErrValidationFailed.WithError(fmt.Errorf("%d samples vs %d labels", len(samples), len(labels)))
	}
	p := payload{Labels: append([]int(nil), labels...)}
	for _, s := range samples {
		p.Vectors = append(p.Vectors, Feature(s))
	}
	t.p = p
	return nil
}

// Save writes the artifact to a temp file in the target directory and
// renames it into place, so readers never observe a partial artifact.
func (t *trainer) Save(path string) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(t.p); err != nil {
		return fmt.Errorf("encode model payload: %w", err)
	}

	data, err := yaml.Marshal(artifact{
		Version:   artifactVersion,
		TrainedAt: time.Now().UTC(),
		Samples:   len(t.p.Labels),
		Grid:      lbpGrid,
		Payload:   buf.Bytes(),
	})
	if err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".model-*")
	if err != nil {
		return fmt.Errorf("stage model artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write model artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write model artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace model artifact: %w", err)
	}
	return nil
}

func (t *trainer) Close() error { return nil }

type classifier struct {
	graph  *hnsw.Graph[int]
	labels []int
	loaded bool
}

func (c *classifier) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ErrModelUnavailable.WithError(err)
		}
		return fmt.Errorf("read model artifact: %w", err)
	}

	var a artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("decode model artifact: %w", err)
	}
	if a.Version != artifactVersion {
		return fmt.Errorf("unsupported model artifact version %d", a.Version)
	}

	var p payload
	if err := gob.NewDecoder(bytes.NewReader(a.Payload)).Decode(&p); err != nil {
		return fmt.Errorf("decode model payload: %w", err)
	}

	g := hnsw.NewGraph[int]()
	g.M = 16
	g.Ml = 1.0 / 16
	g.Distance = hnsw.CosineDistance
	for i, vec := range p.Vectors {
		g.Add(hnsw.MakeNode(i, vec))
	}

	c.graph = g
	c.labels = p.Labels
	c.loaded = true
	return nil
}

func (c *classifier) Predict(sample *image.Gray) (int, float64, error) {
	if !c.loaded || len(c.labels) == 0 {
		return 0, 0, domain.ErrModelUnavailable
	}

	query := Feature(sample)
	neighbors := c.graph.Search(query, 1)
	if len(neighbors) == 0 {
		return 0, 0, domain.ErrModelUnavailable.WithError(fmt.Errorf("empty index"))
	}

	best := neighbors[0]
	dist := float64(hnsw.CosineDistance(query, best.Value))
	return c.labels[best.Key], dist * scoreScale, nil
}

func (c *classifier) Close() error { return nil }

var (
	_ vision.Backend    = (*Backend)(nil)
	_ vision.Trainer    = (*trainer)(nil)
	_ vision.Classifier = (*classifier)(nil)
)
