package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Vision backend
	VisionBackend string `envconfig:"VISION_BACKEND" default:"opencv"`
	CameraDevice  int    `envconfig:"CAMERA_DEVICE" default:"0"`
	CascadePath   string `envconfig:"CASCADE_PATH" default:"haarcascade_frontalface_alt.xml"`
	ModelPath     string `envconfig:"MODEL_PATH" default:"face_model.yml"`

	// Enrollment / recognition
	SampleQuota    int           `envconfig:"SAMPLE_QUOTA" default:"5"`
	SampleSize     int           `envconfig:"SAMPLE_SIZE" default:"200"`
	MatchThreshold float64       `envconfig:"MATCH_THRESHOLD" default:"100"`
	TickInterval   time.Duration `envconfig:"TICK_INTERVAL" default:"33ms"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.SampleQuota < 1 {
		return nil, fmt.Errorf("load config: SAMPLE_QUOTA must be at least 1, got %d", cfg.SampleQuota)
	}
	if cfg.SampleSize < 1 {
		return nil, fmt.Errorf("load config: SAMPLE_SIZE must be at least 1, got %d", cfg.SampleSize)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
