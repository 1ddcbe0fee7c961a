// Package config defines the handgrain process configuration and how it is loaded.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayusman/handgrain/internal/control"
	"github.com/ayusman/handgrain/internal/curve"
	"github.com/ayusman/handgrain/internal/detector"
	"github.com/ayusman/handgrain/internal/engine"
	"github.com/ayusman/handgrain/internal/gesture"
	"github.com/ayusman/handgrain/internal/osc"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CameraID selects the capture device.
	CameraID int `koanf:"camera_id"`

	// Mirror flips camera frames horizontally before detection.
	Mirror bool `koanf:"mirror"`

	// HTTPAddr is the listen address of the API server. Empty disables it.
	HTTPAddr string `koanf:"http_addr"`

	// StaticDir is served at / when set.
	StaticDir string `koanf:"static_dir"`

	// DBPath is the sqlite database file. Empty means ~/.handgrain/handgrain.db.
	DBPath string `koanf:"db_path"`

	// OSC endpoints.
	OSCListenAddr string `koanf:"osc_listen_addr"`
	SynthAddr     string `koanf:"synth_addr"`
	VisualAddr    string `koanf:"visual_addr"`

	// SampleDuration is the initial sample length in seconds.
	SampleDuration float64 `koanf:"sample_duration"`

	// Pinch debounce thresholds.
	PinchThreshold   float64 `koanf:"pinch_threshold"`
	ReleaseThreshold float64 `koanf:"release_threshold"`

	// Curve settings.
	ReverseThreshold float64 `koanf:"reverse_threshold"`
	DistanceMin      float64 `koanf:"distance_min"`
	DistanceMax      float64 `koanf:"distance_max"`
	CurvePower       float64 `koanf:"curve_power"`

	// Detector settings.
	MaxHands      int     `koanf:"max_hands"`
	MinConfidence float64 `koanf:"min_confidence"`

	// EventBuffer bounds the queue of control events waiting for the frame loop.
	EventBuffer int `koanf:"event_buffer"`

	// ReplayFPS paces replayed recordings. Zero replays as fast as possible.
	ReplayFPS float64 `koanf:"replay_fps"`

	// Tray shows the system tray menu.
	Tray bool `koanf:"tray"`
}

// New returns a Config holding the defaults.
func New() *Config {
	det := detector.DefaultConfig()
	return &Config{
		LogLevel:         "info",
		CameraID:         0,
		Mirror:           true,
		HTTPAddr:         "127.0.0.1:8080",
		OSCListenAddr:    osc.DefaultListenAddr,
		SynthAddr:        osc.DefaultSynthAddr,
		VisualAddr:       osc.DefaultVisualAddr,
		SampleDuration:   control.DefaultSampleDuration,
		PinchThreshold:   gesture.DefaultPinchThreshold,
		ReleaseThreshold: gesture.DefaultReleaseThreshold,
		ReverseThreshold: control.DefaultReverseThreshold,
		DistanceMin:      control.DefaultDistanceMin,
		DistanceMax:      control.DefaultDistanceMax,
		CurvePower:       curve.DefaultPower,
		MaxHands:         det.MaxHands,
		MinConfidence:    det.MinConfidence,
		EventBuffer:      engine.DefaultEventBuffer,
		ReplayFPS:        30,
	}
}

// Engine returns the frame processor settings.
func (c *Config) Engine() engine.Config {
	return engine.Config{
		Curves: control.Curves{
			DistanceMin:      c.DistanceMin,
			DistanceMax:      c.DistanceMax,
			Power:            c.CurvePower,
			ReverseThreshold: c.ReverseThreshold,
		},
		Thresholds: gesture.Thresholds{
			Pinch:   c.PinchThreshold,
			Release: c.ReleaseThreshold,
		},
		SampleDuration: c.SampleDuration,
	}
}

// Detector returns the hand detector settings.
func (c *Config) Detector() detector.Config {
	det := detector.DefaultConfig()
	det.MaxHands = c.MaxHands
	det.MinConfidence = c.MinConfidence
	return det
}

// Validate reports the first setting the engine could not run with.
func (c *Config) Validate() error {
	if c.SynthAddr == "" {
		return fmt.Errorf("%w: synth_addr must not be empty", ErrInvalidConfig)
	}
	if c.VisualAddr == "" {
		return fmt.Errorf("%w: visual_addr must not be empty", ErrInvalidConfig)
	}
	if c.OSCListenAddr == "" {
		return fmt.Errorf("%w: osc_listen_addr must not be empty", ErrInvalidConfig)
	}
	if c.MaxHands < 1 {
		return fmt.Errorf("%w: max_hands must be at least 1, got %d", ErrInvalidConfig, c.MaxHands)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: min_confidence must be within [0, 1], got %g", ErrInvalidConfig, c.MinConfidence)
	}
	if c.ReplayFPS < 0 {
		return fmt.Errorf("%w: replay_fps must not be negative", ErrInvalidConfig)
	}
	if err := c.Engine().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// DataDir returns ~/.handgrain, creating it when missing.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	dir := filepath.Join(home, ".handgrain")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// DatabasePath returns DBPath, defaulting to a file in DataDir.
func (c *Config) DatabasePath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "handgrain.db"), nil
}
