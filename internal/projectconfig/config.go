// Package projectconfig provides the ProjectConfig struct and loader for
// .callreview.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultGradingBaseURL       = "http://localhost:5000"
	DefaultTranscriptionBaseURL = "http://localhost:5000"

	DefaultStoreDir = ".callreview"

	DefaultServerPort = 3000

	DefaultPlaybackTickMillis = 200
)

// ServicesConfig holds base URLs for the external grading and transcription
// services.
type ServicesConfig struct {
	GradingURL       string `yaml:"grading_url,omitempty"`
	TranscriptionURL string `yaml:"transcription_url,omitempty"`
}

// StoreConfig holds the durable record store settings.
type StoreConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Port int `yaml:"port,omitempty"`
}

// PlaybackConfig holds transcript playback settings.
type PlaybackConfig struct {
	TickMillis int `yaml:"tick_millis,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .callreview.yaml.
type ProjectConfig struct {
	Services ServicesConfig `yaml:"services,omitempty"`
	Store    StoreConfig    `yaml:"store,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty"`
	Playback PlaybackConfig `yaml:"playback,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Services: ServicesConfig{
			GradingURL:       DefaultGradingBaseURL,
			TranscriptionURL: DefaultTranscriptionBaseURL,
		},
		Store: StoreConfig{
			Dir: DefaultStoreDir,
		},
		Server: ServerConfig{
			Port: DefaultServerPort,
		},
		Playback: PlaybackConfig{
			TickMillis: DefaultPlaybackTickMillis,
		},
	}
}

// Load finds .callreview.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading .callreview.yaml: %w", err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .callreview.yaml: %w", err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .callreview.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates real
// I/O errors instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ".callreview.yaml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Services.GradingURL != "" {
		dst.Services.GradingURL = src.Services.GradingURL
	}
	if src.Services.TranscriptionURL != "" {
		dst.Services.TranscriptionURL = src.Services.TranscriptionURL
	}
	if src.Store.Dir != "" {
		dst.Store.Dir = src.Store.Dir
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Playback.TickMillis != 0 {
		dst.Playback.TickMillis = src.Playback.TickMillis
	}
}
