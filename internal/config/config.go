// Package config loads the YAML configuration of the profiles command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TextEncoder names a text encoder implementation.
type TextEncoder string

const (
	TextRunes     TextEncoder = "runes"
	TextOneHot    TextEncoder = "onehot"
	TextTokenizer TextEncoder = "tokenizer"
)

// IsValid reports whether e is a known text encoder.
func (e TextEncoder) IsValid() bool {
	switch e {
	case TextRunes, TextOneHot, TextTokenizer:
		return true
	}
	return false
}

// LogLevel is a zap level name.
type LogLevel string

// IsValid reports whether l is a known level.
func (l LogLevel) IsValid() bool {
	switch l {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// Config is the root configuration.
type Config struct {
	Dataset    DatasetConfig    `yaml:"dataset"`
	Encoders   EncodersConfig   `yaml:"encoders"`
	Precompute PrecomputeConfig `yaml:"precompute"`
	Stats      StatsConfig      `yaml:"stats"`
	LogLevel   LogLevel         `yaml:"log_level"`
}

// DatasetConfig selects the corpus and the record shapes.
type DatasetConfig struct {
	Root                 string `yaml:"root"`
	Lang                 string `yaml:"lang"`
	Download             bool   `yaml:"download"`
	DownloadURL          string `yaml:"download_url"`
	MinLength            int    `yaml:"min_length"`
	ImageSize            int    `yaml:"image_size"`
	EagerLabelValidation bool   `yaml:"eager_label_validation"`
}

// EncodersConfig selects the encoders applied to every record.
type EncodersConfig struct {
	Text          TextEncoder `yaml:"text"`
	Alphabet      string      `yaml:"alphabet"`
	TokenizerPath string      `yaml:"tokenizer_path"`
	MaxTokens     int         `yaml:"max_tokens"`
	PixelSize     int         `yaml:"pixel_size"`
	PixelAlpha    bool        `yaml:"pixel_alpha"`
}

// PrecomputeConfig tunes the parallel record cache.
type PrecomputeConfig struct {
	CachePath        string        `yaml:"cache_path"`
	Workers          int           `yaml:"workers"`
	Force            bool          `yaml:"force"`
	ProgressInterval time.Duration `yaml:"progress_interval"`
}

// StatsConfig configures the stats command.
type StatsConfig struct {
	PlotDir string `yaml:"plot_dir"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Root:      "./data",
			Lang:      "en",
			Download:  true,
			MinLength: 140,
			ImageSize: 600,
		},
		Encoders: EncodersConfig{
			Text:      TextRunes,
			Alphabet:  "abcdefghijklmnopqrstuvwxyz0123456789 .,;:!?'\"@#-_/()",
			PixelSize: 224,
		},
		Precompute: PrecomputeConfig{
			CachePath:        "output/records.gob",
			ProgressInterval: 3 * time.Second,
		},
		Stats: StatsConfig{
			PlotDir: "plots",
		},
		LogLevel: "info",
	}
}

// Load reads the YAML configuration file at path on top of Default and
// validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that override values before
// validating them.
func Read(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of Default and
// validates the result.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode decodes a YAML config from r on top of Default. Unknown fields are
// rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Dataset.Root == "" {
		errs = append(errs, errors.New("dataset.root is required"))
	}
	if cfg.Dataset.Lang == "" {
		errs = append(errs, errors.New("dataset.lang is required"))
	}
	if cfg.Dataset.MinLength <= 0 {
		errs = append(errs, fmt.Errorf("dataset.min_length must be positive, got %d", cfg.Dataset.MinLength))
	}
	if cfg.Dataset.ImageSize <= 0 {
		errs = append(errs, fmt.Errorf("dataset.image_size must be positive, got %d", cfg.Dataset.ImageSize))
	}

	if !cfg.Encoders.Text.IsValid() {
		errs = append(errs, fmt.Errorf("encoders.text %q is invalid; valid values: runes, onehot, tokenizer", cfg.Encoders.Text))
	}
	if cfg.Encoders.Text == TextOneHot && cfg.Encoders.Alphabet == "" {
		errs = append(errs, errors.New("encoders.alphabet is required for the onehot encoder"))
	}
	if cfg.Encoders.Text == TextTokenizer && cfg.Encoders.TokenizerPath == "" {
		errs = append(errs, errors.New("encoders.tokenizer_path is required for the tokenizer encoder"))
	}
	if cfg.Encoders.PixelSize <= 0 {
		errs = append(errs, fmt.Errorf("encoders.pixel_size must be positive, got %d", cfg.Encoders.PixelSize))
	}

	if cfg.Precompute.Workers < 0 {
		errs = append(errs, fmt.Errorf("precompute.workers must not be negative, got %d", cfg.Precompute.Workers))
	}
	if cfg.Precompute.ProgressInterval <= 0 {
		errs = append(errs, fmt.Errorf("precompute.progress_interval must be positive, got %s", cfg.Precompute.ProgressInterval))
	}

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	return errors.Join(errs...)
}
