// Package config loads the imagekit YAML configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/imagekit/internal/compare"
	"github.com/ironsheep/imagekit/internal/imaging"
	"github.com/ironsheep/imagekit/internal/svg"
)

// Environment variables read by FromEnv.
const (
	EnvConfigPath = "IMAGEKIT_CONFIG"
	EnvLogLevel   = "IMAGEKIT_LOG_LEVEL"
)

// SVG renderer names.
const (
	RendererRsvg    = "rsvg"
	RendererBuiltin = "builtin"
)

// SVGConfig selects and tunes the SVG rasterizer.
type SVGConfig struct {
	Renderer   string `yaml:"renderer" validate:"oneof=rsvg builtin"`
	Executable string `yaml:"executable" validate:"required"`
	Width      int    `yaml:"width" validate:"gt=0"`
}

// CompareConfig configures the ImageMagick compare wrapper.
type CompareConfig struct {
	Executable             string  `yaml:"executable" validate:"required"`
	Discard                string  `yaml:"discard" validate:"required"`
	ThumbnailSize          int     `yaml:"thumbnailSize" validate:"gt=0"`
	DissimilarityThreshold float64 `yaml:"dissimilarityThreshold" validate:"gte=0"`
}

// Config is the root of the imagekit YAML file.
type Config struct {
	LogLevel string        `yaml:"logLevel" validate:"oneof=debug info warn error"`
	SVG      SVGConfig     `yaml:"svg"`
	Compare  CompareConfig `yaml:"compare"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		SVG: SVGConfig{
			Renderer:   RendererRsvg,
			Executable: svg.DefaultExecutable,
			Width:      svg.DefaultWidth,
		},
		Compare: CompareConfig{
			Executable:    compare.DefaultExecutable,
			Discard:       compare.DefaultDiscard,
			ThumbnailSize: compare.DefaultThumbnailSize,
		},
	}
}

// Load reads the YAML file at configPath. Keys missing from the file keep
// their default values.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return config, nil
}

// FromEnv loads the file named by IMAGEKIT_CONFIG, or the defaults when it is
// unset, then applies IMAGEKIT_LOG_LEVEL.
func FromEnv() (*Config, error) {
	config := Default()
	if path := os.Getenv(EnvConfigPath); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		config.LogLevel = level
		config.normalize()
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
	}
	return config, nil
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.SVG.Renderer = strings.ToLower(strings.TrimSpace(c.SVG.Renderer))
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Converter returns the rsvg-convert wrapper described by the SVG section.
func (c *Config) Converter() *svg.Converter {
	return svg.NewConverter().SetExecutable(c.SVG.Executable).SetWidth(c.SVG.Width)
}

// Rasterizer returns the configured SVG rasterizer.
func (c *Config) Rasterizer() svg.Rasterizer {
	if c.SVG.Renderer == RendererBuiltin {
		return svg.NewRenderer()
	}
	return c.Converter()
}

// Loader returns an image loader using the configured rasterizer and width.
func (c *Config) Loader() *imaging.Loader {
	loader := imaging.NewLoader(c.Rasterizer())
	loader.SVGWidth = c.SVG.Width
	return loader
}

// Comparator returns the configured compare wrapper. Its loader always
// rasterizes SVG at svg.DefaultWidth so scores stay comparable across
// configurations.
func (c *Config) Comparator() *compare.Comparator {
	comparator := compare.New()
	comparator.Executable = c.Compare.Executable
	comparator.Discard = c.Compare.Discard
	comparator.ThumbnailSize = c.Compare.ThumbnailSize
	comparator.DissimilarityThreshold = c.Compare.DissimilarityThreshold
	comparator.Loader = imaging.NewLoader(c.Rasterizer())
	return comparator
}
