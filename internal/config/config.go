// Package config resolves application settings from defaults, an optional
// YAML file, IMGTEXT_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"image-text-extractor/internal/logger"
)

const (
	AppSlug   = "image-text-extractor"
	EnvPrefix = "IMGTEXT"
)

const (
	EngineCLI     = "cli"
	EngineLibrary = "library"
)

// Config is the fully decoded configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	OCR    OCRConfig    `mapstructure:"ocr"`
	Export ExportConfig `mapstructure:"export"`
	Window WindowConfig `mapstructure:"window"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// OCRConfig selects and tunes the recognition engine.
type OCRConfig struct {
	// Engine is "cli" (tesseract executable) or "library" (gosseract, needs
	// the tesseract_lib build tag).
	Engine        string   `mapstructure:"engine"`
	TesseractPath string   `mapstructure:"tesseract_path"`
	Languages     []string `mapstructure:"languages"`

	// PSM is the Tesseract page segmentation mode; negative leaves the engine default.
	PSM     int           `mapstructure:"psm"`
	Timeout time.Duration `mapstructure:"timeout"`

	// Denoise, Contrast and Binarize enable OpenCV preprocessing steps.
	Denoise  bool `mapstructure:"denoise"`
	Contrast bool `mapstructure:"contrast"`
	Binarize bool `mapstructure:"binarize"`

	// Variables are passed to tesseract as -c name=value.
	Variables map[string]string `mapstructure:"variables"`

	// CacheTTL bounds how long a recognition result is reused; zero disables the cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type ExportConfig struct {
	FontPath string  `mapstructure:"font_path"`
	FontSize float64 `mapstructure:"font_size"`
	PageSize string  `mapstructure:"page_size"`
}

type WindowConfig struct {
	Width           float32 `mapstructure:"width"`
	Height          float32 `mapstructure:"height"`
	LayoutThreshold float32 `mapstructure:"layout_threshold"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("ocr.engine", EngineCLI)
	v.SetDefault("ocr.tesseract_path", "")
	v.SetDefault("ocr.languages", []string{"eng"})
	v.SetDefault("ocr.psm", -1)
	v.SetDefault("ocr.timeout", 2*time.Minute)
	v.SetDefault("ocr.denoise", false)
	v.SetDefault("ocr.contrast", false)
	v.SetDefault("ocr.binarize", false)
	v.SetDefault("ocr.cache_ttl", 10*time.Minute)

	v.SetDefault("export.font_path", "")
	v.SetDefault("export.font_size", 12.0)
	v.SetDefault("export.page_size", "A4")

	v.SetDefault("window.width", 800)
	v.SetDefault("window.height", 600)
	v.SetDefault("window.layout_threshold", 500)
}

// NewViper builds a viper instance with defaults, env binding and the config
// file. An explicit configFile must exist; the search path may be empty.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(AppSlug)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", AppSlug))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.OCR.Languages = normalizeLanguages(cfg.OCR.Languages)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every value and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	if c.OCR.Engine != EngineCLI && c.OCR.Engine != EngineLibrary {
		problems = append(problems, fmt.Sprintf("invalid OCR engine: %s", c.OCR.Engine))
	}
	if len(c.OCR.Languages) == 0 {
		problems = append(problems, "at least one OCR language is required")
	}
	if c.OCR.PSM > 13 {
		problems = append(problems, fmt.Sprintf("invalid page segmentation mode: %d", c.OCR.PSM))
	}
	if c.OCR.Timeout < time.Second {
		problems = append(problems, "OCR timeout must be at least 1s")
	}
	if c.OCR.CacheTTL < 0 {
		problems = append(problems, "cache TTL must be non-negative")
	}
	if c.Export.FontSize <= 0 {
		problems = append(problems, "font size must be positive")
	}
	switch strings.ToUpper(c.Export.PageSize) {
	case "A4", "A5", "LETTER", "LEGAL":
	default:
		problems = append(problems, fmt.Sprintf("invalid page size: %s", c.Export.PageSize))
	}
	if c.Window.LayoutThreshold <= 0 {
		problems = append(problems, "layout threshold must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// LanguageSpec joins the languages the way tesseract expects them (eng+deu).
func (c OCRConfig) LanguageSpec() string {
	return strings.Join(c.Languages, "+")
}

func normalizeLanguages(langs []string) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		for _, part := range strings.FieldsFunc(l, func(r rune) bool { return r == '+' || r == ',' }) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
