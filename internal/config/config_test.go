package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-text-extractor/internal/apperr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, EngineCLI, cfg.OCR.Engine)
	assert.Equal(t, []string{"eng"}, cfg.OCR.Languages)
	assert.Equal(t, -1, cfg.OCR.PSM)
	assert.Equal(t, 2*time.Minute, cfg.OCR.Timeout)
	assert.Equal(t, 12.0, cfg.Export.FontSize)
	assert.Equal(t, "A4", cfg.Export.PageSize)
	assert.Equal(t, float32(500), cfg.Window.LayoutThreshold)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", `
log:
  level: debug
ocr:
  languages: ["eng+deu"]
  timeout: 30s
  binarize: true
  contrast: true
  variables:
    preserve_interword_spaces: "1"
export:
  font_size: 10
window:
  layout_threshold: 640
`)
	t.Setenv("IMGTEXT_OCR_TESSERACT_PATH", "/opt/tess/bin/tesseract")

	v, err := NewViper(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"eng", "deu"}, cfg.OCR.Languages)
	assert.Equal(t, "eng+deu", cfg.OCR.LanguageSpec())
	assert.Equal(t, 30*time.Second, cfg.OCR.Timeout)
	assert.True(t, cfg.OCR.Binarize)
	assert.True(t, cfg.OCR.Contrast)
	assert.False(t, cfg.OCR.Denoise)
	assert.Equal(t, map[string]string{"preserve_interword_spaces": "1"}, cfg.OCR.Variables)
	assert.Equal(t, "/opt/tess/bin/tesseract", cfg.OCR.TesseractPath)
	assert.Equal(t, 10.0, cfg.Export.FontSize)
	assert.Equal(t, float32(640), cfg.Window.LayoutThreshold)
}

func TestNewViperMissingExplicitFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Log:    LogConfig{Level: "info"},
			OCR:    OCRConfig{Engine: EngineCLI, Languages: []string{"eng"}, PSM: -1, Timeout: time.Minute},
			Export: ExportConfig{FontSize: 12, PageSize: "A4"},
			Window: WindowConfig{LayoutThreshold: 500},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "chatty" }, errMsg: "invalid log level"},
		{name: "bad engine", mutate: func(c *Config) { c.OCR.Engine = "cloud" }, errMsg: "invalid OCR engine"},
		{name: "no languages", mutate: func(c *Config) { c.OCR.Languages = nil }, errMsg: "at least one OCR language"},
		{name: "psm out of range", mutate: func(c *Config) { c.OCR.PSM = 14 }, errMsg: "page segmentation mode"},
		{name: "short timeout", mutate: func(c *Config) { c.OCR.Timeout = time.Millisecond }, errMsg: "timeout"},
		{name: "zero font", mutate: func(c *Config) { c.Export.FontSize = 0 }, errMsg: "font size"},
		{name: "page size", mutate: func(c *Config) { c.Export.PageSize = "B7" }, errMsg: "invalid page size"},
		{name: "threshold", mutate: func(c *Config) { c.Window.LayoutThreshold = 0 }, errMsg: "layout threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestResolveTesseract(t *testing.T) {
	origLook, origCandidates := lookPath, tesseractCandidates
	t.Cleanup(func() { lookPath, tesseractCandidates = origLook, origCandidates })
	tesseractCandidates = nil

	dir := t.TempDir()
	bin := writeFile(t, dir, "tesseract", "#!/bin/sh\n")

	t.Run("configured path", func(t *testing.T) {
		got, err := ResolveTesseract(bin)
		require.NoError(t, err)
		assert.Equal(t, bin, got)
	})

	t.Run("configured path missing", func(t *testing.T) {
		_, err := ResolveTesseract(filepath.Join(dir, "nope"))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.Equal(t, apperr.KindConfig, apperr.KindOf(err))
	})

	t.Run("found on PATH", func(t *testing.T) {
		lookPath = func(string) (string, error) { return "/usr/bin/tesseract", nil }
		got, err := ResolveTesseract("")
		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/tesseract", got)
	})

	t.Run("not found anywhere", func(t *testing.T) {
		lookPath = func(string) (string, error) { return "", errors.New("not in PATH") }
		_, err := ResolveTesseract("")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestResolveFont(t *testing.T) {
	origCandidates := fontCandidates
	t.Cleanup(func() { fontCandidates = origCandidates })
	fontCandidates = nil

	dir := t.TempDir()
	font := writeFile(t, dir, "DejaVuSans.ttf", "ttf")

	got, err := ResolveFont(font)
	require.NoError(t, err)
	assert.Equal(t, font, got)

	_, err = ResolveFont(filepath.Join(dir, "missing.ttf"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err = ResolveFont("")
	require.NoError(t, err)
	assert.Empty(t, got)

	fontCandidates = []string{font}
	got, err = ResolveFont("")
	require.NoError(t, err)
	assert.Equal(t, font, got)
}
