package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-text-extractor/internal/apperr"
	"image-text-extractor/internal/config"
)

// fakeTesseract writes an executable shell script standing in for tesseract.
func fakeTesseract(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "tesseract")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestCLIEngineRecognize(t *testing.T) {
	bin := fakeTesseract(t, `printf 'Hello PDF\n\n\f'`)
	engine := NewCLIEngine(bin)

	res, err := engine.Recognize(context.Background(), Input{ID: "a.png", Image: []byte("png"), PSM: -1})
	require.NoError(t, err)
	assert.Equal(t, "Hello PDF", res.PlainText)
	assert.Equal(t, "a.png", res.InputID)
	assert.Equal(t, "tesseract-cli", res.Engine)
	assert.False(t, res.IsEmpty())
}

func TestCLIEngineArguments(t *testing.T) {
	bin := fakeTesseract(t, `shift; echo "$@"`)
	engine := NewCLIEngine(bin)

	res, err := engine.Recognize(context.Background(), Input{
		Image:     []byte("png"),
		Languages: []string{"eng", "deu"},
		PSM:       6,
	})
	require.NoError(t, err)
	assert.Equal(t, "stdout -l eng+deu --psm 6", res.PlainText)
}

func TestCLIEngineReadsImageFile(t *testing.T) {
	bin := fakeTesseract(t, `cat "$1"`)
	engine := NewCLIEngine(bin)

	res, err := engine.Recognize(context.Background(), Input{Image: []byte("pixels"), PSM: -1})
	require.NoError(t, err)
	assert.Equal(t, "pixels", res.PlainText)
}

func TestCLIEngineEmptyOutput(t *testing.T) {
	bin := fakeTesseract(t, `printf ' \n\f'`)

	res, err := NewCLIEngine(bin).Recognize(context.Background(), Input{PSM: -1})
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
}

func TestCLIEngineFailureCarriesStderr(t *testing.T) {
	bin := fakeTesseract(t, `echo "Error in pixReadStream" >&2; exit 1`)

	_, err := NewCLIEngine(bin).Recognize(context.Background(), Input{PSM: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pixReadStream")
}

func TestCLIEngineHonoursContext(t *testing.T) {
	bin := fakeTesseract(t, `exec sleep 5`)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewCLIEngine(bin).Recognize(ctx, Input{PSM: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs("/tmp/x.png", Input{PSM: -1, Metadata: map[string]string{"tessedit_char_whitelist": "0123456789"}})
	assert.Equal(t, []string{"/tmp/x.png", "stdout", "-c", "tessedit_char_whitelist=0123456789"}, args)

	args = buildArgs("/tmp/x.png", Input{
		Languages: []string{"eng", "deu"},
		PSM:       6,
		Metadata:  map[string]string{"preserve_interword_spaces": "1", "load_system_dawg": "0"},
	})
	assert.Equal(t, []string{
		"/tmp/x.png", "stdout", "-l", "eng+deu", "--psm", "6",
		"-c", "load_system_dawg=0", "-c", "preserve_interword_spaces=1",
	}, args)
}

func TestUnavailableEngine(t *testing.T) {
	cause := errors.New("tesseract not found")
	_, err := NewUnavailableEngine(cause).Recognize(context.Background(), Input{})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperr.KindEngine, apperr.KindOf(err))
}

func TestNewEngine(t *testing.T) {
	bin := fakeTesseract(t, "exit 0")

	engine, err := NewEngine(config.OCRConfig{Engine: config.EngineCLI, TesseractPath: bin})
	require.NoError(t, err)
	require.IsType(t, &CLIEngine{}, engine)
	assert.Equal(t, bin, engine.(*CLIEngine).BinPath())

	_, err = NewEngine(config.OCRConfig{Engine: config.EngineCLI, TesseractPath: filepath.Join(t.TempDir(), "absent")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	engine, err = NewEngine(config.OCRConfig{Engine: config.EngineLibrary})
	if LibraryEnabled {
		require.NoError(t, err)
		assert.Equal(t, "tesseract-lib", engine.Name())
	} else {
		assert.ErrorIs(t, err, apperr.ErrNotEnabled)
	}
}
