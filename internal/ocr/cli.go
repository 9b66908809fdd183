package ocr

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	"image-text-extractor/internal/apperr"
)

// CLIEngine runs the tesseract executable once per image.
type CLIEngine struct {
	binPath string
}

// NewCLIEngine wraps the tesseract executable at binPath.
func NewCLIEngine(binPath string) *CLIEngine {
	return &CLIEngine{binPath: binPath}
}

func (e *CLIEngine) Name() string { return "tesseract-cli" }

// BinPath returns the executable the engine invokes.
func (e *CLIEngine) BinPath() string { return e.binPath }

func (e *CLIEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	tmp, err := os.CreateTemp("", "image-text-ocr-*.png")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file for OCR: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(in.Image); err != nil {
		_ = tmp.Close()
		return Result{}, fmt.Errorf("write temp file for OCR: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("close temp file for OCR: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.binPath, buildArgs(tmpPath, in)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return Result{}, fmt.Errorf("tesseract: %w", ctx.Err())
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Result{}, fmt.Errorf("tesseract: %w: %s", err, msg)
		}
		return Result{}, fmt.Errorf("tesseract: %w", err)
	}

	return Result{
		InputID:   in.ID,
		PlainText: cleanOutput(stdout.String()),
		Engine:    e.Name(),
	}, nil
}

func buildArgs(imagePath string, in Input) []string {
	args := []string{imagePath, "stdout"}
	if len(in.Languages) > 0 {
		args = append(args, "-l", strings.Join(in.Languages, "+"))
	}
	if in.PSM >= 0 {
		args = append(args, "--psm", strconv.Itoa(in.PSM))
	}
	for _, k := range slices.Sorted(maps.Keys(in.Metadata)) {
		args = append(args, "-c", k+"="+in.Metadata[k])
	}
	return args
}

// unavailableEngine stands in when no engine could be set up at startup, so
// the window still opens and every extraction reports why.
type unavailableEngine struct {
	err error
}

// NewUnavailableEngine returns an Engine whose every call fails with err.
func NewUnavailableEngine(err error) Engine {
	return &unavailableEngine{err: err}
}

func (e *unavailableEngine) Name() string { return "unavailable" }

func (e *unavailableEngine) Recognize(context.Context, Input) (Result, error) {
	return Result{}, apperr.Engine("OCR engine unavailable", e.err)
}
