//go:build tesseract_lib

package ocr

import (
	"context"
	"fmt"
	"strconv"

	"github.com/otiai10/gosseract/v2"
)

// LibraryEnabled reports whether the in-process engine was compiled in.
const LibraryEnabled = true

// LibraryEngine links libtesseract through gosseract.
type LibraryEngine struct {
	clientFactory func() *gosseract.Client
}

func NewLibraryEngine() (Engine, error) {
	return &LibraryEngine{clientFactory: gosseract.NewClient}, nil
}

func (e *LibraryEngine) Name() string { return "tesseract-lib" }

// Recognize runs libtesseract on a worker goroutine. The C call cannot be
// interrupted, so a cancelled ctx returns at once and the worker finishes
// and closes its client in the background.
func (e *LibraryEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	text, err := awaitText(ctx, func() (string, error) {
		return e.recognize(in)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{InputID: in.ID, PlainText: cleanOutput(text), Engine: e.Name()}, nil
}

func (e *LibraryEngine) recognize(in Input) (string, error) {
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if in.PSM >= 0 {
		if err := c.SetVariable(gosseract.SettableVariable("tessedit_pageseg_mode"), strconv.Itoa(in.PSM)); err != nil {
			return "", fmt.Errorf("set psm: %w", err)
		}
	}
	for k, v := range in.Metadata {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return "", fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

type textResult struct {
	text string
	err  error
}

// awaitText runs fn on its own goroutine and returns its result, or ctx's
// error if ctx is done first.
func awaitText(ctx context.Context, fn func() (string, error)) (string, error) {
	ch := make(chan textResult, 1)
	go func() {
		text, err := fn()
		ch <- textResult{text: text, err: err}
	}()

	select {
	case r := <-ch:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
