//go:build tesseract_lib

package ocr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func TestLibraryEngineRecognize(t *testing.T) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}

	img := image.NewRGBA(image.Rect(0, 0, 200, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: img, Src: image.Black, Face: basicfont.Face7x13, Dot: fixed.P(10, 50)}
	d.DrawString("Hello PDF")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	engine, err := NewLibraryEngine()
	require.NoError(t, err)
	res, err := engine.Recognize(context.Background(), Input{ID: "hello", Image: buf.Bytes(), Languages: []string{"eng"}, PSM: -1})
	require.NoError(t, err)

	got := strings.ToLower(res.PlainText)
	require.Contains(t, got, "hello")
}

func TestAwaitTextReturnsOnCancel(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := awaitText(ctx, func() (string, error) {
		<-release
		return "late", nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestAwaitTextPassesResultThrough(t *testing.T) {
	text, err := awaitText(context.Background(), func() (string, error) { return "done", nil })
	require.NoError(t, err)
	require.Equal(t, "done", text)
}
