package views

import (
	"testing"

	"image-text-extractor/internal/views/layout"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestView(t *testing.T, opts Options) (*MainView, fyne.Window) {
	t.Helper()
	a := test.NewTempApp(t)
	w := a.NewWindow("test")
	t.Cleanup(w.Close)
	if opts.LayoutThreshold == 0 {
		opts.LayoutThreshold = 500
	}
	return NewMainView(w, opts), w
}

func TestNewMainView(t *testing.T) {
	mv, w := newTestView(t, Options{})

	assert.Equal(t, WindowTitle, w.Title())
	assert.Same(t, mv.GetContainer(), w.Content())
	assert.Equal(t, "Ready", mv.Status())
	assert.False(t, mv.IsBusy())
	assert.False(t, mv.extractButton.Disabled())

	min := w.Content().MinSize()
	assert.GreaterOrEqual(t, min.Width, float32(minWidth))
	assert.GreaterOrEqual(t, min.Height, float32(minHeight))
}

func TestButtonsCallHandlers(t *testing.T) {
	mv, _ := newTestView(t, Options{})

	var calls []string
	mv.SetSelectImageHandler(func() { calls = append(calls, "select") })
	mv.SetExtractTextHandler(func() { calls = append(calls, "extract") })
	mv.SetSaveWordHandler(func() { calls = append(calls, "word") })
	mv.SetSavePDFHandler(func() { calls = append(calls, "pdf") })

	test.Tap(mv.selectButton)
	test.Tap(mv.extractButton)
	test.Tap(mv.saveWordButton)
	test.Tap(mv.savePDFButton)

	assert.Equal(t, []string{"select", "extract", "word", "pdf"}, calls)
}

func TestEditsReachHandlers(t *testing.T) {
	mv, _ := newTestView(t, Options{})

	var path, text string
	mv.SetPathChangedHandler(func(s string) { path = s })
	mv.SetTextChangedHandler(func(s string) { text = s })

	mv.SetPath("/tmp/scan.png")
	test.Type(mv.textEntry, "hello")

	assert.Equal(t, "/tmp/scan.png", path)
	assert.Equal(t, "/tmp/scan.png", mv.PathText())
	assert.Equal(t, "hello", text)
	assert.Equal(t, "hello", mv.Text())
}

func TestSetTextReplacesContent(t *testing.T) {
	mv, _ := newTestView(t, Options{})

	mv.SetText("first")
	mv.SetText("Line one\nLine two")
	assert.Equal(t, "Line one\nLine two", mv.Text())
}

func TestSetBusy(t *testing.T) {
	mv, _ := newTestView(t, Options{})

	var extracts int
	mv.SetExtractTextHandler(func() { extracts++ })

	mv.SetBusy(true)
	assert.True(t, mv.IsBusy())
	assert.True(t, mv.extractButton.Disabled())
	test.Tap(mv.extractButton)
	assert.Zero(t, extracts)

	mv.SetBusy(false)
	assert.False(t, mv.IsBusy())
	assert.False(t, mv.extractButton.Disabled())
	test.Tap(mv.extractButton)
	assert.Equal(t, 1, extracts)
}

func TestLayoutFollowsWindowWidth(t *testing.T) {
	var changes []layout.Class
	mv, w := newTestView(t, Options{OnLayoutChange: func(c layout.Class) { changes = append(changes, c) }})
	mv.SetPath("/tmp/scan.png")
	mv.SetText("kept\nacross layouts")

	w.Resize(fyne.NewSize(900, 700))
	assert.Equal(t, layout.Grid, mv.LayoutClass())

	w.Resize(fyne.NewSize(420, 700))
	assert.Equal(t, layout.Stacked, mv.LayoutClass())

	require.NotEmpty(t, changes)
	assert.Equal(t, layout.Stacked, changes[len(changes)-1])

	assert.Equal(t, "/tmp/scan.png", mv.PathText())
	assert.Equal(t, "kept\nacross layouts", mv.Text())
}

func TestDialogsOpenOverlay(t *testing.T) {
	mv, w := newTestView(t, Options{})

	mv.ShowWarning("Warning", "No text to save!")
	assert.NotNil(t, w.Canvas().Overlays().Top())
}

func TestShowErrorUsesErrorIcon(t *testing.T) {
	mv, w := newTestView(t, Options{})

	mv.ShowError("Error", "Image file does not exist!")
	top := w.Canvas().Overlays().Top()
	require.NotNil(t, top)

	var icons []string
	for _, o := range test.LaidOutObjects(top) {
		if icon, ok := o.(*widget.Icon); ok && icon.Resource != nil {
			icons = append(icons, icon.Resource.Name())
		}
	}
	assert.Contains(t, icons, theme.ErrorIcon().Name())
}

func TestStatusAndEngineLabels(t *testing.T) {
	mv, _ := newTestView(t, Options{})

	mv.SetStatus("Extracted 12 characters")
	mv.SetEngineName("tesseract-cli")

	assert.Equal(t, "Extracted 12 characters", mv.Status())
	assert.Equal(t, "Engine: tesseract-cli", mv.statusBar.Engine())
}
