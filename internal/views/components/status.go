package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const readyStatus = "Ready"

// StatusBar shows the outcome of the last action and the active OCR engine.
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	engineLabel *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel(readyStatus)
	sb.statusLabel.Truncation = fyne.TextTruncateEllipsis
	sb.engineLabel = widget.NewLabel("Engine: --")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewBorder(
		nil, nil, nil,
		container.NewHBox(widget.NewSeparator(), sb.engineLabel),
		sb.statusLabel,
	)
}

// SetStatus updates the main status message. Must run on the UI goroutine.
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// Status returns the current status message
func (sb *StatusBar) Status() string {
	return sb.statusLabel.Text
}

// SetEngine shows which OCR engine extractions run through.
func (sb *StatusBar) SetEngine(name string) {
	sb.engineLabel.SetText(fmt.Sprintf("Engine: %s", name))
}

// Engine returns the engine label text
func (sb *StatusBar) Engine() string {
	return sb.engineLabel.Text
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

// BusyIndicator is an infinite progress bar meant to be stacked over the
// text area while an extraction runs.
type BusyIndicator struct {
	container   *fyne.Container
	progressBar *widget.ProgressBarInfinite
	visible     bool
}

// NewBusyIndicator creates a hidden busy indicator
func NewBusyIndicator() *BusyIndicator {
	bi := &BusyIndicator{}
	bi.progressBar = widget.NewProgressBarInfinite()
	bi.progressBar.Stop()

	// Centred, with a fixed width so it does not cover the whole text area.
	bar := container.NewGridWrap(fyne.NewSize(200, bi.progressBar.MinSize().Height), bi.progressBar)
	bi.container = container.NewCenter(container.New(layout.NewVBoxLayout(), bar))
	bi.container.Hide()
	return bi
}

// SetVisible shows and animates, or hides and stops, the indicator.
func (bi *BusyIndicator) SetVisible(visible bool) {
	bi.visible = visible
	if visible {
		bi.progressBar.Start()
		bi.container.Show()
	} else {
		bi.progressBar.Stop()
		bi.container.Hide()
	}
}

// IsVisible returns true if the indicator is showing
func (bi *BusyIndicator) IsVisible() bool {
	return bi.visible
}

// GetContainer returns the indicator container
func (bi *BusyIndicator) GetContainer() *fyne.Container {
	return bi.container
}
