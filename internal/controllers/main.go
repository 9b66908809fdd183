package controllers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"image-text-extractor/internal/apperr"
	"image-text-extractor/internal/export"
	"image-text-extractor/internal/imageio"
	"image-text-extractor/internal/logger"
	"image-text-extractor/internal/models"
	"image-text-extractor/internal/services"

	"fyne.io/fyne/v2"
)

const component = "MainController"

// User-facing messages.
const (
	msgNotExist    = "Image file does not exist!"
	msgNoText      = "No text detected in the image."
	msgNothingSave = "No text to save!"
	msgBusy        = "An extraction is already running."
	msgSaved       = "Text saved as %s file:\n%s"

	defaultFileStem = "extracted-text"
)

// View is the part of the main view the controller drives. All methods are
// called on the UI goroutine.
type View interface {
	PathText() string
	SetPath(path string)
	Text() string
	SetText(text string)
	SetBusy(busy bool)
	SetStatus(status string)

	ShowError(title, message string)
	ShowInfo(title, message string)
	ShowWarning(title, message string)
	ShowOpenDialog(startDir string, extensions []string, callback func(path string, err error))
	ShowSaveDialog(fileName, extension string, callback func(w io.WriteCloser, path string, err error))

	SetSelectImageHandler(handler func())
	SetExtractTextHandler(handler func())
	SetSaveWordHandler(handler func())
	SetSavePDFHandler(handler func())
	SetPathChangedHandler(handler func(string))
	SetTextChangedHandler(handler func(string))
}

// Extractor runs recognition off the UI goroutine.
type Extractor interface {
	Submit(path string, done func(services.Outcome)) error
}

// MainController glues user actions to the extraction service and exporters.
type MainController struct {
	view      View
	extractor Extractor
	state     *models.StateRepository
	exporters *export.Registry
	logger    logger.Logger

	// runOnUI marshals worker results back to the UI goroutine.
	runOnUI func(func())
}

// NewMainController creates a controller. Call SetMainView before use.
func NewMainController(extractor Extractor, state *models.StateRepository, exporters *export.Registry, log logger.Logger) *MainController {
	return &MainController{
		extractor: extractor,
		state:     state,
		exporters: exporters,
		logger:    log,
		runOnUI:   fyne.Do,
	}
}

// SetMainView associates the view and registers the controller's handlers.
func (mc *MainController) SetMainView(view View) {
	mc.view = view
	mc.setupViewEventHandlers()
}

// SetUIRunner replaces fyne.Do, for driving the controller without a Fyne app.
func (mc *MainController) SetUIRunner(run func(func())) {
	mc.runOnUI = run
}

func (mc *MainController) setupViewEventHandlers() {
	mc.view.SetSelectImageHandler(mc.SelectImage)
	mc.view.SetExtractTextHandler(mc.ExtractText)
	mc.view.SetSaveWordHandler(mc.SaveWord)
	mc.view.SetSavePDFHandler(mc.SavePDF)
	mc.view.SetPathChangedHandler(mc.PathChanged)
	mc.view.SetTextChangedHandler(mc.TextChanged)
}

// SelectImage opens the image picker in the folder of the last selection.
// Cancelling leaves the path field as it was.
func (mc *MainController) SelectImage() {
	startDir := ""
	if current := mc.state.Snapshot().ImagePath; current != "" {
		if dir := filepath.Dir(current); isDir(dir) {
			startDir = dir
		}
	}

	mc.view.ShowOpenDialog(startDir, imageio.Extensions, func(path string, err error) {
		if err != nil {
			mc.handleError("Error", apperr.Input(err))
			return
		}
		if path == "" {
			return
		}
		mc.view.SetPath(path)
		mc.state.SetImagePath(path)
		mc.logger.Debug(component, "image selected", map[string]interface{}{"path": path})
	})
}

// PathChanged mirrors manual edits of the path field into the state.
func (mc *MainController) PathChanged(path string) {
	mc.state.SetImagePath(path)
}

// TextChanged mirrors edits of the text area into the state.
func (mc *MainController) TextChanged(text string) {
	mc.state.SetText(text)
}

// ExtractText starts recognition of the image named by the path field.
func (mc *MainController) ExtractText() {
	path := strings.TrimSpace(mc.view.PathText())

	mc.view.SetBusy(true)
	mc.view.SetStatus("Extracting text...")

	err := mc.extractor.Submit(path, func(o services.Outcome) {
		mc.runOnUI(func() { mc.finishExtraction(o) })
	})
	if err == nil {
		return
	}

	if errors.Is(err, apperr.ErrBusy) {
		// The running extraction owns the busy indicator.
		mc.view.SetStatus("Extracting text...")
		mc.view.ShowInfo("Busy", msgBusy)
		return
	}
	mc.view.SetBusy(false)
	mc.view.SetStatus("Extraction failed")
	mc.handleError("Error", err)
}

func (mc *MainController) finishExtraction(o services.Outcome) {
	mc.view.SetBusy(false)

	fields := map[string]interface{}{
		"path":        o.Path,
		"cached":      o.Cached,
		"duration_ms": o.Duration.Milliseconds(),
	}

	switch {
	case o.Err != nil:
		mc.view.SetStatus("Extraction failed")
		mc.handleError("Error", o.Err)
	case o.Empty:
		mc.logger.Info(component, "no text detected", fields)
		mc.view.SetStatus("No text detected")
		mc.view.ShowInfo("No Text", msgNoText)
	default:
		mc.view.SetText(o.Text)
		mc.state.ApplyExtraction(o.Path, o.Text)
		fields["characters"] = len([]rune(o.Text))
		mc.logger.Info(component, "text extracted", fields)

		status := fmt.Sprintf("Extracted %d characters from %s", len([]rune(o.Text)), filepath.Base(o.Path))
		if o.Cached {
			status += " (cached)"
		}
		mc.view.SetStatus(status)
	}
}

// SaveWord exports the text area to a .docx file.
func (mc *MainController) SaveWord() {
	mc.SaveAs(export.FormatWord)
}

// SavePDF exports the text area to a .pdf file.
func (mc *MainController) SavePDF() {
	mc.SaveAs(export.FormatPDF)
}

// SaveAs asks for a destination and writes the trimmed text area content in
// format. Empty text is refused before any dialog opens.
func (mc *MainController) SaveAs(format export.Format) {
	text, err := export.PrepareText(mc.view.Text())
	if err != nil {
		mc.view.ShowWarning("Warning", msgNothingSave)
		return
	}

	exporter, err := mc.exporters.Get(format)
	if err != nil {
		mc.handleError("Error", err)
		return
	}

	mc.view.ShowSaveDialog(mc.defaultFileName(format), format.Extension(), func(w io.WriteCloser, path string, err error) {
		if err != nil {
			mc.handleError("Error", apperr.Export("save dialog", err))
			return
		}
		if w == nil {
			return
		}

		if err := export.Save(exporter, w, path, text); err != nil {
			mc.view.SetStatus("Save failed")
			mc.handleError("Error", err)
			return
		}

		mc.logger.Info(component, "document saved", map[string]interface{}{
			"format": string(format),
			"path":   path,
		})
		mc.view.SetStatus(fmt.Sprintf("Saved %s", filepath.Base(path)))
		mc.view.ShowInfo("Saved", fmt.Sprintf(msgSaved, format.Title(), path))
	})
}

// defaultFileName names the document after the image the text came from.
func (mc *MainController) defaultFileName(format export.Format) string {
	stem := defaultFileStem
	if src := mc.state.Snapshot().LastSource; src != "" {
		base := filepath.Base(src)
		stem = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return stem + format.Extension()
}

// handleError logs err with its kind and shows it to the user.
func (mc *MainController) handleError(title string, err error) {
	mc.logger.Error(component, err, apperr.Fields(err))
	mc.view.ShowError(title, userMessage(err))
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, apperr.ErrNotExist):
		return msgNotExist
	case errors.Is(err, apperr.ErrEmptyText):
		return msgNothingSave
	default:
		return err.Error()
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
