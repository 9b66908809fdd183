package views

import (
	"image/color"
	"io"

	"image-text-extractor/internal/views/components"
	"image-text-extractor/internal/views/layout"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	WindowTitle = "Image to Text Extractor"

	minWidth  = 400
	minHeight = 600
)

// Options configures the main view.
type Options struct {
	Width           float32
	Height          float32
	LayoutThreshold float32
	// OnLayoutChange is told about every switch between stacked and grid.
	OnLayoutChange func(layout.Class)
}

// MainView owns the window content. Every method must be called on the UI
// goroutine; the controller is responsible for marshalling.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	controls      *fyne.Container
	layout        *layout.ResponsiveLayout

	selectButton   *widget.Button
	pathEntry      *widget.Entry
	extractButton  *widget.Button
	textEntry      *widget.Entry
	busy           *components.BusyIndicator
	saveWordButton *widget.Button
	savePDFButton  *widget.Button
	statusBar      *components.StatusBar

	// Event handlers - connected to controller
	selectImageHandler func()
	extractTextHandler func()
	saveWordHandler    func()
	savePDFHandler     func()
	pathChangedHandler func(string)
	textChangedHandler func(string)
}

// NewMainView creates the view and installs it as the window content.
func NewMainView(window fyne.Window, opts Options) *MainView {
	if opts.Width < minWidth {
		opts.Width = minWidth
	}
	if opts.Height < minHeight {
		opts.Height = minHeight
	}

	view := &MainView{
		window: window,
		layout: layout.NewResponsiveLayout(opts.LayoutThreshold, theme.Padding(), opts.OnLayoutChange),
	}

	view.initializeComponents()
	view.buildLayout()

	window.SetTitle(WindowTitle)
	window.Resize(fyne.NewSize(opts.Width, opts.Height))
	return view
}

func (mv *MainView) initializeComponents() {
	mv.selectButton = widget.NewButtonWithIcon("Select Image", theme.FolderOpenIcon(), func() {
		if mv.selectImageHandler != nil {
			mv.selectImageHandler()
		}
	})

	mv.pathEntry = widget.NewEntry()
	mv.pathEntry.SetPlaceHolder("Path to an image file")
	mv.pathEntry.OnChanged = func(s string) {
		if mv.pathChangedHandler != nil {
			mv.pathChangedHandler(s)
		}
	}
	mv.pathEntry.OnSubmitted = func(string) {
		if mv.extractTextHandler != nil && !mv.extractButton.Disabled() {
			mv.extractTextHandler()
		}
	}

	mv.extractButton = widget.NewButtonWithIcon("Extract Text", theme.SearchIcon(), func() {
		if mv.extractTextHandler != nil {
			mv.extractTextHandler()
		}
	})
	mv.extractButton.Importance = widget.HighImportance

	mv.textEntry = widget.NewMultiLineEntry()
	mv.textEntry.Wrapping = fyne.TextWrapWord
	mv.textEntry.SetPlaceHolder("Extracted text appears here")
	mv.textEntry.OnChanged = func(s string) {
		if mv.textChangedHandler != nil {
			mv.textChangedHandler(s)
		}
	}

	mv.busy = components.NewBusyIndicator()

	mv.saveWordButton = widget.NewButtonWithIcon("Save as Word", theme.DocumentSaveIcon(), func() {
		if mv.saveWordHandler != nil {
			mv.saveWordHandler()
		}
	})
	mv.savePDFButton = widget.NewButtonWithIcon("Save as PDF", theme.DocumentSaveIcon(), func() {
		if mv.savePDFHandler != nil {
			mv.savePDFHandler()
		}
	})

	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	// Order must match the layout slots.
	mv.controls = container.New(mv.layout,
		mv.selectButton,
		mv.pathEntry,
		mv.extractButton,
		container.NewStack(mv.textEntry, mv.busy.GetContainer()),
		mv.saveWordButton,
		mv.savePDFButton,
	)

	// The window has no minimum size of its own; a transparent spacer holds it.
	floor := canvas.NewRectangle(color.Transparent)
	floor.SetMinSize(fyne.NewSize(minWidth, minHeight))

	mv.mainContainer = container.NewStack(floor, container.NewBorder(
		nil,
		mv.statusBar.GetContainer(),
		nil,
		nil,
		container.NewPadded(mv.controls),
	))

	mv.window.SetContent(mv.mainContainer)
}

// Event handler setters - called by controller

// SetSelectImageHandler sets the handler for the select button
func (mv *MainView) SetSelectImageHandler(handler func()) {
	mv.selectImageHandler = handler
}

// SetExtractTextHandler sets the handler for extraction requests
func (mv *MainView) SetExtractTextHandler(handler func()) {
	mv.extractTextHandler = handler
}

// SetSaveWordHandler sets the handler for the Word export button
func (mv *MainView) SetSaveWordHandler(handler func()) {
	mv.saveWordHandler = handler
}

// SetSavePDFHandler sets the handler for the PDF export button
func (mv *MainView) SetSavePDFHandler(handler func()) {
	mv.savePDFHandler = handler
}

// SetPathChangedHandler is called on every edit of the path field.
func (mv *MainView) SetPathChangedHandler(handler func(string)) {
	mv.pathChangedHandler = handler
}

// SetTextChangedHandler is called on every edit of the text area,
// programmatic ones included.
func (mv *MainView) SetTextChangedHandler(handler func(string)) {
	mv.textChangedHandler = handler
}

// UI update methods - called by controller

func (mv *MainView) PathText() string {
	return mv.pathEntry.Text
}

func (mv *MainView) SetPath(path string) {
	mv.pathEntry.SetText(path)
}

func (mv *MainView) Text() string {
	return mv.textEntry.Text
}

// SetText replaces the whole text area content.
func (mv *MainView) SetText(text string) {
	mv.textEntry.SetText(text)
}

// SetBusy toggles the busy overlay and the extract button.
func (mv *MainView) SetBusy(busy bool) {
	mv.busy.SetVisible(busy)
	if busy {
		mv.extractButton.Disable()
	} else {
		mv.extractButton.Enable()
	}
}

// IsBusy reports whether the busy overlay is showing.
func (mv *MainView) IsBusy() bool {
	return mv.busy.IsVisible()
}

// SetStatus updates the status bar message
func (mv *MainView) SetStatus(status string) {
	mv.statusBar.SetStatus(status)
}

// Status returns the status bar message
func (mv *MainView) Status() string {
	return mv.statusBar.Status()
}

// SetEngineName updates the engine label in the status bar
func (mv *MainView) SetEngineName(name string) {
	mv.statusBar.SetEngine(name)
}

// ShowError displays an error dialog with a custom title.
func (mv *MainView) ShowError(title, message string) {
	mv.showIconDialog(theme.ErrorIcon(), title, message)
}

// ShowInfo displays an information dialog
func (mv *MainView) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, mv.window)
}

// ShowWarning displays a warning dialog
func (mv *MainView) ShowWarning(title, message string) {
	mv.showIconDialog(theme.WarningIcon(), title, message)
}

func (mv *MainView) showIconDialog(icon fyne.Resource, title, message string) {
	content := container.NewHBox(
		widget.NewIcon(icon),
		widget.NewLabel(message),
	)
	dialog.ShowCustom(title, "OK", content, mv.window)
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	dialog.ShowConfirm(title, message, callback, mv.window)
}

// ShowOpenDialog asks for an image file. callback receives "" when the
// dialog is cancelled.
func (mv *MainView) ShowOpenDialog(startDir string, extensions []string, callback func(path string, err error)) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			callback("", err)
			return
		}
		if reader == nil {
			callback("", nil)
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		callback(path, nil)
	}, mv.window)

	if len(extensions) > 0 {
		d.SetFilter(storage.NewExtensionFileFilter(extensions))
	}
	if startDir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(startDir)); err == nil {
			d.SetLocation(lister)
		}
	}
	d.Resize(mv.dialogSize())
	d.Show()
}

// ShowSaveDialog asks where to write a document. The callback owns the
// writer and must close it; writer is nil when the dialog is cancelled.
func (mv *MainView) ShowSaveDialog(fileName, extension string, callback func(w io.WriteCloser, path string, err error)) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			callback(nil, "", err)
			return
		}
		if writer == nil {
			callback(nil, "", nil)
			return
		}
		callback(writer, writer.URI().Path(), nil)
	}, mv.window)

	d.SetFileName(fileName)
	if extension != "" {
		d.SetFilter(storage.NewExtensionFileFilter([]string{extension}))
	}
	d.Resize(mv.dialogSize())
	d.Show()
}

func (mv *MainView) dialogSize() fyne.Size {
	size := mv.window.Canvas().Size()
	return fyne.NewSize(size.Width*0.9, size.Height*0.9)
}

// GetContainer returns the main container
func (mv *MainView) GetContainer() *fyne.Container {
	return mv.mainContainer
}

// LayoutClass returns the arrangement chosen on the last resize.
func (mv *MainView) LayoutClass() layout.Class {
	return mv.layout.Current()
}

// Show displays the view
func (mv *MainView) Show() {
	mv.window.Show()
}
