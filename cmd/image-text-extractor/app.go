package main

import (
	"context"
	"errors"
	"runtime"
	"time"

	"image-text-extractor/internal/apperr"
	"image-text-extractor/internal/config"
	"image-text-extractor/internal/controllers"
	"image-text-extractor/internal/export"
	"image-text-extractor/internal/logger"
	"image-text-extractor/internal/models"
	"image-text-extractor/internal/ocr"
	"image-text-extractor/internal/services"
	"image-text-extractor/internal/shutdown"
	"image-text-extractor/internal/views"
	"image-text-extractor/internal/views/layout"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
)

const (
	component      = "Application"
	statsInterval  = 30 * time.Second
	shutdownBudget = 10 * time.Second
)

// Application holds the wired components for one run.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	cfg     *config.Config

	controller *controllers.MainController
	view       *views.MainView
	service    *services.ExtractionService
	state      *models.StateRepository
	shutdown   *shutdown.Manager

	// startupErrors are shown once the window is up.
	startupErrors []error

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApplication builds every component from cfg. Problems with the OCR
// engine or the PDF font do not abort startup; they are reported in the UI.
func NewApplication(cfg *config.Config) (*Application, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	appLogger := logger.New(level, cfg.Log.JSON)

	appLogger.Info(component, "application starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"engine":     cfg.OCR.Engine,
		"languages":  cfg.OCR.LanguageSpec(),
		"log_level":  level.String(),
	})

	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)

	ctx, cancel := context.WithCancel(context.Background())
	application := &Application{
		fyneApp: fyneApp,
		window:  window,
		logger:  appLogger,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
	}

	engine, err := ocr.NewEngine(cfg.OCR)
	if err != nil {
		appLogger.Error(component, err, apperr.Fields(err))
		application.startupErrors = append(application.startupErrors, err)
		engine = ocr.NewUnavailableEngine(err)
	}

	application.state = models.NewStateRepository()
	application.service = services.NewExtractionService(engine, application.state, cfg.OCR, appLogger)

	exporters := export.NewRegistry(
		export.NewDocxExporter(),
		export.NewPDFExporter(application.resolveFont(), cfg.Export.FontSize, cfg.Export.PageSize),
	)

	application.view = views.NewMainView(window, views.Options{
		Width:           cfg.Window.Width,
		Height:          cfg.Window.Height,
		LayoutThreshold: cfg.Window.LayoutThreshold,
		OnLayoutChange: func(c layout.Class) {
			appLogger.Debug(component, "layout changed", map[string]interface{}{"layout": c.String()})
		},
	})
	application.view.SetEngineName(application.service.EngineName())

	application.controller = controllers.NewMainController(application.service, application.state, exporters, appLogger)
	application.controller.SetMainView(application.view)

	application.shutdown = shutdown.NewManager(appLogger, shutdownBudget)
	application.shutdown.Register("performance monitor", shutdown.Func(cancel))
	application.shutdown.Register("extraction service", application.service)
	application.shutdown.OnSignal(func() {
		fyne.Do(fyneApp.Quit)
	})

	application.setupWindowEvents()

	appLogger.Info(component, "application initialized", map[string]interface{}{
		"engine":  engine.Name(),
		"formats": exporters.Formats(),
	})
	return application, nil
}

// resolveFont picks the PDF font: the configured or a system DejaVu TTF,
// else the toolkit's bundled font.
func (a *Application) resolveFont() export.Font {
	path, err := config.ResolveFont(a.cfg.Export.FontPath)
	if err != nil {
		a.logger.Warning(component, "configured PDF font unavailable, using bundled font", apperr.Fields(err))
		a.startupErrors = append(a.startupErrors, err)
	}
	if path != "" {
		a.logger.Debug(component, "PDF font resolved", map[string]interface{}{"path": path})
		return export.Font{Family: "DejaVu", Path: path}
	}
	return export.Font{Family: "Bundled", Data: theme.DefaultTextFont().Content()}
}

// Run shows the window and blocks until the GUI exits.
func (a *Application) Run() error {
	a.shutdown.Listen()

	a.view.Show()
	if len(a.startupErrors) > 0 {
		a.view.ShowError("Error", errors.Join(a.startupErrors...).Error())
	}

	go a.startPerformanceMonitoring()

	a.fyneApp.Run()

	a.shutdown.Shutdown()
	return nil
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.logger.Info(component, "window close requested", nil)

		if !a.service.IsProcessing() {
			a.window.Close()
			return
		}
		a.view.ShowConfirm(
			"Exit Application",
			"An extraction is still running. Exit anyway?",
			func(confirmed bool) {
				if confirmed {
					a.window.Close()
				}
			},
		)
	})

	a.window.SetOnClosed(func() {
		a.logger.Info(component, "window closed", nil)
	})
}

func (a *Application) startPerformanceMonitoring() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.logPerformanceMetrics()
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *Application) logPerformanceMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats := a.service.Stats()

	a.logger.Debug(component, "performance metrics", map[string]interface{}{
		"go_memory_mb":        memStats.Alloc / 1024 / 1024,
		"go_gc_runs":          memStats.NumGC,
		"goroutine_count":     runtime.NumGoroutine(),
		"extractions":         stats.TotalProcessed,
		"cache_hits":          stats.CacheHits,
		"failures":            stats.Failures,
		"avg_extract_time_ms": stats.AverageTime.Milliseconds(),
	})
}
