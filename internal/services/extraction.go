package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"image-text-extractor/internal/apperr"
	"image-text-extractor/internal/config"
	"image-text-extractor/internal/imageio"
	"image-text-extractor/internal/logger"
	"image-text-extractor/internal/models"
	"image-text-extractor/internal/ocr"
	"image-text-extractor/internal/preprocess"
)

const component = "ExtractionService"

// ErrShuttingDown is returned by Submit once Shutdown has been called.
var ErrShuttingDown = errors.New("application is shutting down")

// Outcome is what a finished extraction hands back to the UI.
type Outcome struct {
	Path     string
	Text     string
	Empty    bool
	Cached   bool
	Duration time.Duration
	Err      error
}

// ExtractionStats summarises the work done since startup.
type ExtractionStats struct {
	TotalProcessed int
	CacheHits      int
	Failures       int
	AverageTime    time.Duration
}

// ExtractionService runs at most one recognition at a time off the UI goroutine.
type ExtractionService struct {
	engine     ocr.Engine
	state      *models.StateRepository
	cfg        config.OCRConfig
	cache      *cache.Cache
	preprocess *preprocess.Chain
	logger     logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu guards closed and the stats.
	mu        sync.Mutex
	closed    bool
	stats     ExtractionStats
	totalTime time.Duration
}

// NewExtractionService wires the engine to the shared state.
func NewExtractionService(engine ocr.Engine, state *models.StateRepository, cfg config.OCRConfig, log logger.Logger) *ExtractionService {
	ctx, cancel := context.WithCancel(context.Background())
	s := &ExtractionService{
		engine: engine,
		state:  state,
		cfg:    cfg,
		logger: log,
		ctx:    ctx,
		cancel: cancel,
	}
	if cfg.CacheTTL > 0 {
		s.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	if chain := preprocess.FromOptions(preprocess.Options{
		Denoise:  cfg.Denoise,
		Contrast: cfg.Contrast,
		Binarize: cfg.Binarize,
	}); !chain.Empty() {
		s.preprocess = chain
	}
	return s
}

// Submit starts extracting text from path. It fails synchronously, without
// touching the engine, when an extraction is already running or path is not
// an existing file. Otherwise done is called exactly once from the worker
// goroutine after the slot has been released.
func (s *ExtractionService) Submit(path string, done func(Outcome)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperr.Input(ErrShuttingDown)
	}
	if !s.state.TryBeginExtraction() {
		return apperr.Input(apperr.ErrBusy)
	}
	info, err := imageio.Stat(path)
	if err != nil {
		s.state.EndExtraction()
		return err
	}

	key := s.cacheKey(path, info.Size(), info.ModTime())

	// Added under mu so Shutdown cannot start waiting before the worker is counted.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		outcome := s.run(path, key)
		s.record(outcome)
		s.state.EndExtraction()
		done(outcome)
	}()
	return nil
}

func (s *ExtractionService) run(path, key string) Outcome {
	start := time.Now()
	outcome := Outcome{Path: path}

	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			res := v.(ocr.Result)
			outcome.Text = res.PlainText
			outcome.Empty = res.IsEmpty()
			outcome.Cached = true
			outcome.Duration = time.Since(start)
			return outcome
		}
	}

	res, err := s.recognize(path)
	outcome.Duration = time.Since(start)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Text = res.PlainText
	outcome.Empty = res.IsEmpty()
	if s.cache != nil {
		s.cache.Set(key, res, cache.DefaultExpiration)
	}
	return outcome
}

func (s *ExtractionService) recognize(path string) (ocr.Result, error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.Timeout)
	defer cancel()

	img, err := imageio.Load(path)
	if err != nil {
		return ocr.Result{}, err
	}
	data, err := img.PNG()
	if err != nil {
		return ocr.Result{}, apperr.Engine("prepare image", err).WithContext("path", path)
	}
	if s.preprocess != nil {
		if data, err = s.preprocess.Run(ctx, data); err != nil {
			return ocr.Result{}, apperr.Engine("preprocess image", err).WithContext("path", path)
		}
	}

	s.logger.Debug(component, "recognizing", map[string]interface{}{
		"path":   path,
		"format": img.Format,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
		"engine": s.engine.Name(),
	})

	res, err := s.engine.Recognize(ctx, ocr.Input{
		ID:        path,
		Image:     data,
		Languages: s.cfg.Languages,
		PSM:       s.cfg.PSM,
		Metadata:  s.cfg.Variables,
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return ocr.Result{}, err
		}
		return ocr.Result{}, apperr.Engine("recognize", err).WithContext("path", path)
	}
	return res, nil
}

func (s *ExtractionService) cacheKey(path string, size int64, modTime time.Time) string {
	steps := ""
	if s.preprocess != nil {
		steps = strings.Join(s.preprocess.Names(), ",")
	}
	vars := make([]string, 0, len(s.cfg.Variables))
	for _, k := range slices.Sorted(maps.Keys(s.cfg.Variables)) {
		vars = append(vars, k+"="+s.cfg.Variables[k])
	}
	return fmt.Sprintf("%s|%d|%d|%s|%d|%s|%s", path, size, modTime.UnixNano(), s.cfg.LanguageSpec(), s.cfg.PSM, steps, strings.Join(vars, ","))
}

func (s *ExtractionService) record(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.TotalProcessed++
	switch {
	case o.Err != nil:
		s.stats.Failures++
	case o.Cached:
		s.stats.CacheHits++
	}
	s.totalTime += o.Duration
	s.stats.AverageTime = s.totalTime / time.Duration(s.stats.TotalProcessed)
}

// Stats returns a copy of the counters.
func (s *ExtractionService) Stats() ExtractionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// IsProcessing reports whether the slot is taken.
func (s *ExtractionService) IsProcessing() bool {
	return s.state.IsBusy()
}

// EngineName names the engine in use, for logs and the status bar.
func (s *ExtractionService) EngineName() string {
	return s.engine.Name()
}

// Shutdown rejects further submissions, cancels the running extraction
// and waits for its goroutine.
func (s *ExtractionService) Shutdown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	if s.cache != nil {
		s.cache.Flush()
	}
	s.logger.Debug(component, "shutdown complete", nil)
}
