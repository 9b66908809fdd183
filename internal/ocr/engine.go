package ocr

import (
	"image-text-extractor/internal/config"
)

// NewEngine builds the engine selected by cfg. The tesseract executable is
// resolved here so a missing binary is reported at startup.
func NewEngine(cfg config.OCRConfig) (Engine, error) {
	if cfg.Engine == config.EngineLibrary {
		return NewLibraryEngine()
	}
	binPath, err := config.ResolveTesseract(cfg.TesseractPath)
	if err != nil {
		return nil, err
	}
	return NewCLIEngine(binPath), nil
}
