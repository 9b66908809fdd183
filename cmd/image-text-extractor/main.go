package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"image-text-extractor/internal/config"
)

const (
	AppName    = "Image to Text Extractor"
	AppID      = "io.github.image-text-extractor"
	AppVersion = "1.0.0"
)

func main() {
	if err := newRootCommand(run).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand parses flags, loads the configuration and hands it to run.
func newRootCommand(run func(*config.Config) error) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:     config.AppSlug,
		Short:   "Extract text from images with Tesseract and save it as Word or PDF",
		Version: AppVersion,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.NewViper(configFile)
			if err != nil {
				return err
			}
			if err := bindFlags(cmd, v); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default ./image-text-extractor.yaml or ~/.config/image-text-extractor/config.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Bool("log-json", false, "write logs as JSON")
	flags.String("engine", config.EngineCLI, "OCR engine: cli or library")
	flags.String("tesseract", "", "path to the tesseract executable")
	flags.String("lang", "eng", "OCR languages, joined with + (eng+deu)")
	flags.Int("psm", -1, "tesseract page segmentation mode (-1 for the engine default)")
	flags.String("font", "", "TrueType font used for PDF export")
	flags.Bool("denoise", false, "median-filter images before recognition")
	flags.Bool("contrast", false, "equalise contrast (CLAHE) before recognition")
	flags.Bool("binarize", false, "binarize images (Otsu) before recognition")

	return cmd
}

var flagKeys = map[string]string{
	"log-level": "log.level",
	"log-json":  "log.json",
	"engine":    "ocr.engine",
	"tesseract": "ocr.tesseract_path",
	"lang":      "ocr.languages",
	"psm":       "ocr.psm",
	"font":      "export.font_path",
	"denoise":   "ocr.denoise",
	"contrast":  "ocr.contrast",
	"binarize":  "ocr.binarize",
}

// bindFlags lets explicitly set flags override file and environment values.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

func run(cfg *config.Config) error {
	application, err := NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("application initialization failed: %w", err)
	}
	return application.Run()
}
