// Package imageio validates, reads and decodes the images handed to OCR.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"image-text-extractor/internal/apperr"
)

// Extensions lists the file extensions offered by the image picker.
var Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".gif", ".webp"}

// MaxDimension is the largest width or height Tesseract accepts.
const MaxDimension = 32767

// ValidateDimensions rejects empty images and ones the OCR engine cannot take.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("image dimensions %dx%d exceed the maximum of %d", width, height, MaxDimension)
	}
	return nil
}

// Image is a decoded image plus the facts needed to key a recognition cache.
type Image struct {
	Path    string
	Format  string
	Data    []byte
	Decoded image.Image
	Size    int64
	ModTime time.Time
}

// Bounds returns the decoded pixel bounds.
func (i *Image) Bounds() image.Rectangle {
	return i.Decoded.Bounds()
}

// Stat checks that path names an existing regular file.
func Stat(path string) (fs.FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, apperr.Input(apperr.ErrNotExist)
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, apperr.Input(apperr.ErrNotExist).WithContext("path", path)
	}
	return info, nil
}

// Load reads and decodes the image at path.
func Load(path string) (*Image, error) {
	info, err := Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Engine("read image", err).WithContext("path", path)
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		if err := ValidateDimensions(cfg.Width, cfg.Height); err != nil {
			return nil, apperr.Engine("decode image", err).WithContext("path", path)
		}
	}
	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			err = fmt.Errorf("unsupported or corrupt image: %w", err)
		}
		return nil, apperr.Engine("decode image", err).WithContext("path", path)
	}
	return &Image{
		Path:    path,
		Format:  format,
		Data:    data,
		Decoded: decoded,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// PNG returns the image encoded as PNG, reusing the original bytes when the
// source already is one.
func (i *Image) PNG() ([]byte, error) {
	if i.Format == "png" {
		return i.Data, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, i.Decoded); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
