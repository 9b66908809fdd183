package preprocess

import (
	"context"
	"image"

	"gocv.io/x/gocv"
)

// MedianDenoise removes salt-and-pepper noise from scans.
type MedianDenoise struct {
	Kernel int
}

// NewMedianDenoise uses kernel, or picks 3 (5 above one megapixel) when
// kernel is not a positive odd number.
func NewMedianDenoise(kernel int) MedianDenoise {
	return MedianDenoise{Kernel: kernel}
}

func (m MedianDenoise) Name() string { return "denoise" }

func (m MedianDenoise) Apply(ctx context.Context, src gocv.Mat) (gocv.Mat, error) {
	kernel := m.Kernel
	if kernel <= 0 || kernel%2 == 0 {
		kernel = 3
		if src.Rows()*src.Cols() > 1000000 {
			kernel = 5
		}
	}

	dst := gocv.NewMat()
	gocv.MedianBlur(src, &dst, kernel)
	return dst, nil
}

// CLAHE evens out contrast on unevenly lit photos of documents.
type CLAHE struct {
	ClipLimit float64
	TileSize  int
}

// NewCLAHE defaults to a clip limit of 3 and 8x8 tiles.
func NewCLAHE(clipLimit float64, tileSize int) CLAHE {
	if clipLimit <= 0 {
		clipLimit = 3.0
	}
	if tileSize <= 0 {
		tileSize = 8
	}
	return CLAHE{ClipLimit: clipLimit, TileSize: tileSize}
}

func (c CLAHE) Name() string { return "contrast" }

func (c CLAHE) Apply(ctx context.Context, src gocv.Mat) (gocv.Mat, error) {
	clahe := gocv.NewCLAHEWithParams(c.ClipLimit, image.Point{X: c.TileSize, Y: c.TileSize})
	defer clahe.Close()

	dst := gocv.NewMat()
	clahe.Apply(src, &dst)
	return dst, nil
}

// OtsuThreshold picks a global threshold from the histogram and maps every
// pixel to black or white.
type OtsuThreshold struct{}

func (OtsuThreshold) Name() string { return "binarize" }

func (OtsuThreshold) Apply(ctx context.Context, src gocv.Mat) (gocv.Mat, error) {
	dst := gocv.NewMat()
	gocv.Threshold(src, &dst, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	return dst, nil
}
