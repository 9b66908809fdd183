// Package preprocess prepares images for recognition with OpenCV.
package preprocess

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"
)

// Step transforms a single-channel image. Apply returns a new Mat owned by
// the caller; src is left untouched.
type Step interface {
	Name() string
	Apply(ctx context.Context, src gocv.Mat) (gocv.Mat, error)
}

// Options selects the steps of a chain. Steps always run in the order
// denoise, contrast, binarize.
type Options struct {
	Denoise  bool
	Contrast bool
	Binarize bool
}

// Chain runs steps over a grayscale decode of the image.
type Chain struct {
	steps []Step
}

func NewChain(steps ...Step) *Chain {
	return &Chain{steps: steps}
}

// FromOptions builds the chain selected by o. The result may be empty.
func FromOptions(o Options) *Chain {
	var steps []Step
	if o.Denoise {
		steps = append(steps, NewMedianDenoise(0))
	}
	if o.Contrast {
		steps = append(steps, NewCLAHE(0, 0))
	}
	if o.Binarize {
		steps = append(steps, OtsuThreshold{})
	}
	return NewChain(steps...)
}

func (c *Chain) Empty() bool {
	return len(c.steps) == 0
}

// Names lists the steps in execution order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.Name()
	}
	return names
}

// Run decodes data as grayscale, applies every step and returns PNG bytes.
func (c *Chain) Run(ctx context.Context, data []byte) ([]byte, error) {
	current, err := gocv.IMDecode(data, gocv.IMReadGrayScale)
	if err != nil {
		return nil, fmt.Errorf("decode for preprocessing: %w", err)
	}
	defer func() { current.Close() }()
	if current.Empty() {
		return nil, fmt.Errorf("decode for preprocessing: empty image")
	}

	for _, step := range c.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := step.Apply(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("step %s failed: %w", step.Name(), err)
		}
		current.Close()
		current = next
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, current)
	if err != nil {
		return nil, fmt.Errorf("encode preprocessed image: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
