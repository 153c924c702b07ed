package latentgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/latentgo/imagery"
	"github.com/hupe1980/latentgo/latent"
)

var (
	// ErrNilGenerator is returned when constructing an Explorer without a model.
	ErrNilGenerator = errors.New("generator must not be nil")

	// ErrClosed is returned when using a closed Explorer.
	ErrClosed = errors.New("explorer is closed")

	// ErrInvalidSteps is returned for degenerate step counts.
	ErrInvalidSteps = errors.New("invalid step count")

	// ErrZeroVector is returned when a path endpoint has zero norm.
	ErrZeroVector = errors.New("zero-norm vector")
)

// ErrDimensionMismatch indicates a latent vector/model dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrShapeMismatch indicates a target image whose geometry does not
// match the model's output resolution.
type ErrShapeMismatch struct {
	ExpectedWidth  int
	ExpectedHeight int
	ActualWidth    int
	ActualHeight   int
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("shape mismatch: expected %dx%d, got %dx%d",
		e.ExpectedWidth, e.ExpectedHeight, e.ActualWidth, e.ActualHeight)
}

// ErrChannelCount indicates a target image with an unsupported channel
// layout. Targets must be RGB or RGBA; only the first three channels
// participate in the loss.
type ErrChannelCount struct {
	Channels int
	cause    error
}

func (e *ErrChannelCount) Error() string {
	return fmt.Sprintf("unsupported channel count: %d (want 3 or 4)", e.Channels)
}

func (e *ErrChannelCount) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, latent.ErrZeroVector) {
		return fmt.Errorf("%w: %w", ErrZeroVector, err)
	}

	var esc *latent.ErrInvalidStepCount
	if errors.As(err, &esc) {
		return fmt.Errorf("%w: %w", ErrInvalidSteps, err)
	}

	var edm *latent.ErrDimensionMismatch
	if errors.As(err, &edm) {
		return &ErrDimensionMismatch{Expected: edm.Expected, Actual: edm.Actual, cause: err}
	}

	var ecc *imagery.ErrChannelCount
	if errors.As(err, &ecc) {
		return &ErrChannelCount{Channels: ecc.Channels, cause: err}
	}

	return err
}
