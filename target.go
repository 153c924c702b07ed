package latentgo

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hupe1980/latentgo/imagery"
	"github.com/hupe1980/latentgo/latent"
)

// ImageSource supplies a target image for inversion.
type ImageSource interface {
	// TargetImage returns the target, already sized for the model.
	TargetImage(ctx context.Context) (imagery.Image, error)
}

// ModelSource draws the target from the model itself: it generates the
// image for a seeded random latent vector. Useful for evaluating how
// well inversion recovers a vector that is known to exist.
type ModelSource struct {
	Explorer *Explorer

	// Seed for the hidden latent vector. Defaults to 4 when zero.
	Seed int64
}

// TargetImage implements ImageSource.
func (s ModelSource) TargetImage(ctx context.Context) (imagery.Image, error) {
	e := s.Explorer
	if err := e.checkOpen(); err != nil {
		return imagery.Image{}, err
	}

	seed := s.Seed
	if seed == 0 {
		seed = 4
	}

	start := time.Now()

	vec := latent.NewRNG(seed).Normal(e.gen.LatentDim())
	images, err := e.gen.Generate(ctx, []latent.Vector{vec})

	e.opts.metricsCollector.RecordTarget(time.Since(start), err)
	e.opts.logger.LogTarget(ctx, "model", e.gen.Resolution(), e.gen.Resolution(), err)

	if err != nil {
		return imagery.Image{}, translateError(err)
	}

	return images[0], nil
}

// FileSource loads the target from an image file (PNG, JPEG or GIF)
// and resizes it to the given square resolution.
type FileSource struct {
	Path       string
	Resolution int
}

// TargetImage implements ImageSource.
func (s FileSource) TargetImage(ctx context.Context) (imagery.Image, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return imagery.Image{}, fmt.Errorf("target %q: %w", s.Path, err)
	}
	defer f.Close()

	img, err := ReaderSource{Reader: f, Resolution: s.Resolution}.TargetImage(ctx)
	if err != nil {
		return imagery.Image{}, fmt.Errorf("target %q: %w", s.Path, err)
	}

	return img, nil
}

// ReaderSource decodes the target from a reader and resizes it to the
// given square resolution.
type ReaderSource struct {
	Reader     io.Reader
	Resolution int
}

// TargetImage implements ImageSource.
func (s ReaderSource) TargetImage(_ context.Context) (imagery.Image, error) {
	img, err := imagery.Decode(s.Reader)
	if err != nil {
		return imagery.Image{}, err
	}

	return imagery.Resize(img, s.Resolution, s.Resolution), nil
}
