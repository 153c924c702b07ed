package latentgo

import (
	"context"
	"math"
	"time"

	"github.com/hupe1980/latentgo/imagery"
	"github.com/hupe1980/latentgo/latent"
	"github.com/hupe1980/latentgo/optimize"
)

// InvertOptions configures a latent inversion run.
type InvertOptions struct {
	// Steps is the number of optimization steps. Must be positive.
	Steps int

	// LearningRate for the default Adam optimizer. Ignored when
	// Optimizer is set.
	LearningRate float32

	// Seed for the random initial vector. Ignored when Initial is set.
	Seed int64

	// Optimizer overrides the default Adam optimizer.
	Optimizer optimize.Optimizer

	// Initial overrides the seeded random starting vector.
	Initial latent.Vector

	// OnStep, if set, is called after every optimization step with the
	// step index (0-based), the image generated from the pre-update
	// vector, and its loss.
	OnStep func(step int, img imagery.Image, loss float64)
}

// DefaultInvertOptions returns the standard inversion settings:
// 40 Adam steps at learning rate 0.3 from a seed-5 starting vector.
func DefaultInvertOptions() InvertOptions {
	return InvertOptions{
		Steps:        40,
		LearningRate: 0.3,
		Seed:         5,
	}
}

// InversionStep is one recorded point of the optimization trace. The
// image and loss are computed from the vector before the update of
// that step was applied.
type InversionStep struct {
	Image imagery.Image
	Loss  float64
}

// Inversion is the result of a latent inversion run.
type Inversion struct {
	// Steps is the optimization trace, one entry per step.
	Steps []InversionStep

	// Vector is the final latent vector after the last update.
	Vector latent.Vector
}

// FinalLoss returns the loss at the last recorded step.
func (inv *Inversion) FinalLoss() float64 {
	if len(inv.Steps) == 0 {
		return math.Inf(1)
	}
	return inv.Steps[len(inv.Steps)-1].Loss
}

// Images returns the trace images in step order.
func (inv *Inversion) Images() []imagery.Image {
	images := make([]imagery.Image, len(inv.Steps))
	for i, s := range inv.Steps {
		images[i] = s.Image
	}
	return images
}

// Losses returns the trace losses in step order.
func (inv *Inversion) Losses() []float64 {
	losses := make([]float64, len(inv.Steps))
	for i, s := range inv.Steps {
		losses[i] = s.Loss
	}
	return losses
}

// FindClosestLatent runs gradient descent on a latent vector until the
// generated image approximates the target.
//
// The objective is the sum of absolute pixel differences over the RGB
// channels, plus a regularizer |norm(v) - sqrt(dim)| that keeps the
// vector near the shell where the generator was trained. Targets may
// be RGB or RGBA; an alpha channel is ignored.
func (e *Explorer) FindClosestLatent(ctx context.Context, target imagery.Image, opts InvertOptions) (*Inversion, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	start := time.Now()

	inv, err := e.invert(ctx, target, opts)

	finalLoss := math.Inf(1)
	if inv != nil {
		finalLoss = inv.FinalLoss()
	}

	e.opts.metricsCollector.RecordInversion(opts.Steps, finalLoss, time.Since(start), err)
	e.opts.logger.LogInversion(ctx, opts.Steps, finalLoss, err)

	return inv, err
}

func (e *Explorer) invert(ctx context.Context, target imagery.Image, opts InvertOptions) (*Inversion, error) {
	if opts.Steps <= 0 {
		return nil, ErrInvalidSteps
	}

	if res := e.gen.Resolution(); target.Width != res || target.Height != res {
		return nil, &ErrShapeMismatch{
			ExpectedWidth:  res,
			ExpectedHeight: res,
			ActualWidth:    target.Width,
			ActualHeight:   target.Height,
		}
	}
	if target.Channels != 3 && target.Channels != 4 {
		return nil, &ErrChannelCount{Channels: target.Channels}
	}

	dim := e.gen.LatentDim()

	vec := opts.Initial
	if vec == nil {
		vec = latent.NewRNG(opts.Seed).Normal(dim)
	} else {
		if vec.Dim() != dim {
			return nil, &ErrDimensionMismatch{Expected: dim, Actual: vec.Dim()}
		}
		vec = vec.Clone()
	}

	opt := opts.Optimizer
	if opt == nil {
		cfg := optimize.DefaultAdamConfig()
		if opts.LearningRate > 0 {
			cfg.LearningRate = opts.LearningRate
		}
		opt = optimize.NewAdam(cfg)
	}

	diff := e.differentiable()
	targetNorm := latent.ExpectedNorm(dim)

	trace := make([]InversionStep, 0, opts.Steps)

	for step := 0; step < opts.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// The upstream callback receives the generated image and returns
		// the pixel gradient of the L1 image term. The loss itself is
		// accumulated as a side effect so generation runs once per step.
		var pixelLoss float64

		img, grad, err := diff.GenerateVJP(ctx, vec, func(img imagery.Image) []float32 {
			u := make([]float32, len(img.Pix))
			for p := 0; p < img.Width*img.Height; p++ {
				for c := 0; c < 3; c++ {
					d := img.Pix[p*img.Channels+c] - target.Pix[p*target.Channels+c]
					pixelLoss += math.Abs(float64(d))
					u[p*img.Channels+c] = sign(d)
				}
			}
			return u
		})
		if err != nil {
			return nil, translateError(err)
		}

		// Norm regularizer: |norm(v) - sqrt(dim)|.
		norm := vec.Norm()
		loss := pixelLoss + math.Abs(float64(norm)-float64(targetNorm))

		if norm > 0 {
			s := sign(norm - targetNorm)
			for i, v := range vec {
				grad[i] += s * v / norm
			}
		}

		trace = append(trace, InversionStep{Image: img, Loss: loss})

		e.opts.logger.LogInversionStep(ctx, step, loss)
		if opts.OnStep != nil {
			opts.OnStep(step, img, loss)
		}

		if err := opt.Step(vec, grad); err != nil {
			return nil, err
		}
	}

	return &Inversion{
		Steps:  trace,
		Vector: vec,
	}, nil
}

func sign(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
