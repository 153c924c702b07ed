// Package latentgo provides latent-space exploration for generative image models.
//
// This file implements the fluent builder API for creating and configuring
// Explorer instances. The builder is immutable - each method returns a new
// builder with the updated configuration.
package latentgo

import (
	"context"

	"github.com/hupe1980/latentgo/generator"
	"github.com/hupe1980/latentgo/hub"
)

// Pipeline creates a new Explorer builder around a generator.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration. This ensures thread-safety and prevents
// accidental state sharing.
//
// Example:
//
//	ex, err := latentgo.Pipeline(gen).
//	    Logger(latentgo.NewTextLogger(slog.LevelDebug)).
//	    Metrics(&latentgo.BasicMetricsCollector{}).
//	    Build()
func Pipeline(gen generator.Generator) Builder {
	return Builder{gen: gen}
}

// Model creates a new Explorer builder that fetches a named model from
// a hub at Build time.
//
// Example:
//
//	ex, err := latentgo.Model(client, "progan-128").
//	    Logger(latentgo.NewJSONLogger(slog.LevelInfo)).
//	    BuildContext(ctx)
func Model(client *hub.Client, name string) Builder {
	return Builder{client: client, modelName: name}
}

// Builder is an immutable fluent builder for creating Explorer instances.
// Each method returns a new builder with the updated configuration.
type Builder struct {
	gen       generator.Generator
	client    *hub.Client
	modelName string
	logger    *Logger
	metrics   MetricsCollector
}

// Logger sets the structured logger for operation tracing.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// Build creates the Explorer. Hub-backed builders use a background
// context for the fetch; use BuildContext to control cancellation.
func (b Builder) Build() (*Explorer, error) {
	return b.BuildContext(context.Background())
}

// BuildContext creates the Explorer, fetching the model artifact with
// the given context when the builder is hub-backed.
func (b Builder) BuildContext(ctx context.Context) (*Explorer, error) {
	var optFns []Option
	if b.logger != nil {
		optFns = append(optFns, WithLogger(b.logger))
	}
	if b.metrics != nil {
		optFns = append(optFns, WithMetricsCollector(b.metrics))
	}

	if b.client != nil {
		return OpenModel(ctx, b.client, b.modelName, optFns...)
	}

	return New(b.gen, optFns...)
}

// MustBuild creates the Explorer, panicking on error.
func (b Builder) MustBuild() *Explorer {
	ex, err := b.Build()
	if err != nil {
		panic(err)
	}
	return ex
}
