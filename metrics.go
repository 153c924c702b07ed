package latentgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    generateCounter   prometheus.Counter
//	    inversionHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordGenerate(count int, duration time.Duration, err error) {
//	    p.generateCounter.Add(float64(count))
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordGenerate is called after each batch generation.
	// count is the number of images rendered, duration is the total time
	// taken, err is nil if successful.
	RecordGenerate(count int, duration time.Duration, err error)

	// RecordInterpolate is called after each interpolation run.
	// steps is the number of path points rendered.
	RecordInterpolate(steps int, duration time.Duration, err error)

	// RecordInversion is called after each inversion run.
	// steps is the number of optimization steps, finalLoss the loss at the
	// last recorded step.
	RecordInversion(steps int, finalLoss float64, duration time.Duration, err error)

	// RecordTarget is called after each target image acquisition.
	RecordTarget(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGenerate(int, time.Duration, error)           {}
func (NoopMetricsCollector) RecordInterpolate(int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordInversion(int, float64, time.Duration, error) {}
func (NoopMetricsCollector) RecordTarget(time.Duration, error)                  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GenerateCount         atomic.Int64
	GenerateImages        atomic.Int64
	GenerateErrors        atomic.Int64
	GenerateTotalNanos    atomic.Int64
	InterpolateCount      atomic.Int64
	InterpolateErrors     atomic.Int64
	InterpolateTotalNanos atomic.Int64
	InversionCount        atomic.Int64
	InversionErrors       atomic.Int64
	InversionTotalNanos   atomic.Int64
	TargetCount           atomic.Int64
	TargetErrors          atomic.Int64
}

// RecordGenerate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGenerate(count int, duration time.Duration, err error) {
	b.GenerateCount.Add(1)
	b.GenerateImages.Add(int64(count))
	b.GenerateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GenerateErrors.Add(1)
	}
}

// RecordInterpolate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInterpolate(steps int, duration time.Duration, err error) {
	b.InterpolateCount.Add(1)
	b.InterpolateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InterpolateErrors.Add(1)
	}
}

// RecordInversion implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInversion(steps int, finalLoss float64, duration time.Duration, err error) {
	b.InversionCount.Add(1)
	b.InversionTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InversionErrors.Add(1)
	}
}

// RecordTarget implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTarget(duration time.Duration, err error) {
	b.TargetCount.Add(1)
	if err != nil {
		b.TargetErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GenerateCount:       b.GenerateCount.Load(),
		GenerateImages:      b.GenerateImages.Load(),
		GenerateErrors:      b.GenerateErrors.Load(),
		GenerateAvgNanos:    avgNanos(b.GenerateTotalNanos.Load(), b.GenerateCount.Load()),
		InterpolateCount:    b.InterpolateCount.Load(),
		InterpolateErrors:   b.InterpolateErrors.Load(),
		InterpolateAvgNanos: avgNanos(b.InterpolateTotalNanos.Load(), b.InterpolateCount.Load()),
		InversionCount:      b.InversionCount.Load(),
		InversionErrors:     b.InversionErrors.Load(),
		InversionAvgNanos:   avgNanos(b.InversionTotalNanos.Load(), b.InversionCount.Load()),
		TargetCount:         b.TargetCount.Load(),
		TargetErrors:        b.TargetErrors.Load(),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GenerateCount       int64
	GenerateImages      int64
	GenerateErrors      int64
	GenerateAvgNanos    int64
	InterpolateCount    int64
	InterpolateErrors   int64
	InterpolateAvgNanos int64
	InversionCount      int64
	InversionErrors     int64
	InversionAvgNanos   int64
	TargetCount         int64
	TargetErrors        int64
}
