package latentgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with latentgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithModel adds a model name field to the logger.
func (l *Logger) WithModel(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("model", name),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithSteps adds a steps field to the logger.
func (l *Logger) WithSteps(steps int) *Logger {
	return &Logger{
		Logger: l.Logger.With("steps", steps),
	}
}

// LogGenerate logs a batch generation.
func (l *Logger) LogGenerate(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "generate failed",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "generate completed",
			"count", count,
		)
	}
}

// LogInterpolate logs an interpolation run.
func (l *Logger) LogInterpolate(ctx context.Context, steps int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "interpolation failed",
			"steps", steps,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "interpolation completed",
			"steps", steps,
		)
	}
}

// LogInversionStep logs a single optimization step during inversion.
func (l *Logger) LogInversionStep(ctx context.Context, step int, loss float64) {
	l.DebugContext(ctx, "inversion step",
		"step", step,
		"loss", loss,
	)
}

// LogInversion logs a completed inversion run.
func (l *Logger) LogInversion(ctx context.Context, steps int, finalLoss float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "inversion failed",
			"steps", steps,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "inversion completed",
			"steps", steps,
			"final_loss", finalLoss,
		)
	}
}

// LogTarget logs target image acquisition.
func (l *Logger) LogTarget(ctx context.Context, source string, width, height int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "target acquisition failed",
			"source", source,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "target acquired",
			"source", source,
			"width", width,
			"height", height,
		)
	}
}
