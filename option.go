package preload

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a Runner (functional options pattern).
type Option func(*Runner)

// WithLogger sets the logger for run diagnostics. If l is nil, the default logger is left unchanged.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider. Default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) {
		if tp != nil {
			r.tracer = tp.Tracer(instrumentationName)
		}
	}
}
