package preload

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/skosovsky/preload"

// scriptSeparator joins rendered scripts into the combined script.
const scriptSeparator = "\n\n"

// Runner drives the resolve, fetch, render and execute pipeline.
// A Runner holds no per-run state; Apply may be called repeatedly and from multiple goroutines
// as long as the Registry is not modified concurrently.
type Runner struct {
	registry *Registry
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewRunner creates a Runner that dispatches locations through reg.
// Panics if reg is nil.
func NewRunner(reg *Registry, opts ...Option) *Runner {
	if reg == nil {
		panic("preload: Registry must not be nil")
	}
	r := &Runner{
		registry: reg,
		logger:   slog.Default(),
		tracer:   otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// plannedLocation is a location with its resolved retriever, or the error that
// prevented resolving it.
type plannedLocation struct {
	location  string
	protocol  string
	retriever Retriever
	err       error
}

// Apply builds the combined script for cfg and submits it to sink.
// A configuration without locations is a no-op: nothing is fetched, rendered or executed.
// Retriever settings are validated once per protocol before the first fetch, so a
// validation error takes precedence over fetch errors. Every other stage runs per
// location in order: the first failure aborts the run before execution and is
// returned as *LocationError. Errors from sink are returned unchanged.
func (r *Runner) Apply(ctx context.Context, sink Executor, cfg Config) error {
	if cfg.IsZero() {
		return nil
	}
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)
	ctx, span := r.tracer.Start(ctx, "preload.Apply", trace.WithAttributes(
		attribute.String("preload.run_id", runID),
		attribute.Int("preload.locations", len(cfg.OrderedLocations())),
	))
	defer span.End()

	script, err := r.build(ctx, logger, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return err
	}
	logger.InfoContext(ctx, "executing preload script", "bytes", len(script))
	if err := sink.Exec(ctx, script); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "execution failed")
		return err
	}
	return nil
}

// ApplyMap decodes raw with ParseConfig and calls Apply.
func (r *Runner) ApplyMap(ctx context.Context, sink Executor, raw map[string]any) error {
	cfg, err := ParseConfig(raw)
	if err != nil {
		return err
	}
	return r.Apply(ctx, sink, cfg)
}

// Build returns the combined script for cfg without executing it.
// A configuration without locations yields an empty script.
func (r *Runner) Build(ctx context.Context, cfg Config) (string, error) {
	if cfg.IsZero() {
		return "", nil
	}
	return r.build(ctx, r.logger, cfg)
}

func (r *Runner) build(ctx context.Context, logger *slog.Logger, cfg Config) (string, error) {
	plan, err := r.plan(logger, cfg)
	if err != nil {
		return "", err
	}
	rendered := make([]string, 0, len(plan))
	for _, p := range plan {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if p.err != nil {
			return "", p.err
		}
		text, err := r.runOne(ctx, logger, p, cfg)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, text)
	}
	return strings.Join(rendered, scriptSeparator), nil
}

// plan resolves every location and validates each retriever's settings once.
// Malformed locations are kept in the plan and fail when the run reaches them.
func (r *Runner) plan(logger *slog.Logger, cfg Config) ([]plannedLocation, error) {
	locations := cfg.OrderedLocations()
	plan := make([]plannedLocation, 0, len(locations))
	validated := make(map[string]bool)
	for _, loc := range locations {
		protocol, err := Protocol(loc)
		if err != nil {
			plan = append(plan, plannedLocation{location: loc, err: newLocationError(loc, StageResolve, err)})
			continue
		}
		ret, ok := r.registry.Lookup(protocol)
		if !ok {
			logger.Warn("no retriever registered for protocol, using empty script", "location", loc, "protocol", protocol)
			ret = NopRetriever
		}
		if v, ok := ret.(ConfigValidator); ok && !validated[protocol] {
			if err := v.ValidateConfig(cfg.Config); err != nil {
				return nil, newLocationError(loc, StageValidate, err)
			}
			validated[protocol] = true
		}
		plan = append(plan, plannedLocation{location: loc, protocol: protocol, retriever: ret})
	}
	return plan, nil
}

func (r *Runner) runOne(ctx context.Context, logger *slog.Logger, p plannedLocation, cfg Config) (string, error) {
	ctx, span := r.tracer.Start(ctx, "preload.location", trace.WithAttributes(
		attribute.String("preload.location", p.location),
		attribute.String("preload.protocol", p.protocol),
	))
	defer span.End()

	raw, err := p.retriever.Retrieve(ctx, p.location, cfg.Config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return "", newLocationError(p.location, StageFetch, err)
	}
	logger.DebugContext(ctx, "preload script fetched", "location", p.location, "protocol", p.protocol, "bytes", len(raw))
	text, err := Render(raw, cfg.Parameters)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return "", newLocationError(p.location, StageRender, err)
	}
	return text, nil
}
