package natal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"Natalis/internal/domain/models"
	"Natalis/pkg/errors"
)

// MaxFixedStarOrb bounds the per-request fixed-star orb.
const MaxFixedStarOrb = 5.0

// Options selects which stages contribute to a report. The zero value turns
// everything off; use DefaultOptions for the usual full report.
type Options struct {
	IncludeAspects      bool
	IncludePatterns     bool
	IncludeAngleAspects bool
	IncludeFixedStars   bool
	IncludeDignities    bool
	IncludeAnalysis     bool
	FixedStarOrb        float64
}

// DefaultOptions enables every stage with the default fixed-star orb.
func DefaultOptions() Options {
	return Options{
		IncludeAspects:      true,
		IncludePatterns:     true,
		IncludeAngleAspects: true,
		IncludeFixedStars:   true,
		IncludeDignities:    true,
		IncludeAnalysis:     true,
		FixedStarOrb:        DefaultFixedStarOrb,
	}
}

// Validate checks the numeric options. The fixed-star orb is only checked
// when fixed stars are requested.
func (o Options) Validate() error {
	if !o.IncludeFixedStars {
		return nil
	}
	if o.FixedStarOrb <= 0 || o.FixedStarOrb > MaxFixedStarOrb {
		return errors.Wrapf(errors.ErrInvalidInput, "fixed star orb %.2f outside (0, %.0f]", o.FixedStarOrb, MaxFixedStarOrb)
	}
	return nil
}

// Engine runs the chart pipeline. It holds only immutable configuration, so
// one Engine is safe for concurrent use.
type Engine struct {
	aspects    *AspectEngine
	stars      []FixedStar
	patterns   PatternOptions
	thresholds ProfileThresholds
	tracer     trace.Tracer
	now        func() time.Time
	newID      func() string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFixedStars replaces the built-in star catalog.
func WithFixedStars(catalog []FixedStar) EngineOption {
	return func(e *Engine) {
		if len(catalog) > 0 {
			e.stars = catalog
		}
	}
}

// WithPatternOptions overrides stellium settings.
func WithPatternOptions(opts PatternOptions) EngineOption {
	return func(e *Engine) { e.patterns = opts }
}

// WithProfileThresholds overrides the chart-profile thresholds.
func WithProfileThresholds(th ProfileThresholds) EngineOption {
	return func(e *Engine) { e.thresholds = th }
}

// WithTracer sets the tracer used for pipeline spans.
func WithTracer(t trace.Tracer) EngineOption {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithClock sets the report timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator sets the report id source.
func WithIDGenerator(gen func() string) EngineOption {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// NewEngine creates an Engine with the built-in tables.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		aspects:    NewAspectEngine(),
		stars:      defaultFixedStars,
		patterns:   DefaultPatternOptions(),
		thresholds: DefaultProfileThresholds(),
		tracer:     otel.Tracer("Natalis/natal"),
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute builds a report from upstream positions. A missing or malformed
// angle/house block fails with ErrFatalPipeline before any stage runs; every
// other degraded input is recorded as a note.
func (e *Engine) Compute(ctx context.Context, in models.ChartInput, opts Options) (*models.Report, error) {
	ctx, span := e.tracer.Start(ctx, "natal.Compute")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if in.Houses == nil {
		return nil, errors.Wrap(errors.ErrFatalPipeline, "angle/house block unavailable")
	}

	var notes []models.Note
	hs, err := ResolveHouseSystem(in.Houses.System)
	if err != nil {
		notes = append(notes, HouseSystemNote(err, in.Houses.System))
	}
	houses, err := BuildHouses(in.Houses, hs)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("natal.house_system", hs.Code))

	raw, resolveNotes := ResolveBodies(in.Bodies)
	notes = append(notes, resolveNotes...)
	notes = append(notes, MissingBodies(raw, resolveNotes)...)
	assignHouses(raw, houses.Cusps)

	bodies, deriveNotes := e.derive(ctx, raw, houses)
	notes = append(notes, deriveNotes...)

	report := &models.Report{
		ID:         e.newID(),
		ComputedAt: e.now().UTC(),
		Bodies:     bodies,
		Houses:     houses,
	}

	if opts.IncludeAspects || opts.IncludePatterns {
		var angles *models.Angles
		if opts.IncludeAngleAspects {
			angles = &houses.Angles
		}
		aspects := e.longitudeAspects(ctx, bodies, angles)
		if opts.IncludeAspects {
			report.Aspects = aspects
			report.DeclinationAspects = e.aspects.Declination(bodies)
		}
		if opts.IncludePatterns {
			report.Patterns = e.detectPatterns(ctx, aspects, bodies)
		}
	}

	if err := e.classify(ctx, raw, houses.Angles, opts, report); err != nil {
		return nil, err
	}

	report.Notes = notes
	span.SetAttributes(
		attribute.Int("natal.bodies", len(report.Bodies)),
		attribute.Int("natal.aspects", len(report.Aspects)),
		attribute.Int("natal.patterns", len(report.Patterns)),
		attribute.Int("natal.notes", len(report.Notes)),
	)
	return report, nil
}

func (e *Engine) derive(ctx context.Context, raw []models.Body, houses models.Houses) ([]models.Body, []models.Note) {
	_, span := e.tracer.Start(ctx, "natal.DerivePoints")
	defer span.End()

	bodies, notes := DerivePoints(raw, houses.Angles.Ascendant.Longitude)
	assignHouses(bodies[len(raw):], houses.Cusps)
	return bodies, notes
}

func (e *Engine) longitudeAspects(ctx context.Context, bodies []models.Body, angles *models.Angles) []models.Aspect {
	_, span := e.tracer.Start(ctx, "natal.Aspects")
	defer span.End()
	return e.aspects.Longitude(bodies, angles)
}

func (e *Engine) detectPatterns(ctx context.Context, aspects []models.Aspect, bodies []models.Body) []models.Pattern {
	_, span := e.tracer.Start(ctx, "natal.Patterns")
	defer span.End()
	return DetectPatterns(aspects, bodies, e.patterns)
}

// classify runs the independent classifiers over the raw body table. Each
// goroutine writes a distinct report field.
func (e *Engine) classify(ctx context.Context, raw []models.Body, angles models.Angles, opts Options, report *models.Report) error {
	g, gctx := errgroup.WithContext(ctx)

	if opts.IncludeDignities {
		g.Go(func() error {
			_, span := e.tracer.Start(gctx, "natal.Dignities")
			defer span.End()
			report.Dignities = ClassifyDignities(raw)
			return nil
		})
	}
	if opts.IncludeFixedStars {
		g.Go(func() error {
			_, span := e.tracer.Start(gctx, "natal.FixedStars")
			defer span.End()
			report.FixedStars = NewFixedStarMatcher(e.stars, opts.FixedStarOrb).Match(raw)
			return nil
		})
	}
	if opts.IncludeAnalysis {
		g.Go(func() error {
			_, span := e.tracer.Start(gctx, "natal.Profile")
			defer span.End()
			p := ProfileChart(raw, angles, e.thresholds)
			report.Profile = &p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
