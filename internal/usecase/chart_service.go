package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"Natalis/internal/domain/models"
	domrepo "Natalis/internal/domain/repository"
	domsvc "Natalis/internal/domain/service"
	"Natalis/internal/services/natal"
	"Natalis/pkg/errors"
	applogger "Natalis/pkg/logger"
)

// Error kinds recorded by Metrics.RecordError.
const (
	KindInvalidInput  = "invalid_input"
	KindFatalPipeline = "fatal_pipeline"
	KindUpstream      = "upstream"
	KindCanceled      = "canceled"
	KindInternal      = "internal"
	KindPublish       = "publish"
)

// ChartService builds charts: fetch positions, run the engine, publish the
// resulting event.
type ChartService struct {
	provider     domrepo.EphemerisProvider
	engine       domsvc.ChartEngine
	publisher    domrepo.ChartPublisher
	metrics      domrepo.Metrics
	log          *applogger.Logger
	tracer       trace.Tracer
	fixedStarOrb float64
	now          func() time.Time
	newID        func() string
}

// NewChartService wires the chart use case. fixedStarOrb is the orb used when
// a request does not set one.
func NewChartService(
	provider domrepo.EphemerisProvider,
	engine domsvc.ChartEngine,
	publisher domrepo.ChartPublisher,
	metrics domrepo.Metrics,
	log *applogger.Logger,
	fixedStarOrb float64,
) *ChartService {
	if log == nil {
		log = applogger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if fixedStarOrb <= 0 {
		fixedStarOrb = natal.DefaultFixedStarOrb
	}
	return &ChartService{
		provider:     provider,
		engine:       engine,
		publisher:    publisher,
		metrics:      metrics,
		log:          log,
		tracer:       otel.Tracer("Natalis/usecase"),
		fixedStarOrb: fixedStarOrb,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Options turns request toggles into engine options. Unset toggles are on.
func (s *ChartService) Options(o models.ChartOptions) natal.Options {
	on := func(p *bool) bool { return p == nil || *p }
	opts := natal.Options{
		IncludeAspects:      on(o.IncludeAspects),
		IncludePatterns:     on(o.IncludePatterns),
		IncludeAngleAspects: on(o.IncludeAngleAspects),
		IncludeFixedStars:   on(o.IncludeFixedStars),
		IncludeDignities:    on(o.IncludeDignities),
		IncludeAnalysis:     on(o.IncludeAnalysis),
		FixedStarOrb:        s.fixedStarOrb,
	}
	if o.FixedStarOrb != nil {
		opts.FixedStarOrb = *o.FixedStarOrb
	}
	return opts
}

// Build computes a chart from birth data. An unknown house system is
// replaced by Placidus and noted on the report.
func (s *ChartService) Build(ctx context.Context, req models.ChartRequest) (*models.ChartResponse, error) {
	call := CallFrom(ctx)
	ctx, span := s.tracer.Start(ctx, "chart.Build", trace.WithAttributes(
		attribute.String("chart.source", call.Source),
		attribute.String("chart.house_system", req.HouseSystem),
	))
	defer span.End()
	start := time.Now()

	resp, err := s.build(ctx, call, req)
	s.metrics.RecordLatency("chart_build", time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.recordFailure(call, err)
		return nil, err
	}
	s.recordSuccess(ctx, call, resp)
	return resp, nil
}

func (s *ChartService) build(ctx context.Context, call Call, req models.ChartRequest) (*models.ChartResponse, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "latitude and longitude are required")
	}
	opts := s.Options(req.ChartOptions)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	requested := strings.TrimSpace(req.HouseSystem)
	if requested == "" {
		requested = natal.DefaultHouseSystem
	}
	hs, hsErr := natal.ResolveHouseSystem(requested)

	data, err := s.provider.Compute(ctx, models.EphemerisRequest{
		BirthDate:     req.BirthDate,
		Time:          req.Time,
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		HouseSystem:   hs.Code,
		Authorization: call.Authorization,
	})
	if err != nil {
		if !errors.Is(err, errors.ErrUpstreamComputation) && ctx.Err() == nil {
			err = errors.Mark(err, errors.ErrUpstreamComputation)
		}
		return nil, err
	}

	report, err := s.engine.Compute(ctx, data.Input(), opts)
	if err != nil {
		return nil, err
	}
	if hsErr != nil {
		report.Notes = append([]models.Note{natal.HouseSystemNote(hsErr, requested)}, report.Notes...)
	}

	resp := &models.ChartResponse{
		Report:          report,
		HouseSystem:     firstNonEmpty(data.HouseSystem, houseField(data.Houses, false), hs.Code),
		HouseSystemName: firstNonEmpty(data.HouseSystemName, houseField(data.Houses, true), report.Houses.SystemName),
		InputFingerprint: &models.InputFingerprint{
			BirthDate:   req.BirthDate,
			BirthTime:   req.Time,
			Latitude:    *req.Latitude,
			Longitude:   *req.Longitude,
			HouseSystem: requested,
		},
	}
	return resp, nil
}

// Analyze runs the engine on caller-supplied positions.
func (s *ChartService) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.ChartResponse, error) {
	call := CallFrom(ctx)
	ctx, span := s.tracer.Start(ctx, "chart.Analyze", trace.WithAttributes(
		attribute.String("chart.source", call.Source),
		attribute.Int("chart.bodies", len(req.Bodies)),
	))
	defer span.End()
	start := time.Now()

	resp, err := s.analyze(ctx, req)
	s.metrics.RecordLatency("chart_analyze", time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.recordFailure(call, err)
		return nil, err
	}
	s.recordSuccess(ctx, call, resp)
	return resp, nil
}

func (s *ChartService) analyze(ctx context.Context, req models.AnalyzeRequest) (*models.ChartResponse, error) {
	opts := s.Options(req.ChartOptions)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	report, err := s.engine.Compute(ctx, models.ChartInput{Bodies: req.Bodies, Houses: req.Houses}, opts)
	if err != nil {
		return nil, err
	}
	return &models.ChartResponse{
		Report:          report,
		HouseSystem:     report.Houses.System,
		HouseSystemName: report.Houses.SystemName,
	}, nil
}

// ReportFailure publishes a failed event for a chart job.
func (s *ChartService) ReportFailure(ctx context.Context, fp *models.InputFingerprint, cause error) {
	call := CallFrom(ctx)
	s.publish(ctx, &models.ChartEvent{
		ID:          s.newID(),
		JobID:       call.JobID,
		Source:      call.Source,
		Status:      models.StatusFailed,
		Error:       cause.Error(),
		OccurredAt:  s.now().UTC(),
		Fingerprint: fp,
	})
}

func (s *ChartService) recordSuccess(ctx context.Context, call Call, resp *models.ChartResponse) {
	s.metrics.RecordChart(call.Source, models.StatusOK)
	for _, n := range resp.Notes {
		s.metrics.RecordNote(n.Code)
	}
	s.log.Info("chart computed",
		applogger.String("report_id", resp.ID),
		applogger.String("source", call.Source),
		applogger.String("house_system", resp.HouseSystem),
		applogger.Int("bodies", len(resp.Bodies)),
		applogger.Int("notes", len(resp.Notes)),
	)
	s.publish(ctx, &models.ChartEvent{
		ID:          s.newID(),
		JobID:       call.JobID,
		Source:      call.Source,
		Status:      models.StatusOK,
		OccurredAt:  s.now().UTC(),
		Fingerprint: resp.InputFingerprint,
		Chart:       resp,
	})
}

func (s *ChartService) recordFailure(call Call, err error) {
	kind := ErrorKind(err)
	s.metrics.RecordChart(call.Source, models.StatusFailed)
	s.metrics.RecordError(kind)
	s.log.Warn("chart failed",
		applogger.String("source", call.Source),
		applogger.String("kind", kind),
		applogger.String("job_id", call.JobID),
		applogger.Error(err),
	)
}

func (s *ChartService) publish(ctx context.Context, e *models.ChartEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.metrics.RecordError(KindPublish)
		s.log.Error("chart event publish failed",
			applogger.String("event_id", e.ID),
			applogger.String("status", e.Status),
			applogger.Error(err),
		)
	}
}

// ErrorKind classifies a chart failure.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, errors.ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, errors.ErrFatalPipeline):
		return KindFatalPipeline
	case errors.Is(err, errors.ErrUpstreamComputation):
		return KindUpstream
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}

type nopMetrics struct{}

func (nopMetrics) RecordChart(string, string)    {}
func (nopMetrics) RecordNote(string)             {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}
func (nopMetrics) RecordCache(string)            {}

func houseField(h *models.HouseData, name bool) string {
	if h == nil {
		return ""
	}
	if name {
		return h.SystemName
	}
	return h.System
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
