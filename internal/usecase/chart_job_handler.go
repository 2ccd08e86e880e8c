package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"Natalis/internal/domain/models"
	domrepo "Natalis/internal/domain/repository"
	"Natalis/pkg/errors"
	xhttp "Natalis/pkg/http"
	pkgkafka "Natalis/pkg/kafka"
	applogger "Natalis/pkg/logger"
)

// ChartJobHandler consumes chart jobs from the requests topic. Bad jobs are
// answered with a failed event and acknowledged; upstream and cancellation
// failures are returned so the consumer retries them.
type ChartJobHandler struct {
	topic   string
	charts  *ChartService
	metrics domrepo.Metrics
	log     *applogger.Logger
}

func NewChartJobHandler(topic string, charts *ChartService, metrics domrepo.Metrics, log *applogger.Logger) *ChartJobHandler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = applogger.Nop()
	}
	return &ChartJobHandler{topic: topic, charts: charts, metrics: metrics, log: log}
}

func (h *ChartJobHandler) Topic() string { return h.topic }

// incoming message schema: {job_id, request: ChartRequest}
func (h *ChartJobHandler) Handle(ctx context.Context, b []byte) error {
	var job models.ChartJob
	if err := json.Unmarshal(b, &job); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		h.log.Warn("chart job: undecodable message",
			applogger.String("trace_id", pkgkafka.TraceIDFrom(ctx)),
			applogger.Error(err),
		)
		h.charts.ReportFailure(WithCall(ctx, Call{Source: models.SourceKafka, JobID: pkgkafka.TraceIDFrom(ctx)}), nil,
			errors.Wrap(errors.ErrInvalidInput, "undecodable chart job"))
		return nil
	}
	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	ctx = WithCall(ctx, Call{Source: models.SourceKafka, JobID: job.JobID})

	if err := xhttp.ValidateStruct(ctx, &job.Request); err != nil {
		h.charts.recordFailure(CallFrom(ctx), errors.Mark(err, errors.ErrInvalidInput))
		h.charts.ReportFailure(ctx, fingerprint(job.Request), err)
		return nil
	}

	_, err := h.charts.Build(ctx, job.Request)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errors.ErrUpstreamComputation), ctx.Err() != nil:
		return err
	default:
		h.charts.ReportFailure(ctx, fingerprint(job.Request), err)
		return nil
	}
}

func fingerprint(req models.ChartRequest) *models.InputFingerprint {
	fp := &models.InputFingerprint{BirthDate: req.BirthDate, BirthTime: req.Time, HouseSystem: req.HouseSystem}
	if req.Latitude != nil {
		fp.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		fp.Longitude = *req.Longitude
	}
	return fp
}

var _ pkgkafka.MessageHandler = (*ChartJobHandler)(nil)
