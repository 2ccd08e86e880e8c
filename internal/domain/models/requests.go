package models

import "time"

// ChartOptions are the per-request stage toggles. Nil toggles default to
// true; a nil FixedStarOrb falls back to the configured orb.
type ChartOptions struct {
	IncludeAspects      *bool    `json:"include_aspects,omitempty" default:"true"`
	IncludePatterns     *bool    `json:"include_patterns,omitempty" default:"true"`
	IncludeAngleAspects *bool    `json:"include_angle_aspects,omitempty" default:"true"`
	IncludeFixedStars   *bool    `json:"include_fixed_stars,omitempty" default:"true"`
	IncludeDignities    *bool    `json:"include_dignities,omitempty" default:"true"`
	IncludeAnalysis     *bool    `json:"include_analysis,omitempty" default:"true"`
	FixedStarOrb        *float64 `json:"fixed_star_orb,omitempty" validate:"omitempty,gt=0,lte=5"`
}

// ChartRequest asks for a chart from birth data. JSON names are the public
// camelCase API; the response keeps snake_case.
type ChartRequest struct {
	BirthDate   string   `json:"birthDate" validate:"required,birthdate"`
	Time        string   `json:"time" validate:"required,clocktime"`
	Latitude    *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	HouseSystem string   `json:"houseSystem" default:"P" validate:"max=2"`
	ChartOptions
}

// AnalyzeRequest runs the engine on caller-supplied positions.
type AnalyzeRequest struct {
	Bodies []RawBody  `json:"bodies" validate:"required,min=1,dive"`
	Houses *HouseData `json:"houses" validate:"required"`
	ChartOptions
}

// InputFingerprint echoes the inputs a chart was computed from.
type InputFingerprint struct {
	BirthDate   string  `json:"birthDate"`
	BirthTime   string  `json:"birthTime"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	HouseSystem string  `json:"house_system"`
}

// ChartResponse is the report plus the house-system echo and fingerprint.
type ChartResponse struct {
	*Report
	HouseSystem      string            `json:"house_system"`
	HouseSystemName  string            `json:"house_system_name"`
	InputFingerprint *InputFingerprint `json:"input_fingerprint,omitempty"`
}

// Chart event sources.
const (
	SourceHTTP      = "http"
	SourceKafka     = "kafka"
	SourceWebSocket = "websocket"
	SourceCLI       = "cli"
)

// Chart event statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// ChartEvent is published to the reports topic for every computed chart and
// for every failed chart job.
type ChartEvent struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job_id,omitempty"`
	Source      string            `json:"source"`
	Status      string            `json:"status"`
	Error       string            `json:"error,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
	Fingerprint *InputFingerprint `json:"fingerprint,omitempty"`
	Chart       *ChartResponse    `json:"chart,omitempty"`
}

// ChartJob is a request consumed from the requests topic.
type ChartJob struct {
	JobID   string       `json:"job_id"`
	Request ChartRequest `json:"request"`
}
