package natal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Natalis/internal/domain/models"
	"Natalis/pkg/errors"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "report-1" }),
	)
}

func sampleInput() models.ChartInput {
	return models.ChartInput{
		Bodies: []models.RawBody{
			raw(Sun, 10),
			raw(Moon, 190),
			raw(Mercury, 25),
			raw(Venus, 340),
			raw(Mars, 130),
			raw(Jupiter, 250),
			raw(Saturn, 300),
			raw(Uranus, 45),
			raw(Neptune, 355),
			raw(Pluto, 298),
			raw(TrueNode, 12.5),
			raw(Chiron, 17),
			raw(MeanApogee, 149.83),
			{Name: Juno, Error: "asteroid file missing"},
		},
		Houses: houseData("P", 0, 270),
	}
}

func TestComputeFullReport(t *testing.T) {
	report, err := newTestEngine().Compute(context.Background(), sampleInput(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "report-1", report.ID)
	assert.Equal(t, fixedNow, report.ComputedAt)
	assert.Equal(t, "P", report.Houses.System)
	assert.Equal(t, "Placidus", report.Houses.SystemName)

	for _, name := range []string{SouthNode, PartOfFortune, PartOfSpirit, "Mean Priapus"} {
		b, ok := findBody(report.Bodies, name)
		require.True(t, ok, name)
		assert.True(t, b.Derived, name)
		assert.NotZero(t, b.House, name)
	}
	for _, b := range report.Bodies {
		assert.GreaterOrEqual(t, b.Longitude, 0.0)
		assert.Less(t, b.Longitude, 360.0)
		assert.GreaterOrEqual(t, b.House, 1)
		assert.LessOrEqual(t, b.House, 12)
	}

	opp, ok := findAspect(report.Aspects, Sun, Moon)
	require.True(t, ok)
	assert.Equal(t, models.Opposition, opp.Kind)
	assert.True(t, opp.Exact)

	// Mars and Jupiter trine the Sun.
	require.NotEmpty(t, patternsOf(report.Patterns, models.GrandTrine))

	require.NotNil(t, report.Profile)
	assert.NotEmpty(t, report.Dignities)
	assert.NotEmpty(t, report.FixedStars)

	require.NotEmpty(t, report.Notes)
	assert.Equal(t, NoteUpstreamComputation, report.Notes[0].Code)
	assert.Equal(t, Juno, report.Notes[0].Subject)

	var missing []string
	for _, n := range report.Notes[1:] {
		assert.Equal(t, NoteMissingInput, n.Code)
		missing = append(missing, n.Subject)
	}
	assert.Equal(t, []string{Ceres, Pallas, Vesta, TrueLilith, InterpolatedLilith}, missing)
}

func TestComputeReportsMissingRequiredBodies(t *testing.T) {
	in := models.ChartInput{
		Bodies: []models.RawBody{raw(Sun, 10), raw(Moon, 190)},
		Houses: houseData("P", 0, 270),
	}
	report, err := newTestEngine().Compute(context.Background(), in, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, report.Notes, len(RequiredBodies)-2)
	subjects := make(map[string]string, len(report.Notes))
	for _, n := range report.Notes {
		assert.Equal(t, NoteMissingInput, n.Code)
		subjects[n.Subject] = n.Message
	}
	assert.Contains(t, subjects, Mercury)
	assert.Contains(t, subjects[TrueNode], SouthNode)
	assert.Contains(t, subjects[MeanLilith], "Mean Priapus")
	assert.NotContains(t, subjects, Sun)
	assert.NotContains(t, subjects, MeanApogee, "apogees are reported under their Lilith names")

	_, ok := findBody(report.Bodies, SouthNode)
	assert.False(t, ok)
	_, ok = findBody(report.Bodies, PartOfFortune)
	assert.True(t, ok)
}

func TestComputeMissingHousesIsFatal(t *testing.T) {
	in := sampleInput()
	in.Houses = nil

	report, err := newTestEngine().Compute(context.Background(), in, DefaultOptions())
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, errors.ErrFatalPipeline))
}

func TestComputeUnknownHouseSystem(t *testing.T) {
	in := sampleInput()
	in.Houses.System = "Q"

	report, err := newTestEngine().Compute(context.Background(), in, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "P", report.Houses.System)

	var codes []string
	for _, n := range report.Notes {
		codes = append(codes, n.Code)
	}
	assert.Contains(t, codes, NoteUnknownHouseSystem)
}

func TestComputeInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.FixedStarOrb = 6

	_, err := newTestEngine().Compute(context.Background(), sampleInput(), opts)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestComputePatternsWithoutEmittingAspects(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeAspects = false

	report, err := newTestEngine().Compute(context.Background(), sampleInput(), opts)
	require.NoError(t, err)
	assert.Empty(t, report.Aspects)
	assert.Empty(t, report.DeclinationAspects)
	assert.NotEmpty(t, report.Patterns)
}

func TestComputeTogglesOff(t *testing.T) {
	opts := Options{FixedStarOrb: DefaultFixedStarOrb}

	report, err := newTestEngine().Compute(context.Background(), sampleInput(), opts)
	require.NoError(t, err)
	assert.NotEmpty(t, report.Bodies)
	assert.Len(t, report.Houses.Cusps, 12)
	assert.Empty(t, report.Aspects)
	assert.Empty(t, report.Patterns)
	assert.Empty(t, report.Dignities)
	assert.Empty(t, report.FixedStars)
	assert.Nil(t, report.Profile)
}

func TestComputeAngleAspectsToggle(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeAngleAspects = false

	report, err := newTestEngine().Compute(context.Background(), sampleInput(), opts)
	require.NoError(t, err)
	for _, a := range report.Aspects {
		assert.NotEqual(t, Ascendant, a.BodyB)
		assert.NotEqual(t, Midheaven, a.BodyB)
	}

	report, err = newTestEngine().Compute(context.Background(), sampleInput(), DefaultOptions())
	require.NoError(t, err)
	_, ok := findAspect(report.Aspects, Sun, Ascendant)
	assert.True(t, ok)
}

func TestComputeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine().Compute(ctx, sampleInput(), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeConcurrentCallsShareEngine(t *testing.T) {
	e := newTestEngine()
	want, err := e.Compute(context.Background(), sampleInput(), DefaultOptions())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.Compute(context.Background(), sampleInput(), DefaultOptions())
			if assert.NoError(t, err) {
				assert.Equal(t, want, got)
			}
		}()
	}
	wg.Wait()
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	for _, orb := range []float64{0, -1, 5.01} {
		o := DefaultOptions()
		o.FixedStarOrb = orb
		assert.Error(t, o.Validate(), "orb %.2f", orb)
	}
	o := DefaultOptions()
	o.FixedStarOrb = 5
	assert.NoError(t, o.Validate())

	off := Options{IncludeAspects: true}
	assert.NoError(t, off.Validate(), "orb is unused without fixed stars")
	off.IncludeFixedStars = true
	assert.Error(t, off.Validate())
}
