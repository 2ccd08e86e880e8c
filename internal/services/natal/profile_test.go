package natal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Natalis/internal/domain/models"
)

func primariesAt(lons ...float64) []models.Body {
	out := make([]models.Body, 0, len(lons))
	for i, lon := range lons {
		out = append(out, body(PrimaryBodies[i], lon))
	}
	return out
}

func spread(start, step float64) []models.Body {
	lons := make([]float64, len(PrimaryBodies))
	for i := range lons {
		lons[i] = Normalize(start + float64(i)*step)
	}
	return primariesAt(lons...)
}

func TestChartShape(t *testing.T) {
	th := DefaultProfileThresholds()
	tests := []struct {
		name   string
		bodies []models.Body
		want   models.ChartShape
	}{
		{"bundle", spread(0, 10), models.ShapeBundle},
		{"bowl", spread(0, 170.0/9), models.ShapeBowl},
		{"locomotive", primariesAt(0, 25, 50, 75, 100, 125, 150, 175, 200, 230), models.ShapeLocomotive},
		{"splash", spread(0, 36), models.ShapeSplash},
		{"splay", primariesAt(0, 5, 10, 15, 20, 100, 200, 210, 250, 300), models.ShapeSplay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProfileChart(tt.bodies, AnglesFrom(0, 270, 0), th)
			assert.Equal(t, tt.want, p.Shape.Shape)
			assert.InDelta(t, 360, p.Shape.Spread+p.Shape.LargestGap, 1e-9)
		})
	}
}

func TestChartShapeQuadrants(t *testing.T) {
	p := ProfileChart(spread(0, 36), AnglesFrom(0, 270, 0), DefaultProfileThresholds())
	assert.Equal(t, [4]int{3, 2, 3, 2}, p.Shape.Quadrants)
}

func TestChartShapeThresholdsConfigurable(t *testing.T) {
	th := DefaultProfileThresholds()
	th.BundleSpread = 60
	p := ProfileChart(spread(0, 10), AnglesFrom(0, 270, 0), th)
	assert.Equal(t, models.ShapeBowl, p.Shape.Shape)
}

func TestElementBalance(t *testing.T) {
	bodies := []models.Body{body(Sun, 10), body(Moon, 100)}
	p := ProfileChart(bodies, AnglesFrom(40, 280, 0), DefaultProfileThresholds())

	want := models.Distribution{
		Weights:     map[string]float64{"fire": 2, "earth": 4, "air": 0, "water": 2},
		Percentages: map[string]float64{"fire": 25, "earth": 50, "air": 0, "water": 25},
		Dominant:    "earth",
		Missing:     []string{"air"},
	}
	assert.Empty(t, cmp.Diff(want, p.Elements))

	assert.Equal(t, "cardinal", p.Modalities.Dominant)
	assert.Equal(t, 6.0, p.Modalities.Weights["cardinal"])
	assert.Empty(t, p.Modalities.Missing, "only elements report missing categories")

	assert.Equal(t, "negative", p.Polarities.Dominant)
	assert.Equal(t, 75.0, p.Polarities.Percentages["negative"])
}

func TestHemisphereEmphasis(t *testing.T) {
	p := ProfileChart(spread(10, 5), AnglesFrom(0, 270, 0), DefaultProfileThresholds())
	h := p.Hemispheres
	assert.Equal(t, 10, h.North)
	assert.Equal(t, 10, h.East)
	require.Len(t, h.Notes, 2)
	assert.Contains(t, h.Notes[0], "Eastern")
	assert.Contains(t, h.Notes[1], "Northern")
}

func TestHemisphereBalancedHasNoNotes(t *testing.T) {
	// Five bodies below the horizon, five above; five east, five west.
	bodies := primariesAt(10, 20, 30, 100, 110, 190, 200, 210, 280, 290)
	p := ProfileChart(bodies, AnglesFrom(0, 270, 0), DefaultProfileThresholds())
	h := p.Hemispheres
	assert.Equal(t, 10, h.North+h.South)
	assert.Equal(t, 10, h.East+h.West)
	assert.Empty(t, h.Notes)
}
