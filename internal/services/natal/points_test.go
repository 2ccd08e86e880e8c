package natal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Natalis/internal/domain/models"
)

func TestSouthNodeComplementsTrueNode(t *testing.T) {
	for _, lon := range []float64{0, 12.5, 179.9, 180, 275.25, 359.99} {
		node := placeBody(TrueNode, lon, 0.7, 1, 0.05)
		out, _ := DerivePoints([]models.Body{node}, 0)

		sn, ok := findBody(out, SouthNode)
		require.True(t, ok)
		assert.InDelta(t, 180.0, Separation(node.Longitude, sn.Longitude), 1e-9)
		assert.InDelta(t, Normalize(lon+180), sn.Longitude, 1e-9)
		assert.InDelta(t, -0.7, sn.Latitude, 1e-9)
		assert.True(t, sn.Retrograde, "south node is always retrograde")
		assert.True(t, sn.Derived)
	}
}

func TestApogeeOpposites(t *testing.T) {
	in := []models.RawBody{
		raw(MeanApogee, 100),
		raw("Osculating Apogee", 110),
		raw("interpolated lilith", 105),
	}
	bodies, notes := ResolveBodies(in)
	require.Empty(t, notes)

	_, ok := findBody(bodies, MeanLilith)
	require.True(t, ok)
	_, ok = findBody(bodies, TrueLilith)
	require.True(t, ok)
	_, ok = findBody(bodies, InterpolatedLilith)
	require.True(t, ok)

	out, _ := DerivePoints(bodies, 0)
	for name, want := range map[string]float64{
		"Mean Priapus":         280,
		"True Priapus":         290,
		"Interpolated Priapus": 285,
	} {
		b, ok := findBody(out, name)
		require.True(t, ok, name)
		assert.InDelta(t, want, b.Longitude, 1e-9, name)
	}
}

func TestPartOfFortuneNightChart(t *testing.T) {
	// Sun at 100 is below the horizon for an ascendant at 0.
	bodies := []models.Body{body(Sun, 100), body(Moon, 200)}
	out, notes := DerivePoints(bodies, 0)
	require.Empty(t, notes)

	pof, ok := findBody(out, PartOfFortune)
	require.True(t, ok)
	assert.InDelta(t, 260.0, pof.Longitude, 1e-9)

	pos, ok := findBody(out, PartOfSpirit)
	require.True(t, ok)
	assert.InDelta(t, 100.0, pos.Longitude, 1e-9)
}

func TestPartOfFortuneDayChart(t *testing.T) {
	assert.True(t, IsDayChart(0, 200))
	fortune, spirit := Lots(0, 200, 50)
	assert.InDelta(t, 210.0, fortune, 1e-9)
	assert.InDelta(t, 150.0, spirit, 1e-9)
}

func TestLotsMissingMoon(t *testing.T) {
	out, notes := DerivePoints([]models.Body{body(Sun, 100)}, 0)
	require.Len(t, notes, 1)
	assert.Equal(t, NoteMissingInput, notes[0].Code)
	assert.Equal(t, Moon, notes[0].Subject)

	_, ok := findBody(out, PartOfFortune)
	assert.False(t, ok)
	_, ok = findBody(out, PartOfSpirit)
	assert.False(t, ok)
}

func TestResolveBodiesOmitsFailedRows(t *testing.T) {
	in := []models.RawBody{
		raw(Sun, 10),
		{Name: Chiron, Error: "ephemeris file missing"},
		{Name: Pluto, Longitude: math.NaN()},
		raw(Sun, 20),
		{Name: "  "},
	}
	bodies, notes := ResolveBodies(in)
	require.Len(t, bodies, 1)
	assert.InDelta(t, 10.0, bodies[0].Longitude, 1e-9)

	require.Len(t, notes, 2)
	assert.Equal(t, NoteUpstreamComputation, notes[0].Code)
	assert.Equal(t, Chiron, notes[0].Subject)
	assert.Contains(t, notes[0].Message, "ephemeris file missing")
	assert.Equal(t, Pluto, notes[1].Subject)
}

func TestMissingBodiesSkipsPresentAndNoted(t *testing.T) {
	bodies := []models.Body{body(Sun, 10), body(Moon, 20), body(TrueLilith, 30)}
	noted := []models.Note{{Code: NoteUpstreamComputation, Subject: Chiron}}

	notes := MissingBodies(bodies, noted)
	require.Len(t, notes, len(RequiredBodies)-4)

	seen := map[string]bool{}
	for _, n := range notes {
		assert.Equal(t, NoteMissingInput, n.Code)
		assert.False(t, seen[n.Subject], "one note per body")
		seen[n.Subject] = true
	}
	for _, name := range []string{Sun, Moon, TrueLilith, Chiron} {
		assert.False(t, seen[name], name)
	}
	assert.True(t, seen[InterpolatedLilith])
}

func TestMissingBodiesCompleteInput(t *testing.T) {
	var bodies []models.Body
	for _, name := range RequiredBodies {
		bodies = append(bodies, body(CanonicalName(name), 0))
	}
	assert.Empty(t, MissingBodies(bodies, nil))
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, TrueNode, CanonicalName("North Node"))
	assert.Equal(t, MeanLilith, CanonicalName("mean apogee"))
	assert.Equal(t, Sun, CanonicalName(" sun "))
	assert.Equal(t, "Eris", CanonicalName("Eris"))
}
