package natal

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Natalis/internal/domain/models"
)

func detect(bodies ...models.Body) []models.Pattern {
	as := NewAspectEngine().Longitude(bodies, nil)
	return DetectPatterns(as, bodies, DefaultPatternOptions())
}

func TestGrandTrine(t *testing.T) {
	ps := detect(body(Mars, 0), body(Jupiter, 120), body(Saturn, 240))

	gt := patternsOf(ps, models.GrandTrine)
	require.Len(t, gt, 1, "one grand trine regardless of seed order")
	assert.ElementsMatch(t, []string{Mars, Jupiter, Saturn}, gt[0].Members)
	assert.Empty(t, gt[0].Apex)
	assert.InDelta(t, 0.0, gt[0].MaxOrb, 1e-9)
	assert.Contains(t, gt[0].Narrative, "fire")
}

func TestTSquare(t *testing.T) {
	ps := detect(body(Mars, 0), body(Saturn, 181), body(Jupiter, 92))

	ts := patternsOf(ps, models.TSquare)
	require.Len(t, ts, 1)
	assert.Equal(t, Jupiter, ts[0].Apex)
	assert.InDelta(t, 2.0, ts[0].MaxOrb, 1e-9)
}

func TestGrandCrossAlsoYieldsTSquares(t *testing.T) {
	ps := detect(body(Mars, 0), body(Jupiter, 90), body(Saturn, 180), body(Venus, 270))

	gc := patternsOf(ps, models.GrandCross)
	require.Len(t, gc, 1)
	assert.ElementsMatch(t, []string{Mars, Jupiter, Saturn, Venus}, gc[0].Members)

	ts := patternsOf(ps, models.TSquare)
	apexes := make([]string, 0, len(ts))
	for _, p := range ts {
		apexes = append(apexes, p.Apex)
	}
	assert.ElementsMatch(t, []string{Mars, Jupiter, Saturn, Venus}, apexes)
}

func TestYodAndBoomerang(t *testing.T) {
	ps := detect(body(Mars, 0), body(Jupiter, 60), body(Saturn, 210), body(Venus, 30))

	yods := patternsOf(ps, models.Yod)
	require.Len(t, yods, 1)
	assert.Equal(t, Saturn, yods[0].Apex)

	boom := patternsOf(ps, models.Boomerang)
	require.Len(t, boom, 1)
	assert.Equal(t, Saturn, boom[0].Apex)
	assert.ElementsMatch(t, []string{Mars, Jupiter, Saturn, Venus}, boom[0].Members)
}

func TestKite(t *testing.T) {
	ps := detect(body(Mars, 0), body(Jupiter, 120), body(Saturn, 240), body(Venus, 180))

	kites := patternsOf(ps, models.Kite)
	require.Len(t, kites, 1)
	assert.Equal(t, Venus, kites[0].Apex)
	require.Len(t, patternsOf(ps, models.GrandTrine), 1)
}

func TestMysticRectangle(t *testing.T) {
	ps := detect(body(Mars, 0), body(Jupiter, 60), body(Saturn, 180), body(Venus, 240))

	mr := patternsOf(ps, models.MysticRectangle)
	require.Len(t, mr, 1)
	assert.ElementsMatch(t, []string{Mars, Jupiter, Saturn, Venus}, mr[0].Members)
}

func TestCradle(t *testing.T) {
	ps := detect(body(Mars, 0), body(Jupiter, 60), body(Venus, 120), body(Saturn, 180))

	cr := patternsOf(ps, models.Cradle)
	require.Len(t, cr, 1)
	assert.ElementsMatch(t, []string{Mars, Jupiter, Venus, Saturn}, cr[0].Members)
}

func TestThorsHammer(t *testing.T) {
	ps := detect(body(Mars, 0), body(Jupiter, 90), body(Saturn, 225))

	th := patternsOf(ps, models.ThorsHammer)
	require.Len(t, th, 1)
	assert.Equal(t, Saturn, th[0].Apex)
}

func TestStellium(t *testing.T) {
	ps := detect(body(Mercury, 10), body(Venus, 12), body(Mars, 15), body(Jupiter, 200))

	st := patternsOf(ps, models.Stellium)
	require.Len(t, st, 1)
	assert.Equal(t, []string{Mercury, Venus, Mars}, st[0].Members)
	assert.InDelta(t, 5.0, st[0].MaxOrb, 1e-9)
}

func TestStelliumAcrossAries(t *testing.T) {
	ps := detect(body(Sun, 356), body(Moon, 359), body(Mercury, 2))

	st := patternsOf(ps, models.Stellium)
	require.Len(t, st, 1)
	assert.ElementsMatch(t, []string{Sun, Moon, Mercury}, st[0].Members)
}

func TestStelliumKeepsMaximalWindowsOnly(t *testing.T) {
	ps := detect(body(Sun, 0), body(Moon, 2), body(Mercury, 4), body(Venus, 6))

	st := patternsOf(ps, models.Stellium)
	require.Len(t, st, 1)
	assert.Len(t, st[0].Members, 4)
}

func TestAnglesExcludedFromPatterns(t *testing.T) {
	bodies := []models.Body{body(Mars, 0), body(Jupiter, 120)}
	angles := AnglesFrom(240, 150, 0)
	as := NewAspectEngine().Longitude(bodies, &angles)
	_, ok := findAspect(as, Mars, Ascendant)
	require.True(t, ok)

	ps := DetectPatterns(as, bodies, DefaultPatternOptions())
	assert.Empty(t, patternsOf(ps, models.GrandTrine))
}

func TestNoDuplicatePatterns(t *testing.T) {
	charts := [][]models.Body{
		{body(Mars, 0), body(Jupiter, 90), body(Saturn, 180), body(Venus, 270)},
		{body(Mars, 0), body(Jupiter, 120), body(Saturn, 240), body(Venus, 180), body(Sun, 60), body(Moon, 300)},
		{body(Sun, 1), body(Moon, 3), body(Mercury, 5), body(Venus, 7), body(Mars, 121), body(Jupiter, 241)},
	}
	for _, bodies := range charts {
		seen := make(map[string]bool)
		for _, p := range detect(bodies...) {
			members := append([]string(nil), p.Members...)
			sort.Strings(members)
			key := string(p.Kind) + "|" + strings.Join(members, ",") + "|" + p.Apex
			assert.False(t, seen[key], "duplicate %s", key)
			seen[key] = true
		}
	}
}
