package natal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Natalis/internal/domain/models"
)

func TestFixedStarHit(t *testing.T) {
	m := NewFixedStarMatcher(nil, 0)
	hits := m.Match([]models.Body{body(Venus, 150.33)})
	require.Len(t, hits, 1)

	h := hits[0]
	assert.Equal(t, Venus, h.Body)
	assert.Equal(t, "Regulus", h.Star)
	assert.InDelta(t, 0.5, h.Orb, 1e-9)
	assert.NotEmpty(t, h.Nature)
	assert.NotEmpty(t, h.Meaning)
}

func TestFixedStarOrbBoundary(t *testing.T) {
	catalog := []FixedStar{{Name: "Test", Longitude: 100}}
	m := NewFixedStarMatcher(catalog, 1)

	assert.Len(t, m.Match([]models.Body{body(Mars, 101)}), 1, "orb equal to the limit hits")
	assert.Empty(t, m.Match([]models.Body{body(Mars, 101.01)}))
}

func TestFixedStarWrapsAries(t *testing.T) {
	m := NewFixedStarMatcher([]FixedStar{{Name: "Scheat", Longitude: 359.37}}, 1.5)
	hits := m.Match([]models.Body{body(Moon, 0.5)})
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.13, hits[0].Orb, 1e-9)
}

func TestFixedStarSkipsDerivedPoints(t *testing.T) {
	m := NewFixedStarMatcher(nil, 0)
	assert.Empty(t, m.Match([]models.Body{body(PartOfFortune, 149.83), body(SouthNode, 149.83)}))
}

func TestFixedStarHitsSortedByOrb(t *testing.T) {
	m := NewFixedStarMatcher(nil, 2)
	hits := m.Match([]models.Body{body(Sun, 204.0), body(Moon, 69.9)})
	require.NotEmpty(t, hits)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Orb, hits[i].Orb)
	}
}

func TestDefaultFixedStarsIsCopy(t *testing.T) {
	stars := DefaultFixedStars()
	stars[0].Name = "changed"
	assert.NotEqual(t, "changed", DefaultFixedStars()[0].Name)
	for _, s := range DefaultFixedStars() {
		assert.GreaterOrEqual(t, s.Longitude, 0.0)
		assert.Less(t, s.Longitude, 360.0)
	}
}
