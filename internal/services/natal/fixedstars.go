package natal

import (
	"sort"

	"Natalis/internal/domain/models"
)

// DefaultFixedStarOrb is the conjunction orb used when none is configured.
const DefaultFixedStarOrb = 1.5

// FixedStar is a catalog entry. Longitude is tropical for epoch J2000 and is
// not precessed to the chart date.
type FixedStar struct {
	Name      string
	Longitude float64
	Nature    string
	Meaning   string
}

var defaultFixedStars = []FixedStar{
	{"Alpheratz", 14.30, "Jupiter/Venus", "independence, freedom of movement, popularity"},
	{"Algenib", 9.15, "Mars/Mercury", "notoriety, forceful speech"},
	{"Mirach", 30.40, "Venus", "beauty, devotion, artistic gifts"},
	{"Hamal", 37.67, "Mars/Saturn", "headstrong drive, rough ambition"},
	{"Menkar", 44.32, "Saturn", "collective burdens, illness, disgrace"},
	{"Algol", 56.17, "Saturn/Jupiter", "intense passion, loss of head, violence"},
	{"Alcyone", 60.00, "Moon/Mars", "vision, sorrow, something to weep about"},
	{"Aldebaran", 69.78, "Mars", "integrity, honour, success through courage"},
	{"Rigel", 76.83, "Jupiter/Saturn", "teaching, invention, lasting fame"},
	{"Bellatrix", 80.95, "Mars/Mercury", "quick decisions, military honour"},
	{"Capella", 81.85, "Mars/Mercury", "curiosity, civic honour, love of learning"},
	{"Betelgeuse", 88.75, "Mars/Mercury", "martial honour, great fortune"},
	{"Sirius", 104.08, "Jupiter/Mars", "fame, ambition, guardianship"},
	{"Castor", 110.23, "Mercury", "intellect, sudden loss, writing"},
	{"Pollux", 113.22, "Mars", "boldness, cruelty, athletic courage"},
	{"Procyon", 115.78, "Mercury/Mars", "sudden rise and fall, violence"},
	{"Praesepe", 127.33, "Mars/Moon", "blindness, wanton ambition"},
	{"Alphard", 147.28, "Saturn/Venus", "wisdom tested by passion, poisoning"},
	{"Regulus", 149.83, "Mars/Jupiter", "royalty, success if revenge is avoided"},
	{"Zosma", 161.32, "Saturn/Venus", "victimhood, egotism, benefit through disgrace"},
	{"Denebola", 171.62, "Saturn/Venus", "going against society, misfortune from nature"},
	{"Vindemiatrix", 189.93, "Saturn/Mercury", "widowhood, falsity, disgrace"},
	{"Algorab", 193.45, "Mars/Saturn", "destructiveness, scavenging"},
	{"Spica", 203.83, "Venus/Mars", "brilliance, gifts, protection"},
	{"Arcturus", 204.23, "Mars/Jupiter", "prosperity through pathfinding"},
	{"Zuben Elgenubi", 225.08, "Jupiter/Mars", "social reform, unforgiveness"},
	{"Zuben Eschamali", 229.37, "Jupiter/Mercury", "good fortune, honour, high ambition"},
	{"Unukalhai", 232.05, "Saturn/Mars", "immorality, danger from poisons"},
	{"Antares", 249.77, "Mars/Jupiter", "obsession, intensity, success through struggle"},
	{"Ras Alhague", 262.45, "Saturn/Venus", "healing, misfortune through women"},
	{"Vega", 285.32, "Venus/Mercury", "charisma, artistic magic, fleeting fame"},
	{"Altair", 301.78, "Mars/Jupiter", "boldness, sudden but fleeting wealth"},
	{"Deneb Algedi", 323.55, "Saturn/Jupiter", "law, justice, sorrow and joy"},
	{"Fomalhaut", 333.87, "Venus/Mercury", "idealism, magic, a dream that must stay pure"},
	{"Deneb Adige", 335.33, "Venus/Mercury", "intelligence, art, learning"},
	{"Achernar", 345.32, "Jupiter", "success in public office, religion"},
	{"Markab", 353.48, "Mars/Mercury", "danger from cuts, fire and fevers"},
	{"Scheat", 359.37, "Mars/Mercury", "misfortune, drowning, independent thought"},
}

// DefaultFixedStars returns a copy of the built-in catalog.
func DefaultFixedStars() []FixedStar {
	out := make([]FixedStar, len(defaultFixedStars))
	copy(out, defaultFixedStars)
	return out
}

// FixedStarMatcher flags aspect-eligible bodies conjunct a catalog star.
type FixedStarMatcher struct {
	catalog []FixedStar
	orb     float64
}

// NewFixedStarMatcher falls back to the built-in catalog and default orb when
// given nil or a non-positive orb.
func NewFixedStarMatcher(catalog []FixedStar, orb float64) *FixedStarMatcher {
	if catalog == nil {
		catalog = defaultFixedStars
	}
	if orb <= 0 {
		orb = DefaultFixedStarOrb
	}
	return &FixedStarMatcher{catalog: catalog, orb: orb}
}

// Match returns hits sorted by orb.
func (m *FixedStarMatcher) Match(bodies []models.Body) []models.FixedStarHit {
	var hits []models.FixedStarHit
	for _, b := range bodies {
		if !aspectEligibleSet[b.Name] {
			continue
		}
		for _, s := range m.catalog {
			orb := Separation(b.Longitude, s.Longitude)
			if orb > m.orb {
				continue
			}
			hits = append(hits, models.FixedStarHit{
				Body:    b.Name,
				Star:    s.Name,
				Orb:     orb,
				Nature:  s.Nature,
				Meaning: s.Meaning,
			})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Orb < hits[j].Orb })
	return hits
}
