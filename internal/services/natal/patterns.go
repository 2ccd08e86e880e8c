package natal

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"Natalis/internal/domain/models"
)

// PatternOptions tunes the proximity rule; aspect-based rules use the aspect
// table's orbs.
type PatternOptions struct {
	StelliumOrb     float64
	StelliumMinSize int
}

// DefaultPatternOptions: three or more bodies inside 8° of longitude.
func DefaultPatternOptions() PatternOptions {
	return PatternOptions{StelliumOrb: 8, StelliumMinSize: 3}
}

// patternKinds are the aspect kinds that feed the adjacency sets.
var patternKinds = map[models.AspectKind]bool{
	models.Trine:          true,
	models.Square:         true,
	models.Opposition:     true,
	models.Sextile:        true,
	models.Quincunx:       true,
	models.Sesquiquadrate: true,
}

// aspectGraph is one adjacency set per aspect kind over body names.
type aspectGraph struct {
	edges map[models.AspectKind]map[string]models.Aspect
	seeds map[models.AspectKind][]models.Aspect
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

func newAspectGraph(aspects []models.Aspect) *aspectGraph {
	g := &aspectGraph{
		edges: make(map[models.AspectKind]map[string]models.Aspect),
		seeds: make(map[models.AspectKind][]models.Aspect),
	}
	for _, a := range aspects {
		if !patternKinds[a.Kind] || isAngleName(a.BodyA) || isAngleName(a.BodyB) {
			continue
		}
		if g.edges[a.Kind] == nil {
			g.edges[a.Kind] = make(map[string]models.Aspect)
		}
		g.edges[a.Kind][pairKey(a.BodyA, a.BodyB)] = a
		// aspects arrive sorted by orb, so seeds keep that order
		g.seeds[a.Kind] = append(g.seeds[a.Kind], a)
	}
	return g
}

func (g *aspectGraph) has(kind models.AspectKind, a, b string) bool {
	_, ok := g.edges[kind][pairKey(a, b)]
	return ok
}

func (g *aspectGraph) orb(kind models.AspectKind, a, b string) float64 {
	return g.edges[kind][pairKey(a, b)].Orb
}

func isAngleName(n string) bool { return n == Ascendant || n == Midheaven }

// patternSet accumulates patterns and rejects repeats of the same kind,
// member set and apex.
type patternSet struct {
	order map[string]int
	lon   map[string]float64
	seen  map[string]bool
	out   []models.Pattern
}

func (s *patternSet) add(kind models.PatternKind, members []string, apex string, maxOrb float64, narrative string) bool {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	key := string(kind) + "|" + strings.Join(sorted, ",") + "|" + apex
	if s.seen[key] {
		return false
	}
	s.seen[key] = true

	ordered := append([]string(nil), members...)
	sort.SliceStable(ordered, func(i, j int) bool { return s.rank(ordered[i]) < s.rank(ordered[j]) })
	s.out = append(s.out, models.Pattern{
		Kind:      kind,
		Members:   ordered,
		Apex:      apex,
		MaxOrb:    maxOrb,
		Narrative: narrative,
	})
	return true
}

func (s *patternSet) rank(name string) int {
	if r, ok := s.order[name]; ok {
		return r
	}
	return len(s.order)
}

// DetectPatterns finds multi-body configurations. aspects must be sorted by
// orb: seeds are visited in that order, so tighter configurations are found
// first.
func DetectPatterns(aspects []models.Aspect, bodies []models.Body, opts PatternOptions) []models.Pattern {
	g := newAspectGraph(aspects)

	var names []string
	index := indexBodies(bodies)
	for _, n := range AspectEligible {
		if _, ok := index[n]; ok {
			names = append(names, n)
		}
	}
	s := &patternSet{order: make(map[string]int, len(bodies)), lon: make(map[string]float64, len(bodies)), seen: make(map[string]bool)}
	for i, b := range bodies {
		if _, ok := s.order[b.Name]; !ok {
			s.order[b.Name] = i
		}
		s.lon[b.Name] = b.Longitude
	}

	detectStelliums(s, bodies, opts)
	trines := detectGrandTrines(s, g, names)
	detectTSquares(s, g, names)
	detectGrandCrosses(s, g)
	yods := detectYods(s, g, names)
	detectKites(s, g, names, trines)
	detectMysticRectangles(s, g)
	detectCradles(s, g, names)
	detectThorsHammers(s, g, names)
	detectBoomerangs(s, g, names, yods)
	return s.out
}

// detectStelliums groups primary bodies whose longitudes all fall within the
// stellium orb, keeping only maximal groups.
func detectStelliums(s *patternSet, bodies []models.Body, opts PatternOptions) {
	index := indexBodies(bodies)
	var pts []models.Body
	for _, n := range PrimaryBodies {
		if b, ok := index[n]; ok {
			pts = append(pts, b)
		}
	}
	n := len(pts)
	if n < opts.StelliumMinSize {
		return
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Longitude < pts[j].Longitude })

	type window struct {
		start, size int
		span        float64
	}
	var windows []window
	for i := 0; i < n; i++ {
		size, span := 1, 0.0
		for k := 1; k < n; k++ {
			arc := Normalize(pts[(i+k)%n].Longitude - pts[i].Longitude)
			if arc > opts.StelliumOrb {
				break
			}
			size, span = k+1, arc
		}
		if size >= opts.StelliumMinSize {
			windows = append(windows, window{start: i, size: size, span: span})
		}
	}

	contains := func(outer, inner window) bool {
		if outer.size <= inner.size {
			return false
		}
		off := (inner.start - outer.start + n) % n
		return off+inner.size <= outer.size
	}
	for _, w := range windows {
		maximal := true
		for _, o := range windows {
			if contains(o, w) {
				maximal = false
				break
			}
		}
		if !maximal {
			continue
		}
		members := make([]string, 0, w.size)
		for k := 0; k < w.size; k++ {
			members = append(members, pts[(w.start+k)%n].Name)
		}
		s.add(models.Stellium, members, "", w.span, fmt.Sprintf(
			"Stellium of %d bodies within %.1f° around %s: %s concentrate their energy in one area of life.",
			w.size, w.span, SignOf(pts[w.start].Longitude), joinNames(members)))
	}
}

type triple struct{ a, b, c string }

func detectGrandTrines(s *patternSet, g *aspectGraph, names []string) []triple {
	var found []triple
	for _, seed := range g.seeds[models.Trine] {
		a, b := seed.BodyA, seed.BodyB
		for _, c := range names {
			if c == a || c == b || !g.has(models.Trine, a, c) || !g.has(models.Trine, b, c) {
				continue
			}
			orb := maxOf(seed.Orb, g.orb(models.Trine, a, c), g.orb(models.Trine, b, c))
			if s.add(models.GrandTrine, []string{a, b, c}, "", orb, fmt.Sprintf(
				"Grand Trine between %s in %s: a closed circuit of easy, self-sustaining talent.",
				joinNames([]string{a, b, c}), ElementOf(s.lon[a]))) {
				found = append(found, triple{a, b, c})
			}
		}
	}
	return found
}

func detectTSquares(s *patternSet, g *aspectGraph, names []string) {
	for _, seed := range g.seeds[models.Opposition] {
		a, b := seed.BodyA, seed.BodyB
		for _, c := range names {
			if c == a || c == b || !g.has(models.Square, a, c) || !g.has(models.Square, b, c) {
				continue
			}
			orb := maxOf(seed.Orb, g.orb(models.Square, a, c), g.orb(models.Square, b, c))
			s.add(models.TSquare, []string{a, b, c}, c, orb, fmt.Sprintf(
				"T-Square: the %s–%s opposition releases its tension through %s.", a, b, c))
		}
	}
}

func detectGrandCrosses(s *patternSet, g *aspectGraph) {
	opps := g.seeds[models.Opposition]
	for i := 0; i < len(opps); i++ {
		for j := i + 1; j < len(opps); j++ {
			a, b := opps[i].BodyA, opps[i].BodyB
			c, d := opps[j].BodyA, opps[j].BodyB
			if a == c || a == d || b == c || b == d {
				continue
			}
			if !g.has(models.Square, a, c) || !g.has(models.Square, a, d) ||
				!g.has(models.Square, b, c) || !g.has(models.Square, b, d) {
				continue
			}
			orb := maxOf(opps[i].Orb, opps[j].Orb,
				g.orb(models.Square, a, c), g.orb(models.Square, a, d),
				g.orb(models.Square, b, c), g.orb(models.Square, b, d))
			s.add(models.GrandCross, []string{a, b, c, d}, "", orb, fmt.Sprintf(
				"Grand Cross of %s: two oppositions locked by squares, demanding constant balancing.",
				joinNames([]string{a, b, c, d})))
		}
	}
}

func detectYods(s *patternSet, g *aspectGraph, names []string) []triple {
	var found []triple
	for _, seed := range g.seeds[models.Sextile] {
		a, b := seed.BodyA, seed.BodyB
		for _, c := range names {
			if c == a || c == b || !g.has(models.Quincunx, a, c) || !g.has(models.Quincunx, b, c) {
				continue
			}
			orb := maxOf(seed.Orb, g.orb(models.Quincunx, a, c), g.orb(models.Quincunx, b, c))
			if s.add(models.Yod, []string{a, b, c}, c, orb, fmt.Sprintf(
				"Yod pointing at %s: the %s–%s sextile calls for a continual adjustment there.", c, a, b)) {
				found = append(found, triple{a, b, c})
			}
		}
	}
	return found
}

func detectKites(s *patternSet, g *aspectGraph, names []string, trines []triple) {
	for _, t := range trines {
		members := [3]string{t.a, t.b, t.c}
		for i, m := range members {
			o1, o2 := members[(i+1)%3], members[(i+2)%3]
			for _, d := range names {
				if d == t.a || d == t.b || d == t.c {
					continue
				}
				if !g.has(models.Opposition, d, m) || !g.has(models.Sextile, d, o1) || !g.has(models.Sextile, d, o2) {
					continue
				}
				orb := maxOf(g.orb(models.Trine, t.a, t.b), g.orb(models.Trine, t.a, t.c), g.orb(models.Trine, t.b, t.c),
					g.orb(models.Opposition, d, m), g.orb(models.Sextile, d, o1), g.orb(models.Sextile, d, o2))
				s.add(models.Kite, []string{t.a, t.b, t.c, d}, d, orb, fmt.Sprintf(
					"Kite: %s opposes %s and gives the Grand Trine of %s a direction.",
					d, m, joinNames([]string{t.a, t.b, t.c})))
			}
		}
	}
}

func detectMysticRectangles(s *patternSet, g *aspectGraph) {
	opps := g.seeds[models.Opposition]
	for i := 0; i < len(opps); i++ {
		for j := i + 1; j < len(opps); j++ {
			a, b := opps[i].BodyA, opps[i].BodyB
			c, d := opps[j].BodyA, opps[j].BodyB
			if a == c || a == d || b == c || b == d {
				continue
			}
			// The quadrilateral closes either way round the second opposition.
			var orb float64
			switch {
			case g.has(models.Trine, a, c) && g.has(models.Sextile, a, d) && g.has(models.Trine, b, d) && g.has(models.Sextile, b, c):
				orb = maxOf(g.orb(models.Trine, a, c), g.orb(models.Sextile, a, d), g.orb(models.Trine, b, d), g.orb(models.Sextile, b, c))
			case g.has(models.Sextile, a, c) && g.has(models.Trine, a, d) && g.has(models.Sextile, b, d) && g.has(models.Trine, b, c):
				orb = maxOf(g.orb(models.Sextile, a, c), g.orb(models.Trine, a, d), g.orb(models.Sextile, b, d), g.orb(models.Trine, b, c))
			default:
				continue
			}
			orb = maxOf(orb, opps[i].Orb, opps[j].Orb)
			s.add(models.MysticRectangle, []string{a, b, c, d}, "", orb, fmt.Sprintf(
				"Mystic Rectangle of %s: oppositions held in check by trines and sextiles.",
				joinNames([]string{a, b, c, d})))
		}
	}
}

func detectCradles(s *patternSet, g *aspectGraph, names []string) {
	for _, seed := range g.seeds[models.Opposition] {
		a, b := seed.BodyA, seed.BodyB
		for _, c := range names {
			if c == a || c == b || !g.has(models.Sextile, a, c) {
				continue
			}
			for _, d := range names {
				if d == a || d == b || d == c || !g.has(models.Sextile, c, d) || !g.has(models.Sextile, d, b) {
					continue
				}
				orb := maxOf(seed.Orb, g.orb(models.Sextile, a, c), g.orb(models.Sextile, c, d), g.orb(models.Sextile, d, b))
				s.add(models.Cradle, []string{a, b, c, d}, "", orb, fmt.Sprintf(
					"Cradle: %s and %s bridge the %s–%s opposition with a chain of sextiles.", c, d, a, b))
			}
		}
	}
}

func detectThorsHammers(s *patternSet, g *aspectGraph, names []string) {
	for _, seed := range g.seeds[models.Square] {
		a, b := seed.BodyA, seed.BodyB
		for _, c := range names {
			if c == a || c == b || !g.has(models.Sesquiquadrate, a, c) || !g.has(models.Sesquiquadrate, b, c) {
				continue
			}
			orb := maxOf(seed.Orb, g.orb(models.Sesquiquadrate, a, c), g.orb(models.Sesquiquadrate, b, c))
			s.add(models.ThorsHammer, []string{a, b, c}, c, orb, fmt.Sprintf(
				"Thor's Hammer: the %s–%s square strikes through %s.", a, b, c))
		}
	}
}

func detectBoomerangs(s *patternSet, g *aspectGraph, names []string, yods []triple) {
	for _, y := range yods {
		for _, d := range names {
			if d == y.a || d == y.b || d == y.c || !g.has(models.Opposition, y.c, d) {
				continue
			}
			orb := maxOf(g.orb(models.Sextile, y.a, y.b), g.orb(models.Quincunx, y.a, y.c),
				g.orb(models.Quincunx, y.b, y.c), g.orb(models.Opposition, y.c, d))
			s.add(models.Boomerang, []string{y.a, y.b, y.c, d}, y.c, orb, fmt.Sprintf(
				"Boomerang: %s opposes the Yod apex %s and sends its pressure back.", d, y.c))
		}
	}
}

func maxOf(vs ...float64) float64 {
	m := math.Inf(-1)
	for _, v := range vs {
		m = math.Max(m, v)
	}
	return m
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
