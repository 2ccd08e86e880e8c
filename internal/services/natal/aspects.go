package natal

import (
	"fmt"
	"math"
	"sort"

	"Natalis/internal/domain/models"
)

// ExactThreshold is the orb below which an aspect is flagged exact.
const ExactThreshold = 0.5

// DeclinationOrb bounds parallels and contraparallels.
const DeclinationOrb = 1.0

// AspectDef is one row of the aspect table. SignCount is the sign distance an
// in-sign aspect spans, or -1 when the angle is not a multiple of 30°.
type AspectDef struct {
	Kind        models.AspectKind
	Angle       float64
	Orb         float64
	LuminaryOrb float64
	SignCount   int
	Major       bool
}

func (d AspectDef) allowedOrb(a, b string) float64 {
	if isLuminary(a) || isLuminary(b) {
		return d.LuminaryOrb
	}
	return d.Orb
}

func (d AspectDef) widest() float64 { return math.Max(d.Orb, d.LuminaryOrb) }

// aspectTable is ordered major before minor; match order is table order.
var aspectTable = []AspectDef{
	{Kind: models.Conjunction, Angle: 0, Orb: 8, LuminaryOrb: 10, SignCount: 0, Major: true},
	{Kind: models.Opposition, Angle: 180, Orb: 8, LuminaryOrb: 10, SignCount: 6, Major: true},
	{Kind: models.Trine, Angle: 120, Orb: 7, LuminaryOrb: 9, SignCount: 4, Major: true},
	{Kind: models.Square, Angle: 90, Orb: 7, LuminaryOrb: 9, SignCount: 3, Major: true},
	{Kind: models.Sextile, Angle: 60, Orb: 5, LuminaryOrb: 6, SignCount: 2, Major: true},
	{Kind: models.Quincunx, Angle: 150, Orb: 3, LuminaryOrb: 3.5, SignCount: 5},
	{Kind: models.Sesquiquadrate, Angle: 135, Orb: 2, LuminaryOrb: 2.5, SignCount: -1},
	{Kind: models.Semisquare, Angle: 45, Orb: 2, LuminaryOrb: 2.5, SignCount: -1},
	{Kind: models.Semisextile, Angle: 30, Orb: 2, LuminaryOrb: 2.5, SignCount: 1},
	{Kind: models.Quintile, Angle: 72, Orb: 1.5, LuminaryOrb: 2, SignCount: -1},
	{Kind: models.Biquintile, Angle: 144, Orb: 1.5, LuminaryOrb: 2, SignCount: -1},
}

func init() {
	if err := ValidateAspectTable(aspectTable); err != nil {
		panic(err)
	}
}

// AspectTable returns a copy of the aspect definitions in match order.
func AspectTable() []AspectDef {
	out := make([]AspectDef, len(aspectTable))
	copy(out, aspectTable)
	return out
}

// ValidateAspectTable checks that no two kinds can ever match the same
// separation, which makes the first-match scan order-independent.
func ValidateAspectTable(defs []AspectDef) error {
	type span struct {
		kind   models.AspectKind
		lo, hi float64
	}
	spans := make([]span, 0, len(defs))
	for _, d := range defs {
		if d.Angle < 0 || d.Angle > 180 {
			return fmt.Errorf("aspect %s: angle %.2f outside [0,180]", d.Kind, d.Angle)
		}
		if d.Orb <= 0 || d.LuminaryOrb <= 0 {
			return fmt.Errorf("aspect %s: orbs must be positive", d.Kind)
		}
		spans = append(spans, span{kind: d.Kind, lo: d.Angle - d.widest(), hi: d.Angle + d.widest()})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })
	for i := 1; i < len(spans); i++ {
		if spans[i].lo <= spans[i-1].hi {
			return fmt.Errorf("aspect orbs overlap: %s [%.2f,%.2f] and %s [%.2f,%.2f]",
				spans[i-1].kind, spans[i-1].lo, spans[i-1].hi, spans[i].kind, spans[i].lo, spans[i].hi)
		}
	}
	return nil
}

// AspectEligible lists the bodies that take part in aspect detection.
var AspectEligible = []string{
	Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto,
	TrueNode, Chiron, Ceres, Pallas, Juno, Vesta, MeanLilith,
}

var aspectEligibleSet = func() map[string]bool {
	m := make(map[string]bool, len(AspectEligible))
	for _, n := range AspectEligible {
		m[n] = true
	}
	return m
}()

// point is the minimal view of a chart point the aspect engine needs.
type point struct {
	name  string
	lon   float64
	lat   float64
	speed float64
	angle bool
}

// AspectEngine computes pairwise aspects over the eligible points.
type AspectEngine struct {
	defs []AspectDef
}

// NewAspectEngine uses the validated package table.
func NewAspectEngine() *AspectEngine { return &AspectEngine{defs: aspectTable} }

// eligiblePoints selects aspect-eligible bodies in AspectEligible order and,
// when requested, appends the ascendant and midheaven.
func eligiblePoints(bodies []models.Body, angles *models.Angles) []point {
	index := indexBodies(bodies)
	pts := make([]point, 0, len(AspectEligible)+2)
	for _, name := range AspectEligible {
		if b, ok := index[name]; ok {
			pts = append(pts, point{name: b.Name, lon: b.Longitude, lat: b.Latitude, speed: b.Speed})
		}
	}
	if angles != nil {
		pts = append(pts,
			point{name: Ascendant, lon: angles.Ascendant.Longitude, angle: true},
			point{name: Midheaven, lon: angles.Midheaven.Longitude, angle: true},
		)
	}
	return pts
}

// Longitude returns every aspect between eligible points sorted by orb. Pass
// angles to include the ascendant and midheaven; nil leaves them out.
func (e *AspectEngine) Longitude(bodies []models.Body, angles *models.Angles) []models.Aspect {
	pts := eligiblePoints(bodies, angles)
	var out []models.Aspect
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			if pts[i].angle && pts[j].angle {
				continue
			}
			if a, ok := e.match(pts[i], pts[j]); ok {
				out = append(out, a)
			}
		}
	}
	sortAspects(out)
	return out
}

// match checks one pair against the table. The first kind whose orb range
// contains the separation wins.
func (e *AspectEngine) match(a, b point) (models.Aspect, bool) {
	diff := Separation(a.lon, b.lon)
	for _, d := range e.defs {
		allowed := d.allowedOrb(a.name, b.name)
		orb := math.Abs(diff - d.Angle)
		if orb > allowed {
			continue
		}
		return models.Aspect{
			BodyA:      a.name,
			BodyB:      b.name,
			Kind:       d.Kind,
			ExactAngle: d.Angle,
			Angle:      diff,
			Orb:        orb,
			OrbAllowed: allowed,
			Applying:   applying(d.Angle, a, b),
			Exact:      orb < ExactThreshold,
			Dissociate: dissociate(d, a.lon, b.lon),
		}, true
	}
	return models.Aspect{}, false
}

// applying reports whether the orb is shrinking. rate is d(diff)/dt where
// diff is the shortest arc between the two points.
func applying(target float64, a, b point) bool {
	rel := Normalize(b.lon - a.lon)
	relSpeed := b.speed - a.speed
	rate := relSpeed
	if rel > 180 {
		rate = -relSpeed
	}
	if rate == 0 {
		return false
	}
	diff := Separation(a.lon, b.lon)

	switch target {
	case 0:
		// diff is never below 0, so the orb only shrinks while diff does.
		return rate < 0
	case 180:
		// diff never exceeds 180, so the orb only shrinks while diff grows.
		return rate > 0
	default:
		if diff > target {
			return rate < 0
		}
		if diff < target {
			return rate > 0
		}
		return false
	}
}

// dissociate flags aspects whose sign distance differs from the one the
// aspect angle normally spans, e.g. a trine from 29° Aries to 1° Virgo.
func dissociate(d AspectDef, lonA, lonB float64) bool {
	if d.SignCount < 0 {
		return false
	}
	n := SignIndex(lonA) - SignIndex(lonB)
	if n < 0 {
		n = -n
	}
	if n > 6 {
		n = 12 - n
	}
	return n != d.SignCount
}

// Declination finds parallels and contraparallels between eligible bodies.
// Ecliptic latitude stands in for declination: the two coincide only for
// points on the equator, so results are an approximation kept for
// compatibility with existing readings.
func (e *AspectEngine) Declination(bodies []models.Body) []models.DeclinationAspect {
	pts := eligiblePoints(bodies, nil)
	var out []models.DeclinationAspect
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			d1, d2 := pts[i].lat, pts[j].lat
			da := models.DeclinationAspect{BodyA: pts[i].name, BodyB: pts[j].name, DeclinationA: d1, DeclinationB: d2}
			switch {
			case math.Abs(d1-d2) < DeclinationOrb:
				da.Kind = models.Parallel
				da.Orb = math.Abs(d1 - d2)
			case d1*d2 < 0 && math.Abs(d1+d2) < DeclinationOrb:
				da.Kind = models.Contraparallel
				da.Orb = math.Abs(d1 + d2)
			default:
				continue
			}
			out = append(out, da)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Orb != out[j].Orb {
			return out[i].Orb < out[j].Orb
		}
		if out[i].BodyA != out[j].BodyA {
			return out[i].BodyA < out[j].BodyA
		}
		return out[i].BodyB < out[j].BodyB
	})
	return out
}

func sortAspects(as []models.Aspect) {
	sort.SliceStable(as, func(i, j int) bool {
		if as[i].Orb != as[j].Orb {
			return as[i].Orb < as[j].Orb
		}
		if as[i].BodyA != as[j].BodyA {
			return as[i].BodyA < as[j].BodyA
		}
		return as[i].BodyB < as[j].BodyB
	})
}
