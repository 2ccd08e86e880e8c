package natal

import (
	"fmt"
	"math"
	"sort"

	"Natalis/internal/domain/models"
)

// ProfileThresholds are the cut points of the shape and hemisphere rules.
type ProfileThresholds struct {
	BundleSpread         float64 `yaml:"bundle_spread"`
	BowlSpread           float64 `yaml:"bowl_spread"`
	LocomotiveGap        float64 `yaml:"locomotive_gap"`
	SplashMaxPerQuadrant int     `yaml:"splash_max_per_quadrant"`
	HemisphereMargin     int     `yaml:"hemisphere_margin"`
}

func DefaultProfileThresholds() ProfileThresholds {
	return ProfileThresholds{
		BundleSpread:         120,
		BowlSpread:           180,
		LocomotiveGap:        120,
		SplashMaxPerQuadrant: 4,
		HemisphereMargin:     2,
	}
}

// Balance weights: luminaries and the two angles count double.
const (
	heavyWeight = 2.0
	lightWeight = 1.0
)

// ProfileChart computes shape, balance and hemisphere emphasis from the ten
// primary bodies and the angles.
func ProfileChart(bodies []models.Body, angles models.Angles, th ProfileThresholds) models.Profile {
	index := indexBodies(bodies)
	var primaries []models.Body
	for _, n := range PrimaryBodies {
		if b, ok := index[n]; ok {
			primaries = append(primaries, b)
		}
	}
	return models.Profile{
		Shape:       chartShape(primaries, angles.Ascendant.Longitude, th),
		Elements:    balance(primaries, angles, elementOrder, func(l float64) string { return string(ElementOf(l)) }, true),
		Modalities:  balance(primaries, angles, modalityOrder, func(l float64) string { return string(ModalityOf(l)) }, false),
		Polarities:  balance(primaries, angles, polarityOrder, func(l float64) string { return string(PolarityOf(l)) }, false),
		Hemispheres: hemispheres(primaries, angles, th.HemisphereMargin),
	}
}

func chartShape(primaries []models.Body, asc float64, th ProfileThresholds) models.ShapeInfo {
	var info models.ShapeInfo
	for _, b := range primaries {
		q := int(Normalize(b.Longitude-asc) / 90)
		if q > 3 {
			q = 3
		}
		info.Quadrants[q]++
	}

	lons := make([]float64, 0, len(primaries))
	for _, b := range primaries {
		lons = append(lons, b.Longitude)
	}
	sort.Float64s(lons)

	gap := 360.0
	if len(lons) > 1 {
		gap = lons[0] + 360 - lons[len(lons)-1]
		for i := 1; i < len(lons); i++ {
			gap = math.Max(gap, lons[i]-lons[i-1])
		}
	}
	info.LargestGap = gap
	info.Spread = 360 - gap

	switch {
	case info.Spread <= th.BundleSpread:
		info.Shape = models.ShapeBundle
	case info.Spread <= th.BowlSpread:
		info.Shape = models.ShapeBowl
	case gap >= th.LocomotiveGap:
		info.Shape = models.ShapeLocomotive
	case splashQuadrants(info.Quadrants, th.SplashMaxPerQuadrant):
		info.Shape = models.ShapeSplash
	default:
		info.Shape = models.ShapeSplay
	}
	return info
}

func splashQuadrants(q [4]int, maxPer int) bool {
	for _, n := range q {
		if n == 0 || n > maxPer {
			return false
		}
	}
	return true
}

type weighted struct {
	lon    float64
	weight float64
}

func balance(primaries []models.Body, angles models.Angles, order []string, classify func(float64) string, reportMissing bool) models.Distribution {
	points := make([]weighted, 0, len(primaries)+2)
	for _, b := range primaries {
		w := lightWeight
		if isLuminary(b.Name) {
			w = heavyWeight
		}
		points = append(points, weighted{lon: b.Longitude, weight: w})
	}
	points = append(points,
		weighted{lon: angles.Ascendant.Longitude, weight: heavyWeight},
		weighted{lon: angles.Midheaven.Longitude, weight: heavyWeight},
	)

	d := models.Distribution{
		Weights:     make(map[string]float64, len(order)),
		Percentages: make(map[string]float64, len(order)),
	}
	total := 0.0
	for _, c := range order {
		d.Weights[c] = 0
	}
	for _, p := range points {
		d.Weights[classify(p.lon)] += p.weight
		total += p.weight
	}

	best := -1.0
	for _, c := range order {
		w := d.Weights[c]
		if total > 0 {
			d.Percentages[c] = round(w/total*100, 2)
		}
		if w > best {
			best = w
			d.Dominant = c
		}
		if reportMissing && w == 0 {
			d.Missing = append(d.Missing, c)
		}
	}
	return d
}

// hemispheres splits the chart by the horizon (north below it, south above)
// and by the meridian (east rising through the ascendant side, west setting).
func hemispheres(primaries []models.Body, angles models.Angles, margin int) models.Hemispheres {
	var h models.Hemispheres
	asc, mc := angles.Ascendant.Longitude, angles.Midheaven.Longitude
	for _, b := range primaries {
		if Normalize(b.Longitude-asc) < 180 {
			h.North++
		} else {
			h.South++
		}
		if Normalize(b.Longitude-mc) < 180 {
			h.East++
		} else {
			h.West++
		}
	}

	note := func(a, b int, aName, bName, meaning string) {
		if a-b > margin {
			h.Notes = append(h.Notes, fmt.Sprintf("%s emphasis (%d vs %d %s): %s", aName, a, b, bName, meaning))
		}
	}
	note(h.East, h.West, "Eastern", "western", "self-directed, shapes circumstances by initiative")
	note(h.West, h.East, "Western", "eastern", "relationship-oriented, responds to others")
	note(h.North, h.South, "Northern", "southern", "private, subjective, rooted in home and inner life")
	note(h.South, h.North, "Southern", "northern", "public, objective, drawn to career and recognition")
	return h
}
