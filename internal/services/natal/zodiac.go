// Package natal implements the natal-chart analysis engine: derived points,
// aspects, aspect patterns, dignities, fixed-star contacts and the chart
// profile. Everything here is pure computation over the upstream body table;
// the static tables are package-level and never mutated after init.
package natal

import (
	"math"

	"Natalis/internal/domain/models"
)

// Body names as delivered by the ephemeris provider and emitted in reports.
const (
	Sun     = "Sun"
	Moon    = "Moon"
	Mercury = "Mercury"
	Venus   = "Venus"
	Mars    = "Mars"
	Jupiter = "Jupiter"
	Saturn  = "Saturn"
	Uranus  = "Uranus"
	Neptune = "Neptune"
	Pluto   = "Pluto"

	TrueNode  = "True Node"
	SouthNode = "South Node"

	Ceres  = "Ceres"
	Pallas = "Pallas"
	Juno   = "Juno"
	Vesta  = "Vesta"
	Chiron = "Chiron"

	MeanLilith         = "Mean Lilith"
	TrueLilith         = "True Lilith"
	InterpolatedLilith = "Interpolated Lilith"

	PartOfFortune = "Part of Fortune"
	PartOfSpirit  = "Part of Spirit"

	Ascendant = "Ascendant"
	Midheaven = "Midheaven"
)

// PrimaryBodies are the ten planets used by the chart profile.
var PrimaryBodies = []string{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}

// RequiredBodies is the body set requested from the ephemeris provider.
var RequiredBodies = []string{
	Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto,
	TrueNode,
	Ceres, Pallas, Juno, Vesta,
	Chiron,
	MeanApogee, OsculatingApogee, InterpolatedApogee,
}

var signs = [12]models.Sign{
	models.Aries, models.Taurus, models.Gemini, models.Cancer,
	models.Leo, models.Virgo, models.Libra, models.Scorpio,
	models.Sagittarius, models.Capricorn, models.Aquarius, models.Pisces,
}

// Signs returns the twelve signs in zodiacal order.
func Signs() []models.Sign { return signs[:] }

// Normalize maps any finite angle into [0,360).
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	// math.Mod(-1e-15, 360)+360 rounds to 360
	if d >= 360 {
		d = 0
	}
	return d
}

// Separation is the shortest arc between two longitudes, in [0,180].
func Separation(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	return math.Min(d, 360-d)
}

// SignIndex returns 0..11 for a longitude.
func SignIndex(lon float64) int {
	i := int(math.Floor(Normalize(lon) / 30))
	if i > 11 {
		i = 11
	}
	return i
}

func SignOf(lon float64) models.Sign { return signs[SignIndex(lon)] }

func DegreeInSign(lon float64) float64 {
	return Normalize(lon) - float64(SignIndex(lon))*30
}

func placeAngle(lon float64) models.ChartAngle {
	n := Normalize(lon)
	return models.ChartAngle{Longitude: n, Sign: SignOf(n), DegreeInSign: DegreeInSign(n)}
}

func placeBody(name string, lon, lat, dist, speed float64) models.Body {
	n := Normalize(lon)
	return models.Body{
		Name:         name,
		Longitude:    n,
		Latitude:     lat,
		Distance:     dist,
		Speed:        speed,
		Sign:         SignOf(n),
		DegreeInSign: DegreeInSign(n),
		Retrograde:   speed < 0,
	}
}

type (
	Element  string
	Modality string
	Polarity string
)

const (
	Fire  Element = "fire"
	Earth Element = "earth"
	Air   Element = "air"
	Water Element = "water"

	Cardinal Modality = "cardinal"
	Fixed    Modality = "fixed"
	Mutable  Modality = "mutable"

	Positive Polarity = "positive"
	Negative Polarity = "negative"
)

var (
	elementOrder  = []string{string(Fire), string(Earth), string(Air), string(Water)}
	modalityOrder = []string{string(Cardinal), string(Fixed), string(Mutable)}
	polarityOrder = []string{string(Positive), string(Negative)}

	signElements   = [12]Element{Fire, Earth, Air, Water, Fire, Earth, Air, Water, Fire, Earth, Air, Water}
	signModalities = [12]Modality{Cardinal, Fixed, Mutable, Cardinal, Fixed, Mutable, Cardinal, Fixed, Mutable, Cardinal, Fixed, Mutable}
	signPolarities = [12]Polarity{Positive, Negative, Positive, Negative, Positive, Negative, Positive, Negative, Positive, Negative, Positive, Negative}
)

func ElementOf(lon float64) Element   { return signElements[SignIndex(lon)] }
func ModalityOf(lon float64) Modality { return signModalities[SignIndex(lon)] }
func PolarityOf(lon float64) Polarity { return signPolarities[SignIndex(lon)] }

func isLuminary(name string) bool { return name == Sun || name == Moon }

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
