package natal

import (
	"testing"

	"go.uber.org/goleak"

	"Natalis/internal/domain/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func body(name string, lon float64) models.Body {
	return placeBody(name, lon, 0, 1, 1)
}

func moving(name string, lon, speed float64) models.Body {
	return placeBody(name, lon, 0, 1, speed)
}

func raw(name string, lon float64) models.RawBody {
	return models.RawBody{Name: name, Longitude: lon, Distance: 1, Speed: 1}
}

func equalCusps(asc float64) []float64 {
	cusps := make([]float64, 12)
	for i := range cusps {
		cusps[i] = Normalize(asc + float64(i)*30)
	}
	return cusps
}

func houseData(system string, asc, mc float64) *models.HouseData {
	return &models.HouseData{
		System:    system,
		Cusps:     equalCusps(asc),
		Ascendant: asc,
		Midheaven: mc,
		ARMC:      mc,
		Vertex:    Normalize(asc + 200),
	}
}

func findAspect(as []models.Aspect, a, b string) (models.Aspect, bool) {
	for _, x := range as {
		if (x.BodyA == a && x.BodyB == b) || (x.BodyA == b && x.BodyB == a) {
			return x, true
		}
	}
	return models.Aspect{}, false
}

func patternsOf(ps []models.Pattern, kind models.PatternKind) []models.Pattern {
	var out []models.Pattern
	for _, p := range ps {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

func findBody(bodies []models.Body, name string) (models.Body, bool) {
	for _, b := range bodies {
		if b.Name == name {
			return b, true
		}
	}
	return models.Body{}, false
}
