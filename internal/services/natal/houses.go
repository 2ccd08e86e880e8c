package natal

import (
	"fmt"
	"strings"

	"Natalis/internal/domain/models"
	"Natalis/pkg/errors"
)

// DefaultHouseSystem is used for empty or unrecognized codes.
const DefaultHouseSystem = "P"

// HouseSystem is one supported house-division method.
type HouseSystem struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var houseSystems = []HouseSystem{
	{"P", "Placidus"},
	{"K", "Koch"},
	{"E", "Equal"},
	{"W", "Whole Sign"},
	{"C", "Campanus"},
	{"R", "Regiomontanus"},
	{"B", "Alcabitius"},
	{"O", "Porphyry"},
	{"T", "Topocentric"},
	{"M", "Morinus"},
	{"X", "Meridian"},
	{"V", "Vehlow Equal"},
}

var houseSystemByCode = func() map[string]HouseSystem {
	m := make(map[string]HouseSystem, len(houseSystems))
	for _, hs := range houseSystems {
		m[hs.Code] = hs
	}
	return m
}()

// HouseSystems lists the supported systems.
func HouseSystems() []HouseSystem {
	out := make([]HouseSystem, len(houseSystems))
	copy(out, houseSystems)
	return out
}

// ResolveHouseSystem maps a code (case-insensitive) to a known system. An
// empty code silently resolves to Placidus; an unknown one resolves to
// Placidus and returns ErrUnknownHouseSystem so callers can note it.
func ResolveHouseSystem(code string) (HouseSystem, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return houseSystemByCode[DefaultHouseSystem], nil
	}
	if hs, ok := houseSystemByCode[c]; ok {
		return hs, nil
	}
	return houseSystemByCode[DefaultHouseSystem], errors.Wrapf(errors.ErrUnknownHouseSystem, "house system %q", code)
}

// BuildHouses places the angles and cusps of an upstream block.
func BuildHouses(hd *models.HouseData, hs HouseSystem) (models.Houses, error) {
	if hd == nil {
		return models.Houses{}, errors.Wrap(errors.ErrFatalPipeline, "angle/house block unavailable")
	}
	if len(hd.Cusps) != 12 {
		return models.Houses{}, errors.Wrapf(errors.ErrFatalPipeline, "expected 12 house cusps, got %d", len(hd.Cusps))
	}
	if !finite(append([]float64{hd.Ascendant, hd.Midheaven, hd.ARMC, hd.Vertex}, hd.Cusps...)...) {
		return models.Houses{}, errors.Wrap(errors.ErrFatalPipeline, "angle/house block contains non-finite values")
	}

	h := models.Houses{
		System:     hs.Code,
		SystemName: hs.Name,
		ARMC:       Normalize(hd.ARMC),
		Angles:     AnglesFrom(hd.Ascendant, hd.Midheaven, hd.Vertex),
		Cusps:      make([]models.HouseCusp, 0, 12),
	}
	for i, c := range hd.Cusps {
		h.Cusps = append(h.Cusps, models.HouseCusp{House: i + 1, ChartAngle: placeAngle(c)})
	}
	return h, nil
}

// AnglesFrom derives the descendant and IC from the ascendant and midheaven.
func AnglesFrom(asc, mc, vertex float64) models.Angles {
	return models.Angles{
		Ascendant:  placeAngle(asc),
		Midheaven:  placeAngle(mc),
		Descendant: placeAngle(asc + 180),
		ImumCoeli:  placeAngle(mc + 180),
		Vertex:     placeAngle(vertex),
	}
}

// HouseOf returns the 1-based house containing lon, or 0 when the cusps are
// degenerate.
func HouseOf(lon float64, cusps []models.HouseCusp) int {
	for i := range cusps {
		start := cusps[i].Longitude
		end := cusps[(i+1)%len(cusps)].Longitude
		span := Normalize(end - start)
		if span == 0 {
			continue
		}
		if Normalize(lon-start) < span {
			return cusps[i].House
		}
	}
	return 0
}

func assignHouses(bodies []models.Body, cusps []models.HouseCusp) {
	for i := range bodies {
		bodies[i].House = HouseOf(bodies[i].Longitude, cusps)
	}
}

// HouseSystemNote records that code was not recognised and Placidus was used.
func HouseSystemNote(err error, code string) models.Note {
	return models.Note{
		Code:    NoteUnknownHouseSystem,
		Subject: code,
		Message: fmt.Sprintf("%v; using %s", err, houseSystemByCode[DefaultHouseSystem].Name),
	}
}
