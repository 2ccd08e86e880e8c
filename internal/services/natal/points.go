package natal

import (
	"fmt"
	"math"
	"strings"

	"Natalis/internal/domain/models"
)

// Apogee computations as named by the ephemeris provider.
const (
	MeanApogee         = "Mean Apogee"
	OsculatingApogee   = "Osculating Apogee"
	InterpolatedApogee = "Interpolated Apogee"
)

// Note codes attached to reports when the engine degrades around bad input.
const (
	NoteMissingInput        = "missing_input"
	NoteUpstreamComputation = "upstream_computation"
	NoteUnknownHouseSystem  = "unknown_house_system"
)

// apogeeVariant ties one apogee computation to the names traditions use for
// the point and for its opposite.
type apogeeVariant struct {
	Computation string
	Variant     string
	Lilith      string
	Opposite    string
}

var apogeeVariants = []apogeeVariant{
	{Computation: MeanApogee, Variant: "mean", Lilith: MeanLilith, Opposite: "Mean Priapus"},
	{Computation: OsculatingApogee, Variant: "true", Lilith: TrueLilith, Opposite: "True Priapus"},
	{Computation: InterpolatedApogee, Variant: "interpolated", Lilith: InterpolatedLilith, Opposite: "Interpolated Priapus"},
}

// bodyAliases maps lower-cased upstream spellings to canonical names.
var bodyAliases = map[string]string{
	"north node": TrueNode,
	"true node":  TrueNode,
	"node":       TrueNode,
	"lilith":     MeanLilith,
	"black moon": MeanLilith,
}

func init() {
	for _, v := range apogeeVariants {
		bodyAliases[strings.ToLower(v.Computation)] = v.Lilith
		bodyAliases[strings.ToLower(v.Lilith)] = v.Lilith
		bodyAliases[strings.ToLower(v.Variant+" apogee")] = v.Lilith
	}
	for _, name := range RequiredBodies {
		if _, ok := bodyAliases[strings.ToLower(name)]; !ok {
			bodyAliases[strings.ToLower(name)] = name
		}
	}
}

// CanonicalName resolves an upstream body name to the name used in reports.
// Unknown names are returned trimmed but otherwise untouched.
func CanonicalName(name string) string {
	n := strings.TrimSpace(name)
	if c, ok := bodyAliases[strings.ToLower(n)]; ok {
		return c
	}
	return n
}

// ResolveBodies places every usable upstream row on the zodiac. Rows that the
// provider failed to compute, or that carry non-finite values, are omitted and
// reported as notes; duplicate names keep the first row.
func ResolveBodies(raw []models.RawBody) ([]models.Body, []models.Note) {
	bodies := make([]models.Body, 0, len(raw))
	var notes []models.Note
	seen := make(map[string]bool, len(raw))

	for _, rb := range raw {
		name := CanonicalName(rb.Name)
		if name == "" || seen[name] {
			continue
		}
		if rb.Error != "" {
			notes = append(notes, models.Note{
				Code:    NoteUpstreamComputation,
				Subject: name,
				Message: fmt.Sprintf("%s omitted: %s", name, rb.Error),
			})
			continue
		}
		if !finite(rb.Longitude, rb.Latitude, rb.Distance, rb.Speed) {
			notes = append(notes, models.Note{
				Code:    NoteUpstreamComputation,
				Subject: name,
				Message: fmt.Sprintf("%s omitted: non-finite position", name),
			})
			continue
		}
		seen[name] = true
		bodies = append(bodies, placeBody(name, rb.Longitude, rb.Latitude, rb.Distance, rb.Speed))
	}
	return bodies, notes
}

// MissingBodies reports every required body that is absent from bodies and
// was not already covered by one of noted. Points derived from a missing body
// are named in its message.
func MissingBodies(bodies []models.Body, noted []models.Note) []models.Note {
	have := make(map[string]bool, len(bodies)+len(noted))
	for _, b := range bodies {
		have[b.Name] = true
	}
	for _, n := range noted {
		have[n.Subject] = true
	}

	var notes []models.Note
	for _, req := range RequiredBodies {
		name := CanonicalName(req)
		if have[name] {
			continue
		}
		have[name] = true
		msg := name + " missing from ephemeris input"
		if dep := dependentPoint(name); dep != "" {
			msg += "; " + dep + " omitted"
		}
		notes = append(notes, models.Note{Code: NoteMissingInput, Subject: name, Message: msg})
	}
	return notes
}

func dependentPoint(name string) string {
	if name == TrueNode {
		return SouthNode
	}
	for _, v := range apogeeVariants {
		if v.Lilith == name {
			return v.Opposite
		}
	}
	return ""
}

// DerivePoints appends the South Node, the apogee opposites and the Parts of
// Fortune and Spirit to bodies. Points whose source is absent are skipped; a
// missing Sun or Moon is reported as a note rather than an error.
func DerivePoints(bodies []models.Body, ascendant float64) ([]models.Body, []models.Note) {
	index := indexBodies(bodies)
	out := make([]models.Body, len(bodies), len(bodies)+len(apogeeVariants)+3)
	copy(out, bodies)
	var notes []models.Note

	if node, ok := index[TrueNode]; ok {
		sn := antipode(SouthNode, node)
		sn.Retrograde = true
		out = append(out, sn)
	}

	for _, v := range apogeeVariants {
		if ap, ok := index[v.Lilith]; ok {
			out = append(out, antipode(v.Opposite, ap))
		}
	}

	sun, hasSun := index[Sun]
	moon, hasMoon := index[Moon]
	if !hasSun || !hasMoon {
		var missing []string
		if !hasSun {
			missing = append(missing, Sun)
		}
		if !hasMoon {
			missing = append(missing, Moon)
		}
		notes = append(notes, models.Note{
			Code:    NoteMissingInput,
			Subject: strings.Join(missing, ", "),
			Message: "Part of Fortune and Part of Spirit omitted: " + strings.Join(missing, " and ") + " unavailable",
		})
		return out, notes
	}

	fortune, spirit := Lots(ascendant, sun.Longitude, moon.Longitude)
	out = append(out, lot(PartOfFortune, fortune), lot(PartOfSpirit, spirit))
	return out, notes
}

// IsDayChart reports whether the Sun is above the horizon: the arc from the
// ascendant to the Sun is at least 180°.
func IsDayChart(ascendant, sun float64) bool {
	return Normalize(sun-ascendant) >= 180
}

// Lots returns the Part of Fortune and Part of Spirit longitudes. By day
// Fortune is Asc+Moon−Sun; by night the formula reverses, and Spirit always
// takes the other one.
func Lots(ascendant, sun, moon float64) (fortune, spirit float64) {
	day := Normalize(ascendant + moon - sun)
	night := Normalize(ascendant + sun - moon)
	if IsDayChart(ascendant, sun) {
		return day, night
	}
	return night, day
}

func antipode(name string, src models.Body) models.Body {
	b := placeBody(name, src.Longitude+180, -src.Latitude, src.Distance, src.Speed)
	b.Derived = true
	return b
}

func lot(name string, lon float64) models.Body {
	b := placeBody(name, lon, 0, 0, 0)
	b.Derived = true
	return b
}

func indexBodies(bodies []models.Body) map[string]models.Body {
	m := make(map[string]models.Body, len(bodies))
	for _, b := range bodies {
		m[b.Name] = b
	}
	return m
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
