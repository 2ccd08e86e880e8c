package natal

import (
	"fmt"
	"math"

	"Natalis/internal/domain/models"
)

// rulership lists, per classical body, the signs of each essential dignity.
type rulership struct {
	Domicile   []models.Sign
	Exaltation []models.Sign
	Detriment  []models.Sign
	Fall       []models.Sign
}

var rulerships = map[string]rulership{
	Sun:     {Domicile: []models.Sign{models.Leo}, Exaltation: []models.Sign{models.Aries}, Detriment: []models.Sign{models.Aquarius}, Fall: []models.Sign{models.Libra}},
	Moon:    {Domicile: []models.Sign{models.Cancer}, Exaltation: []models.Sign{models.Taurus}, Detriment: []models.Sign{models.Capricorn}, Fall: []models.Sign{models.Scorpio}},
	Mercury: {Domicile: []models.Sign{models.Gemini, models.Virgo}, Exaltation: []models.Sign{models.Virgo}, Detriment: []models.Sign{models.Sagittarius, models.Pisces}, Fall: []models.Sign{models.Pisces}},
	Venus:   {Domicile: []models.Sign{models.Taurus, models.Libra}, Exaltation: []models.Sign{models.Pisces}, Detriment: []models.Sign{models.Scorpio, models.Aries}, Fall: []models.Sign{models.Virgo}},
	Mars:    {Domicile: []models.Sign{models.Aries, models.Scorpio}, Exaltation: []models.Sign{models.Capricorn}, Detriment: []models.Sign{models.Libra, models.Taurus}, Fall: []models.Sign{models.Cancer}},
	Jupiter: {Domicile: []models.Sign{models.Sagittarius, models.Pisces}, Exaltation: []models.Sign{models.Cancer}, Detriment: []models.Sign{models.Gemini, models.Virgo}, Fall: []models.Sign{models.Capricorn}},
	Saturn:  {Domicile: []models.Sign{models.Capricorn, models.Aquarius}, Exaltation: []models.Sign{models.Libra}, Detriment: []models.Sign{models.Cancer, models.Leo}, Fall: []models.Sign{models.Aries}},
}

// decanRulers follows the Chaldean order Mars, Sun, Venus, Mercury, Moon,
// Saturn, Jupiter starting from the first decan of Aries.
var decanRulers = [12][3]string{
	{Mars, Sun, Venus},      // Aries
	{Mercury, Moon, Saturn}, // Taurus
	{Jupiter, Mars, Sun},    // Gemini
	{Venus, Mercury, Moon},  // Cancer
	{Saturn, Jupiter, Mars}, // Leo
	{Sun, Venus, Mercury},   // Virgo
	{Moon, Saturn, Jupiter}, // Libra
	{Mars, Sun, Venus},      // Scorpio
	{Mercury, Moon, Saturn}, // Sagittarius
	{Jupiter, Mars, Sun},    // Capricorn
	{Venus, Mercury, Moon},  // Aquarius
	{Saturn, Jupiter, Mars}, // Pisces
}

// ptolemaicTerms holds the five unequal bounds of each sign.
var ptolemaicTerms = [12][5]models.Term{
	{{Start: 0, End: 6, Ruler: Jupiter}, {Start: 6, End: 14, Ruler: Venus}, {Start: 14, End: 21, Ruler: Mercury}, {Start: 21, End: 26, Ruler: Mars}, {Start: 26, End: 30, Ruler: Saturn}},
	{{Start: 0, End: 8, Ruler: Venus}, {Start: 8, End: 15, Ruler: Mercury}, {Start: 15, End: 22, Ruler: Jupiter}, {Start: 22, End: 26, Ruler: Saturn}, {Start: 26, End: 30, Ruler: Mars}},
	{{Start: 0, End: 7, Ruler: Mercury}, {Start: 7, End: 14, Ruler: Jupiter}, {Start: 14, End: 21, Ruler: Venus}, {Start: 21, End: 25, Ruler: Saturn}, {Start: 25, End: 30, Ruler: Mars}},
	{{Start: 0, End: 6, Ruler: Mars}, {Start: 6, End: 13, Ruler: Jupiter}, {Start: 13, End: 20, Ruler: Mercury}, {Start: 20, End: 27, Ruler: Venus}, {Start: 27, End: 30, Ruler: Saturn}},
	{{Start: 0, End: 6, Ruler: Saturn}, {Start: 6, End: 13, Ruler: Mercury}, {Start: 13, End: 19, Ruler: Venus}, {Start: 19, End: 25, Ruler: Jupiter}, {Start: 25, End: 30, Ruler: Mars}},
	{{Start: 0, End: 7, Ruler: Mercury}, {Start: 7, End: 13, Ruler: Venus}, {Start: 13, End: 18, Ruler: Jupiter}, {Start: 18, End: 24, Ruler: Saturn}, {Start: 24, End: 30, Ruler: Mars}},
	{{Start: 0, End: 6, Ruler: Saturn}, {Start: 6, End: 11, Ruler: Venus}, {Start: 11, End: 19, Ruler: Mercury}, {Start: 19, End: 24, Ruler: Jupiter}, {Start: 24, End: 30, Ruler: Mars}},
	{{Start: 0, End: 6, Ruler: Mars}, {Start: 6, End: 14, Ruler: Venus}, {Start: 14, End: 21, Ruler: Jupiter}, {Start: 21, End: 27, Ruler: Mercury}, {Start: 27, End: 30, Ruler: Saturn}},
	{{Start: 0, End: 8, Ruler: Jupiter}, {Start: 8, End: 14, Ruler: Venus}, {Start: 14, End: 19, Ruler: Mercury}, {Start: 19, End: 25, Ruler: Saturn}, {Start: 25, End: 30, Ruler: Mars}},
	{{Start: 0, End: 6, Ruler: Venus}, {Start: 6, End: 12, Ruler: Mercury}, {Start: 12, End: 19, Ruler: Jupiter}, {Start: 19, End: 25, Ruler: Saturn}, {Start: 25, End: 30, Ruler: Mars}},
	{{Start: 0, End: 6, Ruler: Saturn}, {Start: 6, End: 12, Ruler: Mercury}, {Start: 12, End: 20, Ruler: Venus}, {Start: 20, End: 25, Ruler: Jupiter}, {Start: 25, End: 30, Ruler: Mars}},
	{{Start: 0, End: 8, Ruler: Venus}, {Start: 8, End: 14, Ruler: Jupiter}, {Start: 14, End: 20, Ruler: Mercury}, {Start: 20, End: 26, Ruler: Mars}, {Start: 26, End: 30, Ruler: Saturn}},
}

func init() {
	for i, terms := range ptolemaicTerms {
		if err := validateTerms(terms); err != nil {
			panic(fmt.Sprintf("terms of %s: %v", signs[i], err))
		}
	}
}

func validateTerms(terms [5]models.Term) error {
	prev := 0.0
	for _, t := range terms {
		if t.Start != prev || t.End <= t.Start {
			return fmt.Errorf("bound %v does not continue from %.0f", t, prev)
		}
		prev = t.End
	}
	if prev != 30 {
		return fmt.Errorf("bounds end at %.0f", prev)
	}
	return nil
}

// EssentialDignity classifies a classical body in a sign. ok is false for
// bodies without a rulership table entry.
func EssentialDignity(body string, sign models.Sign) (models.Dignity, bool) {
	r, ok := rulerships[body]
	if !ok {
		return models.Dignity{}, false
	}
	switch {
	case hasSign(r.Domicile, sign):
		return models.Dignity{Kind: models.Domicile, Strength: 5}, true
	case hasSign(r.Exaltation, sign):
		return models.Dignity{Kind: models.Exaltation, Strength: 4}, true
	case hasSign(r.Detriment, sign):
		return models.Dignity{Kind: models.Detriment, Strength: -4}, true
	case hasSign(r.Fall, sign):
		return models.Dignity{Kind: models.Fall, Strength: -5}, true
	}
	return models.Dignity{Kind: models.Peregrine, Strength: 0}, true
}

// DecanOf returns the 1-based decan and its Chaldean ruler for a longitude.
func DecanOf(lon float64) models.Decan {
	n := int(math.Floor(DegreeInSign(lon)/10)) + 1
	if n > 3 {
		n = 3
	}
	return models.Decan{Number: n, Ruler: decanRulers[SignIndex(lon)][n-1]}
}

// TermOf returns the Ptolemaic bound containing a longitude.
func TermOf(lon float64) models.Term {
	deg := DegreeInSign(lon)
	terms := ptolemaicTerms[SignIndex(lon)]
	for _, t := range terms {
		if deg >= t.Start && deg < t.End {
			return t
		}
	}
	return terms[len(terms)-1]
}

// ClassifyDignities reports decan and term for every body and the essential
// dignity for the classical seven.
func ClassifyDignities(bodies []models.Body) []models.BodyDignity {
	out := make([]models.BodyDignity, 0, len(bodies))
	for _, b := range bodies {
		bd := models.BodyDignity{
			Body:  b.Name,
			Sign:  b.Sign,
			Decan: DecanOf(b.Longitude),
			Term:  TermOf(b.Longitude),
		}
		if d, ok := EssentialDignity(b.Name, b.Sign); ok {
			bd.Dignity = &d
		}
		out = append(out, bd)
	}
	return out
}

func hasSign(list []models.Sign, s models.Sign) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
