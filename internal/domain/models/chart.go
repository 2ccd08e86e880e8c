package models

import "time"

// Sign is one of the twelve 30° divisions of the ecliptic.
type Sign string

const (
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
)

// RawBody is one row of the upstream ephemeris table. Error is set when the
// provider could not compute the body.
type RawBody struct {
	Name      string  `json:"name" validate:"required"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Distance  float64 `json:"distance"`
	Speed     float64 `json:"speed"`
	Error     string  `json:"error,omitempty"`
}

// HouseData is the upstream angle/house block.
type HouseData struct {
	System     string    `json:"system"`
	SystemName string    `json:"system_name,omitempty"`
	Cusps      []float64 `json:"cusps" validate:"len=12"`
	Ascendant  float64   `json:"ascendant"`
	Midheaven  float64   `json:"midheaven"`
	ARMC       float64   `json:"armc"`
	Vertex     float64   `json:"vertex"`
}

// ChartInput is everything the engine needs for one chart. Houses is nil when
// the provider returned no angle block.
type ChartInput struct {
	Bodies []RawBody  `json:"bodies"`
	Houses *HouseData `json:"houses"`
}

// Body is a chart point with its zodiacal placement resolved.
type Body struct {
	Name         string  `json:"name"`
	Longitude    float64 `json:"longitude"`
	Latitude     float64 `json:"latitude"`
	Distance     float64 `json:"distance"`
	Speed        float64 `json:"speed"`
	Sign         Sign    `json:"sign"`
	DegreeInSign float64 `json:"degree_in_sign"`
	Retrograde   bool    `json:"retrograde"`
	House        int     `json:"house,omitempty"`
	Derived      bool    `json:"derived,omitempty"`
}

// ChartAngle is an angle or cusp longitude with its sign.
type ChartAngle struct {
	Longitude    float64 `json:"longitude"`
	Sign         Sign    `json:"sign"`
	DegreeInSign float64 `json:"degree_in_sign"`
}

// Angles holds the chart angles. Descendant and IC are always derived.
type Angles struct {
	Ascendant  ChartAngle `json:"ascendant"`
	Midheaven  ChartAngle `json:"midheaven"`
	Descendant ChartAngle `json:"descendant"`
	ImumCoeli  ChartAngle `json:"imum_coeli"`
	Vertex     ChartAngle `json:"vertex"`
}

type HouseCusp struct {
	House int `json:"house"`
	ChartAngle
}

type Houses struct {
	System     string      `json:"system"`
	SystemName string      `json:"system_name"`
	ARMC       float64     `json:"armc"`
	Angles     Angles      `json:"angles"`
	Cusps      []HouseCusp `json:"cusps"`
}

type AspectKind string

const (
	Conjunction    AspectKind = "conjunction"
	Opposition     AspectKind = "opposition"
	Trine          AspectKind = "trine"
	Square         AspectKind = "square"
	Sextile        AspectKind = "sextile"
	Quincunx       AspectKind = "quincunx"
	Sesquiquadrate AspectKind = "sesquiquadrate"
	Semisquare     AspectKind = "semisquare"
	Semisextile    AspectKind = "semisextile"
	Quintile       AspectKind = "quintile"
	Biquintile     AspectKind = "biquintile"
	Parallel       AspectKind = "parallel"
	Contraparallel AspectKind = "contraparallel"
)

type Aspect struct {
	BodyA      string     `json:"body_a"`
	BodyB      string     `json:"body_b"`
	Kind       AspectKind `json:"kind"`
	ExactAngle float64    `json:"exact_angle"`
	Angle      float64    `json:"angle"`
	Orb        float64    `json:"orb"`
	OrbAllowed float64    `json:"orb_allowed"`
	Applying   bool       `json:"applying"`
	Exact      bool       `json:"exact"`
	Dissociate bool       `json:"dissociate"`
}

type DeclinationAspect struct {
	BodyA        string     `json:"body_a"`
	BodyB        string     `json:"body_b"`
	Kind         AspectKind `json:"kind"`
	Orb          float64    `json:"orb"`
	DeclinationA float64    `json:"declination_a"`
	DeclinationB float64    `json:"declination_b"`
}

type PatternKind string

const (
	Stellium        PatternKind = "stellium"
	GrandTrine      PatternKind = "grand_trine"
	TSquare         PatternKind = "t_square"
	GrandCross      PatternKind = "grand_cross"
	Yod             PatternKind = "yod"
	Kite            PatternKind = "kite"
	MysticRectangle PatternKind = "mystic_rectangle"
	Cradle          PatternKind = "cradle"
	ThorsHammer     PatternKind = "thors_hammer"
	Boomerang       PatternKind = "boomerang"
)

type Pattern struct {
	Kind      PatternKind `json:"kind"`
	Members   []string    `json:"members"`
	Apex      string      `json:"apex,omitempty"`
	MaxOrb    float64     `json:"max_orb"`
	Narrative string      `json:"narrative"`
}

type DignityKind string

const (
	Domicile   DignityKind = "domicile"
	Exaltation DignityKind = "exaltation"
	Detriment  DignityKind = "detriment"
	Fall       DignityKind = "fall"
	Peregrine  DignityKind = "peregrine"
)

type Dignity struct {
	Kind     DignityKind `json:"kind"`
	Strength int         `json:"strength"`
}

type Decan struct {
	Number int    `json:"number"`
	Ruler  string `json:"ruler"`
}

type Term struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Ruler string  `json:"ruler"`
}

// BodyDignity is the classification of one body. Dignity is nil for bodies
// outside the classical seven.
type BodyDignity struct {
	Body    string   `json:"body"`
	Sign    Sign     `json:"sign"`
	Dignity *Dignity `json:"dignity,omitempty"`
	Decan   Decan    `json:"decan"`
	Term    Term     `json:"term"`
}

type FixedStarHit struct {
	Body    string  `json:"body"`
	Star    string  `json:"star"`
	Orb     float64 `json:"orb"`
	Nature  string  `json:"nature"`
	Meaning string  `json:"meaning"`
}

type ChartShape string

const (
	ShapeBundle     ChartShape = "bundle"
	ShapeBowl       ChartShape = "bowl"
	ShapeLocomotive ChartShape = "locomotive"
	ShapeSplash     ChartShape = "splash"
	ShapeSplay      ChartShape = "splay"
)

type ShapeInfo struct {
	Shape      ChartShape `json:"shape"`
	Spread     float64    `json:"spread"`
	LargestGap float64    `json:"largest_gap"`
	Quadrants  [4]int     `json:"quadrants"`
}

// Distribution is one balance axis: raw weights, percentages and the dominant
// category.
type Distribution struct {
	Weights     map[string]float64 `json:"weights"`
	Percentages map[string]float64 `json:"percentages"`
	Dominant    string             `json:"dominant"`
	Missing     []string           `json:"missing,omitempty"`
}

type Hemispheres struct {
	East  int      `json:"east"`
	West  int      `json:"west"`
	North int      `json:"north"`
	South int      `json:"south"`
	Notes []string `json:"notes,omitempty"`
}

type Profile struct {
	Shape       ShapeInfo    `json:"shape"`
	Elements    Distribution `json:"elements"`
	Modalities  Distribution `json:"modalities"`
	Polarities  Distribution `json:"polarities"`
	Hemispheres Hemispheres  `json:"hemispheres"`
}

// Note records a condition the engine degraded around instead of failing.
type Note struct {
	Code    string `json:"code"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// Report is the merged output of one engine run. Disabled blocks are nil.
type Report struct {
	ID                 string              `json:"id"`
	ComputedAt         time.Time           `json:"computed_at"`
	Bodies             []Body              `json:"bodies"`
	Houses             Houses              `json:"houses"`
	Aspects            []Aspect            `json:"aspects,omitempty"`
	DeclinationAspects []DeclinationAspect `json:"declination_aspects,omitempty"`
	Patterns           []Pattern           `json:"patterns,omitempty"`
	FixedStars         []FixedStarHit      `json:"fixed_stars,omitempty"`
	Dignities          []BodyDignity       `json:"dignities,omitempty"`
	Profile            *Profile            `json:"profile,omitempty"`
	Notes              []Note              `json:"notes,omitempty"`
}
