package models

// EphemerisRequest is sent to the upstream ephemeris provider.
type EphemerisRequest struct {
	BirthDate   string   `json:"birthDate"`
	Time        string   `json:"time"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	HouseSystem string   `json:"houseSystem"`
	Bodies      []string `json:"bodies,omitempty"`

	// Authorization is forwarded from the caller when present.
	Authorization string `json:"-"`
}

// EphemerisData is the provider's answer: the body table and the angle
// block, plus the house system it actually used.
type EphemerisData struct {
	Bodies          []RawBody  `json:"bodies"`
	Houses          *HouseData `json:"houses"`
	HouseSystem     string     `json:"houseSystem,omitempty"`
	HouseSystemName string     `json:"houseSystemName,omitempty"`
}

// Input returns the engine input. The provider's top-level house system
// wins over the one inside the house block.
func (d *EphemerisData) Input() ChartInput {
	in := ChartInput{Bodies: d.Bodies}
	if d.Houses != nil {
		h := *d.Houses
		if d.HouseSystem != "" {
			h.System = d.HouseSystem
		}
		if d.HouseSystemName != "" {
			h.SystemName = d.HouseSystemName
		}
		in.Houses = &h
	}
	return in
}
