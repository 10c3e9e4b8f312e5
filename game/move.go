package game

import (
	"cattletrail/obligation"
	"cattletrail/track"
)

// Move is an action kind with its payload. Which fields are read depends on
// the kind.
type Move struct {
	Kind     obligation.Kind `yaml:"kind"`
	To       string          `yaml:"to,omitempty"`       // Trail location or track space
	Via      []string        `yaml:"via,omitempty"`      // Exact trail route, optional
	Cards    []int           `yaml:"cards,omitempty"`    // Market card IDs
	City     track.City      `yaml:"city,omitempty"`     // Delivery destination
	Building string          `yaml:"building,omitempty"` // Building to place
	Hazard   string          `yaml:"hazard,omitempty"`   // Hazard type, drawn when empty
	Teepee   string          `yaml:"teepee,omitempty"`   // Teepee colour, drawn when empty
}

func (m Move) String() string {
	if m.To != "" {
		return string(m.Kind) + " " + m.To
	}
	if m.City != "" {
		return string(m.Kind) + " " + string(m.City)
	}
	return string(m.Kind)
}
