package trail

import (
	"fmt"

	"cattletrail/player"
)

// LocationKind classifies the locations of the trail.
type LocationKind int

const (
	StartLocation LocationKind = iota
	BuildingLocation
	HazardLocation
	TeepeeLocation
	KansasCityLocation
)

var locationKindNames = map[LocationKind]string{
	StartLocation:      "start",
	BuildingLocation:   "building",
	HazardLocation:     "hazard",
	TeepeeLocation:     "teepee",
	KansasCityLocation: "kansas-city",
}

func (k LocationKind) String() string {
	if name, ok := locationKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// UnmarshalText allows location kinds to be written by name in layout files.
func (k *LocationKind) UnmarshalText(text []byte) error {
	for kind, name := range locationKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown location kind %q", text)
}

// Location is a node of the trail graph. Locations are immutable once the
// board is built; what sits on them is tracked separately as an Occupant.
type Location struct {
	ID      int          // Index into the board's location arena
	Name    string       // Unique, stable name
	Kind    LocationKind // Kind of slot
	Next    []int        // Successor IDs, more than one at a fork
	Woods   bool         // Building slot in the woods
	Neutral bool         // Slot reserved for a neutral building
	Hazard  string       // Hazard type of a hazard slot
	Number  int          // Hazard number or teepee reward
	OnTrail bool         // False for holding slots that are not part of the graph
}

// Occupant is a building, hazard or teepee placed on a location. An empty
// Owner means the occupant belongs to no player and tolls go to the bank.
type Occupant struct {
	Owner player.ID `yaml:"owner,omitempty"`
	Toll  int       `yaml:"toll,omitempty"`
	Label string    `yaml:"label"`
}

// Route is one way to walk from a location to another.
type Route struct {
	Path  []string          // Locations visited, excluding the start of the walk
	Steps int               // Number of path locations counting as a step
	Cost  int               // Total tolls
	Fees  map[player.ID]int // Tolls owed to each other player
}

// To returns the final location of the route.
func (r Route) To() string {
	if len(r.Path) == 0 {
		return ""
	}
	return r.Path[len(r.Path)-1]
}
