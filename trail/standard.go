package trail

import (
	_ "embed"
	"fmt"
	"sort"

	"cattletrail/errs"
	"cattletrail/player"

	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"
)

//go:embed standard.yaml
var standardLayout []byte

// NeutralBuildings are the buildings placed on the neutral slots A..G.
var NeutralBuildings = []string{"A", "B", "C", "D", "E", "F", "G"}

// LoadLayout parses a YAML board layout.
func LoadLayout(data []byte) (Layout, error) {
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	return layout, nil
}

// NewStandard builds the standard trail. Neutral buildings are shuffled onto
// the neutral slots with rnd, or placed in alphabetical order for beginners.
func NewStandard(rnd *rand.Rand, beginner bool) (*Board, error) {
	layout, err := LoadLayout(standardLayout)
	if err != nil {
		return nil, err
	}
	b, err := NewBoard(layout, WithEmptyLocationsFree())
	if err != nil {
		return nil, fmt.Errorf("standard trail: %w", err)
	}

	buildings := append([]string(nil), NeutralBuildings...)
	if !beginner {
		rnd.Shuffle(len(buildings), func(i, j int) {
			buildings[i], buildings[j] = buildings[j], buildings[i]
		})
	}

	var slots []string
	for _, l := range b.locations {
		if l.Neutral {
			slots = append(slots, l.Name)
		}
	}
	if len(slots) != len(buildings) {
		return nil, fmt.Errorf("standard trail: %d neutral slots for %d buildings", len(slots), len(buildings))
	}
	for i, name := range slots {
		if err := b.Place(name, Occupant{Label: buildings[i]}); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// PlaceHazard puts a hazard on the lowest-numbered empty slot of its type and
// returns the slot. It reports false when every slot of that type is taken.
func (b *Board) PlaceHazard(hazard string, toll int) (string, bool) {
	id, ok := b.lowestEmpty(func(l Location) bool {
		return l.Kind == HazardLocation && l.Hazard == hazard
	})
	if !ok {
		return "", false
	}
	b.occupants[id] = &Occupant{Label: hazard, Toll: toll}
	return b.locations[id].Name, true
}

// PlaceTeepee puts a teepee on the lowest-reward empty teepee slot.
func (b *Board) PlaceTeepee(label string, toll int) (string, bool) {
	id, ok := b.lowestEmpty(func(l Location) bool {
		return l.Kind == TeepeeLocation
	})
	if !ok {
		return "", false
	}
	b.occupants[id] = &Occupant{Label: label, Toll: toll}
	return b.locations[id].Name, true
}

func (b *Board) lowestEmpty(match func(Location) bool) (int, bool) {
	best, found := 0, false
	for id, l := range b.locations {
		if !match(l) || b.occupants[id] != nil {
			continue
		}
		if !found || l.Number < b.locations[best].Number {
			best, found = id, true
		}
	}
	return best, found
}

// PlaceBuilding puts a player building on an empty, non-neutral building slot.
func (b *Board) PlaceBuilding(location string, owner player.ID, building string, toll int) error {
	id, err := b.index(location)
	if err != nil {
		return err
	}
	l := b.locations[id]
	if l.Kind != BuildingLocation || l.Neutral {
		return errs.WithMetadata(errs.CodeInvalidMove, "not a building slot: "+location,
			map[string]string{"location": location})
	}
	return b.Place(location, Occupant{Owner: owner, Toll: toll, Label: building})
}

// Buildings lists the slots holding a player's buildings.
func (b *Board) Buildings(p player.ID) []string {
	var out []string
	for id, o := range b.occupants {
		if o != nil && o.Owner == p {
			out = append(out, b.locations[id].Name)
		}
	}
	sort.Strings(out)
	return out
}

// BuildingsInWoods counts a player's buildings standing in the woods.
func (b *Board) BuildingsInWoods(p player.ID) int {
	n := 0
	for id, o := range b.occupants {
		if o != nil && o.Owner == p && b.locations[id].Woods {
			n++
		}
	}
	return n
}
