// Package trail models the cattle trail: a directed graph of locations on which
// buildings, hazards and teepees are placed, and along which players move.
package trail

import (
	"fmt"
	"sort"
	"strconv"

	"cattletrail/errs"
	"cattletrail/player"
)

// Layout is the declarative description of a board.
type Layout struct {
	Start     string           `yaml:"start"`
	Locations []LocationLayout `yaml:"locations"`
}

type LocationLayout struct {
	Name    string       `yaml:"name"`
	Kind    LocationKind `yaml:"kind"`
	Next    []string     `yaml:"next,omitempty"`
	Woods   bool         `yaml:"woods,omitempty"`
	Neutral bool         `yaml:"neutral,omitempty"`
	Hazard  string       `yaml:"hazard,omitempty"`
	Number  int          `yaml:"number,omitempty"`
	OffPath bool         `yaml:"offPath,omitempty"`
}

type Option func(b *Board)

// WithEmptyLocationsFree makes empty locations not count as steps, as on the
// standard trail where unoccupied slots are walked past.
func WithEmptyLocationsFree() Option {
	return func(b *Board) {
		b.countEmpty = false
	}
}

// Board is the location arena plus everything that changes during a game:
// occupants and player positions.
type Board struct {
	locations  []Location
	occupants  []*Occupant // Indexed by location ID, nil when empty
	byName     map[string]int
	start      int
	countEmpty bool
	positions  map[player.ID]int
}

// NewBoard builds a board from a layout. The start location must exist and
// must have no incoming edges.
func NewBoard(layout Layout, opts ...Option) (*Board, error) {
	b := &Board{
		locations:  make([]Location, len(layout.Locations)),
		occupants:  make([]*Occupant, len(layout.Locations)),
		byName:     make(map[string]int, len(layout.Locations)),
		countEmpty: true,
		positions:  make(map[player.ID]int),
	}
	for _, opt := range opts {
		opt(b)
	}

	for id, l := range layout.Locations {
		if l.Name == "" {
			return nil, fmt.Errorf("location %d has no name", id)
		}
		if _, ok := b.byName[l.Name]; ok {
			return nil, fmt.Errorf("duplicate location %q", l.Name)
		}
		b.byName[l.Name] = id
		b.locations[id] = Location{
			ID:      id,
			Name:    l.Name,
			Kind:    l.Kind,
			Woods:   l.Woods,
			Neutral: l.Neutral,
			Hazard:  l.Hazard,
			Number:  l.Number,
			OnTrail: !l.OffPath,
		}
	}

	start, ok := b.byName[layout.Start]
	if !ok {
		return nil, fmt.Errorf("start location %q not found", layout.Start)
	}
	b.start = start

	for id, l := range layout.Locations {
		for _, name := range l.Next {
			next, ok := b.byName[name]
			if !ok {
				return nil, fmt.Errorf("location %q: unknown successor %q", l.Name, name)
			}
			if next == start {
				return nil, fmt.Errorf("location %q: start cannot have incoming edges", l.Name)
			}
			b.locations[id].Next = append(b.locations[id].Next, next)
		}
	}
	return b, nil
}

func (b *Board) index(name string) (int, error) {
	id, ok := b.byName[name]
	if !ok {
		return 0, errs.WithMetadata(errs.CodeUnknownLocation, "unknown location: "+name,
			map[string]string{"location": name})
	}
	return id, nil
}

// Location returns the location with the given name.
func (b *Board) Location(name string) (Location, error) {
	id, err := b.index(name)
	if err != nil {
		return Location{}, err
	}
	return b.locations[id], nil
}

// Locations returns all locations in arena order.
func (b *Board) Locations() []Location {
	out := make([]Location, len(b.locations))
	copy(out, b.locations)
	return out
}

// Start returns the name of the start location.
func (b *Board) Start() string {
	return b.locations[b.start].Name
}

// Occupant returns what sits on a location, if anything.
func (b *Board) Occupant(name string) (Occupant, bool) {
	id, ok := b.byName[name]
	if !ok || b.occupants[id] == nil {
		return Occupant{}, false
	}
	return *b.occupants[id], true
}

// Place puts an occupant on an empty location.
func (b *Board) Place(name string, o Occupant) error {
	id, err := b.index(name)
	if err != nil {
		return err
	}
	if b.occupants[id] != nil {
		return errs.WithMetadata(errs.CodeSpaceOccupied, "location already occupied: "+name,
			map[string]string{"location": name, "occupant": b.occupants[id].Label})
	}
	b.occupants[id] = &o
	return nil
}

// Remove takes the occupant off a location.
func (b *Board) Remove(name string) (Occupant, error) {
	id, err := b.index(name)
	if err != nil {
		return Occupant{}, err
	}
	o := b.occupants[id]
	if o == nil {
		return Occupant{}, errs.WithMetadata(errs.CodeInvalidMove, "location is empty: "+name,
			map[string]string{"location": name})
	}
	b.occupants[id] = nil
	return *o, nil
}

// IsEmpty reports whether nothing sits on the location. Start and Kansas City
// are never empty.
func (b *Board) IsEmpty(name string) bool {
	id, ok := b.byName[name]
	return ok && b.empty(id)
}

func (b *Board) empty(id int) bool {
	switch b.locations[id].Kind {
	case StartLocation, KansasCityLocation:
		return false
	}
	return b.occupants[id] == nil
}

// counts reports whether walking onto the location uses up a step.
func (b *Board) counts(id int) bool {
	return b.countEmpty || !b.empty(id)
}

// toll returns who is owed what for player passing location id.
func (b *Board) toll(id int, p player.ID) (player.ID, int) {
	o := b.occupants[id]
	if o == nil || o.Toll <= 0 || (o.Owner != "" && o.Owner == p) {
		return "", 0
	}
	return o.Owner, o.Toll
}

// PlayerLocation returns where a player stands, if the player is on the trail.
func (b *Board) PlayerLocation(p player.ID) (string, bool) {
	id, ok := b.positions[p]
	if !ok {
		return "", false
	}
	return b.locations[id].Name, true
}

// PlayerLocations returns every player's position by location name.
func (b *Board) PlayerLocations() map[player.ID]string {
	out := make(map[player.ID]string, len(b.positions))
	for p, id := range b.positions {
		out[p] = b.locations[id].Name
	}
	return out
}

// MoveToStart puts a player back on the start location.
func (b *Board) MoveToStart(p player.ID) {
	b.positions[p] = b.start
}

// FirstMoves lists the locations a player not yet on the trail may go to.
func (b *Board) FirstMoves() []string {
	var out []string
	for id, l := range b.locations {
		if id == b.start || !l.OnTrail || b.empty(id) {
			continue
		}
		out = append(out, l.Name)
	}
	sort.Strings(out)
	return out
}

// Move walks a player to a location along the cheapest route within the step
// window and budget, or along via when given. Players not yet on the trail
// may enter at any non-empty location for free.
func (b *Board) Move(p player.ID, to string, budget, minSteps, maxSteps int, via []string) (Route, error) {
	target, err := b.index(to)
	if err != nil {
		return Route{}, err
	}

	from, onTrail := b.positions[p]
	if !onTrail {
		for _, name := range b.FirstMoves() {
			if name == to {
				b.positions[p] = target
				return Route{Path: []string{to}, Steps: 1, Fees: map[player.ID]int{}}, nil
			}
		}
		return Route{}, b.notReachable(b.Start(), to, budget, minSteps, maxSteps)
	}

	routes, err := b.PossibleMoves(b.locations[from].Name, to, p, budget, minSteps, maxSteps)
	if err != nil {
		return Route{}, err
	}
	chosen, ok := pick(routes, via)
	if !ok {
		return Route{}, b.notReachable(b.locations[from].Name, to, budget, minSteps, maxSteps)
	}
	b.positions[p] = target
	return chosen, nil
}

func pick(routes []Route, via []string) (Route, bool) {
	if len(routes) == 0 {
		return Route{}, false
	}
	if len(via) == 0 {
		best := routes[0]
		for _, r := range routes[1:] {
			if r.Cost < best.Cost {
				best = r
			}
		}
		return best, true
	}
	for _, r := range routes {
		if samePath(r.Path, via) {
			return r, true
		}
	}
	return Route{}, false
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (b *Board) notReachable(from, to string, budget, minSteps, maxSteps int) error {
	return errs.WithMetadata(errs.CodeRouteNotReachable,
		fmt.Sprintf("no route from %s to %s within %d..%d steps and budget %d", from, to, minSteps, maxSteps, budget),
		map[string]string{
			"from":     from,
			"to":       to,
			"budget":   strconv.Itoa(budget),
			"minSteps": strconv.Itoa(minSteps),
			"maxSteps": strconv.Itoa(maxSteps),
		})
}

// Copy returns a deep copy of the mutable board state. The location arena is
// shared since it never changes.
func (b *Board) Copy() *Board {
	c := *b
	c.occupants = make([]*Occupant, len(b.occupants))
	for i, o := range b.occupants {
		if o != nil {
			oc := *o
			c.occupants[i] = &oc
		}
	}
	c.positions = make(map[player.ID]int, len(b.positions))
	for p, id := range b.positions {
		c.positions[p] = id
	}
	return &c
}
