// Package track implements the railroad: a numbered line of spaces with a few
// turnouts, the stations along it and the cities engines deliver to.
package track

import (
	"fmt"
	"sort"
	"strconv"

	"cattletrail/errs"
	"cattletrail/obligation"
	"cattletrail/player"

	"golang.org/x/exp/rand"
)

const (
	MaxSpace        = 39
	MaxCertificates = 6
	MinHandValue    = 5
	MaxHandValue    = 28
	MaxWindow       = 6
)

// Follow-up action kinds produced by the track.
const (
	UpgradeStation     obligation.Kind = "upgrade-station"
	MoveEngineBackward obligation.Kind = "move-engine-backward"
	TakeObjectiveCard  obligation.Kind = "take-objective-card"
)

var (
	Turnouts = []int{4, 7, 10, 13, 16, 21, 25, 29, 33}
	Signals  = []int{3, 4, 5, 7, 9, 10, 11, 13, 15, 16, 17}
)

// StationMasters are the tiles shuffled onto the first stations.
var StationMasters = []string{
	"GAIN_2_DOLLARS_POINT_FOR_EACH_WORKER",
	"REMOVE_HAZARD_OR_TEEPEE_POINTS_FOR_EACH_2_OBJECTIVE_CARDS",
	"PERM_CERT_POINTS_FOR_EACH_2_HAZARDS",
	"PERM_CERT_POINTS_FOR_TEEPEE_PAIRS",
	"PERM_CERT_POINTS_FOR_EACH_2_CERTS",
}

// stationValues are (cost, points) per station: one per turnout, then the end.
var stationValues = [][2]int{
	{2, 1}, {2, 1}, {4, 2}, {4, 2}, {6, 3}, {8, 5}, {7, 6}, {6, 7}, {5, 8}, {3, 9},
}

// Direction picks the neighbour relation a walk follows.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// EngineMove is the outcome of moving an engine.
type EngineMove struct {
	Steps     int
	FollowUps []*obligation.Node
}

// Track is the railroad and everything on it that changes during a game.
type Track struct {
	spaces     []Space
	byName     map[string]int
	stations   []Station
	positions  map[player.ID]int
	deliveries map[City][]player.ID
}

// New builds the railroad with every player's engine on the start space.
// Station masters are shuffled with rnd.
func New(players []player.ID, rnd *rand.Rand) *Track {
	t := &Track{
		byName:     make(map[string]int),
		positions:  make(map[player.ID]int, len(players)),
		deliveries: make(map[City][]player.ID),
	}

	masters := append([]string(nil), StationMasters...)
	rnd.Shuffle(len(masters), func(i, j int) { masters[i], masters[j] = masters[j], masters[i] })
	for i, v := range stationValues {
		st := Station{Cost: v[0], Points: v[1], Upgraded: make(map[player.ID]struct{})}
		if i < len(masters) {
			st.Master = masters[i]
		}
		t.stations = append(t.stations, st)
	}

	for n := 0; n <= MaxSpace; n++ {
		s := Space{Name: strconv.Itoa(n), Number: n, Signal: contains(Signals, n), Station: -1}
		if n > 0 {
			s.Prev = []int{n - 1}
		}
		if n < MaxSpace {
			s.Next = []int{n + 1}
		}
		t.add(s)
	}
	t.spaces[MaxSpace].Station = len(t.stations) - 1

	for i, n := range Turnouts {
		id := t.add(Space{Name: turnoutName(n), Number: n, Turnout: true, Station: i, Prev: []int{n}, Next: []int{n + 1}})
		t.spaces[n].Next = append(t.spaces[n].Next, id)
		t.spaces[n+1].Prev = append(t.spaces[n+1].Prev, id)
	}

	for _, p := range players {
		t.positions[p] = 0
	}
	return t
}

func (t *Track) add(s Space) int {
	id := len(t.spaces)
	t.spaces = append(t.spaces, s)
	t.byName[s.Name] = id
	return id
}

func contains(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func (t *Track) index(name string) (int, error) {
	id, ok := t.byName[name]
	if !ok {
		return 0, errs.WithMetadata(errs.CodeUnknownSpace, "unknown space: "+name,
			map[string]string{"space": name})
	}
	return id, nil
}

// Space returns the space with the given name.
func (t *Track) Space(name string) (Space, error) {
	id, err := t.index(name)
	if err != nil {
		return Space{}, err
	}
	return t.spaces[id], nil
}

// Start is the name of the start space.
func (t *Track) Start() string { return t.spaces[0].Name }

// End is the name of the last space.
func (t *Track) End() string { return t.spaces[MaxSpace].Name }

// CurrentSpace returns the space a player's engine is on. Players unknown to
// the track are on the start space.
func (t *Track) CurrentSpace(p player.ID) string {
	return t.spaces[t.positions[p]].Name
}

// Positions returns every player's space name.
func (t *Track) Positions() map[player.ID]string {
	out := make(map[player.ID]string, len(t.positions))
	for p, id := range t.positions {
		out[p] = t.spaces[id].Name
	}
	return out
}

// occupied reports whether an engine sits on a space. The start space is never
// occupied since it holds any number of engines.
func (t *Track) occupied(id int) bool {
	if id == 0 {
		return false
	}
	for _, at := range t.positions {
		if at == id {
			return true
		}
	}
	return false
}

// MoveForward moves a player's engine forward to target.
func (t *Track) MoveForward(p player.ID, target string, minSteps, maxSteps int) (EngineMove, error) {
	return t.move(p, target, minSteps, maxSteps, Forward)
}

// MoveBackward moves a player's engine backward to target.
func (t *Track) MoveBackward(p player.ID, target string, minSteps, maxSteps int) (EngineMove, error) {
	return t.move(p, target, minSteps, maxSteps, Backward)
}

func (t *Track) move(p player.ID, target string, minSteps, maxSteps int, dir Direction) (EngineMove, error) {
	if minSteps < 0 || minSteps > MaxWindow || maxSteps < 1 {
		return EngineMove{}, errs.WithMetadata(errs.CodeInvalidWindow,
			fmt.Sprintf("invalid step window %d..%d", minSteps, maxSteps), window(minSteps, maxSteps))
	}
	to, err := t.index(target)
	if err != nil {
		return EngineMove{}, err
	}
	from := t.positions[p]
	notReachable := func() error {
		md := window(minSteps, maxSteps)
		md["from"] = t.spaces[from].Name
		md["to"] = target
		md["direction"] = dir.String()
		return errs.WithMetadata(errs.CodeSpaceNotReachable,
			fmt.Sprintf("space %s not reachable from %s within %d..%d steps", target, t.spaces[from].Name, minSteps, maxSteps), md)
	}
	if to == from {
		return EngineMove{}, notReachable()
	}
	if t.occupied(to) {
		return EngineMove{}, errs.WithMetadata(errs.CodeSpaceOccupied, "space occupied: "+target,
			map[string]string{"space": target})
	}

	steps, ok := t.reachable(from, minSteps, maxSteps, dir)[to]
	if !ok {
		return EngineMove{}, notReachable()
	}

	t.positions[p] = to

	var followUps []*obligation.Node
	if st := t.spaces[to].Station; st >= 0 && !t.stations[st].upgradedBy(p) {
		followUps = append(followUps, obligation.Optional(UpgradeStation))
	}
	if to == MaxSpace {
		followUps = append(followUps, obligation.Mandatory(MoveEngineBackward))
	}
	return EngineMove{Steps: steps, FollowUps: followUps}, nil
}

func window(minSteps, maxSteps int) map[string]string {
	return map[string]string{"minSteps": strconv.Itoa(minSteps), "maxSteps": strconv.Itoa(maxSteps)}
}

// Reachable lists the spaces an engine on from can move to within the window.
func (t *Track) Reachable(from string, minSteps, maxSteps int, dir Direction) ([]string, error) {
	id, err := t.index(from)
	if err != nil {
		return nil, err
	}
	found := t.reachable(id, minSteps, maxSteps, dir)
	out := make([]string, 0, len(found))
	for s := range found {
		out = append(out, t.spaces[s].Name)
	}
	t.sortNames(out)
	return out, nil
}

// reachable maps every reachable space to the fewest steps it takes.
func (t *Track) reachable(from, atLeast, atMost int, dir Direction) map[int]int {
	found := make(map[int]int)
	var walk func(current, atLeast, atMost, steps int)
	walk = func(current, atLeast, atMost, steps int) {
		available := current != from && !t.occupied(current)
		if available && atLeast <= 1 {
			if s, ok := found[current]; !ok || steps+1 < s {
				found[current] = steps + 1
			}
		}

		next := t.spaces[current].Next
		if dir == Backward {
			next = t.spaces[current].Prev
		}
		switch {
		case !available:
			// The engine's own space and occupied spaces are jumped over.
			for _, n := range next {
				walk(n, atLeast, atMost, steps)
			}
		case atMost > 1:
			for _, n := range next {
				walk(n, max(atLeast-1, 0), atMost-1, steps+1)
			}
		}
	}
	walk(from, atLeast, atMost, 0)
	return found
}

// sortNames orders space names by position along the track.
func (t *Track) sortNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		a, b := t.spaces[t.byName[names[i]]], t.spaces[t.byName[names[j]]]
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		return !a.Turnout && b.Turnout
	})
}

// SignalsPassed counts the signals behind a player's engine.
func (t *Track) SignalsPassed(p player.ID) int {
	return signalsBelow(t.spaces[t.positions[p]].ceil())
}

func signalsBelow(n int) int {
	c := 0
	for _, s := range Signals {
		if s < n {
			c++
		}
	}
	return c
}

// Stations returns a copy of the stations in track order.
func (t *Track) Stations() []Station {
	out := make([]Station, len(t.stations))
	for i, s := range t.stations {
		out[i] = s.copy()
	}
	return out
}

func (s Station) upgradedBy(p player.ID) bool {
	_, ok := s.Upgraded[p]
	return ok
}

// CurrentStation returns the station on a player's space, if any.
func (t *Track) CurrentStation(p player.ID) (Station, bool) {
	st := t.spaces[t.positions[p]].Station
	if st < 0 {
		return Station{}, false
	}
	return t.stations[st].copy(), true
}

// UpgradeStation marks the station on a player's space as upgraded by them.
func (t *Track) UpgradeStation(p player.ID) (Station, error) {
	at := t.spaces[t.positions[p]]
	if at.Station < 0 {
		return Station{}, errs.WithMetadata(errs.CodeInvalidMove, "no station at space "+at.Name,
			map[string]string{"space": at.Name})
	}
	st := &t.stations[at.Station]
	if st.upgradedBy(p) {
		return Station{}, errs.WithMetadata(errs.CodeInvalidMove, "station already upgraded at space "+at.Name,
			map[string]string{"space": at.Name})
	}
	st.Upgraded[p] = struct{}{}
	return st.copy(), nil
}

// Copy returns a deep copy of the mutable track state. The space arena is
// shared since it never changes.
func (t *Track) Copy() *Track {
	c := *t
	c.stations = make([]Station, len(t.stations))
	for i, s := range t.stations {
		c.stations[i] = s.copy()
	}
	c.positions = make(map[player.ID]int, len(t.positions))
	for p, id := range t.positions {
		c.positions[p] = id
	}
	c.deliveries = make(map[City][]player.ID, len(t.deliveries))
	for city, ps := range t.deliveries {
		c.deliveries[city] = append([]player.ID(nil), ps...)
	}
	return &c
}
