package trail

import (
	"sort"
	"strings"

	"cattletrail/player"
)

// PossibleMoves enumerates every route from one location to another that a
// player can afford within budget and whose step count lies in
// [minSteps, maxSteps]. Walks are strictly forward: from == to, or a move
// towards the start location, yields no routes.
//
// Partial routes are pruned as soon as they exceed the step limit or the
// budget, so the cost stays bounded by what the player can afford.
func (b *Board) PossibleMoves(from, to string, p player.ID, budget, minSteps, maxSteps int) ([]Route, error) {
	fi, err := b.index(from)
	if err != nil {
		return nil, err
	}
	ti, err := b.index(to)
	if err != nil {
		return nil, err
	}
	if fi == ti || ti == b.start || !b.counts(ti) || maxSteps < minSteps {
		return nil, nil
	}

	w := &walker{
		board:   b,
		to:      ti,
		player:  p,
		budget:  budget,
		min:     minSteps,
		max:     maxSteps,
		visited: make([]bool, len(b.locations)),
		fees:    make(map[player.ID]int),
		seen:    make(map[string]struct{}),
	}
	w.visited[fi] = true
	w.walk(fi, 0, 0)

	sort.Slice(w.routes, func(i, j int) bool {
		if w.routes[i].Steps != w.routes[j].Steps {
			return w.routes[i].Steps < w.routes[j].Steps
		}
		return strings.Join(w.routes[i].Path, ">") < strings.Join(w.routes[j].Path, ">")
	})
	return w.routes, nil
}

type walker struct {
	board    *Board
	to       int
	player   player.ID
	budget   int
	min, max int
	path     []int
	visited  []bool
	fees     map[player.ID]int
	seen     map[string]struct{}
	routes   []Route
}

func (w *walker) walk(at, steps, cost int) {
	for _, next := range w.board.locations[at].Next {
		if w.visited[next] {
			continue
		}
		s := steps
		if w.board.counts(next) {
			s++
		}
		if s > w.max {
			continue
		}
		owner, toll := w.board.toll(next, w.player)
		if cost+toll > w.budget {
			continue
		}

		w.visited[next] = true
		w.path = append(w.path, next)
		if owner != "" {
			w.fees[owner] += toll
		}

		if next == w.to {
			if s >= w.min {
				w.emit(s, cost+toll)
			}
		} else {
			w.walk(next, s, cost+toll)
		}

		if owner != "" {
			w.fees[owner] -= toll
			if w.fees[owner] == 0 {
				delete(w.fees, owner)
			}
		}
		w.path = w.path[:len(w.path)-1]
		w.visited[next] = false
	}
}

func (w *walker) emit(steps, cost int) {
	names := make([]string, len(w.path))
	for i, id := range w.path {
		names[i] = w.board.locations[id].Name
	}
	key := strings.Join(names, ">")
	if _, dup := w.seen[key]; dup {
		return
	}
	w.seen[key] = struct{}{}

	fees := make(map[player.ID]int, len(w.fees))
	for p, f := range w.fees {
		fees[p] = f
	}
	w.routes = append(w.routes, Route{Path: names, Steps: steps, Cost: cost, Fees: fees})
}

// Reachable lists every location a player could stop at from a location
// within maxSteps, ignoring tolls. Used for quick previews of a move.
func (b *Board) Reachable(from string, maxSteps int) ([]string, error) {
	fi, err := b.index(from)
	if err != nil {
		return nil, err
	}
	found := make(map[int]struct{})
	var walk func(at, steps int)
	walk = func(at, steps int) {
		for _, next := range b.locations[at].Next {
			s := steps
			if b.counts(next) {
				s++
			}
			if s > maxSteps {
				continue
			}
			if b.counts(next) {
				found[next] = struct{}{}
			}
			walk(next, s)
		}
	}
	walk(fi, 0)

	out := make([]string, 0, len(found))
	for id := range found {
		out = append(out, b.locations[id].Name)
	}
	sort.Strings(out)
	return out, nil
}
