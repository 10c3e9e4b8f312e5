package track

import (
	"strconv"

	"cattletrail/player"
)

// Space is one position of the railroad track. Spaces live in the track's
// arena and refer to their neighbours by index.
type Space struct {
	Name    string // "0".."39", or "n.5" for the turnout between n and n+1
	Number  int    // Integer part of the name
	Turnout bool
	Signal  bool
	Station int // Index into the track's stations, -1 when none
	Next    []int
	Prev    []int
}

func turnoutName(n int) string {
	return strconv.Itoa(n) + ".5"
}

// ceil returns the smallest whole space number at or after the space.
func (s Space) ceil() int {
	if s.Turnout {
		return s.Number + 1
	}
	return s.Number
}

// Station can be upgraded once by each player.
type Station struct {
	Cost     int
	Points   int
	Master   string // Station master tile, empty when none
	Upgraded map[player.ID]struct{}
}

func (s Station) copy() Station {
	c := s
	c.Upgraded = make(map[player.ID]struct{}, len(s.Upgraded))
	for p := range s.Upgraded {
		c.Upgraded[p] = struct{}{}
	}
	return c
}
