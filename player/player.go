// Package player holds per-player state: money, workers, certificates and the
// herd a player delivers from.
package player

import (
	"sort"
	"strconv"

	"cattletrail/errs"
)

// ID identifies a player. It is a stable external identifier.
type ID string

const (
	StartingCowboys = 1
	MaxCertificates = 6
)

// StartingHerd is the breeding value of each cattle type a player starts with.
var StartingHerd = map[string]int{
	"JERSEY":      1,
	"GUERNSEY":    2,
	"BLACK_ANGUS": 2,
	"DUTCH_BELT":  3,
}

// State is one player's resources.
type State struct {
	ID           ID             `yaml:"id"`
	Balance      int            `yaml:"balance"`
	Cowboys      int            `yaml:"cowboys"`
	Certificates int            `yaml:"certificates"`
	Herd         map[string]int `yaml:"herd"` // Cattle type -> breeding value
	CattlePoints int            `yaml:"cattlePoints"`
	Objectives   int            `yaml:"objectives"`
	Hazards      []string       `yaml:"hazards,omitempty"`
	Teepees      []string       `yaml:"teepees,omitempty"`
	Deliveries   int            `yaml:"deliveries"`
}

// New creates the starting state of a player.
func New(id ID, balance int) *State {
	herd := make(map[string]int, len(StartingHerd))
	for t, v := range StartingHerd {
		herd[t] = v
	}
	return &State{
		ID:         id,
		Balance:    balance,
		Cowboys:    StartingCowboys,
		Herd:       herd,
		Objectives: 1,
	}
}

// HandValue is the sum of the breeding values of the distinct cattle types in
// the herd.
func (s *State) HandValue() int {
	v := 0
	for _, value := range s.Herd {
		v += value
	}
	return v
}

// AddCattle adds a bought card to the herd.
func (s *State) AddCattle(cattleType string, value, points int) {
	s.Herd[cattleType] = value
	s.CattlePoints += points
}

func (s *State) GainDollars(amount int) {
	s.Balance += amount
}

// CanPay fails with InsufficientFunds if the balance does not cover amount.
func (s *State) CanPay(amount int) error {
	if amount > s.Balance {
		return errs.WithMetadata(errs.CodeInsufficientFunds, "insufficient funds",
			map[string]string{"player": string(s.ID), "amount": strconv.Itoa(amount), "balance": strconv.Itoa(s.Balance)})
	}
	return nil
}

// PayDollars takes dollars from the balance, failing without change if the
// balance does not cover it.
func (s *State) PayDollars(amount int) error {
	if err := s.CanPay(amount); err != nil {
		return err
	}
	s.Balance -= amount
	return nil
}

// GainCertificates adds certificates up to MaxCertificates.
func (s *State) GainCertificates(n int) {
	s.Certificates = min(MaxCertificates, s.Certificates+n)
}

func (s *State) SpendCertificates(n int) error {
	if n > s.Certificates {
		return errs.WithMetadata(errs.CodeNotEnoughResource, "not enough certificates",
			map[string]string{"player": string(s.ID), "certificates": strconv.Itoa(s.Certificates)})
	}
	s.Certificates -= n
	return nil
}

// Copy returns a deep copy.
func (s *State) Copy() *State {
	c := *s
	c.Herd = make(map[string]int, len(s.Herd))
	for t, v := range s.Herd {
		c.Herd[t] = v
	}
	c.Hazards = append([]string(nil), s.Hazards...)
	c.Teepees = append([]string(nil), s.Teepees...)
	return &c
}

// HerdTypes returns the cattle types in the herd, sorted.
func (s *State) HerdTypes() []string {
	out := make([]string, 0, len(s.Herd))
	for t := range s.Herd {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
