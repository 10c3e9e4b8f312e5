package market

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed schedule.yaml
var defaultSchedule []byte

// Entry prices buying Quantity cards of one tier with Cowboys cowboys.
type Entry struct {
	Tier     int `yaml:"tier"`
	Quantity int `yaml:"quantity"`
	Dollars  int `yaml:"dollars"`
	Cowboys  int `yaml:"cowboys"`
}

// Schedule is the full price list. Its values are game data, not derived.
type Schedule []Entry

// LoadSchedule parses a YAML price schedule.
func LoadSchedule(data []byte) (Schedule, error) {
	var s Schedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}
	for i, e := range s {
		if e.Quantity != 1 && e.Quantity != 2 {
			return nil, fmt.Errorf("schedule entry %d: quantity must be 1 or 2, got %d", i, e.Quantity)
		}
		if e.Cowboys < 1 || e.Dollars < 0 {
			return nil, fmt.Errorf("schedule entry %d: invalid price %d/%d", i, e.Dollars, e.Cowboys)
		}
	}
	sort.SliceStable(s, func(i, j int) bool { return s[i].less(s[j]) })
	return s, nil
}

// DefaultSchedule returns the standard price schedule.
func DefaultSchedule() (Schedule, error) {
	return LoadSchedule(defaultSchedule)
}

func (e Entry) less(o Entry) bool {
	if e.Tier != o.Tier {
		return e.Tier < o.Tier
	}
	if e.Quantity != o.Quantity {
		return e.Quantity < o.Quantity
	}
	if e.Cowboys != o.Cowboys {
		return e.Cowboys < o.Cowboys
	}
	return e.Dollars < o.Dollars
}

// entries returns the entries for a tier and quantity.
func (s Schedule) entries(tier, quantity int) []Entry {
	var out []Entry
	for _, e := range s {
		if e.Tier == tier && e.Quantity == quantity {
			out = append(out, e)
		}
	}
	return out
}

// MinCowboys is the fewest cowboys that can buy quantity cards of tier.
func (s Schedule) MinCowboys(tier, quantity int) (int, bool) {
	found := false
	least := 0
	for _, e := range s.entries(tier, quantity) {
		if !found || e.Cowboys < least {
			least, found = e.Cowboys, true
		}
	}
	return least, found
}
