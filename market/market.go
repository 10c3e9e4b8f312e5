// Package market prices and sells cattle cards from the cattle market.
package market

import (
	"fmt"
	"sort"
	"strconv"

	"cattletrail/errs"

	"golang.org/x/exp/rand"
)

// Card is a cattle card. Value is its breeding value, which is also its tier.
type Card struct {
	ID     int    `yaml:"id"`
	Type   string `yaml:"type"`
	Value  int    `yaml:"value"`
	Points int    `yaml:"points"`
}

// PossibleBuy is one way of buying from the market: a single card or a pair
// of one tier, for a price in dollars and cowboys.
type PossibleBuy struct {
	Tier    int
	Pair    bool
	Dollars int
	Cowboys int
}

func (b PossibleBuy) Quantity() int {
	if b.Pair {
		return 2
	}
	return 1
}

// Key is the stable "tier/quantity" identifier of the buy.
func (b PossibleBuy) Key() string {
	return strconv.Itoa(b.Tier) + "/" + strconv.Itoa(b.Quantity())
}

// Price is what a purchase costs.
type Price struct {
	Dollars int
	Cowboys int
}

// Market is the face-up cattle market and its draw stack.
type Market struct {
	schedule  Schedule
	limit     int
	available []Card
	stack     []Card // Next card to draw last
}

// Limit is the number of face-up cards for a player count.
func Limit(playerCount int, simmental bool) int {
	limit := 13
	switch playerCount {
	case 2:
		limit = 7
	case 3:
		limit = 10
	}
	if simmental {
		limit += 2
	}
	return limit
}

// New creates the market for a player count, shuffles the cattle set with rnd
// and fills the market up.
func New(playerCount int, simmental bool, rnd *rand.Rand) (*Market, error) {
	schedule, err := DefaultSchedule()
	if err != nil {
		return nil, err
	}
	stack := CattleSet(playerCount, simmental)
	rnd.Shuffle(len(stack), func(i, j int) { stack[i], stack[j] = stack[j], stack[i] })

	m := &Market{schedule: schedule, limit: Limit(playerCount, simmental), stack: stack}
	m.FillUp()
	return m, nil
}

// FromCards creates a market showing exactly the given cards, with an empty
// draw stack.
func FromCards(schedule Schedule, cards ...Card) *Market {
	return &Market{schedule: schedule, limit: len(cards), available: append([]Card(nil), cards...)}
}

// WithDrawStack replaces the draw stack. The last card is drawn first.
func (m *Market) WithDrawStack(cards ...Card) *Market {
	m.stack = append([]Card(nil), cards...)
	return m
}

// CattleSet returns the cattle cards used for a player count, in a fixed order.
func CattleSet(playerCount int, simmental bool) []Card {
	common, rare, longhorn := 4, 1, 2
	switch playerCount {
	case 2:
		longhorn = 1
	case 3:
		common, rare = 5, 2
	case 4:
		common, rare = 7, 3
	}

	var cards []Card
	add := func(n int, cattleType string, value, points int) {
		for i := 0; i < n; i++ {
			cards = append(cards, Card{ID: len(cards), Type: cattleType, Value: value, Points: points})
		}
	}
	add(common, "HOLSTEIN", 3, 1)
	add(common, "BROWN_SWISS", 3, 2)
	add(common, "AYRSHIRE", 3, 3)
	add(rare, "WEST_HIGHLAND", 4, 3)
	add(3, "WEST_HIGHLAND", 4, 4)
	add(rare, "WEST_HIGHLAND", 4, 5)
	add(longhorn, "TEXAS_LONGHORN", 5, 5)
	if playerCount == 3 {
		add(1, "TEXAS_LONGHORN", 5, 6)
	} else {
		add(2, "TEXAS_LONGHORN", 5, 6)
	}
	add(longhorn, "TEXAS_LONGHORN", 5, 7)
	if simmental {
		switch playerCount {
		case 4:
			add(8, "SIMMENTAL", 2, 3)
		case 3:
			add(6, "SIMMENTAL", 2, 3)
		default:
			add(5, "SIMMENTAL", 2, 3)
		}
	}
	return cards
}

// Available returns the face-up cards ordered by tier, then ID.
func (m *Market) Available() []Card {
	out := append([]Card(nil), m.available...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value < out[j].Value
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// DrawStackSize is the number of cards left to draw.
func (m *Market) DrawStackSize() int {
	return len(m.stack)
}

// DrawStack returns a copy of the draw stack. The next card to draw is last.
func (m *Market) DrawStack() []Card {
	return append([]Card(nil), m.stack...)
}

// Limit is the number of face-up cards FillUp tops the market up to.
func (m *Market) Limit() int {
	return m.limit
}

// Draw turns the top card of the draw stack face up.
func (m *Market) Draw() (Card, bool) {
	if len(m.stack) == 0 {
		return Card{}, false
	}
	c := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	m.available = append(m.available, c)
	return c, true
}

// FillUp draws until the market is at its limit or the draw stack runs out.
func (m *Market) FillUp() {
	for len(m.available) < m.limit {
		if _, ok := m.Draw(); !ok {
			return
		}
	}
}

func (m *Market) tiers() map[int]int {
	counts := make(map[int]int)
	for _, c := range m.available {
		counts[c.Value]++
	}
	return counts
}

// PossibleBuys lists every purchase the schedule allows with the given
// cowboys and budget. Each buy covers a single tier.
func (m *Market) PossibleBuys(cowboys, budget int) []PossibleBuy {
	counts := m.tiers()
	var out []PossibleBuy
	for _, e := range m.schedule {
		if counts[e.Tier] < e.Quantity || e.Cowboys > cowboys || e.Dollars > budget {
			continue
		}
		out = append(out, PossibleBuy{Tier: e.Tier, Pair: e.Quantity == 2, Dollars: e.Dollars, Cowboys: e.Cowboys})
	}
	return out
}

// selection validates a set of card IDs and returns their tier.
func (m *Market) selection(ids []int) (int, error) {
	if len(ids) == 0 || len(ids) > 2 {
		return 0, errs.WithMetadata(errs.CodeInvalidSelection,
			fmt.Sprintf("select 1 or 2 cards, got %d", len(ids)),
			map[string]string{"quantity": strconv.Itoa(len(ids))})
	}
	if len(ids) == 2 && ids[0] == ids[1] {
		return 0, errs.WithMetadata(errs.CodeInvalidSelection, "card selected twice",
			map[string]string{"card": strconv.Itoa(ids[0])})
	}

	tier := 0
	for _, id := range ids {
		c, ok := m.card(id)
		if !ok {
			return 0, errs.WithMetadata(errs.CodeCardNotAvailable, "card not in market: "+strconv.Itoa(id),
				map[string]string{"card": strconv.Itoa(id)})
		}
		if tier != 0 && c.Value != tier {
			return 0, errs.WithMetadata(errs.CodeInvalidSelection, "cards of different tiers",
				map[string]string{"tiers": strconv.Itoa(tier) + "," + strconv.Itoa(c.Value)})
		}
		tier = c.Value
	}
	return tier, nil
}

func (m *Market) card(id int) (Card, bool) {
	for _, c := range m.available {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Cost is the fewest dollars needed to buy the selected cards with at most
// the given cowboys.
func (m *Market) Cost(ids []int, cowboys int) (int, error) {
	p, err := m.price(ids, cowboys)
	return p.Dollars, err
}

func (m *Market) price(ids []int, cowboys int) (Price, error) {
	tier, err := m.selection(ids)
	if err != nil {
		return Price{}, err
	}

	found := false
	var best Price
	for _, e := range m.schedule.entries(tier, len(ids)) {
		if e.Cowboys > cowboys {
			continue
		}
		p := Price{Dollars: e.Dollars, Cowboys: e.Cowboys}
		if !found || p.Dollars < best.Dollars || (p.Dollars == best.Dollars && p.Cowboys < best.Cowboys) {
			best, found = p, true
		}
	}
	if !found {
		md := map[string]string{
			"tier":     strconv.Itoa(tier),
			"quantity": strconv.Itoa(len(ids)),
			"cowboys":  strconv.Itoa(cowboys),
		}
		if least, ok := m.schedule.MinCowboys(tier, len(ids)); ok {
			md["minCowboys"] = strconv.Itoa(least)
		}
		return Price{}, errs.WithMetadata(errs.CodeNotEnoughResource,
			fmt.Sprintf("not enough cowboys to buy %d of tier %d with %d", len(ids), tier, cowboys), md)
	}
	return best, nil
}

// Buy removes the selected cards from the market if the player has the
// cowboys and the balance to pay for them.
func (m *Market) Buy(ids []int, cowboys, balance int) (Price, []Card, error) {
	p, err := m.price(ids, cowboys)
	if err != nil {
		return Price{}, nil, err
	}
	if p.Dollars > balance {
		return Price{}, nil, errs.WithMetadata(errs.CodeInsufficientFunds,
			fmt.Sprintf("buying costs %d, balance is %d", p.Dollars, balance),
			map[string]string{"dollars": strconv.Itoa(p.Dollars), "balance": strconv.Itoa(balance)})
	}

	bought := make([]Card, 0, len(ids))
	for _, id := range ids {
		for i, c := range m.available {
			if c.ID == id {
				bought = append(bought, c)
				m.available = append(m.available[:i], m.available[i+1:]...)
				break
			}
		}
	}
	return p, bought, nil
}

// Copy returns a deep copy of the market.
func (m *Market) Copy() *Market {
	c := *m
	c.available = append([]Card(nil), m.available...)
	c.stack = append([]Card(nil), m.stack...)
	return &c
}
