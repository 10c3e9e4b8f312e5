package market

import (
	"testing"

	"cattletrail/errs"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func schedule(t *testing.T) Schedule {
	t.Helper()
	s, err := DefaultSchedule()
	require.NoError(t, err)
	return s
}

func tierThree(t *testing.T) *Market {
	t.Helper()
	var cards []Card
	for i := 0; i < 6; i++ {
		cards = append(cards, Card{ID: i, Type: "HOLSTEIN", Value: 3, Points: 1})
	}
	return FromCards(schedule(t), cards...)
}

func TestCost(t *testing.T) {
	t.Run("price drops with more cowboys", func(t *testing.T) {
		m := tierThree(t)

		single1, err := m.Cost([]int{0}, 1)
		require.NoError(t, err)
		single2, err := m.Cost([]int{0}, 2)
		require.NoError(t, err)
		pair2, err := m.Cost([]int{0, 1}, 2)
		require.NoError(t, err)
		pair3, err := m.Cost([]int{0, 1}, 3)
		require.NoError(t, err)

		require.Equal(t, 6, single1)
		require.Equal(t, 3, single2)
		require.Equal(t, 12, pair2)
		require.Equal(t, 5, pair3)
	})

	t.Run("below the minimum cowboys the buy is impossible", func(t *testing.T) {
		m := tierThree(t)

		_, err := m.Cost([]int{0}, 0)

		require.ErrorIs(t, err, errs.ErrNotEnoughResource)
		md := err.(*errs.Error).Metadata
		require.Equal(t, "3", md["tier"])
		require.Equal(t, "1", md["quantity"])
		require.Equal(t, "1", md["minCowboys"])
	})

	t.Run("pairs need more cowboys than singles", func(t *testing.T) {
		m := tierThree(t)

		_, err := m.Cost([]int{0, 1}, 1)

		require.ErrorIs(t, err, errs.ErrNotEnoughResource)
	})

	t.Run("mixed tiers are not one selection", func(t *testing.T) {
		m := FromCards(schedule(t),
			Card{ID: 1, Type: "HOLSTEIN", Value: 3},
			Card{ID: 2, Type: "WEST_HIGHLAND", Value: 4},
		)

		_, err := m.Cost([]int{1, 2}, 6)

		require.ErrorIs(t, err, errs.ErrInvalidSelection)
	})

	t.Run("cards must be in the market", func(t *testing.T) {
		m := tierThree(t)

		_, err := m.Cost([]int{42}, 2)

		require.ErrorIs(t, err, errs.ErrCardNotAvailable)
	})

	t.Run("a card cannot be selected twice", func(t *testing.T) {
		m := tierThree(t)

		_, err := m.Cost([]int{1, 1}, 3)

		require.ErrorIs(t, err, errs.ErrInvalidSelection)
	})
}

func TestPossibleBuys(t *testing.T) {
	t.Run("buys follow the schedule for the tiers on offer", func(t *testing.T) {
		m := tierThree(t)

		buys := m.PossibleBuys(2, 12)

		require.Equal(t, []PossibleBuy{
			{Tier: 3, Dollars: 6, Cowboys: 1},
			{Tier: 3, Dollars: 3, Cowboys: 2},
			{Tier: 3, Pair: true, Dollars: 12, Cowboys: 2},
		}, buys)
		require.Equal(t, "3/2", buys[2].Key())
	})

	t.Run("no cowboys or too little money buys nothing", func(t *testing.T) {
		m := tierThree(t)

		require.Empty(t, m.PossibleBuys(0, 100))
		require.Empty(t, m.PossibleBuys(6, 2))
	})

	t.Run("a single card of a tier is never offered as a pair", func(t *testing.T) {
		m := FromCards(schedule(t), Card{ID: 1, Type: "TEXAS_LONGHORN", Value: 5, Points: 5})

		buys := m.PossibleBuys(6, 100)

		require.Len(t, buys, 2)
		for _, b := range buys {
			require.False(t, b.Pair)
		}
	})

	t.Run("asking twice gives the same answer", func(t *testing.T) {
		m, err := New(3, false, rand.New(rand.NewSource(2)))
		require.NoError(t, err)
		available := m.Available()

		first := m.PossibleBuys(3, 20)
		second := m.PossibleBuys(3, 20)

		require.Equal(t, first, second)
		require.Equal(t, available, m.Available())
		require.Equal(t, len(CattleSet(3, false))-Limit(3, false), m.DrawStackSize())
	})

	t.Run("more cowboys or money never removes options", func(t *testing.T) {
		m, err := New(4, true, rand.New(rand.NewSource(3)))
		require.NoError(t, err)

		for cowboys := 0; cowboys <= 7; cowboys++ {
			for budget := 0; budget <= 25; budget++ {
				buys := m.PossibleBuys(cowboys, budget)
				require.Subset(t, m.PossibleBuys(cowboys, budget+1), buys)
				require.Subset(t, m.PossibleBuys(cowboys+1, budget), buys)
			}
		}
	})
}

func TestBuy(t *testing.T) {
	t.Run("a successful buy removes the cards", func(t *testing.T) {
		m := tierThree(t)

		price, bought, err := m.Buy([]int{0, 1}, 3, 10)

		require.NoError(t, err)
		require.Equal(t, Price{Dollars: 5, Cowboys: 3}, price)
		require.Len(t, bought, 2)
		require.Len(t, m.Available(), 4)
	})

	t.Run("an unaffordable buy fails without removing cards", func(t *testing.T) {
		m := tierThree(t)

		_, _, err := m.Buy([]int{0}, 1, 5)

		require.ErrorIs(t, err, errs.ErrInsufficientFunds)
		require.Len(t, m.Available(), 6)
	})

	t.Run("an impossible buy reports the resource not the money", func(t *testing.T) {
		m := tierThree(t)

		_, _, err := m.Buy([]int{0}, 0, 0)

		require.ErrorIs(t, err, errs.ErrNotEnoughResource)
	})
}

func TestFillUp(t *testing.T) {
	t.Run("a new market is at its limit", func(t *testing.T) {
		for players, limit := range map[int]int{2: 7, 3: 10, 4: 13} {
			m, err := New(players, false, rand.New(rand.NewSource(1)))
			require.NoError(t, err)

			require.Len(t, m.Available(), limit)
			require.Equal(t, len(CattleSet(players, false))-limit, m.DrawStackSize())
		}
	})

	t.Run("the simmental variant shows more cards", func(t *testing.T) {
		m, err := New(2, true, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		require.Len(t, m.Available(), 9)
	})

	t.Run("bought cards are replaced from the draw stack", func(t *testing.T) {
		m, err := New(2, false, rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		stack := m.DrawStackSize()
		first := m.Available()[0]

		_, _, err = m.Buy([]int{first.ID}, 6, 100)
		require.NoError(t, err)
		m.FillUp()

		require.Len(t, m.Available(), 7)
		require.Equal(t, stack-1, m.DrawStackSize())
	})

	t.Run("filling stops when the stack runs out", func(t *testing.T) {
		m := tierThree(t)
		_, _, err := m.Buy([]int{0}, 2, 10)
		require.NoError(t, err)

		m.FillUp()

		require.Len(t, m.Available(), 5)
		_, ok := m.Draw()
		require.False(t, ok)
	})

	t.Run("the draw stack is drawn from its end", func(t *testing.T) {
		x := Card{ID: 7, Type: "HOLSTEIN", Value: 3, Points: 1}
		y := Card{ID: 8, Type: "AYRSHIRE", Value: 3, Points: 3}
		m := FromCards(schedule(t)).WithDrawStack(x, y)

		stack := m.DrawStack()
		stack[0] = y
		c, ok := m.Draw()

		require.True(t, ok)
		require.Equal(t, y, c)
		require.Equal(t, []Card{x}, m.DrawStack())
	})

	t.Run("the same seed deals the same market", func(t *testing.T) {
		a, err := New(3, false, rand.New(rand.NewSource(5)))
		require.NoError(t, err)
		b, err := New(3, false, rand.New(rand.NewSource(5)))
		require.NoError(t, err)

		require.Equal(t, a.Available(), b.Available())
	})
}

func TestCattleSet(t *testing.T) {
	count := func(cards []Card, cattleType string) int {
		n := 0
		for _, c := range cards {
			if c.Type == cattleType {
				n++
			}
		}
		return n
	}

	two := CattleSet(2, false)
	four := CattleSet(4, true)

	require.Equal(t, 4, count(two, "HOLSTEIN"))
	require.Equal(t, 5, count(two, "WEST_HIGHLAND"))
	require.Equal(t, 4, count(two, "TEXAS_LONGHORN"))
	require.Zero(t, count(two, "SIMMENTAL"))
	require.Equal(t, 7, count(four, "AYRSHIRE"))
	require.Equal(t, 9, count(four, "WEST_HIGHLAND"))
	require.Equal(t, 8, count(four, "SIMMENTAL"))
}
