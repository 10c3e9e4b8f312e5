package track

import (
	"testing"

	"cattletrail/errs"
	"cattletrail/obligation"

	"github.com/stretchr/testify/require"
)

func cities(deliveries []PossibleDelivery) []City {
	out := make([]City, len(deliveries))
	for i, d := range deliveries {
		out[i] = d.City
	}
	return out
}

func TestPossibleDeliveries(t *testing.T) {
	t.Run("cities up to hand value plus certificates qualify", func(t *testing.T) {
		tr := newTrack(t)

		deliveries := tr.PossibleDeliveries(playerA, 5, 1)

		require.Equal(t, []City{KansasCity, Topeka, Wichita, ColoradoSprings}, cities(deliveries))
		require.Equal(t, PossibleDelivery{City: ColoradoSprings, Certificates: 1, Reward: 2}, deliveries[3])
		require.Equal(t, PossibleDelivery{City: Wichita, Certificates: 0, Reward: 4}, deliveries[2])
	})

	t.Run("certificates are capped", func(t *testing.T) {
		tr := newTrack(t)

		deliveries := tr.PossibleDeliveries(playerA, 5, 20)

		require.Equal(t, Albuquerque, deliveries[len(deliveries)-1].City)
	})

	t.Run("passed signals lower the transport cost", func(t *testing.T) {
		tr := newTrack(t)
		put(t, tr, playerA, "18")

		deliveries := tr.PossibleDeliveries(playerA, 18, 0)

		last := deliveries[len(deliveries)-1]
		require.Equal(t, SanFrancisco, last.City)
		require.Equal(t, 18, last.Reward)
	})

	t.Run("single-use cities disappear once delivered", func(t *testing.T) {
		tr := newTrack(t)
		_, err := tr.Deliver(playerA, Topeka)
		require.NoError(t, err)
		_, err = tr.Deliver(playerA, KansasCity)
		require.NoError(t, err)

		deliveries := tr.PossibleDeliveries(playerA, 5, 0)

		require.Equal(t, []City{KansasCity, Wichita}, cities(deliveries))
		require.Equal(t, []City{KansasCity, Topeka, Wichita}, cities(tr.PossibleDeliveries(playerB, 5, 0)))
	})
}

func TestDeliver(t *testing.T) {
	t.Run("a single-use city rejects a second delivery", func(t *testing.T) {
		tr := newTrack(t)
		_, err := tr.Deliver(playerA, SantaFe)
		require.NoError(t, err)

		_, err = tr.Deliver(playerA, SantaFe)

		require.ErrorIs(t, err, errs.ErrAlreadyDelivered)
		require.Equal(t, 1, tr.Deliveries(playerA, SantaFe))
	})

	t.Run("multi-delivery cities accept repeats", func(t *testing.T) {
		tr := newTrack(t)

		for i := 0; i < 3; i++ {
			_, err := tr.Deliver(playerA, SanFrancisco)
			require.NoError(t, err)
		}

		require.Equal(t, 3, tr.Deliveries(playerA, SanFrancisco))
		require.Equal(t, 27, tr.Score(playerA))
	})

	t.Run("completing a city pair earns an objective card", func(t *testing.T) {
		tr := newTrack(t)
		followUps, err := tr.Deliver(playerA, Topeka)
		require.NoError(t, err)
		require.Empty(t, followUps)

		followUps, err = tr.Deliver(playerA, Wichita)

		require.NoError(t, err)
		require.Len(t, followUps, 1)
		require.Equal(t, []obligation.Kind{TakeObjectiveCard}, followUps[0].PossibleActions())
		require.False(t, followUps[0].Skippable())
	})

	t.Run("santa fe pairs with both neighbours", func(t *testing.T) {
		tr := newTrack(t)
		_, err := tr.Deliver(playerA, ColoradoSprings)
		require.NoError(t, err)
		_, err = tr.Deliver(playerA, Albuquerque)
		require.NoError(t, err)

		followUps, err := tr.Deliver(playerA, SantaFe)

		require.NoError(t, err)
		require.Len(t, followUps, 2)
	})

	t.Run("unknown cities are rejected", func(t *testing.T) {
		tr := newTrack(t)

		_, err := tr.Deliver(playerA, City("DENVER"))

		require.ErrorIs(t, err, errs.ErrInvalidMove)
	})
}

func TestScore(t *testing.T) {
	tr := newTrack(t)
	for _, city := range []City{KansasCity, Topeka, Wichita, Albuquerque, ElPaso, SanDiego, Sacramento} {
		_, err := tr.Deliver(playerA, city)
		require.NoError(t, err)
	}

	// -6 kansas city, -3 topeka+wichita, +6 albuquerque+el paso, +8 el paso+san diego,
	// +4 san diego+sacramento, +6 sacramento
	require.Equal(t, 15, tr.Score(playerA))
	require.Equal(t, []City{KansasCity, Topeka, Wichita, Albuquerque, ElPaso, SanDiego, Sacramento}, tr.DeliveredCities(playerA))
	require.Zero(t, tr.Score(playerB))
}
