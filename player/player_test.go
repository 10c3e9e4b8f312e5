package player

import (
	"testing"

	"cattletrail/errs"

	"github.com/stretchr/testify/require"
)

func TestState(t *testing.T) {
	t.Run("a new player starts with the basic herd", func(t *testing.T) {
		s := New("alice", 6)

		require.Equal(t, 6, s.Balance)
		require.Equal(t, StartingCowboys, s.Cowboys)
		require.Equal(t, 8, s.HandValue())
		require.Equal(t, []string{"BLACK_ANGUS", "DUTCH_BELT", "GUERNSEY", "JERSEY"}, s.HerdTypes())
	})

	t.Run("a failed payment changes nothing", func(t *testing.T) {
		s := New("alice", 3)

		err := s.PayDollars(4)

		require.ErrorIs(t, err, errs.ErrInsufficientFunds)
		require.Equal(t, "4", err.(*errs.Error).Metadata["amount"])
		require.Equal(t, 3, s.Balance)
		require.NoError(t, s.PayDollars(3))
		require.Zero(t, s.Balance)
	})

	t.Run("only distinct cattle types count towards the hand", func(t *testing.T) {
		s := New("alice", 0)

		s.AddCattle("JERSEY", 1, 0)
		s.AddCattle("TEXAS_LONGHORN", 5, 5)

		require.Equal(t, 13, s.HandValue())
		require.Equal(t, 5, s.CattlePoints)
	})

	t.Run("certificates are capped", func(t *testing.T) {
		s := New("alice", 0)

		s.GainCertificates(MaxCertificates + 2)
		require.Equal(t, MaxCertificates, s.Certificates)

		require.NoError(t, s.SpendCertificates(2))
		require.ErrorIs(t, s.SpendCertificates(MaxCertificates), errs.ErrNotEnoughResource)
		require.Equal(t, MaxCertificates-2, s.Certificates)
	})

	t.Run("copies do not share the herd or tiles", func(t *testing.T) {
		s := New("alice", 0)
		s.Hazards = []string{"FLOOD-1"}
		c := s.Copy()

		c.AddCattle("AYRSHIRE", 3, 1)
		c.Hazards[0] = "DROUGHT-1"

		require.Len(t, s.Herd, 4)
		require.Equal(t, []string{"FLOOD-1"}, s.Hazards)
	})
}
