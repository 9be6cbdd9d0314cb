package power

import (
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/require"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/storage"
)

func newTestRegistry(t *testing.T) (*storage.LevelDBBackend, *Registry) {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)

	r, err := NewRegistry(st, 0)
	require.NoError(t, err)

	return st, r
}

func TestRegistryCheckpoints(t *testing.T) {
	st, r := newTestRegistry(t)
	defer st.Close()

	a := keypair.Master("showme").Address()
	b := keypair.Master("findme").Address()

	require.NoError(t, r.SetPower(a, 10, 100))
	require.NoError(t, r.SetPower(b, 20, 50))
	require.NoError(t, r.SetPower(a, 30, 10))

	cases := []struct {
		height uint64
		a      common.Power
		b      common.Power
		total  common.Power
	}{
		{0, 0, 0, 0},
		{9, 0, 0, 0},
		{10, 100, 0, 100},
		{19, 100, 0, 100},
		{20, 100, 50, 150},
		{30, 10, 50, 60},
		{1000, 10, 50, 60},
	}

	for _, c := range cases {
		p, err := r.VotingPowerAt(a, c.height)
		require.NoError(t, err)
		require.Equal(t, c.a, p, "height %d", c.height)

		p, err = r.VotingPowerAt(b, c.height)
		require.NoError(t, err)
		require.Equal(t, c.b, p, "height %d", c.height)

		p, err = r.TotalVotingPowerAt(c.height)
		require.NoError(t, err)
		require.Equal(t, c.total, p, "height %d", c.height)
	}
}

func TestRegistryCacheIsPurged(t *testing.T) {
	st, r := newTestRegistry(t)
	defer st.Close()

	a := keypair.Master("showme").Address()

	p, err := r.VotingPowerAt(a, 50)
	require.NoError(t, err)
	require.Equal(t, common.Power(0), p)

	require.NoError(t, r.SetPower(a, 40, 7))

	p, err = r.VotingPowerAt(a, 50)
	require.NoError(t, err)
	require.Equal(t, common.Power(7), p)
}

func TestRegistrySetPowerInvalid(t *testing.T) {
	st, r := newTestRegistry(t)
	defer st.Close()

	a := keypair.Master("showme").Address()

	require.True(t, errors.Is(r.SetPower("showme", 1, 1), errors.InvalidAddress))

	require.NoError(t, r.SetPower(a, 10, 1))
	require.True(t, errors.Is(r.SetPower(a, 9, 1), errors.StaleCheckpoint))

	// same height replaces the checkpoint
	require.NoError(t, r.SetPower(a, 10, 3))
	p, err := r.TotalVotingPowerAt(10)
	require.NoError(t, err)
	require.Equal(t, common.Power(3), p)

	require.NoError(t, r.SetPower(keypair.Master("findme").Address(), 11, common.MaximumPower-3))
	err = r.SetPower(keypair.Master("killme").Address(), 12, 1)
	require.True(t, errors.Is(err, errors.Overflow))
}

func TestRegistrySeal(t *testing.T) {
	st, r := newTestRegistry(t)
	defer st.Close()

	a := keypair.Master("showme").Address()
	require.NoError(t, r.SetPower(a, 10, 1))

	require.NoError(t, r.Seal(st, 15))
	require.True(t, errors.Is(r.SetPower(a, 15, 100), errors.StaleCheckpoint))
	require.True(t, errors.Is(r.SetPower(a, 12, 100), errors.StaleCheckpoint))

	// the sealed height does not go down
	require.NoError(t, r.Seal(st, 5))
	require.True(t, errors.Is(r.SetPower(a, 15, 100), errors.StaleCheckpoint))

	p, err := r.TotalVotingPowerAt(15)
	require.NoError(t, err)
	require.Equal(t, common.Power(1), p)

	require.NoError(t, r.SetPower(a, 16, 100))
	p, err = r.TotalVotingPowerAt(16)
	require.NoError(t, err)
	require.Equal(t, common.Power(100), p)

	var sealed uint64
	require.NoError(t, st.Get(SealedHeightKey, &sealed))
	require.Equal(t, uint64(15), sealed)
}

func TestRegistrySealInTransaction(t *testing.T) {
	st, r := newTestRegistry(t)
	defer st.Close()

	a := keypair.Master("showme").Address()

	ts, err := st.OpenTransaction()
	require.NoError(t, err)
	require.NoError(t, r.Seal(ts, 20))
	require.NoError(t, ts.Discard())

	// a discarded seal leaves the history open
	require.NoError(t, r.SetPower(a, 20, 1))

	ts, err = st.OpenTransaction()
	require.NoError(t, err)
	require.NoError(t, r.Seal(ts, 30))
	require.NoError(t, ts.Commit())

	require.True(t, errors.Is(r.SetPower(a, 30, 2), errors.StaleCheckpoint))
}
