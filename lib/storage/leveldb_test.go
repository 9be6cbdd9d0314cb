package storage

import (
	"fmt"
	"io/ioutil"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
)

func TestNewConfigFromString(t *testing.T) {
	config, err := NewConfigFromString("memory://")
	require.NoError(t, err)
	require.Equal(t, "memory", config.Scheme)

	config, err = NewConfigFromString("file:///tmp/congress")
	require.NoError(t, err)
	require.Equal(t, "file", config.Scheme)
	require.Equal(t, "/tmp/congress", config.Path)

	for _, s := range []string{"redis://localhost", "file://", "://"} {
		_, err = NewConfigFromString(s)
		require.True(t, errors.Is(err, errors.InvalidConfig), s)
	}
}

func TestLevelDBBackendInitFileStorage(t *testing.T) {
	path, _ := ioutil.TempDir("/tmp", "congress")
	defer CleanDB(path)

	st := &LevelDBBackend{}
	defer st.Close()

	config, err := NewConfigFromString("file://" + path)
	require.NoError(t, err)
	require.NoError(t, st.Init(config))

	require.NoError(t, st.New("showme", 1))
	exists, err := st.Has("showme")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestLevelDBBackendNew(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	key := "showme"
	input := map[string]string{"90": "99", "91": "91"}
	require.NoError(t, st.New(key, input))

	fetched := map[string]string{}
	require.NoError(t, st.Get(key, &fetched))
	require.Equal(t, input, fetched)

	err := st.New(key, input)
	require.True(t, errors.Is(err, errors.StorageRecordAlreadyExists))
}

func TestLevelDBBackendSetPutRemove(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	key := "showme"

	err := st.Set(key, 20)
	require.True(t, errors.Is(err, errors.StorageRecordDoesNotExist))

	require.NoError(t, st.Put(key, 20))
	require.NoError(t, st.Set(key, 21))

	var fetched int
	require.NoError(t, st.Get(key, &fetched))
	require.Equal(t, 21, fetched)

	require.NoError(t, st.Remove(key))
	exists, err := st.Has(key)
	require.NoError(t, err)
	require.False(t, exists)

	require.True(t, errors.Is(st.Remove(key), errors.StorageRecordDoesNotExist))

	_, err = st.GetRaw("vacuum")
	require.True(t, errors.Is(err, errors.StorageRecordDoesNotExist))
}

func TestLevelDBBackendTransaction(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	{
		ts, err := st.OpenTransaction()
		require.NoError(t, err)
		require.True(t, ts.IsTransaction())

		_, err = ts.OpenTransaction()
		require.Error(t, err)

		require.NoError(t, ts.New("discarded", 1))
		require.NoError(t, ts.Discard())

		exists, err := st.Has("discarded")
		require.NoError(t, err)
		require.False(t, exists)
	}

	{
		ts, err := st.OpenTransaction()
		require.NoError(t, err)
		require.NoError(t, ts.New("committed", 1))
		require.NoError(t, ts.Commit())

		exists, err := st.Has("committed")
		require.NoError(t, err)
		require.True(t, exists)
	}

	require.Error(t, st.Commit())
}

func fillIteratorData(t *testing.T, st *LevelDBBackend) {
	for i := uint64(1); i <= 10; i++ {
		require.NoError(t, st.New(fmt.Sprintf("p-%s", common.PaddedUint64(i)), i))
	}
	require.NoError(t, st.New("q-1", 100))
}

func collect(st *LevelDBBackend, prefix string, options ListOptions) (values []uint64) {
	iterFunc, closeFunc := st.GetIterator(prefix, options)
	defer closeFunc()

	for {
		item, hasNext := iterFunc()
		if !hasNext {
			break
		}

		var v uint64
		common.MustUnmarshalJSON(item.Value, &v)
		values = append(values, v)
	}

	return
}

func TestLevelDBBackendIterator(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	fillIteratorData(t, st)

	require.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, collect(st, "p-", nil))
	require.Equal(
		t,
		[]uint64{1, 2, 3},
		collect(st, "p-", NewDefaultListOptions(false, nil, 3)),
	)
	require.Equal(
		t,
		[]uint64{10, 9, 8},
		collect(st, "p-", NewDefaultListOptions(true, nil, 3)),
	)

	cursor := []byte(fmt.Sprintf("p-%s", common.PaddedUint64(3)))
	require.Equal(
		t,
		[]uint64{4, 5},
		collect(st, "p-", NewDefaultListOptions(false, cursor, 2)),
	)
	require.Equal(
		t,
		[]uint64{2, 1},
		collect(st, "p-", NewDefaultListOptions(true, cursor, 0)),
	)

	// cursor past the last key
	last := []byte(fmt.Sprintf("p-%s", common.PaddedUint64(11)))
	require.Empty(t, collect(st, "p-", NewDefaultListOptions(false, last, 0)))
	require.Equal(t, []uint64{10}, collect(st, "p-", NewDefaultListOptions(true, last, 1)))

	require.Empty(t, collect(st, "r-", nil))
}

func TestLevelDBBackendWalk(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	fillIteratorData(t, st)

	var walked int
	err := st.Walk("p-", nil, func(key, value []byte) (bool, error) {
		walked++
		return walked < 4, nil
	})
	require.NoError(t, err)
	require.Equal(t, 4, walked)
}
