package power

import (
	"encoding/json"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru"
	logging "github.com/inconshreveable/log15"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/storage"
)

var log logging.Logger = logging.New("module", "power")

func SetLogging(level logging.Lvl, handler logging.Handler) {
	common.SetLogging(log, level, handler)
}

// Source answers how much voting power an address, or everyone together,
// had at a height.
type Source interface {
	VotingPowerAt(address string, height uint64) (common.Power, error)
	TotalVotingPowerAt(height uint64) (common.Power, error)
}

// Sealer is a Source whose past checkpoints can be frozen once a snapshot
// was taken from them. `st` is the storage, or the running transaction over
// it, the source keeps its checkpoints in.
type Sealer interface {
	Seal(st *storage.LevelDBBackend, height uint64) error
}

// Registry keeps voting power as checkpoints in storage; the power at a
// height is the one of the latest checkpoint at or before it. No checkpoint
// can be written at or below the sealed height.
//
// models
//  * 'pw-<address>-<padded height>': `Checkpoint`
//  * 'pt-<padded height>': `Checkpoint` of the total
//  * 'ps-sealed': sealed height
const (
	MemberPowerPrefix string = "pw-"
	TotalPowerPrefix  string = "pt-"
	SealedHeightKey   string = "ps-sealed"

	DefaultCacheSize int = 1024
)

type Checkpoint struct {
	Height uint64       `json:"height"`
	Power  common.Power `json:"power"`
}

type cacheKey struct {
	address string
	height  uint64
	total   bool
}

type Registry struct {
	st    *storage.LevelDBBackend
	cache *lru.Cache
}

func NewRegistry(st *storage.LevelDBBackend, cacheSize int) (*Registry, error) {
	if cacheSize < 1 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}

	return &Registry{st: st, cache: cache}, nil
}

func GetMemberPowerPrefix(address string) string {
	return fmt.Sprintf("%s%s-", MemberPowerPrefix, address)
}

func GetMemberPowerKey(address string, height uint64) string {
	return GetMemberPowerPrefix(address) + common.PaddedUint64(height)
}

func GetTotalPowerKey(height uint64) string {
	return TotalPowerPrefix + common.PaddedUint64(height)
}

// latest finds the last checkpoint under `prefix` at or before `height`.
func latest(st *storage.LevelDBBackend, prefix string, height uint64) (c Checkpoint, found bool, err error) {
	var cursor []byte
	if height < math.MaxUint64 {
		cursor = []byte(prefix + common.PaddedUint64(height+1))
	}

	iterFunc, closeFunc := st.GetIterator(prefix, storage.NewDefaultListOptions(true, cursor, 1))
	defer closeFunc()

	item, hasNext := iterFunc()
	if !hasNext {
		return
	}

	if err = json.Unmarshal(item.Value, &c); err != nil {
		return
	}
	found = true

	return
}

func getSealedHeight(st *storage.LevelDBBackend) (height uint64, found bool, err error) {
	if err = st.Get(SealedHeightKey, &height); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = nil
		}
		return
	}
	found = true

	return
}

// Seal freezes the checkpoints at and before `height`. The sealed height
// never goes down.
func (r *Registry) Seal(st *storage.LevelDBBackend, height uint64) error {
	sealed, found, err := getSealedHeight(st)
	if err != nil {
		return err
	}
	if found && sealed >= height {
		return nil
	}

	return st.Put(SealedHeightKey, height)
}

func (r *Registry) lookup(key cacheKey, prefix string) (common.Power, error) {
	if v, ok := r.cache.Get(key); ok {
		return v.(common.Power), nil
	}

	c, _, err := latest(r.st, prefix, key.height)
	if err != nil {
		return 0, err
	}
	r.cache.Add(key, c.Power)

	return c.Power, nil
}

func (r *Registry) VotingPowerAt(address string, height uint64) (common.Power, error) {
	return r.lookup(cacheKey{address: address, height: height}, GetMemberPowerPrefix(address))
}

func (r *Registry) TotalVotingPowerAt(height uint64) (common.Power, error) {
	return r.lookup(cacheKey{height: height, total: true}, TotalPowerPrefix)
}

// SetPower checkpoints the power of `address` from `height` on, and the
// total along with it. Checkpoints can not be written before the latest one
// nor at or below the sealed height.
func (r *Registry) SetPower(address string, height uint64, power common.Power) (err error) {
	if err = common.CheckAddress(address); err != nil {
		return
	}

	var ts *storage.LevelDBBackend
	if ts, err = r.st.OpenTransaction(); err != nil {
		return
	}
	defer func() {
		if err != nil {
			ts.Discard()
			return
		}
		r.cache.Purge()
	}()

	last, found, err := latest(ts, TotalPowerPrefix, math.MaxUint64)
	if err != nil {
		return
	}
	if found && height < last.Height {
		return errors.StaleCheckpoint.Clone().
			SetData("height", height).
			SetData("latest", last.Height)
	}

	sealed, sealedFound, err := getSealedHeight(ts)
	if err != nil {
		return
	}
	if sealedFound && height <= sealed {
		return errors.StaleCheckpoint.Clone().
			SetData("height", height).
			SetData("sealed", sealed)
	}

	old, _, err := latest(ts, GetMemberPowerPrefix(address), height)
	if err != nil {
		return
	}

	var total common.Power
	if total, err = last.Power.Sub(old.Power); err != nil {
		return
	}
	if total, err = total.Add(power); err != nil {
		return
	}

	if err = ts.Put(GetMemberPowerKey(address, height), Checkpoint{Height: height, Power: power}); err != nil {
		return
	}
	if err = ts.Put(GetTotalPowerKey(height), Checkpoint{Height: height, Power: total}); err != nil {
		return
	}
	if err = ts.Commit(); err != nil {
		return
	}

	log.Debug("voting power set", "address", address, "height", height, "power", power, "total", total)

	return
}
