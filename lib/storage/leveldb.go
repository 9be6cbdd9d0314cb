package storage

import (
	"bytes"
	"encoding/json"

	pkgerrors "github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbIterator "github.com/syndtr/goleveldb/leveldb/iterator"
	leveldbOpt "github.com/syndtr/goleveldb/leveldb/opt"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"

	"boscoin.io/congress/lib/errors"
)

type LevelDBCore interface {
	Has([]byte, *leveldbOpt.ReadOptions) (bool, error)
	Get([]byte, *leveldbOpt.ReadOptions) ([]byte, error)
	NewIterator(*leveldbUtil.Range, *leveldbOpt.ReadOptions) leveldbIterator.Iterator
	Put([]byte, []byte, *leveldbOpt.WriteOptions) error
	Write(*leveldb.Batch, *leveldbOpt.WriteOptions) error
	Delete([]byte, *leveldbOpt.WriteOptions) error
}

// LevelDBBackend wraps either the database itself or an open transaction of
// it; both share the same methods.
type LevelDBBackend struct {
	DB *leveldb.DB

	Core LevelDBCore
}

func setLevelDBCoreError(err error) error {
	if err == nil {
		return nil
	}

	return errors.StorageCoreError.Clone().SetData("error", err.Error())
}

func (st *LevelDBBackend) Init(config *Config) (err error) {
	var db *leveldb.DB

	switch config.Scheme {
	case "file":
		if db, err = leveldb.OpenFile(config.Path, nil); err != nil {
			return setLevelDBCoreError(pkgerrors.Wrapf(err, "failed to open %s", config.Path))
		}
	case "memory":
		if db, err = leveldb.Open(leveldbStorage.NewMemStorage(), nil); err != nil {
			return setLevelDBCoreError(pkgerrors.Wrap(err, "failed to open memory storage"))
		}
	default:
		return errors.InvalidConfig.Clone().SetData("storage", config.String())
	}

	st.DB = db
	st.Core = db

	return
}

func (st *LevelDBBackend) Close() error {
	if st.DB == nil {
		return nil
	}

	return st.DB.Close()
}

func (st *LevelDBBackend) IsTransaction() bool {
	_, ok := st.Core.(*leveldb.Transaction)
	return ok
}

func (st *LevelDBBackend) OpenTransaction() (*LevelDBBackend, error) {
	if st.IsTransaction() {
		return nil, setLevelDBCoreError(pkgerrors.New("this is already *leveldb.Transaction"))
	}

	transaction, err := st.DB.OpenTransaction()
	if err != nil {
		return nil, setLevelDBCoreError(err)
	}

	return &LevelDBBackend{
		DB:   st.DB,
		Core: transaction,
	}, nil
}

func (st *LevelDBBackend) Discard() error {
	ts, ok := st.Core.(*leveldb.Transaction)
	if !ok {
		return setLevelDBCoreError(pkgerrors.New("this is not *leveldb.Transaction"))
	}

	ts.Discard()
	return nil
}

func (st *LevelDBBackend) Commit() error {
	ts, ok := st.Core.(*leveldb.Transaction)
	if !ok {
		return setLevelDBCoreError(pkgerrors.New("this is not *leveldb.Transaction"))
	}

	return setLevelDBCoreError(ts.Commit())
}

func (st *LevelDBBackend) makeKey(key string) []byte {
	return []byte(key)
}

func (st *LevelDBBackend) Has(k string) (bool, error) {
	ok, err := st.Core.Has(st.makeKey(k), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return false, nil
		}
		return false, setLevelDBCoreError(err)
	}

	return ok, nil
}

func (st *LevelDBBackend) GetRaw(k string) (b []byte, err error) {
	b, err = st.Core.Get(st.makeKey(k), nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.StorageRecordDoesNotExist
	}

	return b, setLevelDBCoreError(err)
}

func (st *LevelDBBackend) Get(k string, i interface{}) (err error) {
	var b []byte
	if b, err = st.GetRaw(k); err != nil {
		return
	}

	if err = json.Unmarshal(b, i); err != nil {
		err = setLevelDBCoreError(err)
		return
	}

	return
}

func encode(v interface{}) ([]byte, error) {
	if serializable, ok := v.(Serializable); ok {
		return serializable.Serialize()
	}

	return json.Marshal(v)
}

func (st *LevelDBBackend) put(k string, v interface{}) error {
	encoded, err := encode(v)
	if err != nil {
		return setLevelDBCoreError(err)
	}

	return setLevelDBCoreError(st.Core.Put(st.makeKey(k), encoded, nil))
}

// New stores a record which must not exist yet.
func (st *LevelDBBackend) New(k string, v interface{}) (err error) {
	var exists bool
	if exists, err = st.Has(k); err != nil {
		return
	} else if exists {
		return errors.StorageRecordAlreadyExists.Clone().SetData("key", k)
	}

	return st.put(k, v)
}

// Set overwrites a record which must already exist.
func (st *LevelDBBackend) Set(k string, v interface{}) (err error) {
	var exists bool
	if exists, err = st.Has(k); err != nil {
		return
	} else if !exists {
		return errors.StorageRecordDoesNotExist.Clone().SetData("key", k)
	}

	return st.put(k, v)
}

// Put stores a record whether it exists or not.
func (st *LevelDBBackend) Put(k string, v interface{}) error {
	return st.put(k, v)
}

func (st *LevelDBBackend) Remove(k string) (err error) {
	var exists bool
	if exists, err = st.Has(k); err != nil {
		return
	} else if !exists {
		return errors.StorageRecordDoesNotExist.Clone().SetData("key", k)
	}

	return setLevelDBCoreError(st.Core.Delete(st.makeKey(k), nil))
}

// GetIterator returns the records under `prefix` one by one. The cursor of
// the options is exclusive: iteration starts right after it, or right
// before it in reverse.
func (st *LevelDBBackend) GetIterator(prefix string, option ListOptions) (func() (IterItem, bool), func()) {
	var reverse bool
	var cursor []byte
	var limit uint64
	if option != nil {
		reverse = option.Reverse()
		cursor = option.Cursor()
		limit = option.Limit()
	}

	var dbRange *leveldbUtil.Range
	if len(prefix) > 0 {
		dbRange = leveldbUtil.BytesPrefix(st.makeKey(prefix))
	}

	iter := st.Core.NewIterator(dbRange, nil)

	var started bool
	move := func() bool {
		if started {
			if reverse {
				return iter.Prev()
			}
			return iter.Next()
		}
		started = true

		switch {
		case len(cursor) < 1 && reverse:
			return iter.Last()
		case len(cursor) < 1:
			return iter.First()
		case reverse:
			if iter.Seek(cursor) {
				return iter.Prev()
			}
			return iter.Last()
		default:
			if !iter.Seek(cursor) {
				return false
			}
			if bytes.Equal(iter.Key(), cursor) {
				return iter.Next()
			}
			return true
		}
	}

	var n uint64
	var released bool
	release := func() {
		if !released {
			released = true
			iter.Release()
		}
	}

	return func() (IterItem, bool) {
			if released || (limit > 0 && n >= limit) || !move() {
				release()
				return IterItem{}, false
			}

			n++
			return IterItem{
				N:     n,
				Key:   append([]byte(nil), iter.Key()...),
				Value: append([]byte(nil), iter.Value()...),
			}, true
		},
		release
}

type WalkFunc func(key, value []byte) (bool, error)

// Walk calls `walkFunc` for every record returned by `GetIterator` until it
// returns false or an error.
func (st *LevelDBBackend) Walk(prefix string, option ListOptions, walkFunc WalkFunc) error {
	iterFunc, closeFunc := st.GetIterator(prefix, option)
	defer closeFunc()

	for {
		item, hasNext := iterFunc()
		if !hasNext {
			return nil
		}

		if next, err := walkFunc(item.Key, item.Value); err != nil {
			return err
		} else if !next {
			return nil
		}
	}
}
