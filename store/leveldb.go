package store

import (
	"encoding/binary"
	"hash"
	"strconv"

	"github.com/limepay/weave/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/crypto/sha3"
)

// _wv: is a prefix for weave internal data.
var (
	versionKey = []byte("_wv:version")
	hashKey    = []byte("_wv:hash")
)

// LevelDBStore is a CommitKVStore persisted in a leveldb database.
//
// All writes flushed from cache wraps are kept in a pending batch and
// written to disk atomically on Commit, together with the new version and
// hash. The hash of a version is the keccak256 digest of the previous hash
// and all operations of the version, in order.
type LevelDBStore struct {
	db      *leveldb.DB
	pending *leveldb.Batch
	hasher  hash.Hash
	latest  CommitID
}

var _ CommitKVStore = (*LevelDBStore)(nil)
var _ ReadOnlyKVStore = (*LevelDBStore)(nil)

// NewLevelDBStore opens (or creates) a database in given directory.
func NewLevelDBStore(dir string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s: %s", dir, err)
	}
	return newLevelDBStore(db), nil
}

// MemLevelDBStore returns a store backed by an in-memory leveldb storage.
// Useful for tests.
func MemLevelDBStore() (*LevelDBStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open memory storage: %s", err)
	}
	return newLevelDBStore(db), nil
}

func newLevelDBStore(db *leveldb.DB) *LevelDBStore {
	return &LevelDBStore{
		db:      db,
		pending: new(leveldb.Batch),
		hasher:  sha3.NewLegacyKeccak256(),
	}
}

// Close releases the database.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

// LoadLatestVersion reads the version and hash of the last commit.
func (s *LevelDBStore) LoadLatestVersion() error {
	raw, err := s.Get(versionKey)
	if err != nil {
		return err
	}
	if raw == nil {
		s.latest = CommitID{}
		s.resetPending()
		return nil
	}
	version, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "corrupted version %q", raw)
	}
	h, err := s.Get(hashKey)
	if err != nil {
		return err
	}
	s.latest = CommitID{Version: version, Hash: h}
	s.resetPending()
	return nil
}

// LatestVersion returns the last committed version.
func (s *LevelDBStore) LatestVersion() (CommitID, error) {
	return s.latest, nil
}

// Commit writes all pending operations to disk atomically and returns the
// new version.
func (s *LevelDBStore) Commit() (CommitID, error) {
	next := CommitID{
		Version: s.latest.Version + 1,
		Hash:    s.hasher.Sum(nil),
	}
	s.pending.Put(versionKey, []byte(strconv.FormatInt(next.Version, 10)))
	s.pending.Put(hashKey, next.Hash)
	if err := s.db.Write(s.pending, &opt.WriteOptions{Sync: true}); err != nil {
		return s.latest, errors.Wrapf(errors.ErrDatabase, "commit: %s", err)
	}
	s.latest = next
	s.resetPending()
	return next, nil
}

func (s *LevelDBStore) resetPending() {
	s.pending.Reset()
	s.hasher.Reset()
	s.hasher.Write(s.latest.Hash)
}

// CacheWrap returns a scratch pad whose writes become pending on Write.
func (s *LevelDBStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(s, NewNonAtomicBatch(pendingWriter{s}), nil)
}

// NewBatch returns a batch that adds to the pending version.
func (s *LevelDBStore) NewBatch() Batch {
	return NewNonAtomicBatch(pendingWriter{s})
}

// Get returns the committed value.
func (s *LevelDBStore) Get(key []byte) ([]byte, error) {
	val, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "get: %s", err)
	}
	return val, nil
}

// Has returns true if the key is committed.
func (s *LevelDBStore) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "has: %s", err)
	}
	return ok, nil
}

// Iterator over committed keys in ascending order.
func (s *LevelDBStore) Iterator(start, end []byte) (Iterator, error) {
	it := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &levelIterator{it: it}, nil
}

// ReverseIterator over committed keys in descending order.
func (s *LevelDBStore) ReverseIterator(start, end []byte) (Iterator, error) {
	it := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &levelIterator{it: it, reverse: true}, nil
}

type pendingWriter struct {
	s *LevelDBStore
}

func (p pendingWriter) Set(key, value []byte) error {
	p.s.pending.Put(key, value)
	p.s.hashOp(setKVOp, key, value)
	return nil
}

func (p pendingWriter) Delete(key []byte) error {
	p.s.pending.Delete(key)
	p.s.hashOp(delKVOp, key, nil)
	return nil
}

func (s *LevelDBStore) hashOp(kind OpType, key, value []byte) {
	var buf [binary.MaxVarintLen64]byte
	s.hasher.Write([]byte{byte(kind)})
	n := binary.PutUvarint(buf[:], uint64(len(key)))
	s.hasher.Write(buf[:n])
	s.hasher.Write(key)
	n = binary.PutUvarint(buf[:], uint64(len(value)))
	s.hasher.Write(buf[:n])
	s.hasher.Write(value)
}

type levelIterator struct {
	it      iterator.Iterator
	reverse bool
	started bool
}

func (l *levelIterator) Next() ([]byte, []byte, error) {
	var ok bool
	switch {
	case !l.started && l.reverse:
		ok = l.it.Last()
	case l.reverse:
		ok = l.it.Prev()
	default:
		ok = l.it.Next()
	}
	l.started = true
	if !ok {
		if err := l.it.Error(); err != nil {
			return nil, nil, errors.Wrapf(errors.ErrDatabase, "iterator: %s", err)
		}
		return nil, nil, errors.ErrIteratorDone
	}
	return copyBytes(l.it.Key()), copyBytes(l.it.Value()), nil
}

func (l *levelIterator) Release() {
	l.it.Release()
}
