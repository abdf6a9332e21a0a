package store

import (
	"github.com/limepay/weave/errors"
)

// EmptyKVStore is a basic implementation of a KVStore that has nothing in
// it. It can be used as a base for a cache wrap.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

// Get always returns nil.
func (e EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }

// Has always returns false.
func (e EmptyKVStore) Has(key []byte) (bool, error) { return false, nil }

// Set is a noop.
func (e EmptyKVStore) Set(key, value []byte) error { return nil }

// Delete is a noop.
func (e EmptyKVStore) Delete(key []byte) error { return nil }

// Iterator is always empty.
func (e EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return emptyIterator{}, nil
}

// ReverseIterator is always empty.
func (e EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return emptyIterator{}, nil
}

// NewBatch returns a batch that can write to this tree later.
func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

type emptyIterator struct{}

func (emptyIterator) Next() ([]byte, []byte, error) {
	return nil, nil, errors.ErrIteratorDone
}

func (emptyIterator) Release() {}

// OpType is the kind of a recorded batch operation.
type OpType int32

const (
	setKVOp OpType = iota + 1
	delKVOp
)

// Op is one recorded batch operation.
type Op struct {
	kind  OpType
	key   []byte
	value []byte
}

// SetOp is a helper to create a set operation.
func SetOp(key, value []byte) Op {
	return Op{kind: setKVOp, key: key, value: value}
}

// DelOp is a helper to create a delete operation.
func DelOp(key []byte) Op {
	return Op{kind: delKVOp, key: key}
}

// IsSetOp returns true if the operation is a set.
func (o Op) IsSetOp() bool {
	return o.kind == setKVOp
}

// Key returns the key the operation changes.
func (o Op) Key() []byte {
	return o.key
}

// Value returns the value written by a set operation.
func (o Op) Value() []byte {
	return o.value
}

// Apply performs the operation on given store.
func (o Op) Apply(out SetDeleter) error {
	switch o.kind {
	case setKVOp:
		return out.Set(o.key, o.value)
	case delKVOp:
		return out.Delete(o.key)
	default:
		return errors.Wrapf(errors.ErrDatabase, "unknown op type %d", o.kind)
	}
}

// SetDeleter is a minimal interface for writing.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// NonAtomicBatch just piles up ops and executes them later on the
// underlying store. It can be used when there is no better option, for
// example in-memory stores.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch creates an empty batch to be later written to the
// store.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

// Set adds a set operation to the batch.
func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(copyBytes(key), copyBytes(value)))
	return nil
}

// Delete adds a delete operation to the batch.
func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(copyBytes(key)))
	return nil
}

// Write applies all recorded operations in order and clears the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

// Reset drops all recorded operations.
func (b *NonAtomicBatch) Reset() {
	b.ops = nil
}

// ShowOps returns all recorded operations, in order.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}
