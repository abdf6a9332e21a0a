package orm

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
)

// QueryPrefix returns all entries whose key starts with given prefix.
func QueryPrefix(db weave.ReadOnlyKVStore, prefix []byte) ([]weave.Model, error) {
	iter, err := db.Iterator(prefix, PrefixRangeEnd(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(iter)
}

// ConsumeIterator reads all remaining data into an array and releases the
// iterator.
func ConsumeIterator(iter weave.Iterator) ([]weave.Model, error) {
	defer iter.Release()

	var res []weave.Model
	for {
		key, value, err := iter.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, weave.Pair(key, value))
	}
}

// PrefixRangeEnd returns the smallest key that is greater than all keys
// starting with given prefix. Nil is returned when no such key exists.
func PrefixRangeEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
