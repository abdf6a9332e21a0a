package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/limepay/weave/errors"
)

// mergeIterator combines cached btree items with the parent iterator. Cached
// items take precedence, deleted items hide the parent entry.
type mergeIterator struct {
	items   []btree.Item
	parent  Iterator
	reverse bool

	// Next parent entry, already read but not yet returned.
	pkey, pvalue []byte
	pdone        bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []btree.Item, parent Iterator, reverse bool) *mergeIterator {
	return &mergeIterator{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
}

// Next returns the next visible entry.
func (m *mergeIterator) Next() ([]byte, []byte, error) {
	for {
		if err := m.loadParent(); err != nil {
			return nil, nil, err
		}

		if len(m.items) == 0 {
			if m.pdone {
				return nil, nil, errors.ErrIteratorDone
			}
			return m.popParent()
		}

		item := m.items[0]
		key := item.(keyer).Key()
		if !m.pdone {
			cmp := bytes.Compare(m.pkey, key)
			if m.reverse {
				cmp = -cmp
			}
			if cmp < 0 {
				return m.popParent()
			}
			if cmp == 0 {
				// Overwritten or deleted in the cache.
				m.pkey, m.pvalue = nil, nil
			}
		}

		m.items = m.items[1:]
		if set, ok := item.(setItem); ok {
			return set.key, set.value, nil
		}
	}
}

func (m *mergeIterator) loadParent() error {
	if m.pdone || m.pkey != nil {
		return nil
	}
	key, value, err := m.parent.Next()
	switch {
	case err == nil:
		m.pkey, m.pvalue = key, value
	case errors.ErrIteratorDone.Is(err):
		m.pdone = true
	default:
		return err
	}
	return nil
}

func (m *mergeIterator) popParent() ([]byte, []byte, error) {
	k, v := m.pkey, m.pvalue
	m.pkey, m.pvalue = nil, nil
	return k, v, nil
}

// Release releases the parent iterator.
func (m *mergeIterator) Release() {
	m.parent.Release()
	m.items = nil
}
