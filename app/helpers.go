package app

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/orm"
	abci "github.com/tendermint/tendermint/abci/types"
)

// RawStoreQuery answers key and prefix queries against the raw key space of
// the committed state.
type RawStoreQuery struct{}

var _ weave.QueryHandler = RawStoreQuery{}

// RegisterRawQuery exposes the whole store under the "/" path.
func RegisterRawQuery(qr weave.QueryRouter) {
	qr.Register("/", RawStoreQuery{})
}

// Query implements weave.QueryHandler.
func (RawStoreQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []weave.Model{weave.Pair(data, value)}, nil
	case weave.PrefixQueryMod:
		return orm.QueryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// ABCIStore exposes the abci.Query interface of a running application as a
// weave.ReadOnlyKVStore, so that buckets can be used on the client side.
// It relies on RawStoreQuery being registered under "/".
type ABCIStore struct {
	app abci.Application
}

var _ weave.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store reading through given application.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query("/", key)
	if err != nil {
		return nil, err
	}
	switch len(models) {
	case 0:
		return nil, nil
	case 1:
		return models[0].Value, nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d results for a key query", len(models))
	}
}

// Has returns true if the given key is in the abci app store.
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return v != nil, err
}

// Iterator performs a prefix query when end is the prefix range end of
// start. Any other range is not supported.
func (a *ABCIStore) Iterator(start, end []byte) (weave.Iterator, error) {
	models, err := a.rangeQuery(start, end)
	if err != nil {
		return nil, err
	}
	return &sliceIterator{data: models}, nil
}

// ReverseIterator works as Iterator, returning the results in reverse.
func (a *ABCIStore) ReverseIterator(start, end []byte) (weave.Iterator, error) {
	models, err := a.rangeQuery(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return &sliceIterator{data: models}, nil
}

func (a *ABCIStore) rangeQuery(start, end []byte) ([]weave.Model, error) {
	if string(orm.PrefixRangeEnd(start)) != string(end) {
		return nil, errors.Wrap(errors.ErrInput, "only prefix ranges are supported")
	}
	return a.query("/?prefix", start)
}

func (a *ABCIStore) query(path string, data []byte) ([]weave.Model, error) {
	res := a.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != 0 {
		return nil, errors.Wrapf(errors.ErrState, "query %s: %s", path, res.Log)
	}
	var k, v ResultSet
	if err := k.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}

// sliceIterator wraps an Iterator over a slice of models.
type sliceIterator struct {
	data []weave.Model
	idx  int
}

var _ weave.Iterator = (*sliceIterator)(nil)

func (s *sliceIterator) Next() ([]byte, []byte, error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

func (s *sliceIterator) Release() {
	s.data = nil
}
