package app

import (
	"testing"

	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/store"
	"github.com/limepay/weave/weavetest/assert"
)

func TestCommitStore(t *testing.T) {
	kv, err := store.MemLevelDBStore()
	assert.Nil(t, err)
	cs, err := NewCommitStore(kv)
	assert.Nil(t, err)

	info, err := cs.CommitInfo()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), info.Version)

	assert.Nil(t, cs.DeliverStore().Set([]byte("deliver"), []byte("1")))
	assert.Nil(t, cs.CheckStore().Set([]byte("check"), []byte("1")))

	id, err := cs.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)

	// deliver is persisted, check is discarded
	v, err := kv.Get([]byte("deliver"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), v)
	v, err = kv.Get([]byte("check"))
	assert.Nil(t, err)
	assert.Nil(t, v)

	// new caches see the committed state
	v, err = cs.CheckStore().Get([]byte("deliver"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), v)
}

func TestChainID(t *testing.T) {
	db := store.MemStore()

	id, err := loadChainID(db)
	assert.Nil(t, err)
	assert.Equal(t, "", id)

	assert.IsErr(t, errors.ErrInput, saveChainID(db, "no spaces allowed"))
	assert.Nil(t, saveChainID(db, "my-chain"))
	assert.IsErr(t, errors.ErrImmutable, saveChainID(db, "other-chain"))

	id, err = loadChainID(db)
	assert.Nil(t, err)
	assert.Equal(t, "my-chain", id)
}
