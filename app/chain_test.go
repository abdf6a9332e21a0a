package app

import (
	"context"
	"testing"

	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/store"
	"github.com/limepay/weave/weavetest"
	"github.com/limepay/weave/weavetest/assert"
)

// orderDecorator records its name when called, so the order of a chain can
// be asserted.
type orderDecorator struct {
	name string
	log  *[]string
}

func (d orderDecorator) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	*d.log = append(*d.log, d.name)
	return next.Check(ctx, db, tx)
}

func (d orderDecorator) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	*d.log = append(*d.log, d.name)
	return next.Deliver(ctx, db, tx)
}

func TestChainOrder(t *testing.T) {
	var calls []string
	h := &weavetest.Handler{}

	var skipped *weavetest.Decorator
	stack := ChainDecorators(
		orderDecorator{name: "first", log: &calls},
		skipped,
		nil,
	).Chain(
		orderDecorator{name: "second", log: &calls},
	).WithHandler(h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &weavetest.Tx{}

	_, err := stack.Deliver(ctx, db, tx)
	assert.Nil(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, 1, h.DeliverCallCount())

	calls = nil
	_, err = stack.Check(ctx, db, tx)
	assert.Nil(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, 1, h.CheckCallCount())
}

func TestChainShortCircuit(t *testing.T) {
	h := &weavetest.Handler{}
	stack := ChainDecorators(
		&weavetest.Decorator{CheckErr: errors.ErrUnauthorized},
	).WithHandler(h)

	_, err := stack.Check(context.Background(), store.MemStore(), &weavetest.Tx{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 0, h.CallCount())

	_, err = stack.Deliver(context.Background(), store.MemStore(), &weavetest.Tx{})
	assert.Nil(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}
