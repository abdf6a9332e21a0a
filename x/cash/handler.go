package cash

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/x"
	"github.com/tendermint/tendermint/libs/common"
)

const sendTxCost = 100

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// RegisterQuery will register this bucket as "/wallets".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler will handle sending funds.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ weave.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg.
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check verifies the message is properly formed, authorized and covered by
// the source balance.
func (h SendHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	amount, err := ParseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	have, err := h.control.Balance(db, msg.Source, msg.Asset)
	if err != nil {
		return nil, err
	}
	if have.Lt(amount) {
		return nil, errors.Wrap(errors.ErrInsufficientFunds, "source balance")
	}
	return &weave.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the funds from source to destination if all preconditions
// are met.
func (h SendHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	amount, err := ParseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(db, msg.Asset, msg.Source, msg.Destination, amount); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{
		Tags: []common.KVPair{
			{Key: []byte("cash.source"), Value: []byte(msg.Source.String())},
			{Key: []byte("cash.destination"), Value: []byte(msg.Destination.String())},
		},
	}
	return res, nil
}

func (h SendHandler) validate(ctx weave.Context, tx weave.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	return &msg, nil
}
