package escrow

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/x"
)

const (
	createAccountCost int64 = 300
	setSignerCost     int64 = 50
	fundCost          int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&CreateAccountMsg{}, CreateAccountHandler{control: control})
	r.Handle(&SetSignerMsg{}, SetSignerHandler{auth: auth, control: control})
	r.Handle(&FundMsg{}, FundHandler{control: control})
}

// RegisterQuery will register the accounts as "/escrows" and the consumed
// authorizations as "/authorizations". Signatures can be checked with
// "/escrows/recover".
func RegisterQuery(qr weave.QueryRouter, rec crypto.Recoverer) {
	NewAccountBucket().Register("escrows", qr)
	NewAuthorizationBucket().Register("authorizations", qr)
	qr.Register("/escrows/recover", RecoverQuery{rec: rec})
}

// CreateAccountHandler bootstraps accounts. It does not require the
// transaction to be signed, the attestation is the proof.
type CreateAccountHandler struct {
	control Controller
}

var _ weave.Handler = CreateAccountHandler{}

// Check verifies the attestation and returns the cost of executing it.
func (h CreateAccountHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	att, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.control.VerifyBootstrap(db, att); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: createAccountCost}, nil
}

// Deliver creates the account. The result data is the account address.
func (h CreateAccountHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	att, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	acct, event, err := h.control.Bootstrap(db, att)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Data: acct.Address,
		Tags: emit(ctx, event),
	}, nil
}

func (h CreateAccountHandler) validate(tx weave.Tx) (*BootstrapAttestation, error) {
	var msg CreateAccountMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return msg.Attestation()
}

// SetSignerHandler adds and removes signers of an account. The main signer
// of the transaction is the caller.
type SetSignerHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ weave.Handler = SetSignerHandler{}

// Check verifies the caller is a signer of the account.
func (h SetSignerHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	acct, logic, err := h.control.Account(db, msg.Account)
	if err != nil {
		return nil, err
	}
	if _, err := logic.SetSigner(acct, caller, msg.Signer, msg.Enabled); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: setSignerCost}, nil
}

// Deliver updates the signers of the account.
func (h SetSignerHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	event, err := h.control.SetSigner(db, msg.Account, caller, msg.Signer, msg.Enabled)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Tags: emit(ctx, event)}, nil
}

func (h SetSignerHandler) validate(ctx weave.Context, tx weave.Tx) (*SetSignerMsg, weave.Address, error) {
	var msg SetSignerMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller := x.MainSigner(ctx, h.auth)
	if caller == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "transaction not signed")
	}
	return &msg, caller, nil
}

// FundHandler executes funding requests. The request signature is the
// only authorization, so the transaction can be relayed by anyone.
type FundHandler struct {
	control Controller
}

var _ weave.Handler = FundHandler{}

// Check runs all checks of the funding without moving funds.
func (h FundHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, req, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	acct, logic, err := h.control.Account(db, msg.Account)
	if err != nil {
		return nil, err
	}
	if _, err := logic.VerifyFund(db, acct, req); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: fundCost}, nil
}

// Deliver releases the funds and consumes the authorization.
func (h FundHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, req, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	event, err := h.control.Fund(ctx, db, msg.Account, req)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Data: msg.AuthorizationID,
		Tags: emit(ctx, event),
	}, nil
}

func (h FundHandler) validate(tx weave.Tx) (*FundMsg, *FundingRequest, error) {
	var msg FundMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	req, err := msg.Request()
	if err != nil {
		return nil, nil, err
	}
	return &msg, req, nil
}

// RecoverQuery returns the address that signed a hash. Query data is the
// 32 byte hash followed by the 65 byte signature. The result key is the
// hash and the value is the signer address.
type RecoverQuery struct {
	rec crypto.Recoverer
}

var _ weave.QueryHandler = RecoverQuery{}

// Query recovers the signer.
func (q RecoverQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if mod != weave.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	if len(data) != crypto.HashLength+crypto.SignatureLength {
		return nil, errors.Wrapf(errors.ErrInput, "want hash and signature, got %d bytes", len(data))
	}
	h, err := crypto.HashFromBytes(data[:crypto.HashLength])
	if err != nil {
		return nil, err
	}
	signer, err := q.rec.Recover(h, data[crypto.HashLength:])
	if err != nil {
		return nil, err
	}
	return []weave.Model{weave.Pair(h.Bytes(), signer)}, nil
}
