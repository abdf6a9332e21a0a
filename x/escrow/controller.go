package escrow

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/orm"
)

// Controller loads accounts and delegates every operation to the master
// logic of the account.
type Controller struct {
	accounts orm.ModelBucket
	logics   LogicRegistry
}

// NewController returns a controller using given logics.
func NewController(logics LogicRegistry) Controller {
	return Controller{
		accounts: NewAccountBucket(),
		logics:   logics,
	}
}

// Account returns the account stored under given address together with
// its logic.
func (c Controller) Account(db weave.ReadOnlyKVStore, addr weave.Address) (*Account, *Logic, error) {
	var acct Account
	if err := c.accounts.One(db, addr, &acct); err != nil {
		return nil, nil, errors.Wrapf(err, "account %s", addr)
	}
	logic, err := c.logics.Get(acct.MasterLogic)
	if err != nil {
		return nil, nil, err
	}
	return &acct, logic, nil
}

// VerifyBootstrap runs all checks of Bootstrap without changing any state.
// It returns the account that would be created.
func (c Controller) VerifyBootstrap(db weave.ReadOnlyKVStore, att *BootstrapAttestation) (*Account, error) {
	if err := att.Validate(); err != nil {
		return nil, err
	}
	logic, err := c.logics.Get(att.MasterLogic)
	if err != nil {
		return nil, err
	}

	addr := att.Address()
	switch err := c.accounts.Has(db, addr); {
	case err == nil:
		return nil, errors.Wrapf(ErrAlreadyBootstrapped, "account %s", addr)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	signer, err := logic.Attested(att)
	if err != nil {
		return nil, err
	}
	acct := &Account{
		Metadata:    &weave.Metadata{Schema: 1},
		Address:     addr,
		MasterLogic: att.MasterLogic.Clone(),
		Signers:     []weave.Address{signer},
	}
	return acct, nil
}

// Bootstrap creates an account with the attested signer as its only
// signer. Every account can be bootstrapped only once.
func (c Controller) Bootstrap(db weave.KVStore, att *BootstrapAttestation) (*Account, *AccountCreated, error) {
	acct, err := c.VerifyBootstrap(db, att)
	if err != nil {
		return nil, nil, err
	}
	if err := c.accounts.Put(db, acct.Address, acct); err != nil {
		return nil, nil, errors.Wrap(err, "save account")
	}
	event := &AccountCreated{
		Account:     acct.Address,
		MasterLogic: acct.MasterLogic,
		Signer:      acct.Signers[0],
	}
	return acct, event, nil
}

// SetSigner enables or disables a signer of the account on behalf of the
// caller.
func (c Controller) SetSigner(db weave.KVStore, account, caller, target weave.Address, enabled bool) (*SignerChanged, error) {
	acct, logic, err := c.Account(db, account)
	if err != nil {
		return nil, err
	}
	event, err := logic.SetSigner(acct, caller, target, enabled)
	if err != nil {
		return nil, err
	}
	if err := c.accounts.Put(db, acct.Address, acct); err != nil {
		return nil, errors.Wrap(err, "save account")
	}
	return event, nil
}

// Fund executes the funding request on the account.
func (c Controller) Fund(ctx weave.Context, db weave.KVStore, account weave.Address, req *FundingRequest) (*FundingConsumed, error) {
	acct, logic, err := c.Account(db, account)
	if err != nil {
		return nil, err
	}
	return logic.Fund(ctx, db, acct, req)
}
