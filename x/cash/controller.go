package cash

import (
	"github.com/holiman/uint256"
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/orm"
)

// Controller is the functionality needed by cash.Handler and other
// extensions that move funds.
type Controller interface {
	// Balance returns the amount of an asset held by given address.
	Balance(db weave.ReadOnlyKVStore, holder, asset weave.Address) (*uint256.Int, error)
	// Transfer moves an amount of an asset. It fails with
	// ErrInsufficientFunds without changing anything if the source
	// balance is too small.
	Transfer(db weave.KVStore, asset, from, to weave.Address, amount *uint256.Int) error
	// Mint increases the balance of given address.
	Mint(db weave.KVStore, asset, to weave.Address, amount *uint256.Int) error
}

// BaseController is a simple implementation of Controller.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the wallet bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) wallet(db weave.ReadOnlyKVStore, holder weave.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, holder, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &weave.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "load wallet")
	}
}

// Balance returns the amount of an asset held by given address. Unknown
// holders have zero balance.
func (c BaseController) Balance(db weave.ReadOnlyKVStore, holder, asset weave.Address) (*uint256.Int, error) {
	w, err := c.wallet(db, holder)
	if err != nil {
		return nil, err
	}
	return w.Get(asset)
}

// Transfer moves an amount of an asset between two addresses. Transfer of
// a zero amount is a noop.
func (c BaseController) Transfer(db weave.KVStore, asset, from, to weave.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := from.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	src, err := c.wallet(db, from)
	if err != nil {
		return err
	}
	have, err := src.Get(asset)
	if err != nil {
		return err
	}
	if have.Lt(amount) {
		return errors.Wrapf(errors.ErrInsufficientFunds, "%s has %s of %s, want %s", from, have.Dec(), assetName(asset), amount.Dec())
	}

	if from.Equals(to) {
		return nil
	}

	dst, err := c.wallet(db, to)
	if err != nil {
		return err
	}
	got, err := dst.Get(asset)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(got, amount)
	if overflow {
		return errors.Wrapf(errors.ErrOverflow, "%s balance of %s", to, assetName(asset))
	}

	src.Set(asset, new(uint256.Int).Sub(have, amount))
	dst.Set(asset, sum)

	if err := c.bucket.Put(db, from, src); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := c.bucket.Put(db, to, dst); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

// Mint increases the balance of given address. It fails if the balance
// would overflow.
func (c BaseController) Mint(db weave.KVStore, asset, to weave.Address, amount *uint256.Int) error {
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	w, err := c.wallet(db, to)
	if err != nil {
		return err
	}
	got, err := w.Get(asset)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(got, amount)
	if overflow {
		return errors.Wrapf(errors.ErrOverflow, "%s balance of %s", to, assetName(asset))
	}
	w.Set(asset, sum)
	return c.bucket.Put(db, to, w)
}

// TransferNative moves native currency.
func (c BaseController) TransferNative(db weave.KVStore, from, to weave.Address, amount *uint256.Int) error {
	return c.Transfer(db, NativeAsset, from, to, amount)
}

// TransferToken moves a token identified by its contract address.
func (c BaseController) TransferToken(db weave.KVStore, token, from, to weave.Address, amount *uint256.Int) error {
	if err := token.Validate(); err != nil {
		return errors.Wrap(err, "token")
	}
	return c.Transfer(db, token, from, to, amount)
}

func assetName(asset weave.Address) string {
	if len(asset) == 0 {
		return "native"
	}
	return asset.String()
}
