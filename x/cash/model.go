package cash

import (
	"github.com/holiman/uint256"
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/orm"
)

// BucketName is where we store the wallets.
const BucketName = "cash"

// NativeAsset is the asset identifier of the native currency.
var NativeAsset weave.Address

// Balance is the amount of a single asset held by a wallet.
type Balance struct {
	// Asset is the token contract address, empty for native currency.
	Asset  weave.Address `json:"asset"`
	Amount []byte        `json:"amount"`
}

// Wallet holds all balances of a single address.
type Wallet struct {
	Metadata *weave.Metadata `json:"metadata"`
	Balances []*Balance      `json:"balances"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate ensures all balances are well formed and not repeated.
func (w *Wallet) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", w.Metadata.Validate())
	seen := make(map[string]struct{}, len(w.Balances))
	for i, b := range w.Balances {
		if b == nil {
			errs = errors.Append(errs, errors.Field("Balances", errors.ErrEmpty, "balance %d", i))
			continue
		}
		if len(b.Asset) != 0 {
			if err := b.Asset.Validate(); err != nil {
				errs = errors.Append(errs, errors.Field("Balances", err, "asset %d", i))
			}
		}
		if len(b.Amount) != AmountLength {
			errs = errors.Append(errs, errors.Field("Balances", errors.ErrAmount, "amount %d", i))
		}
		if _, ok := seen[string(b.Asset)]; ok {
			errs = errors.Append(errs, errors.Field("Balances", errors.ErrDuplicate, "asset %s", b.Asset))
		}
		seen[string(b.Asset)] = struct{}{}
	}
	return errs
}

// Get returns the amount of given asset. Missing asset is a zero balance.
func (w *Wallet) Get(asset weave.Address) (*uint256.Int, error) {
	for _, b := range w.Balances {
		if b.Asset.Equals(asset) {
			return DecodeAmount(b.Amount)
		}
	}
	return new(uint256.Int), nil
}

// Set changes the amount of given asset. Zero balances are removed.
func (w *Wallet) Set(asset weave.Address, amount *uint256.Int) {
	for i, b := range w.Balances {
		if !b.Asset.Equals(asset) {
			continue
		}
		if amount.IsZero() {
			w.Balances = append(w.Balances[:i], w.Balances[i+1:]...)
		} else {
			b.Amount = EncodeAmount(amount)
		}
		return
	}
	if amount.IsZero() {
		return
	}
	w.Balances = append(w.Balances, &Balance{
		Asset:  asset.Clone(),
		Amount: EncodeAmount(amount),
	})
}

// Marshal serializes the wallet.
func (w *Wallet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(w)
}

// Unmarshal deserializes the wallet.
func (w *Wallet) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, w)
}

// NewBucket returns the bucket of wallets, keyed by holder address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}
