package cash

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
)

const optKey = "cash"

// GenesisCoin is an amount of an asset as written in the genesis file.
type GenesisCoin struct {
	// Asset is the token contract address, empty for native currency.
	Asset  weave.Address `json:"asset"`
	Amount string        `json:"amount"`
}

// GenesisAccount is used to parse the json from genesis file.
type GenesisAccount struct {
	Address weave.Address `json:"address"`
	Coins   []GenesisCoin `json:"coins"`
}

// Initializer fulfils the weave.Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis and save it to
// the database.
func (Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	control := NewController()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			amount, err := ParseAmount(c.Amount)
			if err != nil {
				return errors.Wrapf(err, "account %s", acct.Address)
			}
			if err := control.Mint(kv, c.Asset, acct.Address, amount); err != nil {
				return errors.Wrapf(err, "account %s", acct.Address)
			}
		}
	}
	return nil
}
