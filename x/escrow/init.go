package escrow

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/errors"
)

const optKey = "escrow"

// GenesisAccount is an attestation as written in the genesis file.
type GenesisAccount struct {
	MasterLogic weave.Address `json:"master_logic"`
	AddressHash crypto.Hash   `json:"address_hash"`
	Signature   hexutil.Bytes `json:"signature"`
	Salt        hexutil.Bytes `json:"salt,omitempty"`
}

// Initializer bootstraps the accounts listed in the genesis file.
type Initializer struct {
	control Controller
}

var _ weave.Initializer = Initializer{}

// NewInitializer returns an initializer creating accounts with given
// controller.
func NewInitializer(control Controller) Initializer {
	return Initializer{control: control}
}

// FromGenesis bootstraps every account, the same way CreateAccountMsg does.
func (i Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	for n, a := range accts {
		att := &BootstrapAttestation{
			MasterLogic: a.MasterLogic,
			AddressHash: a.AddressHash,
			Signature:   a.Signature,
			Salt:        a.Salt,
		}
		if _, _, err := i.control.Bootstrap(kv, att); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
	}
	return nil
}
