package escrow

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/orm"
	"github.com/limepay/weave/x/cash"
)

const (
	// AccountBucketName is where the accounts are stored.
	AccountBucketName = "escacc"
	// AuthorizationBucketName is where the consumed authorizations are
	// stored.
	AuthorizationBucketName = "escauth"
)

// Account is the state of a single escrow instance. Balances of the account
// are kept by the bank under the account address.
type Account struct {
	Metadata *weave.Metadata `json:"metadata"`
	Address  weave.Address   `json:"address"`
	// MasterLogic is the address of the logic this account delegates to. It
	// never changes.
	MasterLogic weave.Address `json:"master_logic"`
	// Signers may authorize fundings and change this list. It may be
	// empty, in which case the account is locked forever.
	Signers []weave.Address `json:"signers"`
}

var _ orm.Model = (*Account)(nil)

// Validate ensures the account is well formed.
func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Address", a.Address.Validate())
	errs = errors.AppendField(errs, "MasterLogic", a.MasterLogic.Validate())
	for i, s := range a.Signers {
		if err := s.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Signers", err, "signer %d", i))
			continue
		}
		for _, prev := range a.Signers[:i] {
			if prev.Equals(s) {
				errs = errors.Append(errs, errors.Field("Signers", errors.ErrDuplicate, "signer %s", s))
			}
		}
	}
	return errs
}

// IsSigner returns true if given address is a current signer.
func (a *Account) IsSigner(addr weave.Address) bool {
	for _, s := range a.Signers {
		if s.Equals(addr) {
			return true
		}
	}
	return false
}

// setSigner adds or removes an address from the signers. It returns false
// if the signers did not change.
func (a *Account) setSigner(addr weave.Address, enabled bool) bool {
	for i, s := range a.Signers {
		if !s.Equals(addr) {
			continue
		}
		if enabled {
			return false
		}
		a.Signers = append(a.Signers[:i:i], a.Signers[i+1:]...)
		return true
	}
	if !enabled {
		return false
	}
	a.Signers = append(a.Signers, addr.Clone())
	return true
}

// Marshal serializes the account.
func (a *Account) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(a)
}

// Unmarshal deserializes the account.
func (a *Account) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, a)
}

// NewAccountBucket returns the bucket of accounts, keyed by address.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket(AccountBucketName, &Account{})
}

// Authorization is the record of a consumed authorization. Only its
// existence matters for replay protection, the rest is kept for
// monitoring.
type Authorization struct {
	Metadata     *weave.Metadata `json:"metadata"`
	Account      weave.Address   `json:"account"`
	ID           []byte          `json:"id"`
	Recipient    weave.Address   `json:"recipient"`
	Token        weave.Address   `json:"token"`
	TokenAmount  []byte          `json:"token_amount"`
	NativeAmount []byte          `json:"native_amount"`
	// Height is the block height at which the authorization was
	// consumed.
	Height int64 `json:"height"`
}

var _ orm.Model = (*Authorization)(nil)

// Validate ensures the record is well formed.
func (a *Authorization) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Account", a.Account.Validate())
	if len(a.ID) != idLength {
		errs = errors.Append(errs, errors.Field("ID", errors.ErrInput, "must be %d bytes", idLength))
	}
	errs = errors.AppendField(errs, "Recipient", a.Recipient.Validate())
	errs = errors.AppendField(errs, "Token", a.Token.Validate())
	if len(a.TokenAmount) != cash.AmountLength {
		errs = errors.Append(errs, errors.Field("TokenAmount", errors.ErrAmount, "must be %d bytes", cash.AmountLength))
	}
	if len(a.NativeAmount) != cash.AmountLength {
		errs = errors.Append(errs, errors.Field("NativeAmount", errors.ErrAmount, "must be %d bytes", cash.AmountLength))
	}
	if a.Height < 0 {
		errs = errors.Append(errs, errors.Field("Height", errors.ErrInput, "negative"))
	}
	return errs
}

// Key returns the primary key of the record.
func (a *Authorization) Key() []byte {
	return authorizationKey(a.Account, a.ID)
}

// Marshal serializes the record.
func (a *Authorization) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(a)
}

// Unmarshal deserializes the record.
func (a *Authorization) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, a)
}

// NewAuthorizationBucket returns the bucket of consumed authorizations,
// keyed by account address followed by the authorization id. A prefix query
// with an account address lists all authorizations of that account.
func NewAuthorizationBucket() orm.ModelBucket {
	return orm.NewModelBucket(AuthorizationBucketName, &Authorization{})
}

func authorizationKey(account weave.Address, id []byte) []byte {
	key := make([]byte, 0, len(account)+len(id))
	key = append(key, account...)
	return append(key, id...)
}
