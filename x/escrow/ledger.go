package escrow

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/orm"
)

// Ledger is the set of consumed authorizations of all accounts. Records are
// never removed.
type Ledger struct {
	bucket orm.ModelBucket
}

// NewLedger returns a ledger stored in the authorization bucket.
func NewLedger() Ledger {
	return Ledger{bucket: NewAuthorizationBucket()}
}

// IsConsumed returns true if the authorization id was used by given
// account.
func (l Ledger) IsConsumed(db weave.ReadOnlyKVStore, account weave.Address, id []byte) (bool, error) {
	switch err := l.bucket.Has(db, authorizationKey(account, id)); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// Consume stores the record. It fails with ErrAlreadyConsumed if the
// authorization was used before.
func (l Ledger) Consume(db weave.KVStore, rec *Authorization) error {
	used, err := l.IsConsumed(db, rec.Account, rec.ID)
	if err != nil {
		return err
	}
	if used {
		return errors.Wrapf(ErrAlreadyConsumed, "%x", rec.ID)
	}
	return l.bucket.Put(db, rec.Key(), rec)
}
