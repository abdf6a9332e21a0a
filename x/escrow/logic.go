package escrow

import (
	"github.com/holiman/uint256"
	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/x/cash"
)

const idLength = crypto.HashLength

// NativeAsset is the asset identifier of the native currency in the Bank.
var NativeAsset weave.Address

// Bank moves funds between addresses. Transfers must either fully succeed
// or change nothing.
type Bank interface {
	Balance(db weave.ReadOnlyKVStore, holder, asset weave.Address) (*uint256.Int, error)
	TransferNative(db weave.KVStore, from, to weave.Address, amount *uint256.Int) error
	TransferToken(db weave.KVStore, token, from, to weave.Address, amount *uint256.Int) error
}

// FundingRequest asks an account to release funds to a recipient.
type FundingRequest struct {
	AuthorizationID crypto.Hash
	Recipient       weave.Address
	Token           weave.Address
	TokenAmount     *uint256.Int
	NativeAmount    *uint256.Int
	// Signature of the Hash of this request by an account signer.
	Signature []byte
}

// Validate checks the request is well formed.
func (r *FundingRequest) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Recipient", r.Recipient.Validate())
	errs = errors.AppendField(errs, "Token", r.Token.Validate())
	if r.TokenAmount == nil {
		errs = errors.Append(errs, errors.Field("TokenAmount", errors.ErrEmpty, "required"))
	}
	if r.NativeAmount == nil {
		errs = errors.Append(errs, errors.Field("NativeAmount", errors.ErrEmpty, "required"))
	}
	if len(r.Signature) != crypto.SignatureLength {
		errs = errors.Append(errs, errors.Field("Signature", errors.ErrInvalidSignature, "must be %d bytes", crypto.SignatureLength))
	}
	return errs
}

// Hash returns the value that must be signed to authorize this request.
func (r *FundingRequest) Hash() crypto.Hash {
	return AuthorizationHash(r.AuthorizationID, r.Recipient, r.Token, r.TokenAmount, r.NativeAmount)
}

// Logic implements the behaviour shared by all accounts delegating to the
// same master logic. It holds no account state.
type Logic struct {
	rec    crypto.Recoverer
	bank   Bank
	ledger Ledger
}

// NewLogic returns a logic recovering signers with rec and moving funds
// with bank.
func NewLogic(rec crypto.Recoverer, bank Bank) *Logic {
	return &Logic{
		rec:    rec,
		bank:   bank,
		ledger: NewLedger(),
	}
}

// IsSigner returns true if addr is a signer of the account.
func (l *Logic) IsSigner(acct *Account, addr weave.Address) bool {
	return acct.IsSigner(addr)
}

// SetSigner enables or disables target as a signer of the account. The
// caller must be a current signer. Setting an unchanged value succeeds.
// Only the account value is updated, storing it is up to the caller.
func (l *Logic) SetSigner(acct *Account, caller, target weave.Address, enabled bool) (*SignerChanged, error) {
	if err := target.Validate(); err != nil {
		return nil, errors.Wrap(err, "signer")
	}
	if !acct.IsSigner(caller) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not a signer", caller)
	}
	acct.setSigner(target, enabled)
	return &SignerChanged{
		Account: acct.Address,
		Signer:  target.Clone(),
		Enabled: enabled,
	}, nil
}

// IsConsumed returns true if the authorization id was used by the account.
func (l *Logic) IsConsumed(db weave.ReadOnlyKVStore, acct *Account, id crypto.Hash) (bool, error) {
	return l.ledger.IsConsumed(db, acct.Address, id[:])
}

// Consume marks the authorization id as used by the account.
func (l *Logic) Consume(ctx weave.Context, db weave.KVStore, acct *Account, req *FundingRequest) error {
	height, _ := weave.GetHeight(ctx)
	return l.ledger.Consume(db, &Authorization{
		Metadata:     &weave.Metadata{Schema: 1},
		Account:      acct.Address,
		ID:           req.AuthorizationID.Bytes(),
		Recipient:    req.Recipient,
		Token:        req.Token,
		TokenAmount:  cash.EncodeAmount(req.TokenAmount),
		NativeAmount: cash.EncodeAmount(req.NativeAmount),
		Height:       height,
	})
}

// VerifyFund runs all checks of Fund without changing any state. It returns
// the signer that authorized the request.
func (l *Logic) VerifyFund(db weave.ReadOnlyKVStore, acct *Account, req *FundingRequest) (weave.Address, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	signer, err := l.rec.Recover(req.Hash(), req.Signature)
	if err != nil {
		return nil, errors.Wrap(err, "recover signer")
	}
	if !acct.IsSigner(signer) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not a signer", signer)
	}

	used, err := l.IsConsumed(db, acct, req.AuthorizationID)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, errors.Wrapf(ErrAlreadyConsumed, "%s", req.AuthorizationID)
	}

	if err := l.ensureBalance(db, acct.Address, NativeAsset, req.NativeAmount); err != nil {
		return nil, errors.Wrap(err, "native")
	}
	if err := l.ensureBalance(db, acct.Address, req.Token, req.TokenAmount); err != nil {
		return nil, errors.Wrapf(err, "token %s", req.Token)
	}
	if !req.Recipient.Equals(acct.Address) {
		if err := l.ensureReceivable(db, req.Recipient, NativeAsset, req.NativeAmount); err != nil {
			return nil, errors.Wrap(err, "native")
		}
		if err := l.ensureReceivable(db, req.Recipient, req.Token, req.TokenAmount); err != nil {
			return nil, errors.Wrapf(err, "token %s", req.Token)
		}
	}
	return signer, nil
}

func (l *Logic) ensureBalance(db weave.ReadOnlyKVStore, holder, asset weave.Address, want *uint256.Int) error {
	if want.IsZero() {
		return nil
	}
	have, err := l.bank.Balance(db, holder, asset)
	if err != nil {
		return err
	}
	if have.Lt(want) {
		return errors.Wrapf(errors.ErrInsufficientFunds, "have %s, want %s", have.Dec(), want.Dec())
	}
	return nil
}

// ensureReceivable fails if crediting want to the holder would overflow its
// balance.
func (l *Logic) ensureReceivable(db weave.ReadOnlyKVStore, holder, asset weave.Address, want *uint256.Int) error {
	if want.IsZero() {
		return nil
	}
	have, err := l.bank.Balance(db, holder, asset)
	if err != nil {
		return err
	}
	if _, overflow := new(uint256.Int).AddOverflow(have, want); overflow {
		return errors.Wrapf(errors.ErrOverflow, "%s balance", holder)
	}
	return nil
}

// Fund releases the requested amounts from the account to the recipient
// and consumes the authorization. All checks are done before any state is
// changed. When db can be cache wrapped, the writes are applied only if all
// of them succeed, so a failed request changes nothing.
func (l *Logic) Fund(ctx weave.Context, db weave.KVStore, acct *Account, req *FundingRequest) (*FundingConsumed, error) {
	signer, err := l.VerifyFund(db, acct, req)
	if err != nil {
		return nil, err
	}

	if cacheable, ok := db.(weave.CacheableKVStore); ok {
		cache := cacheable.CacheWrap()
		if err := l.release(ctx, cache, acct, req); err != nil {
			cache.Discard()
			return nil, err
		}
		if err := cache.Write(); err != nil {
			return nil, errors.Wrap(err, "write")
		}
	} else if err := l.release(ctx, db, acct, req); err != nil {
		return nil, err
	}

	return &FundingConsumed{
		Account:         acct.Address,
		AuthorizationID: req.AuthorizationID.Bytes(),
		Signer:          signer,
		Recipient:       req.Recipient,
		Token:           req.Token,
		TokenAmount:     req.TokenAmount,
		NativeAmount:    req.NativeAmount,
	}, nil
}

func (l *Logic) release(ctx weave.Context, db weave.KVStore, acct *Account, req *FundingRequest) error {
	if !req.NativeAmount.IsZero() {
		if err := l.bank.TransferNative(db, acct.Address, req.Recipient, req.NativeAmount); err != nil {
			return errors.Wrap(err, "transfer native")
		}
	}
	if !req.TokenAmount.IsZero() {
		if err := l.bank.TransferToken(db, req.Token, acct.Address, req.Recipient, req.TokenAmount); err != nil {
			return errors.Wrap(err, "transfer token")
		}
	}
	if err := l.Consume(ctx, db, acct, req); err != nil {
		return errors.Wrap(err, "consume")
	}
	return nil
}

// Attested returns the signer of a bootstrap attestation. The attestation
// must be a signature of the AddressHash of the signer itself.
func (l *Logic) Attested(att *BootstrapAttestation) (weave.Address, error) {
	signer, err := l.rec.Recover(att.AddressHash, att.Signature)
	if err != nil {
		return nil, errors.Wrap(err, "recover attestation signer")
	}
	if crypto.AddressHash(signer) != att.AddressHash {
		return nil, errors.Wrapf(ErrInvalidAttestation, "signed by %s", signer)
	}
	return signer, nil
}
