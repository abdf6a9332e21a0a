package escrow

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/errors"
)

const maxSaltSize = 32

// BootstrapAttestation creates an account. AddressHash is the hash of the
// first signer address and Signature is that signer's signature of it.
type BootstrapAttestation struct {
	MasterLogic weave.Address
	AddressHash crypto.Hash
	Signature   []byte
	// Salt allows a signer to create many accounts with the same logic.
	Salt []byte
}

// Validate checks the attestation is well formed.
func (b *BootstrapAttestation) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "MasterLogic", b.MasterLogic.Validate())
	if b.AddressHash.IsZero() {
		errs = errors.Append(errs, errors.Field("AddressHash", errors.ErrEmpty, "required"))
	}
	if len(b.Signature) != crypto.SignatureLength {
		errs = errors.Append(errs, errors.Field("Signature", errors.ErrInvalidSignature, "must be %d bytes", crypto.SignatureLength))
	}
	if len(b.Salt) > maxSaltSize {
		errs = errors.Append(errs, errors.Field("Salt", errors.ErrInput, "longer than %d", maxSaltSize))
	}
	return errs
}

// Address returns the address of the account this attestation creates.
func (b *BootstrapAttestation) Address() weave.Address {
	return InstanceAddress(b.MasterLogic, b.Salt, b.AddressHash)
}
