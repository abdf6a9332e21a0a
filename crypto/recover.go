package crypto

import (
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
)

// SignatureLength is the size of r || s || v.
const SignatureLength = 65

// Recoverer returns the address of the party that signed given hash.
// Implementations must be pure.
type Recoverer interface {
	Recover(h Hash, signature []byte) (weave.Address, error)
}

// EthRecoverer implements the personal message convention: the signature is
// verified against the MessageHash of given hash.
type EthRecoverer struct{}

var _ Recoverer = EthRecoverer{}

// Recover returns the address that created the signature. The recovery id
// can be provided either as 0/1 or as 27/28.
func (EthRecoverer) Recover(h Hash, signature []byte) (weave.Address, error) {
	if len(signature) != SignatureLength {
		return nil, errors.Wrapf(errors.ErrInvalidSignature, "signature must be %d bytes, got %d", SignatureLength, len(signature))
	}

	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !ethcrypto.ValidateSignatureValues(sig[64], r, s, false) {
		return nil, errors.Wrap(errors.ErrInvalidSignature, "signature values out of range")
	}

	msg := MessageHash(h)
	pub, err := ethcrypto.SigToPub(msg[:], sig)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidSignature, err.Error())
	}
	return weave.Address(ethcrypto.PubkeyToAddress(*pub).Bytes()), nil
}

// RecoverFunc adapts a function to the Recoverer interface.
type RecoverFunc func(h Hash, signature []byte) (weave.Address, error)

// Recover calls fn.
func (fn RecoverFunc) Recover(h Hash, signature []byte) (weave.Address, error) {
	return fn(h, signature)
}
