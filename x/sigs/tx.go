package sigs

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
)

// SignedTx represents a transaction that contains signatures, which can be
// verified by the Decorator.
type SignedTx interface {
	weave.Tx

	// GetSignBytes returns the canonical byte representation of the
	// message. Used to verify the signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns all signatures of this transaction.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature of a transaction, together with the sequence
// it was created for.
type StdSignature struct {
	Sequence  int64  `json:"sequence"`
	Signature []byte `json:"signature"`
}

// Validate ensures the signature is well formed.
func (s *StdSignature) Validate() error {
	if s == nil {
		return errors.Wrap(errors.ErrEmpty, "signature")
	}
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrInvalidSignature, "empty")
	}
	return nil
}
