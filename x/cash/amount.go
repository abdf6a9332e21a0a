package cash

import (
	"github.com/holiman/uint256"
	"github.com/limepay/weave/errors"
)

// AmountLength is the size of a serialized amount.
const AmountLength = 32

// ParseAmount reads a base 10 representation of an amount.
func ParseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "amount")
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrAmount, "%q: %s", s, err)
	}
	return v, nil
}

// EncodeAmount returns the 32 byte big endian representation of an amount.
func EncodeAmount(v *uint256.Int) []byte {
	b := v.Bytes32()
	return b[:]
}

// DecodeAmount reads a big endian representation of an amount. Empty value
// is zero.
func DecodeAmount(b []byte) (*uint256.Int, error) {
	if len(b) > AmountLength {
		return nil, errors.Wrapf(errors.ErrAmount, "amount too long: %d bytes", len(b))
	}
	return new(uint256.Int).SetBytes(b), nil
}
