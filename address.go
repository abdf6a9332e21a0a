package weave

import (
	"bytes"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/limepay/weave/errors"
)

// AddressLength is the length of all addresses. Addresses use the Ethereum
// format, so that signers and tokens can be referenced with the same values
// as on the Ethereum network.
const AddressLength = common.AddressLength

// Address represents a collision-free, one-way digest of data (usually a
// public key) that can be used to identify a signer, an account or a token.
//
// It is of size AddressLength.
type Address []byte

// Equals checks if two addresses are the same.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Clone returns a copy that does not share memory with the original.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	cpy := make(Address, len(a))
	copy(cpy, a)
	return cpy
}

// MarshalJSON provides a hex representation for JSON, to override the
// standard base64 []byte encoding.
func (a Address) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return []byte(`""`), nil
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON parses a 0x prefixed hex representation. An empty string
// is a nil address.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "address must be a string")
	}
	if s == "" {
		*a = nil
		return nil
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// String returns the EIP-55 checksummed hex representation.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	if len(a) != AddressLength {
		return hexutil.Encode(a)
	}
	return common.BytesToAddress(a).Hex()
}

// Validate returns an error if the address is not the valid size.
func (a Address) Validate() error {
	if len(a) == 0 {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address length %d", len(a))
	}
	return nil
}

// ParseAddress decodes a 0x prefixed hex representation of an address.
func ParseAddress(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return nil, errors.Wrapf(errors.ErrInput, "invalid address %q", s)
	}
	return Address(common.HexToAddress(s).Bytes()), nil
}

// NewAddress hashes and truncates into the proper size, the same way an
// Ethereum address is derived from a public key.
func NewAddress(data []byte) Address {
	h := crypto.Keccak256(data)
	return Address(h[len(h)-AddressLength:])
}

// ObjAddress takes the address of an object.
func ObjAddress(obj Marshaller) (Address, error) {
	bz, err := obj.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal")
	}
	return NewAddress(bz), nil
}
