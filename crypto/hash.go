package crypto

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
)

// HashLength is the size of a keccak256 digest.
const HashLength = 32

// Hash is a keccak256 digest.
type Hash [HashLength]byte

// Keccak256 returns the digest of all data concatenated.
func Keccak256(data ...[]byte) Hash {
	var h Hash
	copy(h[:], ethcrypto.Keccak256(data...))
	return h
}

// HashFromBytes copies given value into a hash. It fails if the length does
// not match.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashLength {
		return h, errors.Wrapf(errors.ErrInput, "hash must be %d bytes, got %d", HashLength, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// MessageHash returns the digest that is signed by a personal message
// signature of given hash.
//
//	keccak256("\x19Ethereum Signed Message:\n32" || hash)
func MessageHash(h Hash) Hash {
	var res Hash
	copy(res[:], accounts.TextHash(h[:]))
	return res
}

// AddressHash returns the keccak256 digest of the raw address bytes. This is
// the value a signer attests to when bootstrapping an account.
func AddressHash(addr weave.Address) Hash {
	return Keccak256(addr)
}

// Bytes returns a copy of the hash as a slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashLength)
	copy(b, h[:])
	return b
}

// IsZero returns true if all bytes of the hash are zero.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Hex returns the 0x prefixed hex representation.
func (h Hash) Hex() string {
	return hexutil.Encode(h[:])
}

func (h Hash) String() string {
	return h.Hex()
}

// MarshalJSON encodes the hash as a 0x prefixed hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

// UnmarshalJSON decodes a 0x prefixed hex string.
func (h *Hash) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "hash must be a string")
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	res, err := HashFromBytes(b)
	if err != nil {
		return err
	}
	*h = res
	return nil
}
