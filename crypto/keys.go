package crypto

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
)

// PrivateKey is a secp256k1 key that can produce signatures accepted by
// EthRecoverer.
type PrivateKey struct {
	key *ecdsa.PrivateKey
}

// GenPrivateKey creates a new random key.
func GenPrivateKey() (*PrivateKey, error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	return &PrivateKey{key: key}, nil
}

// LoadPrivateKey parses a hex encoded key, with or without the 0x prefix.
func LoadPrivateKey(s string) (*PrivateKey, error) {
	if len(s) > 2 && s[:2] == "0x" {
		s = s[2:]
	}
	key, err := ethcrypto.HexToECDSA(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &PrivateKey{key: key}, nil
}

// Address returns the address derived from the public key.
func (p *PrivateKey) Address() weave.Address {
	return weave.Address(ethcrypto.PubkeyToAddress(p.key.PublicKey).Bytes())
}

// Hex returns the 0x prefixed hex encoding of the key.
func (p *PrivateKey) Hex() string {
	return hexutil.Encode(ethcrypto.FromECDSA(p.key))
}

// SignHash returns a personal message signature of given hash. The recovery
// id of the signature is 27 or 28.
func (p *PrivateKey) SignHash(h Hash) ([]byte, error) {
	msg := MessageHash(h)
	sig, err := ethcrypto.Sign(msg[:], p.key)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	sig[64] += 27
	return sig, nil
}

// Attest signs the AddressHash of the key's own address.
func (p *PrivateKey) Attest() (Hash, []byte, error) {
	h := AddressHash(p.Address())
	sig, err := p.SignHash(h)
	return h, sig, err
}
