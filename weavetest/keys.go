package weavetest

import (
	"testing"

	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
)

// NewKey returns a new random signing key. It fails the test if the key
// cannot be generated.
func NewKey(t testing.TB) *crypto.PrivateKey {
	t.Helper()
	key, err := crypto.GenPrivateKey()
	if err != nil {
		t.Fatalf("cannot generate key: %s", err)
	}
	return key
}

// SequenceAddress returns an address that is unique for given number.
func SequenceAddress(n int) weave.Address {
	addr := make(weave.Address, weave.AddressLength)
	for i := len(addr) - 1; n > 0 && i >= 0; i-- {
		addr[i] = byte(n)
		n >>= 8
	}
	return addr
}

// NewAddress returns a random looking address derived from given name.
func NewAddress(name string) weave.Address {
	return weave.NewAddress([]byte(name))
}

// Sign signs given hash and fails the test on error.
func Sign(t testing.TB, key *crypto.PrivateKey, h crypto.Hash) []byte {
	t.Helper()
	sig, err := key.SignHash(h)
	if err != nil {
		t.Fatalf("cannot sign: %s", err)
	}
	return sig
}
