package crypto

import (
	"testing"

	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/weavetest/assert"
)

const keyOne = "0x0000000000000000000000000000000000000000000000000000000000000001"

func TestKeccak256(t *testing.T) {
	const emptyHash = "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	assert.Equal(t, emptyHash, Keccak256().Hex())
	assert.Equal(t, Keccak256([]byte("foobar")), Keccak256([]byte("foo"), []byte("bar")))
}

func TestLoadPrivateKey(t *testing.T) {
	key, err := LoadPrivateKey(keyOne)
	assert.Nil(t, err)
	assert.Equal(t, "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", key.Address().String())
	assert.Equal(t, keyOne, key.Hex())

	_, err = LoadPrivateKey("0xzz")
	assert.IsErr(t, errors.ErrInput, err)
}

func TestSignAndRecover(t *testing.T) {
	key, err := GenPrivateKey()
	assert.Nil(t, err)

	h := Keccak256([]byte("authorization"))
	sig, err := key.SignHash(h)
	assert.Nil(t, err)
	assert.Equal(t, SignatureLength, len(sig))
	if sig[64] != 27 && sig[64] != 28 {
		t.Fatalf("unexpected recovery id %d", sig[64])
	}

	var rec EthRecoverer
	addr, err := rec.Recover(h, sig)
	assert.Nil(t, err)
	assert.Equal(t, key.Address(), addr)

	// Recovery id in the 0/1 form is accepted as well.
	raw := append([]byte{}, sig...)
	raw[64] -= 27
	addr, err = rec.Recover(h, raw)
	assert.Nil(t, err)
	assert.Equal(t, key.Address(), addr)

	// Signature over a different hash recovers a different address.
	other, err := rec.Recover(Keccak256([]byte("other")), sig)
	assert.Nil(t, err)
	if other.Equals(key.Address()) {
		t.Fatal("signature must not match another hash")
	}
}

func TestRecoverInvalidSignature(t *testing.T) {
	key, err := GenPrivateKey()
	assert.Nil(t, err)
	h := Keccak256([]byte("x"))
	sig, err := key.SignHash(h)
	assert.Nil(t, err)

	badV := append([]byte{}, sig...)
	badV[64] = 5

	zeroRS := make([]byte, SignatureLength)
	zeroRS[64] = 27

	cases := map[string][]byte{
		"empty":        nil,
		"too short":    sig[:64],
		"too long":     append(append([]byte{}, sig...), 0),
		"bad recovery": badV,
		"zero r and s": zeroRS,
	}
	var rec EthRecoverer
	for testName, s := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := rec.Recover(h, s)
			assert.IsErr(t, errors.ErrInvalidSignature, err)
		})
	}
}

func TestAttest(t *testing.T) {
	key, err := LoadPrivateKey(keyOne)
	assert.Nil(t, err)

	h, sig, err := key.Attest()
	assert.Nil(t, err)
	assert.Equal(t, AddressHash(key.Address()), h)

	addr, err := EthRecoverer{}.Recover(h, sig)
	assert.Nil(t, err)
	assert.Equal(t, AddressHash(addr), h)
}

func TestRecoverFunc(t *testing.T) {
	want := weave.NewAddress([]byte("fixed"))
	var rec Recoverer = RecoverFunc(func(Hash, []byte) (weave.Address, error) {
		return want, nil
	})
	got, err := rec.Recover(Hash{}, nil)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
}

func TestHashJSON(t *testing.T) {
	h := Keccak256([]byte("json"))
	raw, err := h.MarshalJSON()
	assert.Nil(t, err)

	var back Hash
	assert.Nil(t, back.UnmarshalJSON(raw))
	assert.Equal(t, h, back)

	assert.IsErr(t, errors.ErrInput, back.UnmarshalJSON([]byte(`"0x1234"`)))
	_, err = HashFromBytes([]byte{1})
	assert.IsErr(t, errors.ErrInput, err)
}
