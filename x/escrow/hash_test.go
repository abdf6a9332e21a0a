package escrow

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/weavetest"
	"github.com/limepay/weave/weavetest/assert"
)

func TestAuthorizationHash(t *testing.T) {
	id := authorizationID("id")
	recipient := weavetest.NewAddress("recipient")
	token := weavetest.NewAddress("token")
	thousand := uint256.NewInt(1000)

	base := AuthorizationHash(id, recipient, token, thousand, thousand)

	// tightly packed bytes32, address, address, uint256, uint256
	var packed []byte
	packed = append(packed, id[:]...)
	packed = append(packed, recipient...)
	packed = append(packed, token...)
	amount := thousand.Bytes32()
	packed = append(packed, amount[:]...)
	packed = append(packed, amount[:]...)
	assert.Equal(t, crypto.Keccak256(packed), base)

	variants := map[string]crypto.Hash{
		"id":            AuthorizationHash(authorizationID("other"), recipient, token, thousand, thousand),
		"recipient":     AuthorizationHash(id, token, token, thousand, thousand),
		"token":         AuthorizationHash(id, recipient, recipient, thousand, thousand),
		"token amount":  AuthorizationHash(id, recipient, token, uint256.NewInt(1001), thousand),
		"native amount": AuthorizationHash(id, recipient, token, thousand, uint256.NewInt(1001)),
		"swapped":       AuthorizationHash(id, token, recipient, thousand, thousand),
	}
	for name, h := range variants {
		if h == base {
			t.Errorf("%s change does not change the hash", name)
		}
	}
}

func TestInstanceAddress(t *testing.T) {
	addrHash := crypto.AddressHash(weavetest.NewAddress("signer"))

	a := InstanceAddress(MasterLogicV1, nil, addrHash)
	assert.Equal(t, weave.AddressLength, len(a))
	assert.Equal(t, a, InstanceAddress(MasterLogicV1, []byte{}, addrHash))

	if a.Equals(InstanceAddress(MasterLogicV1, []byte("1"), addrHash)) {
		t.Fatal("salt does not change the address")
	}
	if a.Equals(InstanceAddress(weavetest.NewAddress("v2"), nil, addrHash)) {
		t.Fatal("master logic does not change the address")
	}
	if a.Equals(InstanceAddress(MasterLogicV1, nil, crypto.Keccak256([]byte("x")))) {
		t.Fatal("address hash does not change the address")
	}
}

func TestPad(t *testing.T) {
	assert.Equal(t, make([]byte, weave.AddressLength), pad(nil))
	addr := weavetest.NewAddress("a")
	assert.Equal(t, []byte(addr), pad(addr))
	short := pad(weave.Address{1, 2})
	assert.Equal(t, byte(1), short[weave.AddressLength-2])
	assert.Equal(t, byte(2), short[weave.AddressLength-1])
}
