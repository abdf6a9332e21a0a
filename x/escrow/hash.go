package escrow

import (
	"github.com/holiman/uint256"
	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
)

// AuthorizationHash returns the digest a signer signs to authorize a
// funding. It is the keccak256 of the tightly packed values
//
//	bytes32 id, address recipient, address token, uint256 tokenAmount, uint256 nativeAmount
//
// so every field of the request is bound by the signature.
func AuthorizationHash(id crypto.Hash, recipient, token weave.Address, tokenAmount, nativeAmount *uint256.Int) crypto.Hash {
	ta := tokenAmount.Bytes32()
	na := nativeAmount.Bytes32()
	return crypto.Keccak256(id[:], pad(recipient), pad(token), ta[:], na[:])
}

// InstanceAddress returns the address of the account created by given
// attestation values.
//
//	keccak256(0xff || masterLogic || keccak256(salt) || addressHash)[12:]
//
// The same values always produce the same account.
func InstanceAddress(masterLogic weave.Address, salt []byte, addressHash crypto.Hash) weave.Address {
	saltHash := crypto.Keccak256(salt)
	h := crypto.Keccak256([]byte{0xff}, pad(masterLogic), saltHash[:], addressHash[:])
	return weave.Address(h[crypto.HashLength-weave.AddressLength:])
}

// pad left pads an address to its fixed size, so a missing value is hashed
// as the zero address.
func pad(a weave.Address) []byte {
	b := make([]byte, weave.AddressLength)
	if len(a) > weave.AddressLength {
		a = a[len(a)-weave.AddressLength:]
	}
	copy(b[weave.AddressLength-len(a):], a)
	return b
}
