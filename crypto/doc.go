/*
Package crypto verifies and produces Ethereum compatible signatures.

Signatures are 65 bytes long, r || s || v, created over the personal message
digest of a 32 byte hash:

	keccak256("\x19Ethereum Signed Message:\n32" || hash)

Recovering the public key from a signature gives the address of the signer,
the last 20 bytes of the keccak256 hash of the uncompressed public key.
*/
package crypto
