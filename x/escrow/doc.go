/*
Package escrow implements accounts that hold native currency and tokens and
release them only against a single use authorization signed by one of the
account signers.

Every account delegates to a shared master Logic, selected at creation time.
The Logic holds no per account state: the Account and its ledger of consumed
authorizations are passed to it explicitly.

An account is created from a bootstrap attestation, a signature of the
keccak256 hash of the signer's own address. The signer becomes the first and
only member of the account signer set. Signers can then add and remove other
signers, including themselves.

A funding request is relayed by anyone. It carries a signature over

	keccak256(id || recipient || token || tokenAmount || nativeAmount)

and is executed at most once per authorization id.
*/
package escrow
