package sigs

import (
	"encoding/binary"

	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build a
// signature.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks all the signatures on the tx.
//
// Returns the list of signer addresses (possibly empty), or an error if any
// signature is invalid. Sequences of all signers are incremented.
func VerifyTxSignatures(db weave.KVStore, rec crypto.Recoverer, tx SignedTx, chainID string) ([]weave.Address, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	sigs := tx.GetSignatures()

	signers := make([]weave.Address, 0, len(sigs))
	for i, sig := range sigs {
		signer, err := VerifySignature(db, rec, sig, bz, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature recovers the signer of one signature, checks its sequence
// and updates the state in the store.
func VerifySignature(db weave.KVStore, rec crypto.Recoverer, sig *StdSignature, signBytes []byte, chainID string) (weave.Address, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	h, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	signer, err := rec.Recover(h, sig.Signature)
	if err != nil {
		return nil, err
	}

	bucket := NewBucket()
	user, err := loadUser(db, bucket, signer)
	if err != nil {
		return nil, err
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Put(db, signer, user); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return signer, nil
}

/*
BuildSignBytes combines all info on the actual tx before signing.

We use the following format:

version | len(chainID) | chainID      | sequence          | signBytes
4bytes  | uint8        | ascii string | int64 (bigendian) | serialized transaction

The keccak256 digest of the result is what gets signed.
*/
func BuildSignBytes(signBytes []byte, chainID string, seq int64) (crypto.Hash, error) {
	if seq < 0 {
		return crypto.Hash{}, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !weave.IsValidChainID(chainID) {
		return crypto.Hash{}, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(seq))

	return crypto.Keccak256(
		SignCodeV1,
		[]byte{uint8(len(chainID))},
		[]byte(chainID),
		nonce,
		signBytes,
	), nil
}

// SignTx creates a signature for the given tx.
func SignTx(key *crypto.PrivateKey, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	h, err := BuildSignBytes(signBytes, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := key.SignHash(h)
	if err != nil {
		return nil, err
	}
	return &StdSignature{Sequence: seq, Signature: sig}, nil
}

// NextNonce returns the sequence value that must be used for the next
// signature of given signer. Sequence counting starts with zero.
func NextNonce(db weave.ReadOnlyKVStore, signer weave.Address) (int64, error) {
	user, err := loadUser(db, NewBucket(), signer)
	if err != nil {
		return 0, err
	}
	return user.Sequence, nil
}
