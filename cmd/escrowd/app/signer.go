package escrowd

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/x/escrow"
)

// KeyInfo describes a freshly generated signing key.
type KeyInfo struct {
	Address    weave.Address `json:"address"`
	PrivateKey string        `json:"private_key"`
}

// Keygen generates a new signing key.
func Keygen() (*KeyInfo, error) {
	key, err := crypto.GenPrivateKey()
	if err != nil {
		return nil, err
	}
	return &KeyInfo{Address: key.Address(), PrivateKey: key.Hex()}, nil
}

// Attestation is a signed bootstrap request, together with the address the
// account will be created at.
type Attestation struct {
	Account weave.Address         `json:"account"`
	Signer  weave.Address         `json:"signer"`
	Genesis escrow.GenesisAccount `json:"attestation"`
}

// Attest signs the address hash of the key owner, as needed to bootstrap an
// escrow account through genesis or a CreateAccountMsg.
func Attest(key *crypto.PrivateKey, masterLogic weave.Address, salt []byte) (*Attestation, error) {
	h, sig, err := key.Attest()
	if err != nil {
		return nil, err
	}
	att := escrow.BootstrapAttestation{
		MasterLogic: masterLogic,
		AddressHash: h,
		Signature:   sig,
		Salt:        salt,
	}
	if err := att.Validate(); err != nil {
		return nil, err
	}
	return &Attestation{
		Account: att.Address(),
		Signer:  key.Address(),
		Genesis: escrow.GenesisAccount{
			MasterLogic: masterLogic,
			AddressHash: h,
			Signature:   sig,
			Salt:        salt,
		},
	}, nil
}

// SignedAuthorization is what an off-chain signer hands over to the party
// that submits the funding transaction.
type SignedAuthorization struct {
	Hash      crypto.Hash   `json:"hash"`
	Signature hexutil.Bytes `json:"signature"`
}

// Authorize signs a funding authorization. The request is validated the
// same way the chain validates it, so only redeemable authorizations are
// produced.
func Authorize(key *crypto.PrivateKey, id crypto.Hash, recipient, token weave.Address, tokenAmount, nativeAmount *uint256.Int) (*SignedAuthorization, error) {
	h := escrow.AuthorizationHash(id, recipient, token, tokenAmount, nativeAmount)
	sig, err := key.SignHash(h)
	if err != nil {
		return nil, err
	}
	req := escrow.FundingRequest{
		AuthorizationID: id,
		Recipient:       recipient,
		Token:           token,
		TokenAmount:     tokenAmount,
		NativeAmount:    nativeAmount,
		Signature:       sig,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &SignedAuthorization{Hash: h, Signature: sig}, nil
}
