package escrow

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/store"
	"github.com/limepay/weave/weavetest"
	"github.com/limepay/weave/x/cash"
)

// fixture is an account holding 2000 of native currency and 2000 of a
// token, with a single signer.
type fixture struct {
	db      store.CacheableKVStore
	bank    cash.BaseController
	control Controller
	signer  *crypto.PrivateKey
	account *Account
	token   weave.Address
}

func newFixture(t testing.TB) *fixture {
	t.Helper()

	f := &fixture{
		db:     store.MemStore(),
		bank:   cash.NewController(),
		signer: weavetest.NewKey(t),
		token:  weavetest.NewAddress("token"),
	}
	f.control = NewController(DefaultLogics(crypto.EthRecoverer{}, f.bank))

	acct, _, err := f.control.Bootstrap(f.db, attest(t, f.signer, nil))
	if err != nil {
		t.Fatalf("cannot bootstrap: %+v", err)
	}
	f.account = acct

	if err := f.bank.Mint(f.db, NativeAsset, acct.Address, uint256.NewInt(2000)); err != nil {
		t.Fatalf("cannot mint: %+v", err)
	}
	if err := f.bank.Mint(f.db, f.token, acct.Address, uint256.NewInt(2000)); err != nil {
		t.Fatalf("cannot mint: %+v", err)
	}
	return f
}

// balance returns the native and token balance of holder.
func (f *fixture) balance(t testing.TB, holder weave.Address) (native, token uint64) {
	t.Helper()
	n, err := f.bank.Balance(f.db, holder, NativeAsset)
	if err != nil {
		t.Fatalf("cannot get balance: %+v", err)
	}
	tk, err := f.bank.Balance(f.db, holder, f.token)
	if err != nil {
		t.Fatalf("cannot get balance: %+v", err)
	}
	return n.Uint64(), tk.Uint64()
}

// reload returns the current state of the fixture account.
func (f *fixture) reload(t testing.TB) *Account {
	t.Helper()
	acct, _, err := f.control.Account(f.db, f.account.Address)
	if err != nil {
		t.Fatalf("cannot load account: %+v", err)
	}
	return acct
}

func attest(t testing.TB, key *crypto.PrivateKey, salt []byte) *BootstrapAttestation {
	t.Helper()
	h, sig, err := key.Attest()
	if err != nil {
		t.Fatalf("cannot attest: %+v", err)
	}
	return &BootstrapAttestation{
		MasterLogic: MasterLogicV1,
		AddressHash: h,
		Signature:   sig,
		Salt:        salt,
	}
}

func authorizationID(name string) crypto.Hash {
	return crypto.Keccak256([]byte(name))
}

// signedRequest returns a funding request signed by key.
func signedRequest(t testing.TB, key *crypto.PrivateKey, id crypto.Hash, recipient, token weave.Address, tokenAmount, nativeAmount uint64) *FundingRequest {
	t.Helper()
	req := &FundingRequest{
		AuthorizationID: id,
		Recipient:       recipient,
		Token:           token,
		TokenAmount:     uint256.NewInt(tokenAmount),
		NativeAmount:    uint256.NewInt(nativeAmount),
	}
	req.Signature = weavetest.Sign(t, key, req.Hash())
	return req
}

// failingBank moves funds with the embedded controller but fails every
// token transfer when failToken is set.
type failingBank struct {
	cash.BaseController
	failToken bool
}

func (b *failingBank) TransferToken(db weave.KVStore, token, from, to weave.Address, amount *uint256.Int) error {
	if b.failToken {
		return errors.Wrap(errors.ErrDatabase, "token transfer disabled")
	}
	return b.BaseController.TransferToken(db, token, from, to, amount)
}
