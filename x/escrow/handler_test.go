package escrow

import (
	"bytes"
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/weavetest"
	"github.com/limepay/weave/weavetest/assert"
)

func fundMsg(account weave.Address, req *FundingRequest) *FundMsg {
	return &FundMsg{
		Metadata:        &weave.Metadata{Schema: 1},
		Account:         account,
		AuthorizationID: req.AuthorizationID.Bytes(),
		Recipient:       req.Recipient,
		Token:           req.Token,
		TokenAmount:     req.TokenAmount.Dec(),
		NativeAmount:    req.NativeAmount.Dec(),
		Signature:       req.Signature,
	}
}

func TestCreateAccountHandler(t *testing.T) {
	f := newFixture(t)
	h := CreateAccountHandler{control: f.control}
	key := weavetest.NewKey(t)
	att := attest(t, key, nil)
	msg := &CreateAccountMsg{
		Metadata:    &weave.Metadata{Schema: 1},
		MasterLogic: att.MasterLogic,
		AddressHash: att.AddressHash.Bytes(),
		Signature:   att.Signature,
	}
	tx := &weavetest.Tx{Msg: msg}

	cache := f.db.CacheWrap()
	_, err := h.Check(context.Background(), cache, tx)
	assert.Nil(t, err)
	// check does not create the account
	assert.IsErr(t, errors.ErrNotFound, f.control.accounts.Has(cache, att.Address()))
	cache.Discard()

	res, err := h.Deliver(context.Background(), f.db, tx)
	assert.Nil(t, err)
	assert.Equal(t, []byte(att.Address()), res.Data)
	assert.Equal(t, "create", tagValue(res, "escrow.action"))
	assert.Equal(t, key.Address().String(), tagValue(res, "escrow.signer"))

	_, err = h.Check(context.Background(), f.db, tx)
	assert.IsErr(t, ErrAlreadyBootstrapped, err)
	_, err = h.Deliver(context.Background(), f.db, tx)
	assert.IsErr(t, ErrAlreadyBootstrapped, err)
}

func TestSetSignerHandler(t *testing.T) {
	alice := weavetest.NewAddress("alice")

	cases := map[string]struct {
		// signedBy is the transaction signer, the account signer if nil.
		signedBy   weave.Address
		unsigned   bool
		target     weave.Address
		enabled    bool
		wantErr    *errors.Error
		wantSigner bool
	}{
		"signer adds alice": {
			target:     alice,
			enabled:    true,
			wantSigner: true,
		},
		"alice cannot add herself": {
			signedBy: alice,
			target:   alice,
			enabled:  true,
			wantErr:  errors.ErrUnauthorized,
		},
		"signer removes alice who is not a signer": {
			target:  alice,
			enabled: false,
		},
		"unsigned transaction": {
			unsigned: true,
			target:   alice,
			enabled:  true,
			wantErr:  errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			auth := &weavetest.Auth{Signer: tc.signedBy}
			if tc.signedBy == nil {
				auth.Signer = f.signer.Address()
			}
			if tc.unsigned {
				auth.Signer = nil
			}
			h := SetSignerHandler{auth: auth, control: f.control}
			tx := &weavetest.Tx{Msg: &SetSignerMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Account:  f.account.Address,
				Signer:   tc.target,
				Enabled:  tc.enabled,
			}}

			_, err := h.Check(context.Background(), f.db, tx)
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, false, f.reload(t).IsSigner(alice))

			res, err := h.Deliver(context.Background(), f.db, tx)
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, tc.wantSigner, f.reload(t).IsSigner(alice))
			if tc.wantErr == nil {
				assert.Equal(t, "set_signer", tagValue(res, "escrow.action"))
			}
		})
	}
}

func TestFundHandler(t *testing.T) {
	f := newFixture(t)
	h := FundHandler{control: f.control}
	recipient := weavetest.NewAddress("recipient")
	req := signedRequest(t, f.signer, authorizationID("x"), recipient, f.token, 1000, 1000)
	tx := &weavetest.Tx{Msg: fundMsg(f.account.Address, req)}

	_, err := h.Check(context.Background(), f.db, tx)
	assert.Nil(t, err)
	native, token := f.balance(t, recipient)
	assert.Equal(t, uint64(0), native+token)

	ctx := weave.WithHeight(context.Background(), 3)
	res, err := h.Deliver(ctx, f.db, tx)
	assert.Nil(t, err)
	assert.Equal(t, req.AuthorizationID.Bytes(), res.Data)
	assert.Equal(t, "fund", tagValue(res, "escrow.action"))
	assert.Equal(t, "1000", tagValue(res, "escrow.native_amount"))
	native, token = f.balance(t, recipient)
	assert.Equal(t, uint64(1000), native)
	assert.Equal(t, uint64(1000), token)

	_, err = h.Check(ctx, f.db, tx)
	assert.IsErr(t, ErrAlreadyConsumed, err)
	_, err = h.Deliver(ctx, f.db, tx)
	assert.IsErr(t, ErrAlreadyConsumed, err)

	bad := fundMsg(f.account.Address, req)
	bad.TokenAmount = "lots"
	_, err = h.Deliver(ctx, f.db, &weavetest.Tx{Msg: bad})
	assert.IsErr(t, errors.ErrAmount, err)
}

func TestRecoverQuery(t *testing.T) {
	key := weavetest.NewKey(t)
	h := crypto.Keccak256([]byte("message"))
	sig := weavetest.Sign(t, key, h)
	q := RecoverQuery{rec: crypto.EthRecoverer{}}

	res, err := q.Query(nil, weave.KeyQueryMod, append(h.Bytes(), sig...))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, h.Bytes(), res[0].Key)
	assert.Equal(t, []byte(key.Address()), res[0].Value)

	_, err = q.Query(nil, weave.KeyQueryMod, h.Bytes())
	assert.IsErr(t, errors.ErrInput, err)
	_, err = q.Query(nil, weave.PrefixQueryMod, append(h.Bytes(), sig...))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestRegisterQuery(t *testing.T) {
	f := newFixture(t)
	qr := weave.NewQueryRouter()
	RegisterQuery(qr, crypto.EthRecoverer{})

	req := signedRequest(t, f.signer, authorizationID("q"), weavetest.NewAddress("r"), f.token, 1, 1)
	_, err := f.control.Fund(context.Background(), f.db, f.account.Address, req)
	assert.Nil(t, err)

	res, err := qr.Handler("/escrows").Query(f.db, weave.KeyQueryMod, f.account.Address)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	var acct Account
	assert.Nil(t, acct.Unmarshal(res[0].Value))
	assert.Equal(t, f.account.Signers, acct.Signers)

	res, err = qr.Handler("/authorizations").Query(f.db, weave.PrefixQueryMod, f.account.Address)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	var rec Authorization
	assert.Nil(t, rec.Unmarshal(res[0].Value))
	assert.Equal(t, req.AuthorizationID.Bytes(), rec.ID)
	assert.Equal(t, uint256.NewInt(1).Bytes32(), toArray(rec.NativeAmount))

	if qr.Handler("/escrows/recover") == nil {
		t.Fatal("recover query not registered")
	}
}

func toArray(b []byte) [32]byte {
	var a [32]byte
	copy(a[:], b)
	return a
}

func tagValue(res *weave.DeliverResult, key string) string {
	for _, kv := range res.Tags {
		if bytes.Equal(kv.Key, []byte(key)) {
			return string(kv.Value)
		}
	}
	return ""
}
