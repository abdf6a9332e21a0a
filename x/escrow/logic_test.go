package escrow

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/weavetest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFunding(t *testing.T) {
	Convey("Given an account holding 2000 native and 2000 tokens", t, func() {
		f := newFixture(t)
		ctx := weave.WithHeight(context.Background(), 7)
		recipient := weavetest.NewAddress("recipient")
		id := authorizationID("first")

		native, token := f.balance(t, f.account.Address)
		So(native, ShouldEqual, 2000)
		So(token, ShouldEqual, 2000)

		Convey("a signer authorizes 1000 of each", func() {
			req := signedRequest(t, f.signer, id, recipient, f.token, 1000, 1000)
			event, err := f.control.Fund(ctx, f.db, f.account.Address, req)
			So(err, ShouldBeNil)

			native, token := f.balance(t, f.account.Address)
			So(native, ShouldEqual, 1000)
			So(token, ShouldEqual, 1000)
			native, token = f.balance(t, recipient)
			So(native, ShouldEqual, 1000)
			So(token, ShouldEqual, 1000)

			So(event.Signer, ShouldResemble, f.signer.Address())
			So(event.AuthorizationID, ShouldResemble, id.Bytes())
			So(event.Recipient, ShouldResemble, recipient)

			_, logic, err := f.control.Account(f.db, f.account.Address)
			So(err, ShouldBeNil)
			used, err := logic.IsConsumed(f.db, f.account, id)
			So(err, ShouldBeNil)
			So(used, ShouldBeTrue)

			var rec Authorization
			err = NewAuthorizationBucket().One(f.db, authorizationKey(f.account.Address, id[:]), &rec)
			So(err, ShouldBeNil)
			So(rec.Height, ShouldEqual, 7)
			So(rec.Recipient, ShouldResemble, recipient)

			Convey("resubmission of the same request fails", func() {
				_, err := f.control.Fund(ctx, f.db, f.account.Address, req)
				So(ErrAlreadyConsumed.Is(err), ShouldBeTrue)

				native, token := f.balance(t, f.account.Address)
				So(native, ShouldEqual, 1000)
				So(token, ShouldEqual, 1000)
			})

			Convey("the same id cannot be reused for a different payload", func() {
				other := signedRequest(t, f.signer, id, recipient, f.token, 1, 1)
				_, err := f.control.Fund(ctx, f.db, f.account.Address, other)
				So(ErrAlreadyConsumed.Is(err), ShouldBeTrue)
			})

			Convey("a new id can release the rest", func() {
				next := signedRequest(t, f.signer, authorizationID("second"), recipient, f.token, 1000, 1000)
				_, err := f.control.Fund(ctx, f.db, f.account.Address, next)
				So(err, ShouldBeNil)
				native, token := f.balance(t, f.account.Address)
				So(native, ShouldEqual, 0)
				So(token, ShouldEqual, 0)
			})
		})

		Convey("a non signer authorizes 1000 of each", func() {
			other := weavetest.NewKey(t)
			req := signedRequest(t, other, id, recipient, f.token, 1000, 1000)
			_, err := f.control.Fund(ctx, f.db, f.account.Address, req)
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)

			native, token := f.balance(t, f.account.Address)
			So(native, ShouldEqual, 2000)
			So(token, ShouldEqual, 2000)
		})

		Convey("any signed field is changed by the relayer", func() {
			tamper := []struct {
				name string
				fn   func(r *FundingRequest)
			}{
				{"recipient", func(r *FundingRequest) { r.Recipient = weavetest.NewAddress("thief") }},
				{"token", func(r *FundingRequest) { r.Token = weavetest.NewAddress("other token") }},
				{"token amount", func(r *FundingRequest) { r.TokenAmount = uint256.NewInt(1001) }},
				{"native amount", func(r *FundingRequest) { r.NativeAmount = uint256.NewInt(1001) }},
				{"id", func(r *FundingRequest) { r.AuthorizationID = authorizationID("other") }},
			}
			for _, tc := range tamper {
				tc := tc
				Convey("changed "+tc.name, func() {
					req := signedRequest(t, f.signer, id, recipient, f.token, 1000, 1000)
					tc.fn(req)
					_, err := f.control.Fund(ctx, f.db, f.account.Address, req)
					So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)

					native, token := f.balance(t, f.account.Address)
					So(native, ShouldEqual, 2000)
					So(token, ShouldEqual, 2000)
				})
			}
		})

		Convey("the native balance is too small", func() {
			req := signedRequest(t, f.signer, id, recipient, f.token, 1000, 2001)
			_, err := f.control.Fund(ctx, f.db, f.account.Address, req)
			So(errors.ErrInsufficientFunds.Is(err), ShouldBeTrue)

			native, token := f.balance(t, f.account.Address)
			So(native, ShouldEqual, 2000)
			So(token, ShouldEqual, 2000)

			Convey("the authorization can still be used later", func() {
				So(f.bank.Mint(f.db, NativeAsset, f.account.Address, uint256.NewInt(1)), ShouldBeNil)
				_, err := f.control.Fund(ctx, f.db, f.account.Address, req)
				So(err, ShouldBeNil)
			})
		})

		Convey("the token balance is too small", func() {
			req := signedRequest(t, f.signer, id, recipient, f.token, 2001, 1000)
			_, err := f.control.Fund(ctx, f.db, f.account.Address, req)
			So(errors.ErrInsufficientFunds.Is(err), ShouldBeTrue)

			// native currency is not moved either
			native, token := f.balance(t, recipient)
			So(native, ShouldEqual, 0)
			So(token, ShouldEqual, 0)
		})

		Convey("the recipient token balance would overflow", func() {
			max := new(uint256.Int).SetAllOne()
			So(f.bank.Mint(f.db, f.token, recipient, max), ShouldBeNil)

			req := signedRequest(t, f.signer, id, recipient, f.token, 1, 500)
			_, logic, err := f.control.Account(f.db, f.account.Address)
			So(err, ShouldBeNil)
			_, err = logic.VerifyFund(f.db, f.account, req)
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
			_, err = f.control.Fund(ctx, f.db, f.account.Address, req)
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)

			native, token := f.balance(t, f.account.Address)
			So(native, ShouldEqual, 2000)
			So(token, ShouldEqual, 2000)
			native, _ = f.balance(t, recipient)
			So(native, ShouldEqual, 0)

			used, err := logic.IsConsumed(f.db, f.account, id)
			So(err, ShouldBeNil)
			So(used, ShouldBeFalse)
		})

		Convey("the bank fails after the native transfer", func() {
			bank := &failingBank{BaseController: f.bank, failToken: true}
			control := NewController(DefaultLogics(crypto.EthRecoverer{}, bank))

			req := signedRequest(t, f.signer, id, recipient, f.token, 1000, 500)
			_, err := control.Fund(ctx, f.db, f.account.Address, req)
			So(errors.ErrDatabase.Is(err), ShouldBeTrue)

			native, token := f.balance(t, f.account.Address)
			So(native, ShouldEqual, 2000)
			So(token, ShouldEqual, 2000)
			native, _ = f.balance(t, recipient)
			So(native, ShouldEqual, 0)

			_, logic, err := control.Account(f.db, f.account.Address)
			So(err, ShouldBeNil)
			used, err := logic.IsConsumed(f.db, f.account, id)
			So(err, ShouldBeNil)
			So(used, ShouldBeFalse)
		})

		Convey("zero amounts only consume the authorization", func() {
			req := signedRequest(t, f.signer, id, recipient, f.token, 0, 0)
			_, err := f.control.Fund(ctx, f.db, f.account.Address, req)
			So(err, ShouldBeNil)

			native, token := f.balance(t, f.account.Address)
			So(native, ShouldEqual, 2000)
			So(token, ShouldEqual, 2000)

			_, err = f.control.Fund(ctx, f.db, f.account.Address, req)
			So(ErrAlreadyConsumed.Is(err), ShouldBeTrue)
		})

		Convey("the signature is malformed", func() {
			req := signedRequest(t, f.signer, id, recipient, f.token, 1000, 1000)

			req.Signature = req.Signature[:64]
			_, err := f.control.Fund(ctx, f.db, f.account.Address, req)
			So(errors.ErrInvalidSignature.Is(err), ShouldBeTrue)

			req.Signature = append(req.Signature, 5)
			_, err = f.control.Fund(ctx, f.db, f.account.Address, req)
			So(errors.ErrInvalidSignature.Is(err), ShouldBeTrue)

			native, _ := f.balance(t, f.account.Address)
			So(native, ShouldEqual, 2000)
		})

		Convey("the account does not exist", func() {
			req := signedRequest(t, f.signer, id, recipient, f.token, 1000, 1000)
			_, err := f.control.Fund(ctx, f.db, weavetest.NewAddress("missing"), req)
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
		})
	})
}

func TestSignerRegistry(t *testing.T) {
	Convey("Given a freshly bootstrapped account", t, func() {
		f := newFixture(t)
		ctx := context.Background()
		s := f.signer.Address()
		alice := weavetest.NewKey(t)
		nobody := weavetest.NewAddress("nobody")

		So(f.account.IsSigner(s), ShouldBeTrue)
		So(f.account.Signers, ShouldHaveLength, 1)

		Convey("the signer adds another signer", func() {
			event, err := f.control.SetSigner(f.db, f.account.Address, s, alice.Address(), true)
			So(err, ShouldBeNil)
			So(*event, ShouldResemble, SignerChanged{Account: f.account.Address, Signer: alice.Address(), Enabled: true})

			acct := f.reload(t)
			So(acct.IsSigner(alice.Address()), ShouldBeTrue)
			So(acct.IsSigner(s), ShouldBeTrue)

			Convey("the new signer can authorize funding", func() {
				req := signedRequest(t, alice, authorizationID("a"), nobody, f.token, 10, 10)
				_, err := f.control.Fund(ctx, f.db, f.account.Address, req)
				So(err, ShouldBeNil)
			})

			Convey("adding again is a successful noop", func() {
				event, err := f.control.SetSigner(f.db, f.account.Address, s, alice.Address(), true)
				So(err, ShouldBeNil)
				So(event.Enabled, ShouldBeTrue)
				So(f.reload(t).Signers, ShouldHaveLength, 2)
			})

			Convey("the new signer removes the first one", func() {
				_, err := f.control.SetSigner(f.db, f.account.Address, alice.Address(), s, false)
				So(err, ShouldBeNil)
				So(f.reload(t).IsSigner(s), ShouldBeFalse)

				req := signedRequest(t, f.signer, authorizationID("b"), nobody, f.token, 10, 10)
				_, err = f.control.Fund(ctx, f.db, f.account.Address, req)
				So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			})
		})

		Convey("a non signer cannot remove the signer", func() {
			_, err := f.control.SetSigner(f.db, f.account.Address, nobody, s, false)
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			So(f.reload(t), ShouldResemble, f.account)
		})

		Convey("a non signer cannot add itself", func() {
			_, err := f.control.SetSigner(f.db, f.account.Address, nobody, nobody, true)
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			So(f.reload(t).IsSigner(nobody), ShouldBeFalse)
		})

		Convey("removing a non signer is a successful noop", func() {
			event, err := f.control.SetSigner(f.db, f.account.Address, s, nobody, false)
			So(err, ShouldBeNil)
			So(event.Enabled, ShouldBeFalse)
			So(f.reload(t).Signers, ShouldHaveLength, 1)
		})

		Convey("the last signer removes itself", func() {
			_, err := f.control.SetSigner(f.db, f.account.Address, s, s, false)
			So(err, ShouldBeNil)
			acct := f.reload(t)
			So(acct.Signers, ShouldBeEmpty)

			Convey("the account is locked", func() {
				_, err := f.control.SetSigner(f.db, f.account.Address, s, s, true)
				So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)

				req := signedRequest(t, f.signer, authorizationID("c"), nobody, f.token, 1, 1)
				_, err = f.control.Fund(ctx, f.db, f.account.Address, req)
				So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			})
		})
	})
}

func TestBootstrap(t *testing.T) {
	Convey("Given a signer key", t, func() {
		f := newFixture(t)
		key := weavetest.NewKey(t)
		att := attest(t, key, []byte("salt"))

		Convey("a self signed attestation creates an account", func() {
			acct, event, err := f.control.Bootstrap(f.db, att)
			So(err, ShouldBeNil)
			So(acct.Address, ShouldResemble, InstanceAddress(MasterLogicV1, []byte("salt"), crypto.AddressHash(key.Address())))
			So(acct.MasterLogic, ShouldResemble, MasterLogicV1)
			So(acct.Signers, ShouldResemble, []weave.Address{key.Address()})
			So(event.Signer, ShouldResemble, key.Address())

			stored, _, err := f.control.Account(f.db, acct.Address)
			So(err, ShouldBeNil)
			So(stored, ShouldResemble, acct)

			Convey("it cannot be bootstrapped again", func() {
				_, _, err := f.control.Bootstrap(f.db, att)
				So(ErrAlreadyBootstrapped.Is(err), ShouldBeTrue)

				// another signature of the same hash targets the same account
				other := *att
				other.Signature = make([]byte, crypto.SignatureLength)
				_, _, err = f.control.Bootstrap(f.db, &other)
				So(ErrAlreadyBootstrapped.Is(err), ShouldBeTrue)
			})

			Convey("another salt creates another account", func() {
				acct2, _, err := f.control.Bootstrap(f.db, attest(t, key, []byte("pepper")))
				So(err, ShouldBeNil)
				So(acct2.Address, ShouldNotResemble, acct.Address)
			})
		})

		Convey("an attestation of another address is rejected", func() {
			other := weavetest.NewKey(t)
			att.AddressHash = crypto.AddressHash(other.Address())
			att.Signature = weavetest.Sign(t, key, att.AddressHash)
			_, _, err := f.control.Bootstrap(f.db, att)
			So(ErrInvalidAttestation.Is(err), ShouldBeTrue)
		})

		Convey("a signature of another hash is rejected", func() {
			att.Signature = weavetest.Sign(t, key, crypto.Keccak256([]byte("something else")))
			_, _, err := f.control.Bootstrap(f.db, att)
			So(ErrInvalidAttestation.Is(err), ShouldBeTrue)
		})

		Convey("a malformed signature is rejected", func() {
			att.Signature = att.Signature[:10]
			_, _, err := f.control.Bootstrap(f.db, att)
			So(errors.ErrInvalidSignature.Is(err), ShouldBeTrue)
		})

		Convey("an unknown master logic is rejected", func() {
			att.MasterLogic = weavetest.NewAddress("logic v2")
			_, _, err := f.control.Bootstrap(f.db, att)
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
		})
	})
}

func TestInjectedRecoverer(t *testing.T) {
	signer := weavetest.NewAddress("signer")
	var calls int
	rec := crypto.RecoverFunc(func(h crypto.Hash, sig []byte) (weave.Address, error) {
		calls++
		return signer, nil
	})

	f := newFixture(t)
	logic := NewLogic(rec, f.bank)
	acct := &Account{
		Metadata:    &weave.Metadata{Schema: 1},
		Address:     f.account.Address,
		MasterLogic: MasterLogicV1,
		Signers:     []weave.Address{signer},
	}
	req := &FundingRequest{
		AuthorizationID: authorizationID("stub"),
		Recipient:       weavetest.NewAddress("recipient"),
		Token:           f.token,
		TokenAmount:     uint256.NewInt(5),
		NativeAmount:    uint256.NewInt(6),
		Signature:       make([]byte, crypto.SignatureLength),
	}
	event, err := logic.Fund(context.Background(), f.db, acct, req)
	if err != nil {
		t.Fatalf("cannot fund: %+v", err)
	}
	if !event.Signer.Equals(signer) {
		t.Fatalf("unexpected signer: %s", event.Signer)
	}
	if calls != 1 {
		t.Fatalf("want one recover call, got %d", calls)
	}
	native, token := f.balance(t, req.Recipient)
	if native != 6 || token != 5 {
		t.Fatalf("unexpected recipient balance: %d native, %d token", native, token)
	}
}
