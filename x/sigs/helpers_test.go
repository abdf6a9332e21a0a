package sigs

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/weavetest"
)

// signedTx is a minimal SignedTx for tests.
type signedTx struct {
	weavetest.Tx
	payload []byte
	sigs    []*StdSignature
}

var _ SignedTx = (*signedTx)(nil)

func (s *signedTx) GetSignBytes() ([]byte, error) {
	return s.payload, nil
}

func (s *signedTx) GetSignatures() []*StdSignature {
	return s.sigs
}

func newSignedTx(payload string) *signedTx {
	return &signedTx{
		Tx:      weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/msg"}},
		payload: []byte(payload),
	}
}

var _ weave.Tx = (*signedTx)(nil)
