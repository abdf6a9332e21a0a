package escrowd

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/x/cash"
	"github.com/limepay/weave/x/escrow"
	"github.com/limepay/weave/x/sigs"
	amino "github.com/tendermint/go-amino"
)

var cdc = MakeCodec()

// MakeCodec returns a codec that knows every message this application
// routes.
func MakeCodec() *amino.Codec {
	c := amino.NewCodec()
	c.RegisterInterface((*weave.Msg)(nil), nil)
	cash.RegisterCodec(c)
	escrow.RegisterCodec(c)
	return c
}

// Tx is the transaction envelope of escrowd. Signatures are optional, as
// funding and account creation carry their own authorization.
type Tx struct {
	Msg        weave.Msg            `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message of this transaction.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	return tx.Msg, nil
}

// GetSignatures returns all signatures of this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are not part of them.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

// Marshal implements weave.Persistent.
func (tx *Tx) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

// Unmarshal implements weave.Persistent.
func (tx *Tx) Unmarshal(bz []byte) error {
	if err := cdc.UnmarshalBinaryBare(bz, tx); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot decode tx: %s", err)
	}
	return nil
}
