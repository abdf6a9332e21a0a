package escrow

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	RegisterCodec(cdc)
}

// RegisterCodec registers all messages of this package as implementations
// of the weave.Msg interface on given codec. The interface itself must be
// registered by the caller.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&CreateAccountMsg{}, pathCreateAccountMsg, nil)
	c.RegisterConcrete(&SetSignerMsg{}, pathSetSignerMsg, nil)
	c.RegisterConcrete(&FundMsg{}, pathFundMsg, nil)
}
