package cash

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
)

const (
	pathSendMsg = "cash/send"

	maxMemoSize = 128
)

// SendMsg moves an amount of an asset between two wallets. It is used to
// deposit funds into escrow accounts.
type SendMsg struct {
	Metadata    *weave.Metadata `json:"metadata"`
	Source      weave.Address   `json:"source"`
	Destination weave.Address   `json:"destination"`
	// Asset is the token contract address, empty for native currency.
	Asset weave.Address `json:"asset"`
	// Amount is a base 10 representation of an unsigned 256 bit integer.
	Amount string `json:"amount"`
	Memo   string `json:"memo,omitempty"`
}

var _ weave.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message.
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible.
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if len(m.Asset) != 0 {
		errs = errors.AppendField(errs, "Asset", m.Asset.Validate())
	}
	if v, err := ParseAmount(m.Amount); err != nil {
		errs = errors.AppendField(errs, "Amount", err)
	} else if v.IsZero() {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "longer than %d", maxMemoSize))
	}
	return errs
}

// Marshal serializes the message.
func (m *SendMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

// Unmarshal deserializes the message.
func (m *SendMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}
