package escrow

import (
	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/x/cash"
)

const (
	pathCreateAccountMsg = "escrow/create"
	pathSetSignerMsg     = "escrow/set_signer"
	pathFundMsg          = "escrow/fund"
)

// CreateAccountMsg bootstraps a new account.
type CreateAccountMsg struct {
	Metadata    *weave.Metadata `json:"metadata"`
	MasterLogic weave.Address   `json:"master_logic"`
	AddressHash []byte          `json:"address_hash"`
	Signature   []byte          `json:"signature"`
	Salt        []byte          `json:"salt,omitempty"`
}

var _ weave.Msg = (*CreateAccountMsg)(nil)

// Path returns the routing path for this message.
func (CreateAccountMsg) Path() string {
	return pathCreateAccountMsg
}

// Validate makes sure that this is sensible.
func (m *CreateAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if _, err := crypto.HashFromBytes(m.AddressHash); err != nil {
		errs = errors.AppendField(errs, "AddressHash", err)
	}
	return errors.Append(errs, m.attestation().Validate())
}

// Attestation returns the attestation carried by this message.
func (m *CreateAccountMsg) Attestation() (*BootstrapAttestation, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m.attestation(), nil
}

func (m *CreateAccountMsg) attestation() *BootstrapAttestation {
	var h crypto.Hash
	copy(h[:], m.AddressHash)
	return &BootstrapAttestation{
		MasterLogic: m.MasterLogic,
		AddressHash: h,
		Signature:   m.Signature,
		Salt:        m.Salt,
	}
}

// Marshal serializes the message.
func (m *CreateAccountMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

// Unmarshal deserializes the message.
func (m *CreateAccountMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// SetSignerMsg adds or removes a signer of an account. It must be signed by
// a current signer of the account.
type SetSignerMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Account  weave.Address   `json:"account"`
	Signer   weave.Address   `json:"signer"`
	Enabled  bool            `json:"enabled"`
}

var _ weave.Msg = (*SetSignerMsg)(nil)

// Path returns the routing path for this message.
func (SetSignerMsg) Path() string {
	return pathSetSignerMsg
}

// Validate makes sure that this is sensible.
func (m *SetSignerMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Account", m.Account.Validate())
	errs = errors.AppendField(errs, "Signer", m.Signer.Validate())
	return errs
}

// Marshal serializes the message.
func (m *SetSignerMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

// Unmarshal deserializes the message.
func (m *SetSignerMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// FundMsg carries a funding request for an account. Anyone can relay it.
type FundMsg struct {
	Metadata        *weave.Metadata `json:"metadata"`
	Account         weave.Address   `json:"account"`
	AuthorizationID []byte          `json:"authorization_id"`
	Recipient       weave.Address   `json:"recipient"`
	Token           weave.Address   `json:"token"`
	// TokenAmount and NativeAmount are base 10 representations of
	// unsigned 256 bit integers.
	TokenAmount  string `json:"token_amount"`
	NativeAmount string `json:"native_amount"`
	Signature    []byte `json:"signature"`
}

var _ weave.Msg = (*FundMsg)(nil)

// Path returns the routing path for this message.
func (FundMsg) Path() string {
	return pathFundMsg
}

// Validate makes sure that this is sensible.
func (m *FundMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Account", m.Account.Validate())
	_, err := m.request()
	return errors.Append(errs, err)
}

// Request returns the funding request carried by this message.
func (m *FundMsg) Request() (*FundingRequest, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m.request()
}

func (m *FundMsg) request() (*FundingRequest, error) {
	var errs error
	id, err := crypto.HashFromBytes(m.AuthorizationID)
	errs = errors.AppendField(errs, "AuthorizationID", err)
	tokenAmount, err := cash.ParseAmount(m.TokenAmount)
	errs = errors.AppendField(errs, "TokenAmount", err)
	nativeAmount, err := cash.ParseAmount(m.NativeAmount)
	errs = errors.AppendField(errs, "NativeAmount", err)
	if errs != nil {
		return nil, errs
	}

	req := &FundingRequest{
		AuthorizationID: id,
		Recipient:       m.Recipient,
		Token:           m.Token,
		TokenAmount:     tokenAmount,
		NativeAmount:    nativeAmount,
		Signature:       m.Signature,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Marshal serializes the message.
func (m *FundMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

// Unmarshal deserializes the message.
func (m *FundMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}
