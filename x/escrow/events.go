package escrow

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/limepay/weave"
	"github.com/tendermint/tendermint/libs/common"
)

// Event is a notification about a change of an account. Events are
// published as transaction tags and logged.
type Event interface {
	Action() string
	Tags() []common.KVPair
}

// AccountCreated is emitted when an account is bootstrapped.
type AccountCreated struct {
	Account     weave.Address
	MasterLogic weave.Address
	Signer      weave.Address
}

// Action returns the event name.
func (AccountCreated) Action() string { return "create" }

// Tags returns the event as transaction tags.
func (e AccountCreated) Tags() []common.KVPair {
	return []common.KVPair{
		tag("action", e.Action()),
		tag("account", e.Account.String()),
		tag("master_logic", e.MasterLogic.String()),
		tag("signer", e.Signer.String()),
	}
}

// SignerChanged is emitted on every successful signer update, even if the
// signers did not change.
type SignerChanged struct {
	Account weave.Address
	Signer  weave.Address
	Enabled bool
}

// Action returns the event name.
func (SignerChanged) Action() string { return "set_signer" }

// Tags returns the event as transaction tags.
func (e SignerChanged) Tags() []common.KVPair {
	return []common.KVPair{
		tag("action", e.Action()),
		tag("account", e.Account.String()),
		tag("signer", e.Signer.String()),
		tag("enabled", strconv.FormatBool(e.Enabled)),
	}
}

// FundingConsumed is emitted when an authorization released funds.
type FundingConsumed struct {
	Account         weave.Address
	AuthorizationID []byte
	Signer          weave.Address
	Recipient       weave.Address
	Token           weave.Address
	TokenAmount     *uint256.Int
	NativeAmount    *uint256.Int
}

// Action returns the event name.
func (FundingConsumed) Action() string { return "fund" }

// Tags returns the event as transaction tags.
func (e FundingConsumed) Tags() []common.KVPair {
	return []common.KVPair{
		tag("action", e.Action()),
		tag("account", e.Account.String()),
		tag("authorization", hexutil.Encode(e.AuthorizationID)),
		tag("signer", e.Signer.String()),
		tag("recipient", e.Recipient.String()),
		tag("token", e.Token.String()),
		tag("token_amount", e.TokenAmount.Dec()),
		tag("native_amount", e.NativeAmount.Dec()),
	}
}

func tag(key, value string) common.KVPair {
	return common.KVPair{Key: []byte("escrow." + key), Value: []byte(value)}
}

// emit logs all events and returns their tags.
func emit(ctx weave.Context, events ...Event) []common.KVPair {
	var tags []common.KVPair
	logger := weave.GetLogger(ctx)
	for _, e := range events {
		t := e.Tags()
		keyvals := make([]interface{}, 0, 2*len(t))
		for _, kv := range t {
			keyvals = append(keyvals, string(kv.Key), string(kv.Value))
		}
		logger.Info("escrow event", keyvals...)
		tags = append(tags, t...)
	}
	return tags
}
