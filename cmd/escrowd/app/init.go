package escrowd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/limepay/weave"
	"github.com/limepay/weave/app"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/x/cash"
	"github.com/limepay/weave/x/escrow"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// devFunds is the native balance given to the dev mode account.
const devFunds = "1000000000000000000000"

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// An address to fund can be passed as the first argument. Without it a key
// is generated and printed, and an escrow account owned by that key is
// bootstrapped as well.
func GenInitOptions(args []string) (json.RawMessage, error) {
	state := struct {
		Cash   []cash.GenesisAccount   `json:"cash"`
		Escrow []escrow.GenesisAccount `json:"escrow"`
	}{
		Escrow: []escrow.GenesisAccount{},
	}

	var addr weave.Address
	if len(args) > 0 {
		a, err := weave.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		key, err := Keygen()
		if err != nil {
			return nil, err
		}
		out, err := json.MarshalIndent(key, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		fmt.Println(string(out))
		addr = key.Address

		signer, err := crypto.LoadPrivateKey(key.PrivateKey)
		if err != nil {
			return nil, err
		}
		att, err := Attest(signer, escrow.MasterLogicV1, nil)
		if err != nil {
			return nil, err
		}
		state.Escrow = append(state.Escrow, att.Genesis)
	}

	state.Cash = []cash.GenesisAccount{{
		Address: addr,
		Coins:   []cash.GenesisCoin{{Asset: escrow.NativeAsset, Amount: devFunds}},
	}}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "escrow.db")
	}

	rec := crypto.EthRecoverer{}
	bank := cash.NewController()
	logics := escrow.DefaultLogics(rec, bank)

	stack := Stack(rec, bank, logics)
	application, err := Application("escrowd", stack, TxDecoder, QueryRouter(rec), dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers(logics))

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

// Initializers returns the genesis initializers of all extensions.
func Initializers(logics escrow.LogicRegistry) weave.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		escrow.NewInitializer(escrow.NewController(logics)),
	)
}
