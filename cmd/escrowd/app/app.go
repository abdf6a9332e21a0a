/*
Package escrowd links together all the various components
to construct the escrowd app.
*/
package escrowd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/limepay/weave"
	"github.com/limepay/weave/app"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/store"
	"github.com/limepay/weave/x"
	"github.com/limepay/weave/x/cash"
	"github.com/limepay/weave/x/escrow"
	"github.com/limepay/weave/x/sigs"
	"github.com/limepay/weave/x/utils"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain(rec crypto.Recoverer) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		// funding and bootstrap txs are authorized by their payload and
		// may be relayed by anyone
		sigs.NewDecorator(rec).AllowMissingSigs(),
		// on DeliverTx, bad tx will increment nonce even if the message
		// fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the cash and escrow handlers.
func Router(authFn x.Authenticator, bank cash.Controller, logics escrow.LogicRegistry) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, bank)
	escrow.RegisterRoutes(r, authFn, escrow.NewController(logics))
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/auth", "/escrows", "/authorizations",
// "/escrows/recover" and "/"
func QueryRouter(rec crypto.Recoverer) weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		func(qr weave.QueryRouter) { escrow.RegisterQuery(qr, rec) },
		app.RegisterRawQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(rec crypto.Recoverer, bank cash.Controller, logics escrow.LogicRegistry) weave.Handler {
	authFn := Authenticator()
	return Chain(rec).WithHandler(Router(authFn, bank, logics))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h weave.Handler, tx weave.TxDecoder, qr weave.QueryRouter, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	s := app.NewStoreApp(name, kv, qr, context.Background()).WithDebug(debug)
	return app.NewBaseApp(s, tx, h), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		kv, err := store.MemLevelDBStore()
		if err != nil {
			return nil, err
		}
		return kv, nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))
	kv, err := store.NewLevelDBStore(path)
	if err != nil {
		return nil, err
	}
	return kv, nil
}
