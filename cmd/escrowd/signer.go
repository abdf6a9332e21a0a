package main

import (
	"encoding/json"
	"flag"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/limepay/weave"
	escrowd "github.com/limepay/weave/cmd/escrowd/app"
	"github.com/limepay/weave/commands/server"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/errors"
	"github.com/limepay/weave/x/cash"
	"github.com/limepay/weave/x/escrow"
)

func validateCmd(args []string) error {
	// Throwaway logics, nothing is persisted.
	logics := escrow.DefaultLogics(crypto.EthRecoverer{}, cash.NewController())
	if err := server.ValidateGenesis(escrowd.Initializers(logics), args); err != nil {
		return err
	}
	fmt.Println("genesis ok")
	return nil
}

func keygenCmd(args []string) error {
	info, err := escrowd.Keygen()
	if err != nil {
		return err
	}
	return printJSON(info)
}

func attestCmd(args []string) error {
	var keyHex, logicHex, saltHex string
	fl := flag.NewFlagSet("attest", flag.ExitOnError)
	fl.StringVar(&keyHex, "key", "", "hex encoded private key of the first signer")
	fl.StringVar(&logicHex, "logic", escrow.MasterLogicV1.String(), "master logic address")
	fl.StringVar(&saltHex, "salt", "", "hex encoded salt, up to 32 bytes")
	if err := fl.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	key, err := crypto.LoadPrivateKey(keyHex)
	if err != nil {
		return err
	}
	logic, err := weave.ParseAddress(logicHex)
	if err != nil {
		return err
	}
	var salt []byte
	if saltHex != "" {
		if salt, err = hexutil.Decode(saltHex); err != nil {
			return errors.Wrapf(errors.ErrInput, "salt: %s", err)
		}
	}

	att, err := escrowd.Attest(key, logic, salt)
	if err != nil {
		return err
	}
	return printJSON(att)
}

func authorizeCmd(args []string) error {
	var keyHex, idHex, recipientHex, tokenHex, tokenAmount, nativeAmount string
	fl := flag.NewFlagSet("authorize", flag.ExitOnError)
	fl.StringVar(&keyHex, "key", "", "hex encoded private key of a signer")
	fl.StringVar(&idHex, "id", "", "hex encoded 32 byte authorization id")
	fl.StringVar(&recipientHex, "recipient", "", "recipient address")
	fl.StringVar(&tokenHex, "token", "", "token contract address")
	fl.StringVar(&tokenAmount, "token_amount", "0", "token amount")
	fl.StringVar(&nativeAmount, "native_amount", "0", "native currency amount")
	if err := fl.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	key, err := crypto.LoadPrivateKey(keyHex)
	if err != nil {
		return err
	}
	rawID, err := hexutil.Decode(idHex)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "id: %s", err)
	}
	id, err := crypto.HashFromBytes(rawID)
	if err != nil {
		return err
	}
	recipient, err := weave.ParseAddress(recipientHex)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}
	token, err := weave.ParseAddress(tokenHex)
	if err != nil {
		return errors.Wrap(err, "token")
	}
	ta, err := cash.ParseAmount(tokenAmount)
	if err != nil {
		return errors.Wrap(err, "token amount")
	}
	na, err := cash.ParseAmount(nativeAmount)
	if err != nil {
		return errors.Wrap(err, "native amount")
	}

	auth, err := escrowd.Authorize(key, id, recipient, token, ta, na)
	if err != nil {
		return err
	}
	return printJSON(auth)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	fmt.Println(string(out))
	return nil
}
