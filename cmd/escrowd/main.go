package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	escrowd "github.com/limepay/weave/cmd/escrowd/app"
	"github.com/limepay/weave/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome     = "home"
	flagLogLevel = "log_level"
	varHome      *string
	varLogLevel  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
	varLogLevel = flag.String(flagLogLevel, "info", "log level: debug, info, error or none")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("escrowd")
	fmt.Println("           Escrow authorization node")
	fmt.Println("")
	fmt.Println("help       Print this message")
	fmt.Println("init       Initialize app options in genesis file")
	fmt.Println("start      Run the abci server")
	fmt.Println("validate   Check the app_state of genesis files")
	fmt.Println("keygen     Generate a signing key")
	fmt.Println("attest     Sign the bootstrap attestation of a new escrow account")
	fmt.Println("authorize  Sign a funding authorization")
	fmt.Println("version    Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.escrowd")
  -log_level string
        log level: debug, info, error or none (default "info")`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	logger, err := newLogger(*varLogLevel)
	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(escrowd.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(escrowd.GenerateApp, logger, *varHome, rest)
	case "validate":
		err = validateCmd(rest)
	case "keygen":
		err = keygenCmd(rest)
	case "attest":
		err = attestCmd(rest)
	case "authorize":
		err = authorizeCmd(rest)
	case "version":
		fmt.Println(escrowd.Version)
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

func newLogger(level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "escrow")
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, opt), nil
}
