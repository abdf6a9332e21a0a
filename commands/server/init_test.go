package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/limepay/weave"
	"github.com/limepay/weave/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

const tmGenesis = `{
  "genesis_time": "2019-05-01T10:00:00Z",
  "chain_id": "test-chain-LgVOZ0",
  "validators": [{"power": "10", "name": ""}],
  "app_hash": ""
}`

// setupHome creates a home directory holding a genesis file as tendermint
// init leaves it.
func setupHome(t *testing.T) (string, func()) {
	home, err := ioutil.TempDir("", "escrowd-cmd")
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(home, "config"), 0755))
	require.NoError(t, ioutil.WriteFile(GenesisPath(home), []byte(tmGenesis), 0600))
	return home, func() { os.RemoveAll(home) }
}

func genState(state string) GenOptions {
	return func(args []string) (json.RawMessage, error) {
		return json.RawMessage(state), nil
	}
}

func readGenesis(t *testing.T, home string) genesisDoc {
	var doc genesisDoc
	bz, err := ioutil.ReadFile(GenesisPath(home))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bz, &doc))
	return doc
}

func TestInit(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()

	logger := log.NewNopLogger()
	err := InitCmd(genState(`{"cash": []}`), logger, home, nil)
	require.NoError(t, err)

	// keep old values, and add our values
	doc := readGenesis(t, home)
	assert.EqualValues(t, []byte(`"test-chain-LgVOZ0"`), doc["chain_id"])
	assert.NotEmpty(t, doc["validators"])
	assert.JSONEq(t, `{"cash": []}`, string(doc[appStateKey]))

	// existing state is protected
	err = InitCmd(genState(`{"escrow": []}`), logger, home, nil)
	assert.True(t, errors.ErrState.Is(err))

	err = InitCmd(genState(`{"escrow": []}`), logger, home, []string{"-force"})
	require.NoError(t, err)
	doc = readGenesis(t, home)
	assert.JSONEq(t, `{"escrow": []}`, string(doc[appStateKey]))
}

func TestInitWithoutGenesis(t *testing.T) {
	home, err := ioutil.TempDir("", "escrowd-cmd")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	err = InitCmd(genState(`{}`), log.NewNopLogger(), home, nil)
	assert.True(t, errors.ErrNotFound.Is(err))
}

type countingInitializer struct {
	calls int
	err   error
}

func (c *countingInitializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	c.calls++
	return c.err
}

func TestValidateGenesis(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()

	ini := &countingInitializer{}

	// tendermint genesis without app state
	err := ValidateGenesis(ini, []string{GenesisPath(home)})
	assert.True(t, errors.ErrEmpty.Is(err))

	require.NoError(t, InitCmd(genState(`{"cash": []}`), log.NewNopLogger(), home, nil))
	require.NoError(t, ValidateGenesis(ini, []string{GenesisPath(home)}))
	assert.Equal(t, 1, ini.calls)

	ini.err = errors.Wrap(errors.ErrInput, "bad state")
	err = ValidateGenesis(ini, []string{GenesisPath(home)})
	assert.True(t, errors.ErrInput.Is(err))

	err = ValidateGenesis(ini, []string{filepath.Join(home, "missing.json")})
	assert.True(t, errors.ErrInput.Is(err))

	err = ValidateGenesis(ini, nil)
	assert.True(t, errors.ErrInput.Is(err))
}
