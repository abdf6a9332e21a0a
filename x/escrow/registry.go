package escrow

import (
	"fmt"

	"github.com/limepay/weave"
	"github.com/limepay/weave/crypto"
	"github.com/limepay/weave/errors"
)

// MasterLogicV1 is the address of the first version of the logic.
var MasterLogicV1 = weave.NewAddress([]byte("escrow/logic/v1"))

// LogicRegistry maps master logic addresses to their implementation.
type LogicRegistry map[string]*Logic

// NewLogicRegistry returns an empty registry.
func NewLogicRegistry() LogicRegistry {
	return make(LogicRegistry)
}

// DefaultLogics returns a registry with all logic versions known to this
// node.
func DefaultLogics(rec crypto.Recoverer, bank Bank) LogicRegistry {
	r := NewLogicRegistry()
	r.Register(MasterLogicV1, NewLogic(rec, bank))
	return r
}

// Register adds a logic under given address. It panics if the address is
// used.
func (r LogicRegistry) Register(addr weave.Address, l *Logic) {
	if err := addr.Validate(); err != nil {
		panic(err)
	}
	if _, ok := r[string(addr)]; ok {
		panic(fmt.Sprintf("logic %s already registered", addr))
	}
	r[string(addr)] = l
}

// Get returns the logic registered under given address.
func (r LogicRegistry) Get(addr weave.Address) (*Logic, error) {
	l, ok := r[string(addr)]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "master logic %s", addr)
	}
	return l, nil
}
