/*
Package x contains the abstractions shared by all extensions.
*/
package x

import (
	"github.com/limepay/weave"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of handlers,
// so we can plug in another authentication system, rather than hard-coding
// x/sigs for all extensions.
type Authenticator interface {
	// GetAddresses reveals all addresses that authorized the current
	// transaction.
	GetAddresses(weave.Context) []weave.Address
	// HasAddress checks if given address authorized the current
	// transaction.
	HasAddress(weave.Context, weave.Address) bool
}

// MultiAuth chains together many Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetAddresses combines all addresses from all Authenticators, without
// duplicates.
func (m MultiAuth) GetAddresses(ctx weave.Context) []weave.Address {
	var res []weave.Address
	for _, impl := range m.impls {
		for _, a := range impl.GetAddresses(ctx) {
			if !containsAddress(res, a) {
				res = append(res, a)
			}
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator supports this.
func (m MultiAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first address if any, otherwise nil.
func MainSigner(ctx weave.Context, auth Authenticator) weave.Address {
	signers := auth.GetAddresses(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are also in
// context.
func HasAllAddresses(ctx weave.Context, auth Authenticator, required []weave.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

func containsAddress(list []weave.Address, a weave.Address) bool {
	for _, l := range list {
		if l.Equals(a) {
			return true
		}
	}
	return false
}
