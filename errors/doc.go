/*
Package errors implements custom error interfaces for the escrow chain.

Each error kind is registered once with a unique ABCI code and a short
description. Runtime errors wrap one of the registered kinds, so that callers
can test them with the Is method and the ABCI layer can expose a stable code
and a safe message to clients.

	var ErrCustom = errors.Register(1099, "custom")

	if err := doSomething(); err != nil {
		return errors.Wrap(err, "do something")
	}

	if ErrCustom.Is(err) { ... }

The first wrap of a non weave error attaches a stack trace, which is printed
when the error is formatted with %+v.
*/
package errors
