package escrow

import "github.com/limepay/weave/errors"

var (
	// ErrAlreadyConsumed is returned when an authorization id was used before.
	ErrAlreadyConsumed = errors.Register(1010, "authorization already consumed")

	// ErrInvalidAttestation is returned when a bootstrap attestation is not
	// signed by the address it attests.
	ErrInvalidAttestation = errors.Register(1011, "invalid attestation")

	// ErrAlreadyBootstrapped is returned when an account instance exists.
	ErrAlreadyBootstrapped = errors.Register(1012, "account already bootstrapped")
)
