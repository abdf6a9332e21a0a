package sigs

import "github.com/limepay/weave/errors"

// ErrInvalidSequence is returned when the signature sequence does not match
// the sequence stored for the signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
