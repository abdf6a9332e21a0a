package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode is used in ABCI responses to signal that processing
	// was successful.
	SuccessABCICode = 0

	// Errors that do not provide an ABCI code are internal errors. Their
	// message is not exposed outside of debug mode.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the ABCI code and log message for given error, as consumed
// by the tendermint client.
//
// Outside of debug mode, the message of an internal error (one that does not
// provide ABCICode information) is replaced with a generic one.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}

	code := abciCode(err)
	if debug {
		return code, fmt.Sprintf("%+v", err)
	}
	if code == internalABCICode {
		return internalABCICode, internalABCILog
	}
	return code, err.Error()
}

type coder interface {
	ABCICode() uint32
}

func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalABCICode
		}
	}
}

// Redact replaces all errors that do not originate from a registered kind
// with a generic internal error. Panics are redacted as well.
//
// This is a no-operation when running in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
