package errors

import (
	stdlib "errors"
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrModel,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrUnauthorized,
			b:      Wrap(ErrUnauthorized, "not a signer"),
			wantIs: true,
		},
		"pkg errors wrap is unwrapped too": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrOverflow, "too big"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrNotFound,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"field error is unwrapped": {
			a:      ErrInput,
			b:      Field("Recipient", ErrInput, "required"),
			wantIs: true,
		},
		"appended errors are searched": {
			a:      ErrAmount,
			b:      Append(ErrInput, Wrap(ErrAmount, "negative")),
			wantIs: true,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is not an error": {
			a:      nil,
			b:      ErrNotFound,
			wantIs: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("want %v, got %v", tc.wantIs, got)
			}
		})
	}
}

func TestRegisterDuplicatedCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("registering a code twice must panic")
		}
	}()
	Register(ErrNotFound.code, "duplicate")
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := fn()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "nothing"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Field("Name", nil, "nothing"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Append(nil, nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}

func TestFieldErrors(t *testing.T) {
	err := Append(
		Field("Recipient", ErrEmpty, "required"),
		Field("TokenAmount", ErrAmount, "negative"),
		Field("Recipient", ErrInput, "format"),
	)
	if got := FieldErrors(err, "Recipient"); len(got) != 2 {
		t.Fatalf("want 2 recipient errors, got %d", len(got))
	}
	if got := FieldErrors(err, "Signature"); len(got) != 0 {
		t.Fatalf("want no signature errors, got %d", len(got))
	}
	if code := abciCode(err); code != ErrEmpty.code {
		t.Fatalf("want code of the first error, got %d", code)
	}
}
