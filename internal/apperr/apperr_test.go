package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindsAndStatuses(t *testing.T) {
	cases := []struct {
		err    error
		kind   Kind
		status int
	}{
		{Invalid("bad input"), KindInvalidArgument, 400},
		{NotFound("appointment", "abc"), KindNotFound, 404},
		{Conflict("slot taken"), KindConflict, 409},
		{Unavailable("query", errors.New("timeout")), KindUnavailable, 503},
		{Internal("query", errors.New("boom")), KindInternal, 500},
	}

	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.kind {
			t.Fatalf("KindOf(%v) = %v, want %v", tc.err, got, tc.kind)
		}
		if got := StatusOf(tc.err); got != tc.status {
			t.Fatalf("StatusOf(%v) = %d, want %d", tc.err, got, tc.status)
		}
	}
}

func TestUnwrapPreservesChain(t *testing.T) {
	cause := errors.New("connection reset")
	err := Unavailable("list appointments", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("wrapped cause must survive errors.Is")
	}

	// Оборачивание fmt.Errorf не теряет тип.
	wrapped := fmt.Errorf("handler: %w", err)
	var ae *Error
	if !errors.As(wrapped, &ae) || ae.Kind != KindUnavailable {
		t.Fatalf("errors.As must find *Error through the chain")
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(Unavailable("op", errors.New("x"))) {
		t.Fatalf("UNAVAILABLE must be retryable")
	}
	if Retryable(Conflict("busy")) || Retryable(errors.New("plain")) {
		t.Fatalf("only UNAVAILABLE is retryable")
	}
}

func TestUnknownErrorDefaults(t *testing.T) {
	plain := errors.New("plain")
	if KindOf(plain) != KindInternal || StatusOf(plain) != 500 {
		t.Fatalf("unknown errors must map to INTERNAL/500")
	}
}
