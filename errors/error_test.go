package errors

import (
	"errors"
	"testing"
)

func TestWrappedErrorMatchesSentinel(t *testing.T) {
	sentinel := errors.New("number is too big")
	wrapped := New(sentinel, "%d bytes wide", 64)

	if !errors.Is(wrapped, sentinel) {
		t.Fatal("errors.Is must match the sentinel through the wrapper")
	}
	if got, want := wrapped.Error(), "number is too big [64 bytes wide]"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
