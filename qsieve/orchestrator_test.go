package qsieve

import (
	"errors"
	"testing"
	"time"

	bn "github.com/bfix/qsieve/math"
)

func TestFactorizeSmallTrivial(t *testing.T) {
	got, err := Factorize("15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Int64() != 3 || got[1].Int64() != 5 {
		t.Fatalf("got %v, want [3 5]", got)
	}
}

func TestFactorizePerfectSquare(t *testing.T) {
	got, err := Factorize("9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Int64() != 3 || got[1].Int64() != 3 {
		t.Fatalf("got %v, want [3 3]", got)
	}
}

func TestFactorizePrimeReportsPrime(t *testing.T) {
	if _, err := Factorize("13"); err != ErrPrime {
		t.Fatalf("expected ErrPrime, got %v", err)
	}
}

func TestFactorizeRejectsGarbage(t *testing.T) {
	if _, err := Factorize("not-a-number"); err != ErrParse {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestRunFactorWrapsTooSmallWithContext(t *testing.T) {
	// a prime bound of 1 admits at most the single prime 2, never
	// enough to build a usable factor base, so this always hits the
	// wrapped ErrTooSmall path regardless of n.
	_, err := runFactor(bn.NewInt(8051), 1, StrategyLog)
	if !errors.Is(err, ErrTooSmall) {
		t.Fatalf("expected ErrTooSmall, got %v", err)
	}
	if err.Error() == ErrTooSmall.Error() {
		t.Fatalf("expected wrapped error to carry context beyond the bare sentinel, got %q", err.Error())
	}
}

func TestProgressBroadcastsAttempts(t *testing.T) {
	listener, err := Progress.Listener()
	if err != nil {
		t.Fatalf("unexpected error obtaining listener: %v", err)
	}
	defer listener.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for sig := range listener.Signal() {
			if _, ok := sig.(ProgressEvent); ok {
				return
			}
		}
	}()

	// Factorize would route a 2-byte N to trial division without ever
	// reaching the attempt loop, so drive runFactor directly.
	if _, err := runFactor(bn.NewInt(8051), 50, StrategyLog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a ProgressEvent")
	}
}

func TestFactorizeMidSizeComposite(t *testing.T) {
	if testing.Short() {
		t.Skip("quadratic sieve run is slow; skipped with -short")
	}
	// 100003 * 100019 = 10002200057, just past the 4-byte boundary
	// that routes Factorize through the sieve instead of trial division.
	got, err := Factorize("10002200057")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected two cofactors, got %v", got)
	}
	product := got[0].Mul(got[1])
	if product.String() != "10002200057" {
		t.Fatalf("cofactors %v * %v != 10002200057", got[0], got[1])
	}
}
