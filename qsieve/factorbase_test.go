package qsieve

import (
	"testing"

	bn "github.com/bfix/qsieve/math"
)

func TestBuildFactorBaseAdmitsTwoUnconditionally(t *testing.T) {
	n := bn.NewInt(8051)
	fb := BuildFactorBase(n, []int{2, 3, 5, 7, 11, 13})
	if len(fb.Primes) == 0 || fb.Primes[0] != 2 {
		t.Fatalf("expected 2 to head the factor base, got %v", fb.Primes)
	}
	if fb.Roots[0] != nil {
		t.Fatalf("expected a nil root entry for 2, got %v", fb.Roots[0])
	}
}

func TestBuildFactorBaseFiltersNonResidues(t *testing.T) {
	n := bn.NewInt(8051)
	fb := BuildFactorBase(n, bn.Eratosthenes(50))
	for i, p := range fb.Primes {
		if p == 2 {
			continue
		}
		if n.Legendre(bn.NewInt(int64(p))) != 1 {
			t.Fatalf("prime %d admitted although 8051 is not a residue mod %d", p, p)
		}
		if fb.Roots[i] == nil {
			continue
		}
		r := fb.Roots[i][0]
		if (r*r-8051)%p != 0 {
			t.Fatalf("prime %d: root %d doesn't satisfy r^2 = n (mod p)", p, r)
		}
	}
}

func TestComputeBoundIsPositiveAndCapped(t *testing.T) {
	n := bn.NewIntFromString("1577271624417732056618338337651")
	bound := ComputeBound(n)
	if bound <= 0 || bound > 10000 {
		t.Fatalf("ComputeBound out of range: %d", bound)
	}
}

func TestFactorBaseMaxAndLen(t *testing.T) {
	fb := BuildFactorBase(bn.NewInt(8051), []int{2, 3, 5, 7})
	if fb.Len() != len(fb.Primes) {
		t.Fatalf("Len() mismatch")
	}
	if fb.Max() != fb.Primes[len(fb.Primes)-1] {
		t.Fatalf("Max() mismatch")
	}
}
