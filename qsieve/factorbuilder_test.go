package qsieve

import (
	"testing"

	bn "github.com/bfix/qsieve/math"
	"github.com/bfix/qsieve/qsieve/gf2"
)

func boolsEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestIncreaseTurns0Into1(t *testing.T) {
	v := []bool{false, false, false}
	increase(v)
	if !boolsEqual(v, []bool{true, false, false}) {
		t.Fatalf("got %v", v)
	}
}

func TestIncreaseAppliesCarryBit(t *testing.T) {
	v := []bool{true, true, true, false}
	increase(v)
	if !boolsEqual(v, []bool{false, false, false, true}) {
		t.Fatalf("got %v", v)
	}
}

func TestIncrease(t *testing.T) {
	v := []bool{true, false, true}
	increase(v)
	if !boolsEqual(v, []bool{false, true, true}) {
		t.Fatalf("got %v", v)
	}
}

func TestIsZeroVector(t *testing.T) {
	if !isZeroVector([]bool{false, false, false}) {
		t.Fatalf("expected zero vector")
	}
	if isZeroVector([]bool{false, true, false}) {
		t.Fatalf("expected nonzero vector")
	}
}

func TestSearchLoneliesFindsPerfectSquare(t *testing.T) {
	// 90² mod 8051 = 49 = 7², so the relation for x=90 is a lonely
	// square all by itself: gcd(90-7, 8051) = 83 splits N.
	n := bn.NewInt(8051)
	smoothies := []Relation{
		{Number: bn.NewInt(90), Divisors: []PrimePower{{Prime: 7, Exponent: 2}}},
	}
	solution := gf2.Solution{
		Vars:            map[int]bool{0: true},
		FreeVariables:   map[int]bool{},
		LonelyVariables: map[int]bool{0: true},
		Constants:       map[int]bool{},
	}

	f, ok := searchLonelies(n, smoothies, solution)
	if !ok {
		t.Fatal("expected the lonely perfect square to yield a factorization")
	}
	if f.A.Int64() != 83 || f.B.Int64() != 97 {
		t.Fatalf("got [%v %v], want [83 97]", f.A, f.B)
	}
}

func TestSearchLoneliesIgnoresNonSquares(t *testing.T) {
	// 91² mod 8051 = 230 = 2*5*23, not a perfect square.
	n := bn.NewInt(8051)
	smoothies := []Relation{
		{Number: bn.NewInt(91), Divisors: []PrimePower{{Prime: 2, Exponent: 1}, {Prime: 5, Exponent: 1}, {Prime: 23, Exponent: 1}}},
	}
	solution := gf2.Solution{
		Vars:            map[int]bool{0: true},
		FreeVariables:   map[int]bool{},
		LonelyVariables: map[int]bool{0: true},
		Constants:       map[int]bool{},
	}

	if _, ok := searchLonelies(n, smoothies, solution); ok {
		t.Fatal("expected no factorization from a non-square lonely")
	}
}
