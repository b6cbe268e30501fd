package qsieve

import (
	"testing"

	bn "github.com/bfix/qsieve/math"
)

// checkRelations verifies the relation invariant directly: for every
// emitted (x, factorization), the product of prime^exponent must
// reconstruct x² mod N exactly.
func checkRelations(t *testing.T, n *bn.Int, relations []Relation) {
	t.Helper()
	if len(relations) == 0 {
		t.Fatal("expected at least one relation")
	}
	for _, rel := range relations {
		want := rel.Number.ModPow2(n)
		got := bn.ONE
		for _, d := range rel.Divisors {
			p := bn.ConvertUsize(d.Prime)
			for i := 0; i < d.Exponent; i++ {
				got = got.Mul(p)
			}
		}
		if !got.Equals(want) {
			t.Fatalf("relation x=%s: product of factors %s != x^2 mod n %s", rel.Number, got, want)
		}
	}
}

func testFactorBase8051() (*bn.Int, *FactorBase) {
	n := bn.NewInt(8051)
	primes := bn.Eratosthenes(50)
	return n, BuildFactorBase(n, primes)
}

func TestTestDivisionSieveFindsRelations(t *testing.T) {
	n, fb := testFactorBase8051()
	sieve := NewTestDivisionSieve(n, fb)
	relations := sieve.Run(3)
	checkRelations(t, n, relations)
}

func TestBlockSieveFindsRelations(t *testing.T) {
	n, fb := testFactorBase8051()
	sieve := NewBlockSieve(n, fb)
	relations := sieve.Run(3)
	checkRelations(t, n, relations)
}

func TestBlockSieveCursorAdvancesAcrossRuns(t *testing.T) {
	n, fb := testFactorBase8051()
	sieve := NewBlockSieve(n, fb)
	first := sieve.Run(2)
	second := sieve.Run(2)
	checkRelations(t, n, first)
	checkRelations(t, n, second)
	seen := make(map[string]bool)
	for _, r := range first {
		seen[r.Number.String()] = true
	}
	for _, r := range second {
		if seen[r.Number.String()] {
			t.Fatalf("relation %s emitted twice across successive Run calls", r.Number)
		}
	}
}

func TestLogSieveFindsRelations(t *testing.T) {
	n, fb := testFactorBase8051()
	sieve := NewLogSieve(n, fb)
	relations := sieve.Run(3)
	checkRelations(t, n, relations)
}

func TestLogSieveRunParallelFindsRelations(t *testing.T) {
	n, fb := testFactorBase8051()
	sieve := NewLogSieve(n, fb)
	relations := sieve.RunParallel(3)
	checkRelations(t, n, relations)
}

func TestBlockSieveRunParallelFindsRelations(t *testing.T) {
	n, fb := testFactorBase8051()
	sieve := NewBlockSieve(n, fb)
	relations := sieve.RunParallel(3, 4)
	checkRelations(t, n, relations)
}

func TestBlockSieveRunParallelSingleWorkerMatchesSequential(t *testing.T) {
	n, fb := testFactorBase8051()
	sieve := NewBlockSieve(n, fb)
	relations := sieve.RunParallel(5, 1)
	checkRelations(t, n, relations)
	if len(relations) < 5 {
		t.Fatalf("expected at least 5 relations, got %d", len(relations))
	}
	sequential := NewBlockSieve(n, fb).Run(5)
	if len(relations) != len(sequential) {
		t.Fatalf("parallel run found %d relations, sequential run %d", len(relations), len(sequential))
	}
	for i := range sequential {
		if !relations[i].Number.Equals(sequential[i].Number) {
			t.Fatalf("relation %d: parallel x=%s, sequential x=%s", i, relations[i].Number, sequential[i].Number)
		}
	}
}
