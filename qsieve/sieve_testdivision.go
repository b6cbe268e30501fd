package qsieve

import (
	"time"

	"github.com/bfix/qsieve/logger"
	bn "github.com/bfix/qsieve/math"
)

// TestDivisionSieve finds base-smooth relations by exact trial
// division of x² mod N for a moving cursor x starting at floor(sqrt(N))
// + 1. It is the slowest of the three sieve strategies but the
// simplest to verify; runFactor uses it only when QSIEVE_STRATEGY
// selects it.
type TestDivisionSieve struct {
	n          *bn.Int
	factorBase []int
	next       *bn.Int
}

// NewTestDivisionSieve creates a sieve for N over the given factor base.
func NewTestDivisionSieve(n *bn.Int, fb *FactorBase) *TestDivisionSieve {
	return &TestDivisionSieve{
		n:          n,
		factorBase: fb.Primes,
		next:       n.Sqrt().AddUsize(1),
	}
}

// Run collects numbersToFind smooth relations, in ascending order of
// the cursor value.
func (s *TestDivisionSieve) Run(numbersToFind int) []Relation {
	var result []Relation
	total := numbersToFind
	lastReport := time.Now()

	for numbersToFind > 0 {
		sqMod := s.next.ModPow2(s.n)

		if divisors, ok := TrialDivide(sqMod, s.factorBase); ok {
			result = append(result, Relation{Number: s.next, Divisors: divisors})
			numbersToFind--

			if now := time.Now(); now.Sub(lastReport) >= 5*time.Second {
				lastReport = now
				logger.Printf(logger.INFO, "[qsieve] test-division sieve: done %.1f%%\n",
					float64(total-numbersToFind)/float64(total)*100)
			}
		}

		s.next = s.next.AddUsize(1)
	}
	return result
}
