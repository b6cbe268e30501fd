package qsieve

import (
	"github.com/bfix/qsieve/crypto"
	"github.com/bfix/qsieve/logger"
	bn "github.com/bfix/qsieve/math"
	"github.com/bfix/qsieve/qsieve/gf2"
)

// Factors is a nontrivial factorization of N into two cofactors.
type Factors struct {
	A *bn.Int
	B *bn.Int
}

// testFactorization checks whether gcd(a-b, n) is a nontrivial
// divisor of n, given a² ≡ b² (mod n) from a congruence of squares
// (the divisor is trivial when a ≡ ±b). a is swapped to be the larger of the two first so a-b is
// never negative.
func testFactorization(n, a, b *bn.Int) (*Factors, bool) {
	a = a.Mod(n)
	b = b.Mod(n)
	if b.Cmp(a) > 0 {
		a, b = b, a
	}
	gcd := n.GCD(a.Sub(b))
	if gcd.Equals(n) || gcd.BitLen() <= 1 {
		return nil, false
	}
	other := n.Div(gcd)
	return &Factors{A: gcd, B: other}, true
}

// buildNumbers multiplies the smooth numbers at positions together
// into a, and the square root of the product of their (exact) squares
// mod n into b, ready for the congruence-of-squares gcd test.
func buildNumbers(n *bn.Int, smoothies []Relation, positions []int) (*bn.Int, *bn.Int) {
	a, b := bn.ONE, bn.ONE
	for _, idx := range positions {
		a = a.Mul(smoothies[idx].Number)
		b = b.Mul(smoothies[idx].Number.ModPow2(n))
	}
	return a, b.Sqrt()
}

func attemptFactorization(n *bn.Int, smoothies []Relation, solution gf2.Solution, freeVars []bool) (*Factors, bool) {
	assignment := solution.Substitute(freeVars, false)
	var positions []int
	for i, included := range assignment {
		if included {
			positions = append(positions, i)
		}
	}
	a, b := buildNumbers(n, smoothies, positions)
	return testFactorization(n, a, b)
}

// searchLonelies looks for a relation whose square mod N is already a
// perfect square on its own: its variable contributes to no
// dependency and no free choice, so squaring it directly may yield a
// congruence of squares without combining anything else.
func searchLonelies(n *bn.Int, smoothies []Relation, solution gf2.Solution) (*Factors, bool) {
	for lonely := range solution.LonelyVariables {
		candidate := smoothies[lonely]
		p2 := candidate.Number.ModPow2(n)
		if !p2.IsPerfectSquare() {
			continue
		}
		if f, ok := testFactorization(n, candidate.Number, p2.Sqrt()); ok {
			return f, true
		}
	}
	return nil, false
}

func isZeroVector(vec []bool) bool {
	for _, v := range vec {
		if v {
			return false
		}
	}
	return true
}

// increase treats vec as a little-endian binary counter and adds one
// to it in place, carrying across the full width (so it wraps back to
// all-false after the all-true value).
func increase(vec []bool) {
	carry := true
	for i := range vec {
		newCarry := vec[i] && carry
		vec[i] = vec[i] != carry
		carry = newCarry
	}
}

// FindFactorExhaustive enumerates every nonzero combination of free
// variables in turn (as a binary counter) until one yields a
// congruence of squares or the counter wraps back to zero. This is
// the fallback of last resort: its cost is exponential in the number
// of free variables, so it is only tried after the cheaper searches
// have failed.
func FindFactorExhaustive(n *bn.Int, smoothies []Relation, solution gf2.Solution) (*Factors, bool) {
	logger.Println(logger.INFO, "[qsieve] using exhaustive search")

	if f, ok := searchLonelies(n, smoothies, solution); ok {
		return f, true
	}

	if len(solution.FreeVariables) == 0 {
		return nil, false
	}

	limit := len(solution.FreeVariables)
	logger.Printf(logger.INFO, "[qsieve] variables for exhaustive search: %d\n", limit)

	freeMapping := make([]bool, limit)
	increase(freeMapping)

	for !isZeroVector(freeMapping) {
		if f, ok := attemptFactorization(n, smoothies, solution, freeMapping); ok {
			return f, true
		}
		increase(freeMapping)
	}
	return nil, false
}

// FindFactorSimple tries each unit basis vector of the free-variable
// space in turn: combine every relation implied by setting exactly one
// free variable, one free variable at a time.
func FindFactorSimple(n *bn.Int, smoothies []Relation, solution gf2.Solution) (*Factors, bool) {
	logger.Println(logger.INFO, "[qsieve] trying base vector search")

	if f, ok := searchLonelies(n, smoothies, solution); ok {
		return f, true
	}

	if len(solution.FreeVariables) == 0 {
		return nil, false
	}

	limit := len(solution.FreeVariables)
	logger.Printf(logger.INFO, "[qsieve] variables for base vector search: %d\n", limit)

	freeMapping := make([]bool, limit)
	for i := 0; i < len(freeMapping); i++ {
		if i > 0 {
			freeMapping[i-1] = false
		}
		freeMapping[i] = true
		if f, ok := attemptFactorization(n, smoothies, solution, freeMapping); ok {
			return f, true
		}
	}
	return nil, false
}

// FindFactorsRandom samples random subsets of the free variables, each
// included with probability 1/pressure, where pressure starts at
// |free| and halves every round down to 2 (so the inclusion probability
// doubles each round), capped at 2^|free| (and 10000) attempts per
// round. A biased coin per free variable converges faster than
// uniform sampling once the relation count is large, since a genuine
// dependency usually only needs a small subset combined.
func FindFactorsRandom(n *bn.Int, smoothies []Relation, solution gf2.Solution) (*Factors, bool) {
	logger.Println(logger.INFO, "[qsieve] trying random search")

	if f, ok := searchLonelies(n, smoothies, solution); ok {
		return f, true
	}

	if len(solution.FreeVariables) == 0 {
		return nil, false
	}

	limit := len(solution.FreeVariables)
	attempts := 10000
	if limit < 14 {
		if v := 1 << uint(limit); v < attempts {
			attempts = v
		}
	}

	freeMapping := make([]bool, limit)

	for pressure := limit; pressure >= 2; pressure /= 2 {
		logger.Printf(logger.INFO, "[qsieve] trying 1/%d\n", pressure)
		for attempt := 0; attempt < attempts; attempt++ {
			for i := range freeMapping {
				freeMapping[i] = crypto.RandRatio(1, pressure)
			}
			if f, ok := attemptFactorization(n, smoothies, solution, freeMapping); ok {
				return f, true
			}
		}
	}
	return nil, false
}

// FindFactorsFromPivots tries each dependency vector fast_pivot
// produced directly, without any further search: fast_pivot already
// yields a full GF(2) dependency per non-pivot column, so (unlike the
// other strategies) there is no free-variable space left to search.
func FindFactorsFromPivots(n *bn.Int, smoothies []Relation, vectors [][]int) (*Factors, bool) {
	for _, vector := range vectors {
		a, b := buildNumbers(n, smoothies, vector)
		if f, ok := testFactorization(n, a, b); ok {
			return f, true
		}
	}
	return nil, false
}
