package qsieve

import bn "github.com/bfix/qsieve/math"

// PrimePower is one (prime, exponent) entry of a relation's
// factorization over the factor base.
type PrimePower struct {
	Prime    int
	Exponent int
}

// Relation records a single smooth number: x such that x² mod N
// factors completely over the factor base, along with that
// factorization.
type Relation struct {
	Number   *bn.Int
	Divisors []PrimePower
}

// TrialDivide tries to reduce acc to 1 using only the primes in base,
// in order. It returns the exponent vector and true on full reduction,
// or nil and false if a nontrivial remainder is left (acc is not
// base-smooth).
func TrialDivide(acc *bn.Int, base []int) ([]PrimePower, bool) {
	if acc.Equals(bn.ZERO) {
		return nil, false
	}
	var divisors []PrimePower
	remaining := acc
	for _, p := range base {
		if remaining.Equals(bn.ONE) {
			break
		}
		pInt := bn.ConvertUsize(p)
		exponent := 0
		for {
			q, r := remaining.DivMod(pInt)
			if !r.Equals(bn.ZERO) {
				break
			}
			exponent++
			remaining = q
		}
		if exponent > 0 {
			divisors = append(divisors, PrimePower{Prime: p, Exponent: exponent})
		}
	}
	if !remaining.Equals(bn.ONE) {
		return nil, false
	}
	return divisors, true
}
