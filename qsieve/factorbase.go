package qsieve

import (
	"math"
	"strconv"

	bn "github.com/bfix/qsieve/math"
)

// FactorBase is the ordered list of small primes p with Legendre(N,p)
// = 1 over which relations are required to be smooth, plus the
// precomputed roots of x² ≡ N (mod p) for each odd prime in the base.
type FactorBase struct {
	Primes []int
	// Roots[i] holds the two solutions (r, p-r) of x² = N (mod
	// Primes[i]) for odd primes; nil when Tonelli-Shanks failed to
	// produce a root (the prime still participates via trial-only
	// sieving).
	Roots []*[2]int
}

// ComputeBound returns the smoothness bound B = ceil(L(N)^(1/sqrt(2)))
// with L(N) = exp(sqrt(ln N * ln ln N)), capped at 10000.
func ComputeBound(n *bn.Int) int {
	// a float64 conversion of the decimal string is adequate here:
	// only the order of magnitude of N feeds the transcendental L(N)
	// formula, and N up to ~150 digits is well within float64 range.
	f, _ := strconv.ParseFloat(n.String(), 64)
	l := math.Exp(math.Sqrt(math.Log(f) * math.Log(math.Log(f))))
	b := math.Pow(l, 1/math.Sqrt2)
	bound := int(math.Ceil(b))
	if bound > 10000 {
		bound = 10000
	}
	return bound
}

// BuildFactorBase filters primes by Legendre(N,p) = 1, admitting p = 2
// unconditionally (its behaviour under the square is handled by a bit
// scan rather than by a quadratic residue test). The result is never
// nil; the caller checks Len() and aborts the attempt when fewer than
// two primes qualify.
func BuildFactorBase(n *bn.Int, primes []int) *FactorBase {
	fb := &FactorBase{}
	for _, p := range primes {
		if p == 2 {
			fb.Primes = append(fb.Primes, 2)
			fb.Roots = append(fb.Roots, nil)
			continue
		}
		pInt := bn.NewInt(int64(p))
		if n.Legendre(pInt) != 1 {
			continue
		}
		r, ok := bn.TonelliShanks(n.Mod(pInt), pInt)
		var roots *[2]int
		if ok {
			r1 := r.ToUsize()
			roots = &[2]int{r1, p - r1}
		}
		fb.Primes = append(fb.Primes, p)
		fb.Roots = append(fb.Roots, roots)
	}
	return fb
}

// Len returns the number of primes in the factor base.
func (fb *FactorBase) Len() int {
	return len(fb.Primes)
}

// Max returns the largest prime in the factor base, or 0 if empty.
func (fb *FactorBase) Max() int {
	if len(fb.Primes) == 0 {
		return 0
	}
	return fb.Primes[len(fb.Primes)-1]
}
