package math

// Eratosthenes returns all primes <= upper, in ascending order.
func Eratosthenes(upper int) []int {
	if upper < 0 || upper+1 < 0 {
		panic("Eratosthenes: upper limit overflows")
	}
	composite := make([]bool, upper+1)
	var primes []int
	for n := 2; n <= upper; n++ {
		if composite[n] {
			continue
		}
		primes = append(primes, n)
		if n > upper/n {
			continue
		}
		for m := n * n; m <= upper; m += n {
			composite[m] = true
		}
	}
	return primes
}

// TonelliShanks returns r with r² ≡ n (mod p) for an odd prime p, and
// ok=false if n has no square root modulo p (n is a non-residue) or
// gcd(n,p) != 1. Returns (0, true) for n == 0.
func TonelliShanks(n, p *Int) (r *Int, ok bool) {
	if n.Equals(ZERO) {
		return ZERO, true
	}
	if n.Legendre(p) != 1 {
		return nil, false
	}
	r, err := SqrtModP(n, p)
	if err != nil {
		return nil, false
	}
	return r, true
}

// TonelliShanksSmall is the small-prime convenience wrapper used by the
// sieve engines, which only ever need modular square roots of N modulo
// primes from the factor base.
func TonelliShanksSmall(n int, p int) (int, bool) {
	r, ok := TonelliShanks(NewInt(int64(n)), NewInt(int64(p)))
	if !ok {
		return 0, false
	}
	return r.ToUsize(), true
}
