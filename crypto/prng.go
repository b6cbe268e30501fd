package crypto

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
)

// Prng adapts the system entropy source to math/rand.Source, so the
// cheap biased-coin helpers below draw from a cryptographically secure
// generator without per-call allocation ceremony at the call sites.
type Prng struct {
	mask *big.Int
}

// Int63 returns the next random non-negative 63-bit integer value.
func (p *Prng) Int63() int64 {
	val, err := crand.Int(crand.Reader, p.mask)
	if err != nil {
		panic("PRNG failure: " + err.Error())
	}
	return val.Int64()
}

// Seed for a random source: not necessary, because random bits are
// generated on a system level by either a hardware RNG or a
// cryptographically secure PRNG algorithm.
func (p *Prng) Seed(seed int64) {
	// intentionally not implemented
}

// NewPrngSource instantiates a new source for random bits.
func NewPrngSource() *Prng {
	return &Prng{
		mask: new(big.Int).Lsh(big.NewInt(1), 63),
	}
}

var rnd = rand.New(NewPrngSource())

// RandInt returns a random integer value with given range (inclusive).
func RandInt(lower, upper int) int {
	return lower + (rnd.Int() % (upper - lower + 1))
}

// RandRatio reports true with probability num/den (den > 0), the way a
// loaded coin flip would: used by the random relation-combination
// search to bias how many free variables get set per attempt.
func RandRatio(num, den int) bool {
	return rnd.Intn(den) < num
}
