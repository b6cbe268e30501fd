package math

import (
	"errors"
	"math/big"
)

var errParseFailed = errors.New("not a valid decimal integer")

// Int is used both as the "fixed-width" modular integer of the sieve
// hot loops and as the arbitrary-precision accumulator of the factor
// builder. A width-dispatched design would pick one of four
// machine-word widths (64/128/256/512 bit) wide enough to hold N² and
// run the sieve monomorphic over that width; here a single
// arbitrary-precision Int plays that role for every width, so
// "wrapping" never truncates and the usize-flavored helpers exist only
// to keep call sites that would otherwise need a width parameter
// uniform.

// ConvertUsize builds an Int from a machine-sized value.
func ConvertUsize(v int) *Int {
	return NewInt(int64(v))
}

// AddUsize adds a machine-sized value to i.
func (i *Int) AddUsize(v int) *Int {
	return i.Add(ConvertUsize(v))
}

// WrappingAdd is the addition of a fixed-width machine integer. Since
// Int is arbitrary precision there is no width to wrap against; the
// name keeps sieve code written against the same vocabulary as a true
// fixed-width shim.
func (i *Int) WrappingAdd(j *Int) *Int { return i.Add(j) }

// WrappingSub is the fixed-width subtraction.
func (i *Int) WrappingSub(j *Int) *Int { return i.Sub(j) }

// WrappingMul is the fixed-width multiplication.
func (i *Int) WrappingMul(j *Int) *Int { return i.Mul(j) }

// WrappingDiv is the fixed-width division.
func (i *Int) WrappingDiv(j *Int) *Int { return i.Div(j) }

// WrappingRem is the fixed-width remainder.
func (i *Int) WrappingRem(j *Int) *Int { return i.Mod(j) }

// RemShort reduces i modulo a small machine-sized modulus.
func (i *Int) RemShort(modulus int) *Int {
	return i.Mod(ConvertUsize(modulus))
}

// DivModUsize divides i by a machine-sized divisor, returning quotient
// and remainder.
func (i *Int) DivModUsize(d int) (*Int, *Int) {
	return i.DivMod(ConvertUsize(d))
}

// ModPow2 computes self² mod m. A fixed-width shim must widen to a
// double-width intermediate before reducing so that x² never
// truncates; Int's arbitrary precision makes that widening implicit.
func (i *Int) ModPow2(m *Int) *Int {
	return i.Mul(i).Mod(m)
}

// ToUsize returns the low machine word of i.
func (i *Int) ToUsize() int {
	return int(i.Int64())
}

// BitVartime returns the bit of i at position n, scanning from the low
// end. Named after the fixed-width shim's variable-time bit probe used
// by the block sieve's bit-scan strip of the prime 2.
func (i *Int) BitVartime(n int) uint {
	return i.Bit(n)
}

// RshAssign shifts i right by n bits in place.
func (i *Int) RshAssign(n uint) {
	i.v = i.Rsh(n).v
}

// Sqrt returns the integer square root (floor) of i.
func (i *Int) Sqrt() *Int {
	return i.NthRoot(2, false)
}

// IsPerfectSquare reports whether i is the square of an integer.
func (i *Int) IsPerfectSquare() bool {
	r := i.Sqrt()
	return r.Mul(r).Equals(i)
}

// ParseInt parses a decimal string into an Int, returning an error
// instead of panicking (unlike NewIntFromString) so callers handling
// untrusted input can report a clean parse failure.
func ParseInt(s string) (*Int, error) {
	v := new(big.Int)
	if _, ok := v.SetString(s, 10); !ok {
		return nil, errParseFailed
	}
	return &Int{v: v}, nil
}

// Float64 converts i to its nearest float64 approximation. Used only
// by the log-sieve's threshold formula, which needs the order of
// magnitude of N rather than its exact value.
func (i *Int) Float64() float64 {
	f := new(big.Float).SetInt(i.v)
	r, _ := f.Float64()
	return r
}
