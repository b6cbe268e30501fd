package qsieve

import "errors"

// Sentinel errors identifying the broad kind of failure, for
// errors.Is() callers; gerrors.Error wraps one of these with the
// specific context (the offending input, the prime bound tried, etc).
var (
	// ErrParse is returned when the input string is not a decimal integer.
	ErrParse = errors.New("could not parse N as a decimal integer")

	// ErrTooBig is returned when N exceeds the widest supported shim (63 bytes).
	ErrTooBig = errors.New("number is too big")

	// ErrPrime is returned by the small-N trial-division path when N has
	// no divisor below itself.
	ErrPrime = errors.New("number is prime (tested all divisors up to n)")

	// ErrUnfactorable is returned when every sieve/solve round within
	// the retry limit failed to produce a nontrivial factorization.
	ErrUnfactorable = errors.New("could not factorize")

	// ErrTooSmall is returned when the factor base built for a given
	// prime bound has fewer than two primes, too small to sieve with.
	ErrTooSmall = errors.New("factor base is too small for this prime bound")
)
