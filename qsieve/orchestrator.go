// Package qsieve implements the quadratic sieve: it builds a factor
// base and grows a table of smooth relations until the GF(2)
// linear algebra over their exponent parities yields a congruence of
// squares, and extracts a nontrivial factor from it.
package qsieve

import (
	"os"
	"strconv"

	"github.com/bfix/qsieve/concurrent"
	gerrors "github.com/bfix/qsieve/errors"
	"github.com/bfix/qsieve/logger"
	bn "github.com/bfix/qsieve/math"
	"github.com/bfix/qsieve/qsieve/gf2"
)

// Strategy selects which sieve engine runFactor uses to collect smooth
// relations.
type Strategy int

const (
	// StrategyLog is the floating-point log-accumulation sieve, the
	// fastest of the three and the default.
	StrategyLog Strategy = iota
	// StrategyBlock is the block-allocated exact sieve.
	StrategyBlock
	// StrategyTestDivision is the simplest, slowest, moving-cursor sieve.
	StrategyTestDivision
)

// numAttempts is the number of relation-growth rounds tried per prime
// bound before giving up and reporting ErrUnfactorable.
const numAttempts = 5

// Factorize parses decimal and returns two nontrivial cofactors whose
// product is N, dispatching on N's byte length the way a fixed-width
// implementation would pick its shim: under 4 bytes is cheap enough
// for exhaustive trial division and returns early, without ever
// building a factor base, with the complete prime factorization
// (which can have more than two entries).
func Factorize(decimal string) ([]*bn.Int, error) {
	n, err := bn.ParseInt(decimal)
	if err != nil || n.Cmp(bn.ZERO) < 0 {
		return nil, ErrParse
	}

	logger.Printf(logger.INFO, "[qsieve] n: %s\n", n.String())
	logger.Printf(logger.INFO, "[qsieve] base 10 digits: %d\n", len(n.String()))
	logger.Printf(logger.INFO, "[qsieve] bit size: %d\n", n.BitLen())

	byteLen := (n.BitLen() + 7) / 8

	if byteLen < 4 {
		divisors, err := FullTrialDivide(n.ToUsize())
		if err != nil {
			return nil, err
		}
		out := make([]*bn.Int, len(divisors))
		for i, d := range divisors {
			out[i] = bn.ConvertUsize(d)
		}
		return out, nil
	}

	width, err := bn.SelectWidth(byteLen)
	if err != nil {
		return nil, gerrors.New(ErrTooBig, "%d bytes wide", byteLen)
	}
	logger.Printf(logger.INFO, "[qsieve] using shim width: %s\n", width)

	limit := ComputeBound(n)
	if limit > 10000 {
		limit = 10000
	}

	logger.Printf(logger.INFO, "[qsieve] trying prime bound of %d\n", limit)
	factors, err := runFactor(n, limit, currentStrategy())
	if err != nil {
		return nil, err
	}
	return []*bn.Int{factors.A, factors.B}, nil
}

// currentStrategy reads the QSIEVE_STRATEGY environment variable,
// defaulting to the log sieve; it exists so the CLI and tests can pick
// a specific engine without threading a parameter through every call site.
func currentStrategy() Strategy {
	switch os.Getenv("QSIEVE_STRATEGY") {
	case "block":
		return StrategyBlock
	case "testdivision":
		return StrategyTestDivision
	default:
		return StrategyLog
	}
}

// threadCount reads THREADS, defaulting to 1 (no parallelism).
func threadCount() int {
	v := os.Getenv("THREADS")
	if v == "" {
		return 1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// runFactor grows the relation table across numAttempts rounds (for a
// fixed factor base), rebuilding the GF(2) system each round, until
// the fast-pivot search or its multistage Gaussian-elimination
// fallback turns up a nontrivial factorization.
func runFactor(n *bn.Int, primeBound int, strategy Strategy) (*Factors, error) {
	primes := bn.Eratosthenes(primeBound)
	logger.Printf(logger.INFO, "[qsieve] primes until bound: %d\n", len(primes))

	fb := BuildFactorBase(n, primes)
	logger.Printf(logger.INFO, "[qsieve] built factor base of size %d\n", fb.Len())

	if fb.Len() < 2 {
		logger.Println(logger.WARN, "[qsieve] this is too small")
		return nil, gerrors.New(ErrTooSmall, "bound %d yielded %d primes", primeBound, fb.Len())
	}

	ratio := 1.05
	var table []Relation

	sieve := newSieve(n, fb, strategy)

	for attempt := 0; attempt < numAttempts; attempt++ {
		sievingLimit := int(float64(fb.Len())*ratio + 0.999999)
		if sievingLimit < fb.Len()+5 {
			sievingLimit = fb.Len() + 5
		}
		logger.Printf(logger.INFO, "[qsieve] need about %d numbers\n", sievingLimit)

		need := sievingLimit - len(table)
		if need > 0 {
			table = append(table, sieve.collect(need)...)
		}

		logger.Println(logger.INFO, "[qsieve] done collecting, building solution")

		rowLabels := make([]int, len(table))
		rows := make([][]gf2.Term, len(table))
		for i, rel := range table {
			rowLabels[i] = i
			terms := make([]gf2.Term, len(rel.Divisors))
			for j, d := range rel.Divisors {
				terms[j] = gf2.Term{Index: d.Prime, Count: d.Exponent}
			}
			rows[i] = terms
		}

		system := gf2.WithLabels(rows, fb.Primes, rowLabels).Transpose()

		Progress.Send(ProgressEvent{
			Attempt:        attempt + 1,
			FactorBaseSize: fb.Len(),
			RelationsFound: len(table),
			RelationsWant:  sievingLimit,
		})

		if f, err := pivotSearch(n, table, system); err == nil {
			return f, nil
		} else if f, ferr := gaussianMultistage(n, table, system); ferr == nil {
			return f, nil
		}

		if fb.Len() < 50 {
			ratio *= 1.5
		} else {
			ratio += 0.05
		}
		logger.Println(logger.INFO, "[qsieve] increasing number of smoothies to find")
	}
	return nil, gerrors.New(ErrUnfactorable, "gave up after %d attempts with %d relations", numAttempts, len(table))
}

// ProgressEvent reports the state of one completed relation-growth
// round to anyone listening on Progress; it carries no control
// information, only numbers useful for a progress display.
type ProgressEvent struct {
	Attempt        int
	FactorBaseSize int
	RelationsFound int
	RelationsWant  int
}

// Progress broadcasts a ProgressEvent at the end of every attempt
// round in runFactor. Nobody needs to listen; Send on a signaller with
// no active listeners is a no-op fan-out, not a blocking call.
var Progress = concurrent.NewSignaller()

// sieveEngine hides which of the three sieve strategies (and whether
// it runs in parallel) is collecting relations behind one interface.
type sieveEngine interface {
	collect(n int) []Relation
}

type testDivisionEngine struct{ s *TestDivisionSieve }

func (e testDivisionEngine) collect(n int) []Relation { return e.s.Run(n) }

type blockEngine struct{ s *BlockSieve }

func (e blockEngine) collect(n int) []Relation { return e.s.Run(n) }

type logEngine struct {
	s       *LogSieve
	threads int
}

func (e logEngine) collect(n int) []Relation {
	if e.threads > 1 {
		return e.s.RunParallel(n)
	}
	return e.s.Run(n)
}

func newSieve(n *bn.Int, fb *FactorBase, strategy Strategy) sieveEngine {
	switch strategy {
	case StrategyBlock:
		return blockEngine{NewBlockSieve(n, fb)}
	case StrategyTestDivision:
		return testDivisionEngine{NewTestDivisionSieve(n, fb)}
	default:
		return logEngine{s: NewLogSieve(n, fb), threads: threadCount()}
	}
}

// pivotSearch tries fast_pivot's dependency vectors directly; it fails
// (non-nil error) both when the matrix is not yet wide enough to
// pivot and when none of the vectors it produces give a nontrivial gcd.
func pivotSearch(n *bn.Int, table []Relation, system *gf2.System) (*Factors, error) {
	logger.Println(logger.INFO, "[qsieve] using fast pivot algorithm")
	clone := cloneSystem(system)
	vectors, err := clone.FastPivot()
	if err != nil {
		return nil, err
	}
	logger.Printf(logger.INFO, "[qsieve] produced %d candidates\n", len(vectors))
	if f, ok := FindFactorsFromPivots(n, table, vectors); ok {
		return f, nil
	}
	return nil, ErrUnfactorable
}

// gaussianMultistage is pivotSearch's fallback: a full diagonalization
// followed by the simple/random/exhaustive relation-combination
// searches over the resulting free-variable space.
func gaussianMultistage(n *bn.Int, table []Relation, system *gf2.System) (*Factors, error) {
	clone := cloneSystem(system)
	clone.Diagonalize()
	solution := gf2.ProduceSolution(clone)
	logger.Printf(logger.INFO, "[qsieve] number of dependencies in solution: %d\n", len(solution.Dependencies))
	logger.Println(logger.INFO, "[qsieve] built solution dependencies, searching for factors")

	if f, ok := FindFactorSimple(n, table, solution); ok {
		return f, nil
	}
	if f, ok := FindFactorsRandom(n, table, solution); ok {
		return f, nil
	}
	if f, ok := FindFactorExhaustive(n, table, solution); ok {
		return f, nil
	}
	return nil, ErrUnfactorable
}

func cloneSystem(system *gf2.System) *gf2.System {
	rows := make([]gf2.SparseRow, len(system.Rows))
	for i, r := range system.Rows {
		rows[i] = r.Clone()
	}
	return &gf2.System{
		Rows:      rows,
		RowLabels: append([]int(nil), system.RowLabels...),
		XLabels:   append([]int(nil), system.XLabels...),
	}
}

// FullTrialDivide returns the complete prime factorization of a small
// n by exact trial division over every integer from 2 to n-1, for the
// numbers too small to be worth building a factor base for. It
// returns ErrPrime when n has no divisor in that range.
func FullTrialDivide(n int) ([]int, error) {
	var divisors []int
	toFactor := n
	for i := 2; i < n; i++ {
		for toFactor%i == 0 {
			divisors = append(divisors, i)
			toFactor /= i
		}
	}
	if len(divisors) == 0 {
		return nil, ErrPrime
	}
	return divisors, nil
}
