package qsieve

import (
	"math"
	"os"
	"strconv"
	"time"

	"github.com/bfix/qsieve/logger"
	bn "github.com/bfix/qsieve/math"
	"golang.org/x/sync/errgroup"
)

// logBlockMax caps a log-sieve block's width; NewLogSieve still raises
// the width to at least twice the largest factor-base prime.
const logBlockMax = 60000

// LogSieve approximates trial division with floating-point log
// accumulation: instead of dividing out every factor-base prime at
// every candidate, it adds log2(prime) to a running sum wherever the
// prime is known to divide the accumulator, and only pays for exact
// trial division on the candidates whose accumulated log clears an
// empirical threshold. It is the fastest of the three strategies; it
// and BlockSieve each have a parallel variant.
type LogSieve struct {
	n         *bn.Int
	fb        *FactorBase
	blockSize int
	nextBlock *bn.Int
	threshold float64
}

// NewLogSieve creates a log sieve for N over fb.
func NewLogSieve(n *bn.Int, fb *FactorBase) *LogSieve {
	blockSize := fb.Max() * 5
	if blockSize > logBlockMax {
		blockSize = logBlockMax
	}
	if m := fb.Max() * 2; blockSize < m {
		blockSize = m
	}

	nf := n.Float64()
	threshold := math.Log2(float64(blockSize)) + math.Log2(nf)*0.5 -
		chooseT(math.Log10(nf))*math.Log2(float64(fb.Max()))

	return &LogSieve{
		n:         n,
		fb:        fb,
		blockSize: blockSize,
		nextBlock: n.Sqrt().AddUsize(1),
		threshold: threshold,
	}
}

// chooseT picks the empirical log-threshold multiplier for a number of
// the given decimal size: the larger N is, the more log2(largest
// prime) slack a genuine smooth candidate needs before it is worth the
// exact trial-division check, since random noise in the accumulated
// log grows with the number of primes summed over.
func chooseT(decimalDigits float64) float64 {
	switch {
	case decimalDigits <= 30.0:
		return 1.5
	case decimalDigits <= 45.0:
		return 2.0
	case decimalDigits <= 66.0:
		return 2.6
	default:
		return 3.2
	}
}

// Run collects at least totalNumbers smooth relations.
func (s *LogSieve) Run(totalNumbers int) []Relation {
	logger.Printf(logger.INFO, "[qsieve] running log sieve with block size of %d\n", s.blockSize)
	var result []Relation
	remaining := totalNumbers
	lastReport := time.Now()
	blockSize := bn.ConvertUsize(s.blockSize)

	for remaining > 0 {
		produced := s.searchBlock(s.nextBlock, s.blockSize)
		s.nextBlock = s.nextBlock.WrappingAdd(blockSize)
		remaining -= len(produced)
		result = append(result, produced...)

		if now := time.Now(); now.Sub(lastReport) >= 5*time.Second {
			lastReport = now
			logger.Printf(logger.INFO, "[qsieve] log sieve: done %.1f%%\n",
				float64(totalNumbers-remaining)/float64(totalNumbers)*100)
		}
	}
	return result
}

func (s *LogSieve) searchBlock(start *bn.Int, size int) []Relation {
	originals := make([]*bn.Int, size)
	accumulators := make([]*bn.Int, size)
	exact := make([]*bn.Int, size)
	for i := 0; i < size; i++ {
		originals[i] = start
		accumulators[i] = start.ModPow2(s.n)
		exact[i] = start.ModPow2(s.n)
		start = start.WrappingAdd(bn.ONE)
	}

	logs := make([]float64, size)

	if s.fb.Primes[0] == 2 {
		idx := 0
		if accumulators[0].BitVartime(0) == 1 {
			idx++
		}
		for idx < size {
			if accumulators[idx].Equals(bn.ZERO) {
				idx += 2
				continue
			}
			exp := 0
			for accumulators[idx].BitVartime(exp) == 0 {
				exp++
			}
			logs[idx] += float64(exp)
			accumulators[idx].RshAssign(uint(exp))
			idx += 2
		}
	}

	for i, prime := range s.fb.Primes {
		roots := s.fb.Roots[i]
		if roots == nil {
			continue
		}
		longPrime := bn.ConvertUsize(prime)
		rootLog := math.Log2(float64(prime))

		for _, root := range roots {
			longRoot := bn.ConvertUsize(root)
			closest := originals[0].WrappingSub(longRoot).WrappingDiv(longPrime).WrappingMul(longPrime).WrappingAdd(longRoot)
			if closest.Cmp(originals[0]) < 0 {
				closest = closest.WrappingAdd(longPrime)
			}
			idx := closest.Sub(originals[0]).ToUsize()

			for idx < size {
				logs[idx] += rootLog
				idx += prime
			}
		}
	}

	var result []Relation
	for i := 0; i < size; i++ {
		if logs[i] < s.threshold {
			continue
		}
		divisors, ok := TrialDivide(exact[i], s.fb.Primes)
		if !ok {
			continue
		}
		result = append(result, Relation{Number: originals[i], Divisors: divisors})
	}
	return result
}

// RunParallel fans the log sieve's per-block search out across
// multiple goroutines, one block per worker, reading the worker count
// from the THREADS environment variable (defaulting to 1). Blocks
// advance nextBlock in lockstep so no x value is ever sieved twice;
// each round waits for all its blocks and appends their relations in
// block order, so the result is in ascending order of x like Run's.
func (s *LogSieve) RunParallel(totalNumbers int) []Relation {
	threads := 1
	if v := os.Getenv("THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			threads = n
		}
	}
	blockSize := s.fb.Max() * 2
	logger.Printf(logger.INFO, "[qsieve] running parallel log sieve: block size %d, %d threads\n", blockSize, threads)

	var result []Relation
	remaining := totalNumbers
	lastReport := time.Now()

	for remaining > 0 {
		starts := make([]*bn.Int, threads)
		for i := 0; i < threads; i++ {
			starts[i] = s.nextBlock
			s.nextBlock = s.nextBlock.AddUsize(blockSize)
		}

		produced := make([][]Relation, threads)
		var g errgroup.Group
		for i := 0; i < threads; i++ {
			i := i
			g.Go(func() error {
				produced[i] = s.searchBlock(starts[i], blockSize)
				return nil
			})
		}
		_ = g.Wait()

		for _, items := range produced {
			remaining -= len(items)
			result = append(result, items...)
		}

		if now := time.Now(); now.Sub(lastReport) >= 5*time.Second {
			lastReport = now
			logger.Printf(logger.INFO, "[qsieve] parallel log sieve: done %.1f%%\n",
				float64(totalNumbers-remaining)/float64(totalNumbers)*100)
		}
	}
	return result
}
