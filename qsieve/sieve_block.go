package qsieve

import (
	"time"

	"github.com/bfix/qsieve/logger"
	bn "github.com/bfix/qsieve/math"
)

// blockMinSize is the floor of a block's width, overridden upward when
// the largest factor-base prime would otherwise barely fit in it.
const blockMinSize = 5000

type blockEntry struct {
	original    *bn.Int
	accumulator *bn.Int
	divisors    []PrimePower
}

// BlockSieve sieves a contiguous block of x values at once: it
// allocates the whole block's worth of x² mod N accumulators up
// front, scans out factor-base primes across the block by arithmetic
// (no per-candidate modular reduction to find where a prime divides),
// and only trial-divides the entries a prime is known to touch.
type BlockSieve struct {
	n         *bn.Int
	fb        *FactorBase
	blockSize int
	nextBlock *bn.Int
}

// NewBlockSieve creates a block sieve for N over fb.
func NewBlockSieve(n *bn.Int, fb *FactorBase) *BlockSieve {
	blockSize := blockMinSize
	if m := fb.Max() * 5; m > blockSize {
		blockSize = m
	}
	return &BlockSieve{
		n:         n,
		fb:        fb,
		blockSize: blockSize,
		nextBlock: n.Sqrt().AddUsize(1),
	}
}

// Run collects at least totalNumbers smooth relations, block by block.
func (s *BlockSieve) Run(totalNumbers int) []Relation {
	var result []Relation
	remaining := totalNumbers
	lastReport := time.Now()
	blockSize := bn.ConvertUsize(s.blockSize)

	for remaining > 0 {
		produced := s.searchBlockFrom(s.nextBlock)
		s.nextBlock = s.nextBlock.WrappingAdd(blockSize)
		remaining -= len(produced)
		result = append(result, produced...)

		if now := time.Now(); now.Sub(lastReport) >= 5*time.Second {
			lastReport = now
			logger.Printf(logger.INFO, "[qsieve] block sieve: done %.1f%%\n",
				float64(totalNumbers-remaining)/float64(totalNumbers)*100)
		}
	}
	return result
}

// searchBlockFrom sieves one block starting exactly at start; it reads
// no mutable sieve state besides {n, fb, blockSize}, so it is safe to
// call concurrently from multiple goroutines as long as each call gets
// a disjoint start.
func (s *BlockSieve) searchBlockFrom(start *bn.Int) []Relation {
	block := make([]blockEntry, s.blockSize)
	for i := range block {
		block[i] = blockEntry{
			original:    start,
			accumulator: start.ModPow2(s.n),
		}
		start = start.WrappingAdd(bn.ONE)
	}

	if s.fb.Primes[0] == 2 {
		idx := 0
		if block[0].accumulator.BitVartime(0) == 1 {
			idx++
		}
		for idx < len(block) {
			// x ≡ 0 (mod N) leaves a zero accumulator, which has no
			// lowest set bit and can never be reduced to 1.
			if block[idx].accumulator.Equals(bn.ZERO) {
				idx += 2
				continue
			}
			exp := 0
			for block[idx].accumulator.BitVartime(exp) == 0 {
				exp++
			}
			block[idx].accumulator.RshAssign(uint(exp))
			block[idx].divisors = append(block[idx].divisors, PrimePower{Prime: 2, Exponent: exp})
			idx += 2
		}
	}

	for i, prime := range s.fb.Primes {
		roots := s.fb.Roots[i]
		if roots == nil {
			continue
		}
		longPrime := bn.ConvertUsize(prime)

		for _, root := range roots {
			longRoot := bn.ConvertUsize(root)
			closest := block[0].original.WrappingSub(longRoot).WrappingDiv(longPrime).WrappingMul(longPrime).WrappingAdd(longRoot)
			if closest.Cmp(block[0].original) < 0 {
				closest = closest.WrappingAdd(longPrime)
			}
			idx := closest.Sub(block[0].original).ToUsize()

			for idx < len(block) {
				if block[idx].accumulator.Equals(bn.ZERO) {
					idx += prime
					continue
				}
				exponent := 0
				for {
					d, r := block[idx].accumulator.DivModUsize(prime)
					if !r.Equals(bn.ZERO) {
						break
					}
					exponent++
					block[idx].accumulator = d
				}
				block[idx].divisors = append(block[idx].divisors, PrimePower{Prime: prime, Exponent: exponent})
				idx += prime
			}
		}
	}

	var result []Relation
	for _, entry := range block {
		if !entry.accumulator.Equals(bn.ONE) {
			continue
		}
		result = append(result, Relation{Number: entry.original, Divisors: entry.divisors})
	}
	return result
}
