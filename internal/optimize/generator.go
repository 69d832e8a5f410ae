// Package optimize implements the exhaustive strategy-subset search: the
// candidate generator, the allocation normalizer, the per-candidate
// evaluator, and the fault-isolated search controller.
package optimize

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	"strategy-optimizer/internal/errors"
	"strategy-optimizer/internal/models"
)

// Combinations returns a streaming enumerator over candidate subsets of the
// given strategies.
//
// Size-range policy: with maxSize == 0 only exact minSize combinations are
// produced; a sweep over larger sizes requires an explicit maxSize. The
// enumeration order is lexicographic by input index and therefore stable for
// a fixed input list, which the search controller's first-wins tie-break
// depends on.
//
// Candidates are built from cloned records so later allocation rewrites
// never reach the caller's strategy list.
func Combinations(strategies []models.Strategy, minSize, maxSize int) (*CombinationIter, error) {
	n := len(strategies)
	if minSize < 2 {
		return nil, errors.NewValidationError("min_size", minSize, "must be at least 2")
	}
	if minSize > n {
		return nil, errors.NewValidationError("min_size", minSize, fmt.Sprintf("cannot be greater than %d", n))
	}
	hi := minSize
	if maxSize > 0 {
		if maxSize < minSize {
			return nil, errors.NewValidationError("max_size", maxSize, "must not be less than min_size")
		}
		hi = maxSize
		if hi > n {
			hi = n
		}
	}
	return &CombinationIter{
		strategies: strategies,
		n:          n,
		lo:         minSize,
		hi:         hi,
		k:          minSize,
	}, nil
}

// CombinationIter enumerates combinations one at a time. The full candidate
// set is exponential in the strategy count, so it is never materialized.
type CombinationIter struct {
	strategies []models.Strategy
	n, lo, hi  int
	k          int
	idx        []int
	done       bool
}

// Next returns the next candidate. The second return is false once the
// enumeration is exhausted.
func (it *CombinationIter) Next() (models.Candidate, bool) {
	for !it.done {
		if it.idx == nil {
			it.idx = make([]int, it.k)
			for i := range it.idx {
				it.idx[i] = i
			}
			return it.take(), true
		}
		if advance(it.idx, it.n) {
			return it.take(), true
		}
		it.k++
		if it.k > it.hi {
			it.done = true
			break
		}
		it.idx = nil
	}
	return nil, false
}

// Total returns the number of candidates the full enumeration produces.
func (it *CombinationIter) Total() int {
	total := 0
	for k := it.lo; k <= it.hi; k++ {
		total += combin.Binomial(it.n, k)
	}
	return total
}

func (it *CombinationIter) take() models.Candidate {
	c := make(models.Candidate, len(it.idx))
	for i, j := range it.idx {
		c[i] = it.strategies[j].Clone()
	}
	return c
}

// advance moves idx to the next lexicographic k-combination of [0, n).
// Returns false when the current size is exhausted.
func advance(idx []int, n int) bool {
	k := len(idx)
	for i := k - 1; i >= 0; i-- {
		if idx[i] < n-k+i {
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
			return true
		}
	}
	return false
}
