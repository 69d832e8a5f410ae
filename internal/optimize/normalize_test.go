package optimize

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"strategy-optimizer/internal/models"
)

func TestNormalizeAllocations_EqualFractions(t *testing.T) {
	c := models.Candidate(testStrategies("A", "B", "C", "D"))
	NormalizeAllocations(c, zerolog.Nop())

	for _, s := range c {
		assert.Equal(t, 0.25, s.Allocation)
	}
}

func TestNormalizeAllocations_EmptyCandidate(t *testing.T) {
	assert.NotPanics(t, func() {
		NormalizeAllocations(models.Candidate{}, zerolog.Nop())
	})
}

// Property: after normalization every member's allocation equals 1/size and
// the allocations sum to 1 within floating-point tolerance.
func TestProperty_NormalizedAllocationsSumToOne(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("allocations sum to 1 and each equals 1/size", prop.ForAll(
		func(size int, initial float64) bool {
			c := make(models.Candidate, size)
			for i := range c {
				c[i] = models.Strategy{Ticker: ticker(i), Allocation: initial}
			}

			NormalizeAllocations(c, zerolog.Nop())

			want := 1.0 / float64(size)
			sum := 0.0
			for _, s := range c {
				if s.Allocation != want {
					t.Logf("allocation %v, want %v", s.Allocation, want)
					return false
				}
				sum += s.Allocation
			}
			if math.Abs(sum-1.0) > 1e-9 {
				t.Logf("allocations sum to %v", sum)
				return false
			}
			return true
		},
		gen.IntRange(2, 12),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
