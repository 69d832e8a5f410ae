package optimize

import (
	"github.com/rs/zerolog"

	"strategy-optimizer/internal/models"
)

// NormalizeAllocations rewrites every member's allocation to the equal
// fraction 1/size, in place on the candidate's own records. The generator
// hands out cloned records, so overlapping candidates never observe each
// other's normalization.
func NormalizeAllocations(c models.Candidate, logger zerolog.Logger) {
	if len(c) == 0 {
		return
	}
	frac := 1.0 / float64(len(c))
	for i := range c {
		c[i].Allocation = frac
	}
	logger.Info().
		Int("size", len(c)).
		Float64("allocation", frac).
		Msg("Normalized candidate allocations")
}
