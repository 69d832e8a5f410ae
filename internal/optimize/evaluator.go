package optimize

import (
	"github.com/rs/zerolog"

	"strategy-optimizer/internal/config"
	"strategy-optimizer/internal/models"
)

// ProcessFunc loads and aligns per-strategy time series for one candidate.
// Any error is treated as a per-candidate failure by the search controller.
type ProcessFunc func(candidate models.Candidate, logger zerolog.Logger, cfg *config.Config) (data []models.Series, aligned models.Candidate, err error)

// AnalyzeFunc computes the efficiency stats for a candidate from its aligned
// data. The returned stats must carry models.KeyEfficiencyScore.
type AnalyzeFunc func(data []models.Series, candidate models.Candidate, logger zerolog.Logger) (models.EfficiencyStats, []models.Series, error)

// Evaluate runs exactly one candidate: normalize allocations, load/align,
// score. It suppresses nothing — any error from either collaborator is
// returned as-is, and fault isolation is the search controller's job.
func Evaluate(candidate models.Candidate, process ProcessFunc, analyze AnalyzeFunc, logger zerolog.Logger, cfg *config.Config) (models.EfficiencyStats, []models.Series, error) {
	NormalizeAllocations(candidate, logger)

	data, aligned, err := process(candidate, logger, cfg)
	if err != nil {
		return nil, nil, err
	}

	return analyze(data, aligned, logger)
}
