// Package scoring computes the composite efficiency score for one
// candidate. Analyzer.Analyze satisfies the optimizer's AnalyzeFunc
// contract. The exact formula is an implementation detail; the stable part
// of the contract is the shape of the stats mapping it emits.
package scoring

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"strategy-optimizer/internal/errors"
	"strategy-optimizer/internal/models"
)

// Analyzer scores candidates from their aligned return series.
type Analyzer struct{}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze computes the efficiency stats for a candidate. The score is the
// average per-strategy expectancy scaled by diversification, independence
// and activity multipliers. Higher is better; any sign is possible.
func (a *Analyzer) Analyze(data []models.Series, candidate models.Candidate, logger zerolog.Logger) (models.EfficiencyStats, []models.Series, error) {
	if len(data) == 0 {
		return nil, nil, errors.Wrap(errors.ErrInsufficientData, "no aligned series")
	}
	if len(data) != len(candidate) {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientData,
			"series/candidate mismatch: %d vs %d", len(data), len(candidate))
	}
	for _, s := range data {
		if len(s.Returns) == 0 {
			return nil, nil, errors.Wrapf(errors.ErrInsufficientData, "%s: empty return series", s.Ticker)
		}
	}

	totalExpectancy := 0.0
	weightedExpectancy := 0.0
	for i, s := range candidate {
		exp := stat.Mean(data[i].Returns, nil)
		if s.Direction == models.DirectionShort {
			exp = -exp
		}
		totalExpectancy += exp
		weightedExpectancy += s.Allocation * exp
	}
	avgExpectancy := totalExpectancy / float64(len(candidate))

	div := diversificationMultiplier(data)
	indep := independenceMultiplier(data)
	act := activityMultiplier(data)
	rci := herfindahl(candidate)

	score := avgExpectancy * div * indep * act
	weighted := weightedExpectancy * div * indep * act

	stats := models.EfficiencyStats{
		models.KeyEfficiencyScore:           score,
		models.KeyDiversificationMultiplier: div,
		models.KeyIndependenceMultiplier:    indep,
		models.KeyActivityMultiplier:        act,
		models.KeyTotalExpectancy:           totalExpectancy,
		models.KeyWeightedEfficiency:        weighted,
		models.KeyRiskConcentrationIndex:    rci,
	}

	logger.Debug().
		Float64("efficiency_score", score).
		Float64("total_expectancy", totalExpectancy).
		Int("size", len(candidate)).
		Msg("Scored candidate")

	return stats, data, nil
}

// diversificationMultiplier rewards low average pairwise correlation.
// Range [0.5, 1.5]; 1.0 for a single series.
func diversificationMultiplier(data []models.Series) float64 {
	avg, ok := avgPairwiseCorrelation(data)
	if !ok {
		return 1.0
	}
	return clamp(1+0.5*(1-avg), 0.5, 1.5)
}

// independenceMultiplier penalizes high absolute correlation regardless of
// sign. Range [0.5, 1.5]; 1.0 for a single series.
func independenceMultiplier(data []models.Series) float64 {
	avg, ok := avgAbsPairwiseCorrelation(data)
	if !ok {
		return 1.0
	}
	return clamp(1.5-avg, 0.5, 1.5)
}

// activityMultiplier is the share of observations with any movement at all,
// averaged across members. A strategy stuck on flat data scores nothing.
func activityMultiplier(data []models.Series) float64 {
	total := 0.0
	for _, s := range data {
		active := 0
		for _, r := range s.Returns {
			if r != 0 {
				active++
			}
		}
		total += float64(active) / float64(len(s.Returns))
	}
	return total / float64(len(data))
}

// herfindahl is the allocation concentration index: sum of squared
// allocations. Equal weights give 1/n.
func herfindahl(candidate models.Candidate) float64 {
	sum := 0.0
	for _, s := range candidate {
		sum += s.Allocation * s.Allocation
	}
	return sum
}

func avgPairwiseCorrelation(data []models.Series) (float64, bool) {
	return pairwise(data, func(c float64) float64 { return c })
}

func avgAbsPairwiseCorrelation(data []models.Series) (float64, bool) {
	return pairwise(data, math.Abs)
}

func pairwise(data []models.Series, f func(float64) float64) (float64, bool) {
	if len(data) < 2 {
		return 0, false
	}
	sum := 0.0
	pairs := 0
	for i := 0; i < len(data); i++ {
		for j := i + 1; j < len(data); j++ {
			c := stat.Correlation(data[i].Returns, data[j].Returns, nil)
			if math.IsNaN(c) {
				// Constant series have no defined correlation; treat as
				// uncorrelated rather than poisoning the average.
				c = 0
			}
			sum += f(c)
			pairs++
		}
	}
	return sum / float64(pairs), true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
