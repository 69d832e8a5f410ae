// Package report builds and persists the optimization comparison report.
package report

import (
	"github.com/rs/zerolog"

	"strategy-optimizer/internal/config"
	"strategy-optimizer/internal/models"
)

// Report is the persisted optimization artifact: a plain JSON document.
// Created once, written once, immutable thereafter.
type Report map[string]interface{}

// ImprovementUndefined is the sentinel emitted for the improvement
// percentage when the baseline efficiency score is exactly zero and the
// ratio has no meaning.
const ImprovementUndefined = "undefined"

const calculationNote = "Efficiency scores are composite values: average " +
	"expectancy scaled by diversification, independence and activity " +
	"multipliers. Scores are comparable only within a single portfolio run."

// BuildOptimizationReport compares the baseline ("all strategies") stats
// against the discovered optimum's stats and assembles the report document.
// Both stats mappings are read defensively: absent keys default to zero.
func BuildOptimizationReport(all []models.Strategy, allStats models.EfficiencyStats, optimal models.Candidate, optimalStats models.EfficiencyStats, cfg *config.Config, logger zerolog.Logger) Report {
	allScore := allStats.Value(models.KeyEfficiencyScore, 0)
	optScore := optimalStats.Value(models.KeyEfficiencyScore, 0)

	summary := map[string]interface{}{
		"all_strategies_count":     len(all),
		"optimal_strategies_count": len(optimal),
	}
	if allScore == 0 {
		summary["efficiency_improvement_percent"] = ImprovementUndefined
		summary["efficiency_improvement_note"] = "undefined (baseline efficiency score is zero)"
		logger.Warn().Msg("Baseline efficiency score is zero, improvement percentage undefined")
	} else {
		summary["efficiency_improvement_percent"] = (optScore - allScore) / allScore * 100
	}

	echo := map[string]interface{}{
		"portfolio":          cfg.Portfolio.Path,
		"min_portfolio_size": cfg.Search.MinSize,
		"horizon":            horizonEcho(cfg),
	}
	if cfg.Search.MaxCandidates > 0 {
		echo["max_candidates"] = cfg.Search.MaxCandidates
	}

	r := Report{
		"optimization_summary":        summary,
		"all_strategies":              groupSummary(models.Candidate(all), allStats),
		"optimal_strategies":          groupSummary(optimal, optimalStats),
		"config":                      echo,
		"efficiency_calculation_note": calculationNote,
	}

	logger.Info().
		Float64("all_score", allScore).
		Float64("optimal_score", optScore).
		Int("all_count", len(all)).
		Int("optimal_count", len(optimal)).
		Msg("Built optimization report")

	return r
}

// groupSummary summarizes one strategy group and its efficiency stats.
func groupSummary(group models.Candidate, stats models.EfficiencyStats) map[string]interface{} {
	n := len(group)
	total := stats.Value(models.KeyTotalExpectancy, 0)
	avg := 0.0
	if n > 0 {
		avg = total / float64(n)
	}
	return map[string]interface{}{
		"strategy_count":             n,
		"tickers":                    group.Tickers(),
		"efficiency_score":           stats.Value(models.KeyEfficiencyScore, 0),
		"diversification_multiplier": stats.Value(models.KeyDiversificationMultiplier, 0),
		"independence_multiplier":    stats.Value(models.KeyIndependenceMultiplier, 0),
		"activity_multiplier":        stats.Value(models.KeyActivityMultiplier, 0),
		"total_expectancy":           total,
		"average_expectancy":         avg,
		"weighted_efficiency":        stats.Value(models.KeyWeightedEfficiency, 0),
		"risk_concentration_index":   stats.Value(models.KeyRiskConcentrationIndex, 0),
	}
}

// horizonEcho echoes the configured horizon. An unset horizon stays nil
// here; the encoder substitutes the default horizon during serialization.
func horizonEcho(cfg *config.Config) interface{} {
	if cfg.Search.Horizon == nil {
		return nil
	}
	return *cfg.Search.Horizon
}
