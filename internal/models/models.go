// Package models provides domain models for the strategy optimizer.
package models

// StrategyType identifies the signal logic a strategy runs.
type StrategyType string

const (
	StrategyMACross     StrategyType = "ma_cross"
	StrategyMACD        StrategyType = "macd"
	StrategyATRTrailing StrategyType = "atr_trailing_stop"
)

// Direction is the trade direction a strategy takes.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// StrategyStats holds per-strategy backtest statistics carried alongside a
// portfolio record. Optional: portfolios exported without a stats block
// leave it nil.
type StrategyStats struct {
	Score        float64 `json:"score" csv:"score"`
	WinRate      float64 `json:"win_rate" csv:"win_rate"`
	TradeCount   int     `json:"trade_count" csv:"trade_count"`
	ProfitFactor float64 `json:"profit_factor" csv:"profit_factor"`
}

// Strategy is one independently configured trading strategy as loaded from a
// portfolio file. Allocation is the fraction of capital assigned to the
// strategy within its candidate; it must stay within [0, 1].
type Strategy struct {
	Ticker       string         `json:"ticker" csv:"ticker"`
	Timeframe    string         `json:"timeframe" csv:"timeframe"`
	Type         StrategyType   `json:"type" csv:"type"`
	Direction    Direction      `json:"direction" csv:"direction"`
	FastWindow   int            `json:"fast_window" csv:"fast_window"`
	SlowWindow   int            `json:"slow_window" csv:"slow_window"`
	SignalWindow int            `json:"signal_window" csv:"signal_window"`
	Allocation   float64        `json:"allocation" csv:"allocation"`
	StopLoss     *float64       `json:"stop_loss,omitempty" csv:"stop_loss"`
	Stats        *StrategyStats `json:"portfolio_stats,omitempty" csv:"-"`
}

// Clone returns a deep copy of the strategy. Candidates are built from
// clones so that allocation rewrites never touch the caller's records.
func (s Strategy) Clone() Strategy {
	c := s
	if s.StopLoss != nil {
		v := *s.StopLoss
		c.StopLoss = &v
	}
	if s.Stats != nil {
		st := *s.Stats
		c.Stats = &st
	}
	return c
}

// Candidate is one unordered combination of distinct strategies under
// evaluation. The domain calls these "permutations" even though order is
// irrelevant.
type Candidate []Strategy

// Clone returns a deep copy of the candidate.
func (c Candidate) Clone() Candidate {
	out := make(Candidate, len(c))
	for i, s := range c {
		out[i] = s.Clone()
	}
	return out
}

// Tickers returns the candidate's ticker identifiers in member order.
// Records without a ticker report "unknown".
func (c Candidate) Tickers() []string {
	out := make([]string, len(c))
	for i, s := range c {
		if s.Ticker == "" {
			out[i] = "unknown"
			continue
		}
		out[i] = s.Ticker
	}
	return out
}

// Keys the scoring function is contracted to emit. EfficiencyScore is
// required; the rest are optional and default to zero when absent.
const (
	KeyEfficiencyScore           = "efficiency_score"
	KeyDiversificationMultiplier = "diversification_multiplier"
	KeyIndependenceMultiplier    = "independence_multiplier"
	KeyActivityMultiplier        = "activity_multiplier"
	KeyTotalExpectancy           = "total_expectancy"
	KeyWeightedEfficiency        = "weighted_efficiency"
	KeyRiskConcentrationIndex    = "risk_concentration_index"
)

// EfficiencyStats is the mapping produced by the scoring function for one
// candidate evaluation.
type EfficiencyStats map[string]float64

// Score returns the required efficiency score. The second return reports
// whether the scoring function actually supplied it.
func (s EfficiencyStats) Score() (float64, bool) {
	v, ok := s[KeyEfficiencyScore]
	return v, ok
}

// Value returns the stat under key, or def when the key is absent.
func (s EfficiencyStats) Value(key string, def float64) float64 {
	if v, ok := s[key]; ok {
		return v
	}
	return def
}

// Series is one strategy's aligned return series.
type Series struct {
	Ticker  string    `json:"ticker"`
	Returns []float64 `json:"returns"`
}

// SearchResult accumulates the best-found candidate across a whole search.
// Best is nil when every candidate failed to evaluate.
type SearchResult struct {
	Best      Candidate
	Stats     EfficiencyStats
	Aligned   []Series
	Evaluated int
	Failed    int
}

// Found reports whether the search produced a usable optimum.
func (r *SearchResult) Found() bool {
	return r != nil && r.Best != nil
}
