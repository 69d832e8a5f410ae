package optimize

import (
	"math"

	"github.com/rs/zerolog"

	"strategy-optimizer/internal/config"
	"strategy-optimizer/internal/errors"
	"strategy-optimizer/internal/logging"
	"strategy-optimizer/internal/models"
	"strategy-optimizer/internal/telemetry"
)

// Searcher drives the combination generator and candidate evaluator to find
// the single best-scoring candidate. Per-candidate failures are logged,
// reported to the telemetry sink, and skipped; validation errors from the
// generator propagate to the caller.
type Searcher struct {
	process ProcessFunc
	analyze AnalyzeFunc
	tracker telemetry.Tracker
	logger  zerolog.Logger
	cfg     *config.Config
}

// NewSearcher creates a search controller. A nil tracker falls back to the
// discarding telemetry sink.
func NewSearcher(process ProcessFunc, analyze AnalyzeFunc, tracker telemetry.Tracker, logger zerolog.Logger, cfg *config.Config) *Searcher {
	if tracker == nil {
		tracker = telemetry.Nop{}
	}
	return &Searcher{
		process: process,
		analyze: analyze,
		tracker: tracker,
		logger:  logger,
		cfg:     cfg,
	}
}

// FindOptimalCandidate exhaustively evaluates every candidate in the size
// range and returns the best-scoring one. Ties go to the first candidate
// reaching a score: strict > comparison, so later equal-scoring candidates
// never replace it. When every candidate fails, the result carries a nil
// Best and no error — callers must treat that as "search yielded nothing",
// not as a crash.
//
// Evaluation is sequential and blocking. The only budget is the configured
// max_candidates cap, which bounds the number of attempted candidates.
func (s *Searcher) FindOptimalCandidate(strategies []models.Strategy, minSize, maxSize int) (*models.SearchResult, error) {
	it, err := Combinations(strategies, minSize, maxSize)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("strategies", len(strategies)).
		Int("min_size", minSize).
		Int("max_size", maxSize).
		Int("candidates", it.Total()).
		Msg("Starting exhaustive candidate search")

	result := &models.SearchResult{}
	bestScore := math.Inf(-1)
	budget := s.cfg.Search.MaxCandidates

	for {
		cand, ok := it.Next()
		if !ok {
			break
		}
		if budget > 0 && result.Evaluated >= budget {
			s.logger.Warn().
				Int("max_candidates", budget).
				Msg("Candidate budget reached, stopping search early")
			break
		}
		result.Evaluated++

		stats, aligned, err := Evaluate(cand, s.process, s.analyze, s.logger, s.cfg)
		if err != nil {
			s.recordFailure(result, cand, err)
			continue
		}
		score, ok := stats.Score()
		if !ok {
			s.recordFailure(result, cand, errors.ErrMissingScore)
			continue
		}

		if score > bestScore {
			bestScore = score
			result.Best = cand
			result.Stats = stats
			result.Aligned = aligned
			logging.LogBestCandidate(s.logger, cand.Tickers(), score)
		}
	}

	if result.Found() {
		s.logger.Info().
			Strs("tickers", result.Best.Tickers()).
			Float64("efficiency_score", bestScore).
			Int("evaluated", result.Evaluated).
			Int("failed", result.Failed).
			Msg("Search complete")
	} else {
		s.logger.Warn().
			Int("evaluated", result.Evaluated).
			Int("failed", result.Failed).
			Msg("Search yielded no optimum")
	}

	return result, nil
}

// recordFailure isolates one candidate's failure: count it, log it, hand it
// to the telemetry sink, and move on.
func (s *Searcher) recordFailure(result *models.SearchResult, cand models.Candidate, err error) {
	result.Failed++

	var evalErr *errors.EvaluationError
	if !errors.As(err, &evalErr) {
		evalErr = errors.NewEvaluationError(cand.Tickers(), len(cand), err)
	}

	logging.LogCandidateFailure(s.logger, cand.Tickers(), result.Failed, evalErr)
	s.tracker.TrackError(evalErr, "evaluate_candidate", map[string]interface{}{
		"tickers": cand.Tickers(),
		"size":    len(cand),
	})
}
