package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"strategy-optimizer/internal/errors"
	"strategy-optimizer/internal/marketdata"
	"strategy-optimizer/internal/models"
	"strategy-optimizer/internal/optimize"
	"strategy-optimizer/internal/portfolio"
	"strategy-optimizer/internal/report"
	"strategy-optimizer/internal/scoring"
	"strategy-optimizer/pkg/utils"
)

// newRunCmd creates the `run` command: the full optimize-and-report flow.
func newRunCmd(app *App) *cobra.Command {
	var (
		portfolioPath string
		dataDir       string
		outputDir     string
		minSize       int
		maxSize       int
		maxCandidates int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the exhaustive optimization for a portfolio",
		Long: `Run loads a portfolio file, evaluates the baseline of all strategies
together, searches every candidate subset for the best efficiency score,
and writes the comparison report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if portfolioPath != "" {
				cfg.Portfolio.Path = portfolioPath
			}
			if dataDir != "" {
				cfg.Portfolio.DataDir = dataDir
			}
			if outputDir != "" {
				cfg.Output.Dir = outputDir
			}
			if cmd.Flags().Changed("min-size") {
				cfg.Search.MinSize = minSize
			}
			if cmd.Flags().Changed("max-size") {
				cfg.Search.MaxSize = maxSize
			}
			if cmd.Flags().Changed("max-candidates") {
				cfg.Search.MaxCandidates = maxCandidates
			}
			if cfg.Portfolio.Path == "" {
				return errors.Wrap(errors.ErrConfigInvalid, "no portfolio file given (use --portfolio)")
			}

			logger := app.Logger.With().Str("portfolio", cfg.PortfolioStem()).Logger()

			strategies, err := portfolio.Load(cfg.Portfolio.Path)
			if err != nil {
				return err
			}
			logger.Info().Int("strategies", len(strategies)).Msg("Portfolio loaded")

			loader := marketdata.NewLoader(cfg.Portfolio.DataDir)
			analyzer := scoring.NewAnalyzer()

			// Baseline: every strategy running together. A failing baseline
			// is fatal: there is nothing to compare an optimum against.
			baseline := models.Candidate(strategies).Clone()
			baselineStats, _, err := optimize.Evaluate(baseline, loader.Process, analyzer.Analyze, logger, cfg)
			if err != nil {
				return errors.Wrap(err, "evaluating baseline portfolio")
			}

			searcher := optimize.NewSearcher(loader.Process, analyzer.Analyze, app.Tracker, logger, cfg)
			result, err := searcher.FindOptimalCandidate(strategies, cfg.Search.MinSize, cfg.Search.MaxSize)
			if err != nil {
				return err
			}

			if !result.Found() {
				fmt.Println("No optimum found: every candidate failed to evaluate.")
				fmt.Printf("Candidates attempted: %d, failed: %d\n", result.Evaluated, result.Failed)
				fmt.Println("The baseline portfolio remains the recommendation.")
				return nil
			}

			rep := report.BuildOptimizationReport(strategies, baselineStats, result.Best, result.Stats, cfg, logger)
			path, err := report.SaveOptimizationReport(rep, cfg, logger)
			if err != nil {
				return err
			}

			printSummary(result, baselineStats, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&portfolioPath, "portfolio", "p", "", "portfolio file (CSV or JSON)")
	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", "", "directory of per-ticker candle CSVs")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "report output root")
	cmd.Flags().IntVar(&minSize, "min-size", 3, "minimum candidate size")
	cmd.Flags().IntVar(&maxSize, "max-size", 0, "maximum candidate size (0 = exact min-size, no sweep)")
	cmd.Flags().IntVar(&maxCandidates, "max-candidates", 0, "candidate evaluation budget (0 = unbounded)")

	return cmd
}

func printSummary(result *models.SearchResult, baselineStats models.EfficiencyStats, path string) {
	baseScore := baselineStats.Value(models.KeyEfficiencyScore, 0)
	bestScore, _ := result.Stats.Score()

	fmt.Println("Optimization complete")
	fmt.Printf("  Optimal subset:   %s\n", utils.JoinTickers(result.Best.Tickers()))
	fmt.Printf("  Efficiency score: %s (baseline %s)\n",
		utils.FormatScore(bestScore), utils.FormatScore(baseScore))
	if baseScore != 0 {
		fmt.Printf("  Improvement:      %s\n",
			utils.FormatPercent((bestScore-baseScore)/baseScore*100))
	} else {
		fmt.Println("  Improvement:      undefined (baseline score is zero)")
	}
	fmt.Printf("  Candidates:       %d evaluated, %d failed\n", result.Evaluated, result.Failed)
	fmt.Printf("  Report:           %s\n", path)
}
