// Package marketdata loads per-ticker candle files and produces aligned
// return series for candidate evaluation. Loader.Process satisfies the
// optimizer's ProcessFunc contract: any failure here is a per-candidate
// failure upstream.
package marketdata

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"strategy-optimizer/internal/config"
	"strategy-optimizer/internal/errors"
	"strategy-optimizer/internal/models"
)

// minObservations is the shortest usable return series. Shorter series make
// correlation estimates meaningless.
const minObservations = 20

// Candle is one OHLCV row of a per-ticker data file.
type Candle struct {
	Date   string  `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume int64   `csv:"volume"`
}

// Loader reads candle CSVs from a data directory.
type Loader struct {
	dataDir string
}

// NewLoader creates a Loader over the given data directory.
func NewLoader(dataDir string) *Loader {
	return &Loader{dataDir: dataDir}
}

// Process loads each member's candle file, converts closes to returns, and
// aligns every series to the shortest member, keeping the most recent
// observations. The aligned candidate is the input candidate unchanged.
func (l *Loader) Process(candidate models.Candidate, logger zerolog.Logger, cfg *config.Config) ([]models.Series, models.Candidate, error) {
	series := make([]models.Series, 0, len(candidate))
	for _, s := range candidate {
		returns, err := l.loadReturns(s.Ticker)
		if err != nil {
			return nil, nil, err
		}
		series = append(series, models.Series{Ticker: s.Ticker, Returns: returns})
	}

	horizon := 0
	if cfg != nil && cfg.Search.Horizon != nil {
		horizon = *cfg.Search.Horizon
	}
	aligned := alignSeries(series, horizon)

	obs := 0
	if len(aligned) > 0 {
		obs = len(aligned[0].Returns)
	}
	logger.Debug().
		Int("strategies", len(candidate)).
		Int("observations", obs).
		Msg("Loaded and aligned return series")

	return aligned, candidate, nil
}

// loadReturns reads <dataDir>/<ticker>.csv and returns close-to-close
// returns, oldest first.
func (l *Loader) loadReturns(ticker string) ([]float64, error) {
	if ticker == "" {
		return nil, errors.Wrap(errors.ErrDataNotFound, "strategy has no ticker")
	}
	path := filepath.Join(l.dataDir, ticker+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrDataNotFound, "no candle file for %s", ticker)
		}
		return nil, errors.Wrapf(err, "opening candle file for %s", ticker)
	}
	defer f.Close()

	var candles []*Candle
	if err := gocsv.UnmarshalFile(f, &candles); err != nil {
		return nil, errors.Wrapf(err, "parsing candle file for %s", ticker)
	}
	if len(candles) < minObservations+1 {
		return nil, errors.Wrapf(errors.ErrInsufficientData,
			"%s: need at least %d candles, got %d", ticker, minObservations+1, len(candles))
	}

	returns := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		prev := candles[i-1].Close
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (candles[i].Close-prev)/prev)
	}
	return returns, nil
}

// alignSeries truncates every series to the shortest member, keeping the
// most recent observations. A positive horizon further caps the length.
func alignSeries(series []models.Series, horizon int) []models.Series {
	if len(series) == 0 {
		return series
	}
	shortest := len(series[0].Returns)
	for _, s := range series[1:] {
		if len(s.Returns) < shortest {
			shortest = len(s.Returns)
		}
	}
	if horizon > 0 && horizon < shortest {
		shortest = horizon
	}

	aligned := make([]models.Series, len(series))
	for i, s := range series {
		aligned[i] = models.Series{
			Ticker:  s.Ticker,
			Returns: s.Returns[len(s.Returns)-shortest:],
		}
	}
	return aligned
}
