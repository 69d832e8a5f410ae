package marketdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategy-optimizer/internal/config"
	"strategy-optimizer/internal/errors"
	"strategy-optimizer/internal/models"
)

// writeCandles writes a candle CSV with closes following a fixed walk.
func writeCandles(t *testing.T, dir, ticker string, closes []float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString("date,open,high,low,close,volume\n")
	for i, c := range closes {
		fmt.Fprintf(&b, "2024-01-%02d,%.2f,%.2f,%.2f,%.2f,1000\n", i+1, c, c*1.01, c*0.99, c)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ticker+".csv"), []byte(b.String()), 0644))
}

func walk(start float64, n int) []float64 {
	closes := make([]float64, n)
	v := start
	for i := range closes {
		closes[i] = v
		if i%2 == 0 {
			v *= 1.01
		} else {
			v *= 0.995
		}
	}
	return closes
}

func candidateFor(tickers ...string) models.Candidate {
	c := make(models.Candidate, len(tickers))
	for i, t := range tickers {
		c[i] = models.Strategy{Ticker: t, Timeframe: "1day", Direction: models.DirectionLong}
	}
	return c
}

func TestProcess_LoadsAndAligns(t *testing.T) {
	dir := t.TempDir()
	writeCandles(t, dir, "AAPL", walk(100, 30))
	writeCandles(t, dir, "MSFT", walk(200, 25))

	loader := NewLoader(dir)
	data, aligned, err := loader.Process(candidateFor("AAPL", "MSFT"), zerolog.Nop(), config.Default())
	require.NoError(t, err)

	require.Len(t, data, 2)
	assert.Len(t, aligned, 2)
	// 25 candles yield 24 returns; the longer series truncates to match.
	assert.Len(t, data[0].Returns, 24)
	assert.Len(t, data[1].Returns, 24)
	assert.Equal(t, "AAPL", data[0].Ticker)
}

func TestProcess_HorizonCapsSeries(t *testing.T) {
	dir := t.TempDir()
	writeCandles(t, dir, "AAPL", walk(100, 40))
	writeCandles(t, dir, "MSFT", walk(200, 40))

	cfg := config.Default()
	horizon := 10
	cfg.Search.Horizon = &horizon

	loader := NewLoader(dir)
	data, _, err := loader.Process(candidateFor("AAPL", "MSFT"), zerolog.Nop(), cfg)
	require.NoError(t, err)

	assert.Len(t, data[0].Returns, 10)
	assert.Len(t, data[1].Returns, 10)
}

func TestProcess_MissingTickerFile(t *testing.T) {
	dir := t.TempDir()
	writeCandles(t, dir, "AAPL", walk(100, 30))

	loader := NewLoader(dir)
	_, _, err := loader.Process(candidateFor("AAPL", "NOPE"), zerolog.Nop(), config.Default())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDataNotFound))
}

func TestProcess_TooFewCandles(t *testing.T) {
	dir := t.TempDir()
	writeCandles(t, dir, "AAPL", walk(100, 5))

	loader := NewLoader(dir)
	_, _, err := loader.Process(candidateFor("AAPL"), zerolog.Nop(), config.Default())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientData))
}

func TestProcess_ReturnsAreCloseToClose(t *testing.T) {
	dir := t.TempDir()
	closes := walk(100, 22)
	writeCandles(t, dir, "AAPL", closes)

	loader := NewLoader(dir)
	data, _, err := loader.Process(candidateFor("AAPL"), zerolog.Nop(), config.Default())
	require.NoError(t, err)

	require.Len(t, data[0].Returns, 21)
	want := (closes[1] - closes[0]) / closes[0]
	assert.InDelta(t, want, data[0].Returns[0], 1e-9)
}
