package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3, cfg.Search.MinSize)
	assert.Equal(t, 0, cfg.Search.MaxSize)
	assert.Nil(t, cfg.Search.Horizon)
	assert.Equal(t, ".", cfg.Output.Dir)
	require.NoError(t, cfg.Validate())
}

func TestValidate_NegativeMaxCandidates(t *testing.T) {
	cfg := Default()
	cfg.Search.MaxCandidates = -1
	assert.Error(t, cfg.Validate())
}

func TestValidate_BadHorizon(t *testing.T) {
	cfg := Default()
	horizon := 0
	cfg.Search.Horizon = &horizon
	assert.Error(t, cfg.Validate())
}

func TestPortfolioStem(t *testing.T) {
	cfg := Default()

	cfg.Portfolio.Path = "portfolios/core.csv"
	assert.Equal(t, "core", cfg.PortfolioStem())

	cfg.Portfolio.Path = "/abs/path/multi.part.name.json"
	assert.Equal(t, "multi.part.name", cfg.PortfolioStem())

	cfg.Portfolio.Path = ""
	assert.Equal(t, "portfolio", cfg.PortfolioStem())
}
