// Package portfolio loads strategy portfolios from CSV or JSON files.
package portfolio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"strategy-optimizer/internal/errors"
	"strategy-optimizer/internal/models"
)

// Load reads a portfolio file, detecting the format from its extension.
// Supported formats: .csv (header-tagged columns) and .json (array of
// strategy objects).
func Load(path string) ([]models.Strategy, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrPortfolioNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "opening portfolio %s", path)
	}
	defer f.Close()

	var strategies []models.Strategy
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		var rows []*models.Strategy
		if err := gocsv.UnmarshalFile(f, &rows); err != nil {
			return nil, errors.Wrapf(err, "parsing CSV portfolio %s", path)
		}
		strategies = make([]models.Strategy, 0, len(rows))
		for _, r := range rows {
			strategies = append(strategies, *r)
		}
	case ".json":
		if err := json.NewDecoder(f).Decode(&strategies); err != nil {
			return nil, errors.Wrapf(err, "parsing JSON portfolio %s", path)
		}
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "%s", filepath.Ext(path))
	}

	if err := validate(strategies); err != nil {
		return nil, err
	}
	return strategies, nil
}

// validate enforces the record invariants the optimizer relies on.
func validate(strategies []models.Strategy) error {
	for i, s := range strategies {
		if s.Allocation < 0 || s.Allocation > 1 {
			return errors.NewValidationError("allocation", s.Allocation,
				"must be within [0, 1]")
		}
		if s.Timeframe == "" {
			return errors.NewValidationError("timeframe", i, "must not be empty")
		}
	}
	return nil
}
