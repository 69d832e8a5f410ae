package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"

	"github.com/rs/zerolog"

	"strategy-optimizer/internal/config"
	"strategy-optimizer/internal/errors"
)

// SaveOptimizationReport serializes the report to
// <output-dir>/json/concurrency/optimization/<portfolio-stem>_optimization.json,
// creating parent directories as needed, and returns the written path. Any
// I/O failure is logged with the failed path and returned as a
// PersistenceError: fatal for the save step, not for the in-memory result.
func SaveOptimizationReport(r Report, cfg *config.Config, logger zerolog.Logger) (string, error) {
	dir := filepath.Join(cfg.Output.Dir, "json", "concurrency", "optimization")
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create report directory")
		return "", errors.NewPersistenceError("mkdir", dir, err)
	}

	path := filepath.Join(dir, cfg.PortfolioStem()+"_optimization.json")

	data, err := json.MarshalIndent(Normalize(r), "", "  ")
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to encode report")
		return "", errors.NewPersistenceError("encode", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to write report")
		return "", errors.NewPersistenceError("write", path, err)
	}

	logger.Info().Str("path", path).Msg("Optimization report saved")
	return path, nil
}

// Normalize coerces a value tree into JSON-native types: sized integer
// types become int64, float32 becomes float64, arrays become lists, and
// non-finite floats become 0. A nil value becomes the integer 1 — the
// domain's default-horizon substitution, applied uniformly so an unset
// horizon never serializes as null.
func Normalize(v interface{}) interface{} {
	if v == nil {
		return 1
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return 1
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Map:
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key()
			var k string
			if key.Kind() == reflect.String {
				k = key.String()
			} else {
				k = fmt.Sprint(key.Interface())
			}
			out[k] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0.0
		}
		return f
	default:
		return v
	}
}
