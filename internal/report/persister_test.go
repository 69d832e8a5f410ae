package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategy-optimizer/internal/errors"
	"strategy-optimizer/internal/models"
)

func TestSaveOptimizationReport_WritesDeterministicPath(t *testing.T) {
	cfg := buildTestConfig()
	cfg.Portfolio.Path = "portfolios/core.csv"
	cfg.Output.Dir = t.TempDir()

	r := BuildOptimizationReport(strategiesNamed("A", "B", "C"),
		models.EfficiencyStats{models.KeyEfficiencyScore: 0.7},
		models.Candidate(strategiesNamed("A", "C")),
		models.EfficiencyStats{models.KeyEfficiencyScore: 0.85},
		cfg, zerolog.Nop())

	path, err := SaveOptimizationReport(r, cfg, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t,
		filepath.Join(cfg.Output.Dir, "json", "concurrency", "optimization", "core_optimization.json"),
		path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{
		"optimization_summary", "all_strategies", "optimal_strategies",
		"config", "efficiency_calculation_note",
	} {
		assert.Contains(t, decoded, key)
	}
}

func TestSaveOptimizationReport_UnsetHorizonSerializesAsDefault(t *testing.T) {
	cfg := buildTestConfig()
	cfg.Output.Dir = t.TempDir()

	r := BuildOptimizationReport(strategiesNamed("A", "B"), models.EfficiencyStats{},
		models.Candidate(strategiesNamed("A")), models.EfficiencyStats{}, cfg, zerolog.Nop())

	path, err := SaveOptimizationReport(r, cfg, zerolog.Nop())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	echo := decoded["config"].(map[string]interface{})
	assert.Equal(t, float64(1), echo["horizon"])
}

func TestSaveOptimizationReport_IOFailureIsPersistenceError(t *testing.T) {
	cfg := buildTestConfig()
	// A file where the directory tree should go forces MkdirAll to fail.
	base := t.TempDir()
	blocker := filepath.Join(base, "json")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	cfg.Output.Dir = base

	_, err := SaveOptimizationReport(Report{}, cfg, zerolog.Nop())
	require.Error(t, err)

	var perr *errors.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Path, "json")
}

func TestNormalize_PlainValuesRoundTrip(t *testing.T) {
	in := map[string]interface{}{
		"f": 1.25,
		"i": 42,
		"s": "text",
		"b": true,
		"l": []interface{}{1.0, 2.0, 3.0},
	}
	out := Normalize(in).(map[string]interface{})

	assert.Equal(t, 1.25, out["f"])
	assert.Equal(t, int64(42), out["i"])
	assert.Equal(t, "text", out["s"])
	assert.Equal(t, true, out["b"])
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, out["l"])

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"f":1.25,"i":42,"s":"text","b":true,"l":[1,2,3]}`, string(data))
}

func TestNormalize_ExoticIntegerTypes(t *testing.T) {
	assert.Equal(t, int64(42), Normalize(int32(42)))
	assert.Equal(t, int64(42), Normalize(uint16(42)))
	assert.Equal(t, int64(42), Normalize(int8(42)))

	data, err := json.Marshal(Normalize(int32(42)))
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))
}

func TestNormalize_Float32BecomesFloat64(t *testing.T) {
	out := Normalize(float32(1.5))
	assert.Equal(t, 1.5, out)
}

func TestNormalize_ArraysBecomeLists(t *testing.T) {
	out := Normalize([3]int{1, 2, 3})
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(3)}, out)
}

func TestNormalize_NilBecomesDefaultHorizon(t *testing.T) {
	assert.Equal(t, 1, Normalize(nil))

	var p *int
	assert.Equal(t, 1, Normalize(p))

	out := Normalize(map[string]interface{}{"horizon": nil}).(map[string]interface{})
	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"horizon":1}`, string(data))
}

func TestNormalize_NestedStructures(t *testing.T) {
	in := Report{
		"outer": map[string]interface{}{
			"counts": []interface{}{int16(1), nil, uint32(3)},
		},
	}
	out := Normalize(in).(map[string]interface{})
	outer := out["outer"].(map[string]interface{})
	assert.Equal(t, []interface{}{int64(1), 1, int64(3)}, outer["counts"])
}
