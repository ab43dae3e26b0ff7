// Package config loads the engine's tunable tables from YAML. Values are
// validated at load time and published once at startup; nothing here mutates
// after that.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/chancify/chancify/internal/calibration"
	"github.com/chancify/chancify/internal/factors"
)

// Engine is the top-level runtime configuration.
type Engine struct {
	// DefaultModel names the registered ML client to prefer.
	DefaultModel string `yaml:"default_model"`
	// CacheTTLSeconds bounds the prediction result cache. 0 keeps the default.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
	// ModelMaxRPS rate-limits inference calls. 0 disables limiting.
	ModelMaxRPS float64 `yaml:"model_max_rps"`
}

// DefaultEngine returns the built-in runtime settings.
func DefaultEngine() Engine {
	return Engine{
		DefaultModel:    "ensemble",
		CacheTTLSeconds: 300,
		ModelMaxRPS:     0,
	}
}

// CacheTTL converts the configured TTL to a duration.
func (e Engine) CacheTTL() time.Duration {
	return time.Duration(e.CacheTTLSeconds) * time.Second
}

// LoadEngine reads runtime settings from path, filling gaps from defaults.
func LoadEngine(path string) (Engine, error) {
	engine := DefaultEngine()

	data, err := os.ReadFile(path)
	if err != nil {
		return engine, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &engine); err != nil {
		return engine, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if engine.DefaultModel == "" {
		engine.DefaultModel = DefaultEngine().DefaultModel
	}
	if engine.CacheTTLSeconds < 0 {
		return engine, fmt.Errorf("config: cache_ttl_seconds must be >= 0, got %d", engine.CacheTTLSeconds)
	}
	return engine, nil
}

// weightsFile is the on-disk shape of the factor weight table.
type weightsFile struct {
	Weights map[string]float64 `yaml:"weights"`
}

// LoadWeights reads a factor weight table from path and validates it. The
// file must cover the full factor universe and sum to 100.
func LoadWeights(path string) (factors.Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var file weightsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	weights := make(factors.Weights, len(file.Weights))
	for name, w := range file.Weights {
		weights[factors.Factor(name)] = w
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("factors", len(weights)).Msg("loaded factor weights")
	return weights, nil
}

// LoadWeightsOrDefault falls back to the built-in table when path is empty
// or unreadable.
func LoadWeightsOrDefault(path string) factors.Weights {
	if path == "" {
		return factors.DefaultWeights
	}
	weights, err := LoadWeights(path)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to default factor weights")
		return factors.DefaultWeights
	}
	return weights
}

// calibrationFile is the on-disk shape of the calibration table. Order in
// the file is match priority.
type calibrationFile struct {
	Colleges []calibration.NamedEntry `yaml:"colleges"`
}

// LoadCalibration reads an ordered calibration table from path.
func LoadCalibration(path string) (*calibration.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var file calibrationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if len(file.Colleges) == 0 {
		return nil, fmt.Errorf("config: %s: no colleges defined", path)
	}
	for i, ne := range file.Colleges {
		if ne.Name == "" {
			return nil, fmt.Errorf("config: %s: college %d has no name", path, i)
		}
		if ne.Entry.CalibrationFactor <= 0 || ne.Entry.MaxProbability <= 0 {
			return nil, fmt.Errorf("config: %s: college %q has non-positive calibration values", path, ne.Name)
		}
	}

	log.Info().Str("path", path).Int("colleges", len(file.Colleges)).Msg("loaded calibration table")
	return calibration.NewTable(file.Colleges), nil
}

// LoadCalibrationOrDefault falls back to the built-in table when path is
// empty or unreadable.
func LoadCalibrationOrDefault(path string) *calibration.Table {
	if path == "" {
		return calibration.DefaultTable()
	}
	table, err := LoadCalibration(path)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to default calibration table")
		return calibration.DefaultTable()
	}
	return table
}
