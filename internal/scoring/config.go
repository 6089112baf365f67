package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// weightSumTolerance is how far a weight table may drift from 1.0 before the
// engine records a re-normalization diagnostic.
const weightSumTolerance = 0.01

// SampleAdjustmentConfig selects and tunes the reliability estimator.
type SampleAdjustmentConfig struct {
	Enable            bool               `json:"enable"`
	Method            string             `json:"method"` // linear, ci, eb
	ConfidenceLevel   float64            `json:"confidence_level"`
	ZTable            map[string]float64 `json:"z_table,omitempty"` // confidence level (as string key) -> z critical value
	EBPriorMean       float64            `json:"eb_prior_mean"`
	EBLambda          float64            `json:"eb_lambda"`
	MinSampleSize     int                `json:"min_sample_size"`
	OptimalSampleSize int                `json:"optimal_sample_size"`
	MaxPenalty        float64            `json:"max_penalty"`
	MaxBonus          float64            `json:"max_bonus"`
}

// LevelThreshold maps a minimum composite score to a grade label.
type LevelThreshold struct {
	Label    string  `json:"label"`
	MinScore float64 `json:"min_score"`
}

// Config is the immutable configuration passed into the engine. The engine
// never reads ambient global state; all weights and thresholds come from here.
type Config struct {
	DimensionWeights  map[Category]map[string]float64 `json:"dimension_weights"`
	CategoryWeights   map[Category]float64            `json:"category_weights"`
	ScaleWeights      map[string]float64              `json:"scale_weights"`
	ComplexityWeights map[string]float64              `json:"complexity_weights"`
	PositiveScores    map[string]float64              `json:"positive_scores"` // impact level a..d -> bonus
	NegativeScores    map[string]float64              `json:"negative_scores"` // impact level a..d -> penalty (non-positive)
	SampleAdjustment  SampleAdjustmentConfig          `json:"sample_adjustment"`
	LevelThresholds   []LevelThreshold                `json:"level_thresholds"`
	FallbackLevel     string                          `json:"fallback_level"`
}

// ConfigError reports a programming-contract violation in the configuration.
// Data-quality issues never produce a ConfigError; only structurally broken
// config does, and only at engine construction time.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scoring config: %s: %s", e.Field, e.Reason)
}

// DefaultConfig returns the production configuration of the evaluation system.
func DefaultConfig() Config {
	dimWeights := map[string]float64{
		"dim1": 0.15,
		"dim2": 0.25,
		"dim3": 0.20,
		"dim4": 0.15,
		"dim5": 0.10,
		"dim6": 0.05,
		"dim7": 0.05,
		"dim8": 0.05,
	}
	functionalWeights := make(map[string]float64, len(dimWeights))
	for k, v := range dimWeights {
		functionalWeights[k] = v
	}

	return Config{
		DimensionWeights: map[Category]map[string]float64{
			CategoryPropertyManager: dimWeights,
			CategoryFunctionalDept:  functionalWeights,
		},
		CategoryWeights: map[Category]float64{
			CategoryPropertyManager: 0.4,
			CategoryFunctionalDept:  0.6,
		},
		ScaleWeights:      map[string]float64{"A": 1, "B": 2, "C": 4},
		ComplexityWeights: map[string]float64{"A": 1, "B": 2, "C": 4},
		PositiveScores:    map[string]float64{"a": 0.05, "b": 0.10, "c": 0.20, "d": 0.30},
		NegativeScores:    map[string]float64{"a": -0.05, "b": -0.10, "c": -0.20, "d": -0.30},
		SampleAdjustment: SampleAdjustmentConfig{
			Enable:            true,
			Method:            MethodLinear,
			ConfidenceLevel:   0.95,
			EBPriorMean:       3.0,
			EBLambda:          5,
			MinSampleSize:     3,
			OptimalSampleSize: 10,
			MaxPenalty:        0.3,
			MaxBonus:          0.1,
		},
		LevelThresholds: []LevelThreshold{
			{Label: "优秀", MinScore: 90},
			{Label: "良好", MinScore: 80},
			{Label: "合格", MinScore: 70},
			{Label: "基本合格", MinScore: 60},
		},
		FallbackLevel: "不合格",
	}
}

// LoadConfig reads a Config from a JSON file, falling back to the default
// configuration when the file does not exist.
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open scoring config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode scoring config: %w", err)
	}

	return cfg, nil
}

// Validate checks the structural contract of the configuration. Weight tables
// that fail to sum to 1 are NOT an error here; they are re-normalized at use
// and surfaced as diagnostics instead.
func (c Config) Validate() error {
	for _, cat := range Categories() {
		if _, ok := c.CategoryWeights[cat]; !ok {
			return &ConfigError{Field: "category_weights", Reason: fmt.Sprintf("missing category %q", cat)}
		}
		weights, ok := c.DimensionWeights[cat]
		if !ok || len(weights) == 0 {
			return &ConfigError{Field: "dimension_weights", Reason: fmt.Sprintf("missing weights for category %q", cat)}
		}
		for dim, w := range weights {
			if w < 0 || math.IsNaN(w) {
				return &ConfigError{Field: "dimension_weights", Reason: fmt.Sprintf("%s/%s: weight must be non-negative", cat, dim)}
			}
		}
	}

	sa := c.SampleAdjustment
	if sa.Enable {
		switch sa.Method {
		case MethodLinear, MethodCI, MethodEB, "":
		default:
			return &ConfigError{Field: "sample_adjustment.method", Reason: fmt.Sprintf("unknown method %q", sa.Method)}
		}
		if sa.MinSampleSize <= 0 {
			return &ConfigError{Field: "sample_adjustment.min_sample_size", Reason: "must be positive"}
		}
		if sa.OptimalSampleSize <= sa.MinSampleSize {
			return &ConfigError{Field: "sample_adjustment.optimal_sample_size", Reason: "must exceed min_sample_size"}
		}
		if sa.Method == MethodEB && sa.EBLambda <= 0 {
			return &ConfigError{Field: "sample_adjustment.eb_lambda", Reason: "must be positive"}
		}
	}

	if len(c.LevelThresholds) == 0 {
		return &ConfigError{Field: "level_thresholds", Reason: "at least one threshold required"}
	}
	if c.FallbackLevel == "" {
		return &ConfigError{Field: "fallback_level", Reason: "must not be empty"}
	}

	return nil
}

// weightDiagnostics reports weight tables that will be silently re-normalized.
func (c Config) weightDiagnostics() []string {
	var diags []string

	for _, cat := range Categories() {
		sum := 0.0
		for _, w := range c.DimensionWeights[cat] {
			sum += w
		}
		if math.Abs(sum-1.0) > weightSumTolerance {
			diags = append(diags, fmt.Sprintf("dimension weights for category %q sum to %.4f; re-normalizing at aggregation time", cat, sum))
		}
	}

	catSum := 0.0
	for _, w := range c.CategoryWeights {
		catSum += w
	}
	if math.Abs(catSum-1.0) > weightSumTolerance {
		diags = append(diags, fmt.Sprintf("category weights sum to %.4f; composite scores will not span the full 0-100 range", catSum))
	}

	return diags
}

// sortedThresholds returns the level thresholds ordered from highest to lowest.
func (c Config) sortedThresholds() []LevelThreshold {
	thresholds := append([]LevelThreshold(nil), c.LevelThresholds...)
	sort.SliceStable(thresholds, func(i, j int) bool {
		return thresholds[i].MinScore > thresholds[j].MinScore
	})
	return thresholds
}

// ProjectWeight derives the per-record weight from project scale and
// complexity. Missing table entries default to 1 so an unknown letter never
// zeroes a record out.
func (c Config) ProjectWeight(attrs ProjectAttributes) float64 {
	scaleWeight, ok := c.ScaleWeights[attrs.Scale]
	if !ok {
		scaleWeight = 1
	}
	complexityWeight, ok := c.ComplexityWeights[attrs.Complexity]
	if !ok {
		complexityWeight = 1
	}
	return scaleWeight * complexityWeight
}
