package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAliases = AttributeAliases{
	Scale:      []string{"项目规模"},
	Complexity: []string{"项目复杂度"},
	Rental:     []string{"是否包含租摆服务"},
}

// noAdjustmentConfig disables the reliability estimator so aggregation math
// can be checked in isolation.
func noAdjustmentConfig() Config {
	cfg := DefaultConfig()
	cfg.SampleAdjustment.Enable = false
	return cfg
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	engine, err := NewEngineWithAliases(cfg, testAliases)
	require.NoError(t, err)
	return engine
}

func TestRecordDimensionScores(t *testing.T) {
	record := EvaluationRecord{
		RawScores: map[string]float64{
			"dim1_1":          4,
			RentalQuestionKey: 2,
			"dim2_1":          5,
			"dim2_2":          3,
			"not_a_question":  9,
		},
	}

	t.Run("rental question excluded without rental service", func(t *testing.T) {
		dims := recordDimensionScores(record, false)

		assert.Equal(t, 4.0, dims["dim1"])
		assert.Equal(t, 4.0, dims["dim2"])
	})

	t.Run("rental question included with rental service", func(t *testing.T) {
		dims := recordDimensionScores(record, true)

		assert.Equal(t, 3.0, dims["dim1"])
	})

	t.Run("dimensions without answers score zero but are present", func(t *testing.T) {
		dims := recordDimensionScores(record, false)

		require.Len(t, dims, len(DimensionKeys()))
		assert.Equal(t, 0.0, dims["dim8"])
	})
}

func TestAggregatePropertySingleRecord(t *testing.T) {
	engine := newTestEngine(t, DefaultConfig())

	record := EvaluationRecord{Category: CategoryPropertyManager, RawScores: map[string]float64{}}
	for _, dim := range DimensionKeys() {
		record.RawScores[dim+"_1"] = 5
	}

	set := engine.aggregateProperty([]EvaluationRecord{record})

	// One rater out of a minimum of three takes the full 0.3 penalty.
	assert.Equal(t, MethodLinear, set.Adjustment.Method)
	assert.InDelta(t, 0.8, set.Adjustment.Factor, 1e-9)
	for _, dim := range DimensionKeys() {
		assert.InDelta(t, 4.0, set.Scores[dim], 1e-9, dim)
	}
}

func TestAggregatePropertyProjectWeighting(t *testing.T) {
	engine := newTestEngine(t, noAdjustmentConfig())

	large := EvaluationRecord{
		Category:   CategoryPropertyManager,
		RawScores:  map[string]float64{"dim1_1": 5},
		Attributes: map[string]string{"项目规模": "C.大型", "项目复杂度": "C.高"},
	}
	small := EvaluationRecord{
		Category:   CategoryPropertyManager,
		RawScores:  map[string]float64{"dim1_1": 1},
		Attributes: map[string]string{"项目规模": "A.小型", "项目复杂度": "A.低"},
	}

	set := engine.aggregateProperty([]EvaluationRecord{large, small})

	// Large/complex projects weigh 16, small/simple 1.
	assert.InDelta(t, (5.0*16+1.0*1)/17.0, set.Scores["dim1"], 1e-9)
	assert.Equal(t, 2, set.RecordCount)
}

func TestAggregatePropertyRentalExclusion(t *testing.T) {
	engine := newTestEngine(t, noAdjustmentConfig())

	record := EvaluationRecord{
		Category: CategoryPropertyManager,
		RawScores: map[string]float64{
			"dim1_1":          5,
			RentalQuestionKey: 1,
		},
		Attributes: map[string]string{"是否包含租摆服务": "B.否"},
	}

	set := engine.aggregateProperty([]EvaluationRecord{record})

	assert.InDelta(t, 5.0, set.Scores["dim1"], 1e-9)
}

func TestRecordDimensionScoresSkipsUnanswered(t *testing.T) {
	record := EvaluationRecord{
		RawScores: map[string]float64{
			"dim1_1": 4,
			"dim1_2": 0,
			"dim2_1": -1,
			"dim3_1": math.NaN(),
			"dim3_2": 3,
		},
	}

	dims := recordDimensionScores(record, false)

	// Zero, negative and NaN cells are unanswered questions, not scores.
	assert.Equal(t, 4.0, dims["dim1"])
	assert.Equal(t, 0.0, dims["dim2"])
	assert.Equal(t, 3.0, dims["dim3"])
}

func TestAggregateFunctionalSkipsUnanswered(t *testing.T) {
	engine := newTestEngine(t, noAdjustmentConfig())

	records := []EvaluationRecord{
		{Category: CategoryFunctionalDept, RawScores: map[string]float64{"dim1_1": 4, "dim1_2": 0}},
		{Category: CategoryFunctionalDept, RawScores: map[string]float64{"dim1_1": -2, "dim2_1": 5}},
	}

	set := engine.aggregateFunctional(records)

	assert.InDelta(t, 4.0, set.Scores["dim1"], 1e-9)
	assert.NotContains(t, set.Scores, "dim3")
	// Unanswered cells stay out of the reliability sample too.
	assert.Equal(t, 2, set.Adjustment.SampleSize)
}

func TestAggregateFunctionalPoolsAllScores(t *testing.T) {
	engine := newTestEngine(t, noAdjustmentConfig())

	records := []EvaluationRecord{
		{Category: CategoryFunctionalDept, RawScores: map[string]float64{"dim1_1": 4, "dim1_2": 2}},
		{Category: CategoryFunctionalDept, RawScores: map[string]float64{"dim1_1": 3, "dim2_1": 5}},
	}

	set := engine.aggregateFunctional(records)

	assert.InDelta(t, 3.0, set.Scores["dim1"], 1e-9)
	assert.InDelta(t, 5.0, set.Scores["dim2"], 1e-9)
	// Only dimensions with answers appear.
	assert.Len(t, set.Scores, 2)
	// The sample is the flat pool of individual answers, not the record count.
	assert.Equal(t, 4, set.Adjustment.SampleSize)
}
