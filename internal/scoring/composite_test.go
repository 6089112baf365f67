package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryScore(t *testing.T) {
	weights := DefaultConfig().DimensionWeights[CategoryPropertyManager]

	t.Run("perfect scores map to 100", func(t *testing.T) {
		set := DimensionScoreSet{Scores: map[string]float64{}}
		for _, dim := range DimensionKeys() {
			set.Scores[dim] = 5
		}

		assert.InDelta(t, 100.0, categoryScore(set, weights), 1e-9)
	})

	t.Run("weights renormalize over present dimensions", func(t *testing.T) {
		set := DimensionScoreSet{Scores: map[string]float64{"dim1": 4}}

		// A lone dimension carries its full weight share: 4/5*100.
		assert.InDelta(t, 80.0, categoryScore(set, weights), 1e-9)
	})

	t.Run("mixed dimensions weight proportionally", func(t *testing.T) {
		set := DimensionScoreSet{Scores: map[string]float64{
			"dim1": 5, // weight 0.15
			"dim2": 3, // weight 0.25
		}}

		want := (5*0.15 + 3*0.25) / 0.40 / 5.0 * 100.0
		assert.InDelta(t, want, categoryScore(set, weights), 1e-9)
	})

	t.Run("empty set scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, categoryScore(DimensionScoreSet{}, weights))
	})
}

func TestClassifyLevel(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		score float64
		want  string
	}{
		{score: 100, want: "优秀"},
		{score: 90, want: "优秀"},
		{score: 89.99, want: "良好"},
		{score: 80, want: "良好"},
		{score: 75, want: "合格"},
		{score: 70, want: "合格"},
		{score: 60, want: "基本合格"},
		{score: 59.99, want: "不合格"},
		{score: 0, want: "不合格"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyLevel(cfg, tt.score), "score %.2f", tt.score)
	}
}

func TestClassifyLevelUnsortedThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LevelThresholds = []LevelThreshold{
		{Label: "合格", MinScore: 70},
		{Label: "优秀", MinScore: 90},
		{Label: "良好", MinScore: 80},
	}

	assert.Equal(t, "优秀", classifyLevel(cfg, 95))
	assert.Equal(t, "良好", classifyLevel(cfg, 85))
	assert.Equal(t, cfg.FallbackLevel, classifyLevel(cfg, 50))
}
