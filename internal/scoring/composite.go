package scoring

// categoryScore converts one category's adjusted dimension scores into a
// 0-100 score. Weights are re-normalized over the dimensions actually present
// so a missing dimension never silently drags the category down.
func categoryScore(set DimensionScoreSet, weights map[string]float64) float64 {
	weightedSum := 0.0
	weightSum := 0.0
	for _, dim := range DimensionKeys() {
		score, ok := set.Scores[dim]
		if !ok {
			continue
		}
		w := weights[dim]
		weightedSum += score * w
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return weightedSum / weightSum / 5.0 * 100.0
}

// classifyLevel maps a composite score to its grade label using the highest
// threshold the score clears.
func classifyLevel(cfg Config, score float64) string {
	for _, threshold := range cfg.sortedThresholds() {
		if score >= threshold.MinScore {
			return threshold.Label
		}
	}
	return cfg.FallbackLevel
}
