package scoring

import (
	"math"
	"sort"
	"strings"
)

var dimensionSet = func() map[string]bool {
	set := make(map[string]bool, len(DimensionKeys()))
	for _, dim := range DimensionKeys() {
		set[dim] = true
	}
	return set
}()

// dimensionOf extracts the dimension prefix from a question key like
// "dim3_2". Keys that do not follow the dim<N>_<M> pattern are ignored.
func dimensionOf(key string) (string, bool) {
	idx := strings.Index(key, "_")
	if idx <= 0 {
		return "", false
	}
	dim := key[:idx]
	return dim, dimensionSet[dim]
}

// sortedScoreKeys returns the record's question keys in lexical order. Scores
// are summed in this order so identical input always produces bit-identical
// float results.
func sortedScoreKeys(scores map[string]float64) []string {
	keys := make([]string, 0, len(scores))
	for key := range scores {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// validScore rejects values the estimator must never see: zero, negative and
// NaN cells do not count as answers.
func validScore(score float64) bool {
	return score > 0 && !math.IsNaN(score)
}

// aggregateProperty runs the PROPERTY_MANAGER path: per-record dimension
// averages with the rental exclusion, a project-weighted combination across
// records, and a single reliability factor derived from the per-record
// adjusted scores.
func (e *Engine) aggregateProperty(records []EvaluationRecord) DimensionScoreSet {
	dimWeights := e.cfg.DimensionWeights[CategoryPropertyManager]

	dimTotals := make(map[string]float64, len(dimensionSet))
	weightSum := 0.0
	adjustedScores := make([]float64, 0, len(records))

	for _, record := range records {
		attrs := ResolveProjectAttributes(record, e.aliases)
		projectWeight := e.cfg.ProjectWeight(attrs)

		dims := recordDimensionScores(record, attrs.HasRentalService)

		base := 0.0
		for _, dim := range DimensionKeys() {
			base += dims[dim] * dimWeights[dim]
		}
		adjusted := clamp(base+ExtractFeedbackAdjustment(record.Feedback, e.cfg), 1, 5)
		adjustedScores = append(adjustedScores, adjusted)

		for _, dim := range DimensionKeys() {
			dimTotals[dim] += dims[dim] * projectWeight
		}
		weightSum += projectWeight
	}

	adjustment := EstimateSampleAdjustment(len(records), adjustedScores, e.cfg.SampleAdjustment)

	scores := make(map[string]float64, len(dimTotals))
	if weightSum > 0 {
		for _, dim := range DimensionKeys() {
			scores[dim] = clamp(dimTotals[dim]/weightSum*adjustment.Factor, 0, 5)
		}
	}

	return DimensionScoreSet{
		Category:    CategoryPropertyManager,
		Scores:      scores,
		Adjustment:  adjustment,
		RecordCount: len(records),
	}
}

// recordDimensionScores averages one record's sub-question scores per
// dimension. The rental-only question is excluded when the project has no
// rental service; a dimension with no contributing sub-questions scores 0 but
// still participates in the weighted base score.
func recordDimensionScores(record EvaluationRecord, hasRental bool) map[string]float64 {
	sums := make(map[string]float64, len(dimensionSet))
	counts := make(map[string]int, len(dimensionSet))

	for _, key := range sortedScoreKeys(record.RawScores) {
		score := record.RawScores[key]
		if !validScore(score) {
			continue
		}
		if key == RentalQuestionKey && !hasRental {
			continue
		}
		dim, ok := dimensionOf(key)
		if !ok {
			continue
		}
		sums[dim] += score
		counts[dim]++
	}

	dims := make(map[string]float64, len(dimensionSet))
	for _, dim := range DimensionKeys() {
		if counts[dim] > 0 {
			dims[dim] = sums[dim] / float64(counts[dim])
		} else {
			dims[dim] = 0
		}
	}
	return dims
}

// aggregateFunctional runs the simpler FUNCTIONAL_DEPT path: all sub-question
// scores pool into their dimension bucket across records, and the reliability
// factor is computed over the flat pool of individual scores.
func (e *Engine) aggregateFunctional(records []EvaluationRecord) DimensionScoreSet {
	sums := make(map[string]float64, len(dimensionSet))
	counts := make(map[string]int, len(dimensionSet))
	var pool []float64

	for _, record := range records {
		for _, key := range sortedScoreKeys(record.RawScores) {
			score := record.RawScores[key]
			if !validScore(score) {
				continue
			}
			dim, ok := dimensionOf(key)
			if !ok {
				continue
			}
			sums[dim] += score
			counts[dim]++
			pool = append(pool, score)
		}
	}

	adjustment := EstimateSampleAdjustment(len(pool), pool, e.cfg.SampleAdjustment)

	scores := make(map[string]float64, len(sums))
	for dim, count := range counts {
		if count == 0 {
			continue
		}
		scores[dim] = clamp(sums[dim]/float64(count)*adjustment.Factor, 0, 5)
	}

	return DimensionScoreSet{
		Category:    CategoryFunctionalDept,
		Scores:      scores,
		Adjustment:  adjustment,
		RecordCount: len(records),
	}
}
