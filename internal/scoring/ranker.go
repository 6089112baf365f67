package scoring

import "sort"

// RankResults orders results by total score descending and assigns
// consecutive ranks, both globally and within each service area. The sort is
// stable, so suppliers with equal scores keep their input order.
func RankResults(results []CompositeResult) []CompositeResult {
	ranked := append([]CompositeResult(nil), results...)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})

	areaCounters := make(map[string]int)
	for i := range ranked {
		ranked[i].Rank = i + 1
		areaCounters[ranked[i].ServiceArea]++
		ranked[i].AreaRank = areaCounters[ranked[i].ServiceArea]
	}

	return ranked
}
