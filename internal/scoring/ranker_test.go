package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankResults(t *testing.T) {
	results := []CompositeResult{
		{SupplierName: "甲", ServiceArea: "华东", TotalScore: 72},
		{SupplierName: "乙", ServiceArea: "华南", TotalScore: 88},
		{SupplierName: "丙", ServiceArea: "华东", TotalScore: 81},
		{SupplierName: "丁", ServiceArea: "华南", TotalScore: 65},
	}

	ranked := RankResults(results)

	require.Len(t, ranked, 4)
	assert.Equal(t, []string{"乙", "丙", "甲", "丁"}, supplierNames(ranked))
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
	}

	// Area ranks count within each service area only.
	assert.Equal(t, 1, ranked[0].AreaRank) // 乙, first in 华南
	assert.Equal(t, 1, ranked[1].AreaRank) // 丙, first in 华东
	assert.Equal(t, 2, ranked[2].AreaRank) // 甲, second in 华东
	assert.Equal(t, 2, ranked[3].AreaRank) // 丁, second in 华南
}

func TestRankResultsTiesKeepInputOrder(t *testing.T) {
	results := []CompositeResult{
		{SupplierName: "first", TotalScore: 80},
		{SupplierName: "second", TotalScore: 80},
		{SupplierName: "third", TotalScore: 80},
	}

	ranked := RankResults(results)

	assert.Equal(t, []string{"first", "second", "third"}, supplierNames(ranked))
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestRankResultsDoesNotMutateInput(t *testing.T) {
	results := []CompositeResult{
		{SupplierName: "a", TotalScore: 10},
		{SupplierName: "b", TotalScore: 90},
	}

	_ = RankResults(results)

	assert.Equal(t, "a", results[0].SupplierName)
	assert.Equal(t, 0, results[0].Rank)
}

func TestRankResultsEmpty(t *testing.T) {
	assert.Empty(t, RankResults(nil))
}

func supplierNames(results []CompositeResult) []string {
	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.SupplierName
	}
	return names
}
