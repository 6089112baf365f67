package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantops/greenscore/internal/scoring"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db)
}

func fakeRecord(category scoring.Category) scoring.EvaluationRecord {
	return scoring.EvaluationRecord{
		Category:    category,
		RaterName:   gofakeit.Name(),
		RaterOrg:    gofakeit.Company(),
		RaterPhone:  gofakeit.Phone(),
		SubmittedAt: time.Now().UTC().Truncate(time.Second),
		RawScores: map[string]float64{
			"dim1_1": float64(gofakeit.Number(1, 5)),
			"dim2_1": float64(gofakeit.Number(1, 5)),
		},
		Attributes: map[string]string{"项目规模": "B.中型"},
		Feedback:   map[string]string{scoring.FeedbackSuggestions: gofakeit.Sentence(5)},
	}
}

func TestUpsertSupplier(t *testing.T) {
	repo := newTestRepository(t)

	id, err := repo.UpsertSupplier("绿城园林", "华东")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	t.Run("same name keeps the same id", func(t *testing.T) {
		again, err := repo.UpsertSupplier("绿城园林", "华南")
		require.NoError(t, err)
		assert.Equal(t, id, again)
	})

	t.Run("non-empty area overwrites", func(t *testing.T) {
		s, err := repo.GetSupplier("绿城园林")
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, "华南", s.ServiceArea)
	})

	t.Run("empty area keeps the existing one", func(t *testing.T) {
		_, err := repo.UpsertSupplier("绿城园林", "")
		require.NoError(t, err)

		s, err := repo.GetSupplier("绿城园林")
		require.NoError(t, err)
		assert.Equal(t, "华南", s.ServiceArea)
	})
}

func TestGetSupplierNotFound(t *testing.T) {
	repo := newTestRepository(t)

	s, err := repo.GetSupplier("不存在")

	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestInsertAndLoadEvaluations(t *testing.T) {
	repo := newTestRepository(t)

	id, err := repo.UpsertSupplier("青藤绿化", "华东")
	require.NoError(t, err)

	want := fakeRecord(scoring.CategoryPropertyManager)
	require.NoError(t, repo.InsertEvaluation(id, want))
	require.NoError(t, repo.InsertEvaluation(id, fakeRecord(scoring.CategoryFunctionalDept)))

	records, err := repo.GetSupplierEvaluations(id)
	require.NoError(t, err)
	require.Len(t, records, 2)

	got := records[0]
	if got.Category != want.Category {
		got = records[1]
	}
	assert.Equal(t, want.Category, got.Category)
	assert.Equal(t, want.RaterName, got.RaterName)
	assert.Equal(t, want.RawScores, got.RawScores)
	assert.Equal(t, want.Attributes, got.Attributes)
	assert.Equal(t, want.Feedback, got.Feedback)
}

func TestListSuppliersOrdersByName(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.UpsertSupplier("b-supplier", "")
	require.NoError(t, err)
	_, err = repo.UpsertSupplier("a-supplier", "")
	require.NoError(t, err)

	suppliers, err := repo.ListSuppliers()
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "a-supplier", suppliers[0].Name)
	assert.Equal(t, "b-supplier", suppliers[1].Name)
}

func TestUpdateServiceInfo(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.UpsertSupplier("绿城园林", "华东")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateServiceInfo("绿城园林", 12, "滨江一期;滨江二期", 0.35, "长期合作"))

	s, err := repo.GetSupplier("绿城园林")
	require.NoError(t, err)
	assert.Equal(t, 12, s.ProjectCount)
	assert.Equal(t, "滨江一期;滨江二期", s.ProjectNames)
	assert.InDelta(t, 0.35, s.ProjectRatio, 1e-9)
	assert.Equal(t, "长期合作", s.Remarks)

	t.Run("unknown supplier reports no rows", func(t *testing.T) {
		err := repo.UpdateServiceInfo("不存在", 1, "", 0, "")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestAllSupplierEvaluations(t *testing.T) {
	repo := newTestRepository(t)

	withRecords, err := repo.UpsertSupplier("有记录", "华东")
	require.NoError(t, err)
	require.NoError(t, repo.InsertEvaluation(withRecords, fakeRecord(scoring.CategoryPropertyManager)))

	_, err = repo.UpsertSupplier("无记录", "华南")
	require.NoError(t, err)

	groups, err := repo.AllSupplierEvaluations()
	require.NoError(t, err)

	// Suppliers without stored evaluations are skipped.
	require.Len(t, groups, 1)
	assert.Equal(t, "有记录", groups[0].Name)
	assert.Equal(t, "华东", groups[0].ServiceArea)
	assert.Len(t, groups[0].Records, 1)
}
