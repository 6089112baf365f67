package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantops/greenscore/internal/scoring"
)

func TestDefaultAliasTableCoversAllDimensions(t *testing.T) {
	table := DefaultAliasTable()

	for _, tc := range []struct {
		name    string
		columns map[string]string
	}{
		{name: "property", columns: table.PropertyScores},
		{name: "functional", columns: table.FunctionalScores},
	} {
		t.Run(tc.name, func(t *testing.T) {
			seen := make(map[string]bool)
			for _, key := range tc.columns {
				prefix, _, ok := strings.Cut(key, "_")
				require.True(t, ok, "question key %q", key)
				seen[prefix] = true
			}
			for _, dim := range scoring.DimensionKeys() {
				assert.True(t, seen[dim], "no questions mapped to %s", dim)
			}
		})
	}
}

func TestDefaultAliasTableQuestionKeysAreUnique(t *testing.T) {
	table := DefaultAliasTable()

	for _, columns := range []map[string]string{table.PropertyScores, table.FunctionalScores} {
		seen := make(map[string]string)
		for label, key := range columns {
			if prev, dup := seen[key]; dup {
				t.Errorf("key %s mapped from both %q and %q", key, prev, label)
			}
			seen[key] = label
		}
	}
}

func TestLoadAliasTable(t *testing.T) {
	t.Run("missing file falls back to the built-in table", func(t *testing.T) {
		table, err := LoadAliasTable(filepath.Join(t.TempDir(), "nope.json"))

		require.NoError(t, err)
		assert.Equal(t, DefaultAliasTable().Version, table.Version)
	})

	t.Run("file overrides merge onto the built-in table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "aliases.json")
		payload := `{"version": "2026.1", "supplier_name": ["供应商"]}`
		require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

		table, err := LoadAliasTable(path)

		require.NoError(t, err)
		assert.Equal(t, "2026.1", table.Version)
		assert.Equal(t, []string{"供应商"}, table.SupplierName)
		// Untouched sections keep the built-in columns.
		assert.Equal(t, DefaultAliasTable().PropertyScores, table.PropertyScores)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "aliases.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

		_, err := LoadAliasTable(path)

		assert.Error(t, err)
	})
}
