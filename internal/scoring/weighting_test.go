package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGradeLetter(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		want   string
		wantOK bool
	}{
		{name: "bare uppercase letter", value: "A", want: "A", wantOK: true},
		{name: "bare lowercase letter", value: "b", want: "B", wantOK: true},
		{name: "letter with label", value: "A.小型", want: "A", wantOK: true},
		{name: "letter with label and spaces", value: " C.大型 ", want: "C", wantOK: true},
		{name: "small descriptor", value: "小型项目", want: "A", wantOK: true},
		{name: "low descriptor", value: "较低", want: "A", wantOK: true},
		{name: "medium descriptor", value: "中等", want: "B", wantOK: true},
		{name: "large descriptor", value: "大型", want: "C", wantOK: true},
		{name: "high descriptor", value: "复杂度高", want: "C", wantOK: true},
		{name: "unrecognized text", value: "一般般", wantOK: false},
		{name: "out of range letter", value: "D", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseGradeLetter(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResolveProjectAttributes(t *testing.T) {
	aliases := AttributeAliases{
		Scale:      []string{"项目规模"},
		Complexity: []string{"项目复杂度"},
		Rental:     []string{"是否包含租摆服务"},
	}

	t.Run("defaults when nothing answered", func(t *testing.T) {
		attrs := ResolveProjectAttributes(EvaluationRecord{}, aliases)

		assert.Equal(t, "B", attrs.Scale)
		assert.Equal(t, "B", attrs.Complexity)
		assert.False(t, attrs.HasRentalService)
	})

	t.Run("explicit answers win", func(t *testing.T) {
		record := EvaluationRecord{
			Attributes: map[string]string{
				"项目规模":     "A.小型",
				"项目复杂度":    "C.高",
				"是否包含租摆服务": "A.是",
			},
		}

		attrs := ResolveProjectAttributes(record, aliases)

		assert.Equal(t, "A", attrs.Scale)
		assert.Equal(t, "C", attrs.Complexity)
		assert.True(t, attrs.HasRentalService)
	})

	t.Run("unparseable answer falls back to default", func(t *testing.T) {
		record := EvaluationRecord{
			Attributes: map[string]string{"项目规模": "看情况"},
		}

		attrs := ResolveProjectAttributes(record, aliases)

		assert.Equal(t, "B", attrs.Scale)
	})

	t.Run("explicit no overrides a scored rental question", func(t *testing.T) {
		record := EvaluationRecord{
			RawScores:  map[string]float64{RentalQuestionKey: 4},
			Attributes: map[string]string{"是否包含租摆服务": "B.否"},
		}

		attrs := ResolveProjectAttributes(record, aliases)

		assert.False(t, attrs.HasRentalService)
	})

	t.Run("rental inferred from the rental question score", func(t *testing.T) {
		record := EvaluationRecord{
			RawScores: map[string]float64{RentalQuestionKey: 4},
		}

		attrs := ResolveProjectAttributes(record, aliases)

		assert.True(t, attrs.HasRentalService)
	})
}

func TestProjectWeight(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name  string
		attrs ProjectAttributes
		want  float64
	}{
		{name: "medium medium", attrs: ProjectAttributes{Scale: "B", Complexity: "B"}, want: 4},
		{name: "small large", attrs: ProjectAttributes{Scale: "A", Complexity: "C"}, want: 4},
		{name: "large large", attrs: ProjectAttributes{Scale: "C", Complexity: "C"}, want: 16},
		{name: "small small", attrs: ProjectAttributes{Scale: "A", Complexity: "A"}, want: 1},
		{name: "unknown letters default to 1", attrs: ProjectAttributes{Scale: "X", Complexity: "Y"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.ProjectWeight(tt.attrs))
		})
	}
}
