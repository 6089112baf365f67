package scoring

import (
	"log/slog"
	"strings"
)

// Engine computes supplier scores from evaluation records. It is stateless
// across calls and safe for concurrent use; all tuning lives in the Config
// captured at construction time.
type Engine struct {
	cfg         Config
	aliases     AttributeAliases
	diagnostics []string
}

// NewEngine builds an engine with the default questionnaire alias table.
func NewEngine(cfg Config) (*Engine, error) {
	return NewEngineWithAliases(cfg, DefaultAttributeAliases())
}

// NewEngineWithAliases builds an engine with an explicit alias table, for
// questionnaire revisions whose attribute wording differs from the default.
func NewEngineWithAliases(cfg Config, aliases AttributeAliases) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	diags := cfg.weightDiagnostics()
	for _, d := range diags {
		slog.Warn("scoring config inconsistency", "detail", d)
	}

	return &Engine{cfg: cfg, aliases: aliases, diagnostics: diags}, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// ScoreSupplier computes the composite result for one supplier from all of
// its evaluation records. Rank fields are left zero; use Evaluate or
// RankResults to fill them.
func (e *Engine) ScoreSupplier(name, serviceArea string, records []EvaluationRecord) CompositeResult {
	byCategory := make(map[Category][]EvaluationRecord, 2)
	for _, record := range records {
		byCategory[record.Category] = append(byCategory[record.Category], record)
	}

	result := CompositeResult{
		SupplierName:    name,
		ServiceArea:     serviceArea,
		EvaluationCount: len(records),
		Dimensions:      make(map[Category]DimensionScoreSet, 2),
		Diagnostics:     append([]string(nil), e.diagnostics...),
	}

	total := 0.0
	for _, category := range Categories() {
		catRecords := byCategory[category]
		if len(catRecords) == 0 {
			result.MissingCategories = append(result.MissingCategories, category)
			continue
		}

		var set DimensionScoreSet
		switch category {
		case CategoryPropertyManager:
			set = e.aggregateProperty(catRecords)
		default:
			set = e.aggregateFunctional(catRecords)
		}
		result.Dimensions[category] = set

		score := categoryScore(set, e.cfg.DimensionWeights[category])
		switch category {
		case CategoryPropertyManager:
			result.PropertyScore = score
		case CategoryFunctionalDept:
			result.FunctionalScore = score
		}

		// A missing category contributes zero rather than re-normalizing the
		// remaining weight, so single-category suppliers score visibly lower.
		total += score * e.cfg.CategoryWeights[category]
	}

	result.TotalScore = total
	result.Level = classifyLevel(e.cfg, total)
	result.PositiveFeedback, result.NegativeFeedback = collectFeedback(records)

	return result
}

// Evaluate scores every supplier and returns the ranked results.
func (e *Engine) Evaluate(suppliers []SupplierRecords) []CompositeResult {
	results := make([]CompositeResult, 0, len(suppliers))
	for _, s := range suppliers {
		results = append(results, e.ScoreSupplier(s.Name, s.ServiceArea, s.Records))
	}
	return RankResults(results)
}

// collectFeedback gathers the free-text case descriptions and suggestions
// across all records, skipping blanks.
func collectFeedback(records []EvaluationRecord) (positive, negative []string) {
	for _, record := range records {
		if text := strings.TrimSpace(record.Feedback[FeedbackPositiveDescription]); text != "" {
			positive = append(positive, text)
		}
		if text := strings.TrimSpace(record.Feedback[FeedbackNegativeDescription]); text != "" {
			negative = append(negative, text)
		}
		if text := strings.TrimSpace(record.Feedback[FeedbackSuggestions]); text != "" {
			negative = append(negative, text)
		}
	}
	return positive, negative
}
