package scoring

import "time"

// Category identifies the rater population an evaluation comes from.
type Category string

const (
	// CategoryPropertyManager covers on-site building management raters.
	CategoryPropertyManager Category = "property"
	// CategoryFunctionalDept covers internal functional-department raters.
	CategoryFunctionalDept Category = "functional"
)

// Categories lists all rater categories in scoring order.
func Categories() []Category {
	return []Category{CategoryPropertyManager, CategoryFunctionalDept}
}

// Feedback tags recognized in EvaluationRecord.Feedback.
const (
	FeedbackPositiveCase        = "positive_case"
	FeedbackPositiveDescription = "positive_description"
	FeedbackNegativeCase        = "negative_case"
	FeedbackNegativeDescription = "negative_description"
	FeedbackSuggestions         = "suggestions"
)

// RentalQuestionKey is the sub-question that only applies when the project
// includes rental (租摆) service. It is excluded from dim1 averages otherwise.
const RentalQuestionKey = "dim1_3"

// EvaluationRecord is one rater's questionnaire submission. Records are
// immutable snapshots owned by the ingestion layer; the engine reads them only.
type EvaluationRecord struct {
	Category    Category           `json:"category"`
	RaterName   string             `json:"rater_name"`
	RaterOrg    string             `json:"rater_org"`
	RaterPhone  string             `json:"rater_phone"`
	SubmittedAt time.Time          `json:"submitted_at"`
	RawScores   map[string]float64 `json:"raw_scores"` // question key (dimN_M) -> 1..5
	Attributes  map[string]string  `json:"attributes"` // free-text project-attribute answers by question label
	Feedback    map[string]string  `json:"feedback"`   // feedback tag -> free text
}

// ProjectAttributes is derived per record from free-text answers and never stored.
type ProjectAttributes struct {
	Scale            string `json:"scale"`      // A (small), B (medium), C (large)
	Complexity       string `json:"complexity"` // A (low), B (medium), C (high)
	HasRentalService bool   `json:"has_rental_service"`
}

// SampleAdjustment is the reliability correction derived for one
// (supplier, category) group. Recomputed on every engine run.
type SampleAdjustment struct {
	SampleSize  int     `json:"sample_size"`
	Method      string  `json:"method"`
	Factor      float64 `json:"factor"`      // multiplicative, clamped to [0.5, 1.5]
	Reliability float64 `json:"reliability"` // 0..1

	// Method-specific diagnostics.
	Mean       float64 `json:"mean,omitempty"`
	StdDev     float64 `json:"std_dev,omitempty"`
	StdErr     float64 `json:"std_err,omitempty"`
	CILower    float64 `json:"ci_lower,omitempty"`
	ShrunkMean float64 `json:"shrunk_mean,omitempty"`
}

// DimensionScoreSet holds the adjusted per-dimension scores for one
// (supplier, category) pair.
type DimensionScoreSet struct {
	Category    Category           `json:"category"`
	Scores      map[string]float64 `json:"scores"` // dimN -> adjusted score on the 0..5 scale
	Adjustment  SampleAdjustment   `json:"adjustment"`
	RecordCount int                `json:"record_count"`
}

// CompositeResult is the final per-supplier output. Rank fields are filled by
// RankResults; everything else by Engine.ScoreSupplier.
type CompositeResult struct {
	SupplierName    string  `json:"supplier_name"`
	ServiceArea     string  `json:"service_area,omitempty"`
	TotalScore      float64 `json:"total_score"`
	PropertyScore   float64 `json:"property_score"`
	FunctionalScore float64 `json:"functional_score"`
	Level           string  `json:"level"`
	Rank            int     `json:"rank,omitempty"`
	AreaRank        int     `json:"area_rank,omitempty"`
	EvaluationCount int     `json:"evaluation_count"`

	MissingCategories []Category                     `json:"missing_categories,omitempty"`
	Dimensions        map[Category]DimensionScoreSet `json:"dimensions"`

	PositiveFeedback []string `json:"positive_feedback,omitempty"`
	NegativeFeedback []string `json:"negative_feedback,omitempty"`

	// Diagnostics surfaces non-fatal configuration inconsistencies observed
	// while scoring (e.g. dimension weights that had to be re-normalized).
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// SupplierRecords groups all evaluation records for one supplier.
type SupplierRecords struct {
	Name        string             `json:"name"`
	ServiceArea string             `json:"service_area"`
	Records     []EvaluationRecord `json:"records"`
}

var propertyDimensionNames = map[string]string{
	"dim1": "绿化专业知识与技能",
	"dim2": "人员管理与现场协作",
	"dim3": "服务质量与养护效果",
	"dim4": "客户满意度与市场反馈",
	"dim5": "成本效益与定价透明",
	"dim6": "安全环保与作业规范",
	"dim7": "规模实力与应急响应",
	"dim8": "合规管理与合同履约",
}

var functionalDimensionNames = map[string]string{
	"dim1": "绿化专业知识与实践经验",
	"dim2": "人员管理与现场协作",
	"dim3": "服务质量与养护标准",
	"dim4": "客户评价与市场声誉",
	"dim5": "成本效益与定价模式",
	"dim6": "现场作业安全与环保",
	"dim7": "规模与灵活性",
	"dim8": "合规性与法律事项",
}

// DimensionKeys returns the 8 fixed dimension keys in order.
func DimensionKeys() []string {
	return []string{"dim1", "dim2", "dim3", "dim4", "dim5", "dim6", "dim7", "dim8"}
}

// DimensionNames returns the display-name catalog for a category, for report
// consumers. The returned map must not be mutated.
func DimensionNames(category Category) map[string]string {
	switch category {
	case CategoryPropertyManager:
		return propertyDimensionNames
	case CategoryFunctionalDept:
		return functionalDimensionNames
	default:
		return nil
	}
}
