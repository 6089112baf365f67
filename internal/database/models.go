package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verdantops/greenscore/internal/scoring"
)

// Supplier represents a greening supplier with its service-info fields
type Supplier struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ServiceArea  string    `json:"service_area" db:"service_area"`
	ProjectCount int       `json:"project_count" db:"project_count"`
	ProjectNames string    `json:"project_names" db:"project_names"`
	ProjectRatio float64   `json:"project_ratio" db:"project_ratio"`
	Remarks      string    `json:"remarks" db:"remarks"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Evaluation is one stored questionnaire submission. Scores, attributes and
// feedback are persisted as JSON text columns since their keys vary by
// questionnaire revision.
type Evaluation struct {
	ID         string    `json:"id" db:"id"`
	SupplierID string    `json:"supplier_id" db:"supplier_id"`
	Category   string    `json:"category" db:"category"`
	RaterName  string    `json:"rater_name" db:"rater_name"`
	RaterOrg   string    `json:"rater_org" db:"rater_org"`
	RaterPhone string    `json:"-" db:"rater_phone"`
	Scores     string    `json:"-" db:"scores"`
	Attributes string    `json:"-" db:"attributes"`
	Feedback   string    `json:"-" db:"feedback"`
	EvalDate   time.Time `json:"eval_date" db:"eval_date"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// NewSupplier creates a new supplier with generated ID
func NewSupplier(name, serviceArea string) *Supplier {
	now := time.Now()
	return &Supplier{
		ID:          uuid.New().String(),
		Name:        name,
		ServiceArea: serviceArea,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewEvaluation serializes a scoring record for storage under a supplier
func NewEvaluation(supplierID string, record scoring.EvaluationRecord) (*Evaluation, error) {
	scores, err := json.Marshal(record.RawScores)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scores: %w", err)
	}
	attributes, err := json.Marshal(record.Attributes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attributes: %w", err)
	}
	feedback, err := json.Marshal(record.Feedback)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feedback: %w", err)
	}

	return &Evaluation{
		ID:         uuid.New().String(),
		SupplierID: supplierID,
		Category:   string(record.Category),
		RaterName:  record.RaterName,
		RaterOrg:   record.RaterOrg,
		RaterPhone: record.RaterPhone,
		Scores:     string(scores),
		Attributes: string(attributes),
		Feedback:   string(feedback),
		EvalDate:   record.SubmittedAt,
		CreatedAt:  time.Now(),
	}, nil
}

// ToRecord deserializes a stored evaluation back into a scoring record
func (e *Evaluation) ToRecord() (scoring.EvaluationRecord, error) {
	record := scoring.EvaluationRecord{
		Category:    scoring.Category(e.Category),
		RaterName:   e.RaterName,
		RaterOrg:    e.RaterOrg,
		RaterPhone:  e.RaterPhone,
		SubmittedAt: e.EvalDate,
	}

	if err := json.Unmarshal([]byte(e.Scores), &record.RawScores); err != nil {
		return record, fmt.Errorf("failed to unmarshal scores for evaluation %s: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(e.Attributes), &record.Attributes); err != nil {
		return record, fmt.Errorf("failed to unmarshal attributes for evaluation %s: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(e.Feedback), &record.Feedback); err != nil {
		return record, fmt.Errorf("failed to unmarshal feedback for evaluation %s: %w", e.ID, err)
	}

	return record, nil
}
