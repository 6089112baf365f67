package ingest

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/verdantops/greenscore/internal/scoring"
)

// Row is one imported questionnaire submission, keyed by column label exactly
// as exported from the survey tool.
type Row map[string]string

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// BuildRecord converts a raw questionnaire row into a scoring record using
// the alias table. It returns the supplier name separately since records do
// not carry it. Malformed score cells are dropped with a debug log rather
// than failing the whole row; a missing supplier name is the only fatal case.
func (t AliasTable) BuildRecord(category scoring.Category, row Row) (string, scoring.EvaluationRecord, error) {
	supplier := firstNonEmpty(row, t.SupplierName)
	if supplier == "" {
		return "", scoring.EvaluationRecord{}, fmt.Errorf("row has no supplier name (tried columns %v)", t.SupplierName)
	}

	record := scoring.EvaluationRecord{
		Category:    category,
		RaterName:   firstNonEmpty(row, t.RaterName),
		RaterOrg:    firstNonEmpty(row, t.RaterOrg),
		RaterPhone:  firstNonEmpty(row, t.RaterPhone),
		SubmittedAt: parseDate(firstNonEmpty(row, t.Date)),
		RawScores:   make(map[string]float64),
		Attributes:  make(map[string]string),
		Feedback:    make(map[string]string),
	}

	for label, key := range t.scoreColumns(category) {
		value, ok := row[label]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			slog.Debug("dropping unparseable score cell",
				"supplier", supplier, "question", key, "value", value)
			continue
		}
		record.RawScores[key] = score
	}

	for label, tag := range t.feedbackColumns(category) {
		if value := strings.TrimSpace(row[label]); value != "" {
			record.Feedback[tag] = value
		}
	}

	attributeLabels := make([]string, 0,
		len(t.Attributes.Scale)+len(t.Attributes.Complexity)+len(t.Attributes.Rental))
	attributeLabels = append(attributeLabels, t.Attributes.Scale...)
	attributeLabels = append(attributeLabels, t.Attributes.Complexity...)
	attributeLabels = append(attributeLabels, t.Attributes.Rental...)
	for _, label := range attributeLabels {
		if value := strings.TrimSpace(row[label]); value != "" {
			record.Attributes[label] = value
		}
	}

	return supplier, record, nil
}

// ServiceAreaOf extracts the service area column from a row, if present.
func (t AliasTable) ServiceAreaOf(row Row) string {
	return firstNonEmpty(row, t.ServiceArea)
}

func firstNonEmpty(row Row, labels []string) string {
	for _, label := range labels {
		if value := strings.TrimSpace(row[label]); value != "" {
			return value
		}
	}
	return ""
}

func parseDate(value string) time.Time {
	if value != "" {
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, value); err == nil {
				return ts
			}
		}
	}
	return time.Now()
}
