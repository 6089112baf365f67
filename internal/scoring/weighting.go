package scoring

import "strings"

// AttributeAliases is the versioned field-alias table supplied by the
// ingestion layer. The resolver matches record attribute answers against
// these candidate question labels in order, so the engine never depends on
// exact questionnaire wording.
type AttributeAliases struct {
	Version    string   `json:"version"`
	Scale      []string `json:"scale"`
	Complexity []string `json:"complexity"`
	Rental     []string `json:"rental"`
}

// DefaultAttributeAliases matches the current questionnaire revision.
func DefaultAttributeAliases() AttributeAliases {
	return AttributeAliases{
		Version: "2025.1",
		Scale: []string{
			"项目规模： 贵项目属于以下哪种规模？",
			"项目规模",
			"贵项目的绿化规模",
		},
		Complexity: []string{
			"养护复杂度： 贵项目的绿化养护复杂度属于哪一类？",
			"项目复杂度",
			"贵项目的养护复杂度",
		},
		Rental: []string{
			"租摆服务： 贵项目是否包含室内租摆服务？",
			"是否包含租摆服务",
			"是否有租摆服务",
		},
	}
}

// ResolveProjectAttributes derives scale, complexity and the rental-service
// flag for one record. Missing or unparseable answers fall back to the
// documented defaults (B / B / false); nothing here is fatal.
func ResolveProjectAttributes(record EvaluationRecord, aliases AttributeAliases) ProjectAttributes {
	attrs := ProjectAttributes{Scale: "B", Complexity: "B"}

	if letter, ok := resolveLetterField(record.Attributes, aliases.Scale); ok {
		attrs.Scale = letter
	}
	if letter, ok := resolveLetterField(record.Attributes, aliases.Complexity); ok {
		attrs.Complexity = letter
	}
	attrs.HasRentalService = resolveRental(record, aliases.Rental)

	return attrs
}

// resolveLetterField finds the first candidate label present in the answers
// and parses it to a grade letter. First match wins; a present but
// unparseable answer does not continue the search.
func resolveLetterField(answers map[string]string, candidates []string) (string, bool) {
	for _, label := range candidates {
		value, ok := answers[label]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		return parseGradeLetter(value)
	}
	return "", false
}

// parseGradeLetter accepts a bare letter ("a"), a "letter.label" composite
// ("A.小型"), or a free-text Chinese descriptor ("中等").
func parseGradeLetter(value string) (string, bool) {
	v := strings.TrimSpace(value)

	if idx := strings.Index(v, "."); idx >= 0 {
		v = v[:idx]
	}
	upper := strings.ToUpper(strings.TrimSpace(v))
	switch upper {
	case "A", "B", "C":
		return upper, true
	}

	switch {
	case strings.Contains(value, "小") || strings.Contains(value, "低"):
		return "A", true
	case strings.Contains(value, "大") || strings.Contains(value, "高"):
		return "C", true
	case strings.Contains(value, "中"):
		return "B", true
	}

	return "", false
}

// resolveRental prefers an explicit yes/no answer; otherwise it infers the
// flag from whether the rental-only question carries a positive score.
func resolveRental(record EvaluationRecord, candidates []string) bool {
	for _, label := range candidates {
		value, ok := record.Attributes[label]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if strings.Contains(value, "A") || strings.Contains(value, "是") {
			return true
		}
		if strings.Contains(value, "B") || strings.Contains(value, "否") {
			return false
		}
	}

	return record.RawScores[RentalQuestionKey] > 0
}
