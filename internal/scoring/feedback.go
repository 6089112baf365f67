package scoring

// Feedback adjustment bounds: open-ended cases can move a record's score by
// at most half a point in either direction.
const (
	minFeedbackAdjustment = -0.5
	maxFeedbackAdjustment = 0.5
)

// ExtractFeedbackAdjustment converts impact-level markers embedded in the
// open-ended case answers into a bounded bonus/penalty. Case fields without a
// recognizable marker contribute nothing.
func ExtractFeedbackAdjustment(feedback map[string]string, cfg Config) float64 {
	total := 0.0

	if level, ok := extractImpactLevel(feedback[FeedbackPositiveCase]); ok {
		total += cfg.PositiveScores[level]
	}
	if level, ok := extractImpactLevel(feedback[FeedbackNegativeCase]); ok {
		total += cfg.NegativeScores[level]
	}

	return clamp(total, minFeedbackAdjustment, maxFeedbackAdjustment)
}

// extractImpactLevel scans the text from the end for an "a)".."d)" marker and
// returns the level of the last one found.
func extractImpactLevel(text string) (string, bool) {
	runes := []rune(text)
	for i := len(runes) - 1; i > 0; i-- {
		if runes[i] != ')' {
			continue
		}
		prev := runes[i-1]
		if prev >= 'a' && prev <= 'd' {
			return string(prev), true
		}
	}
	return "", false
}
