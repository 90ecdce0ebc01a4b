package notes

import (
	"strings"
	"unicode/utf8"
)

// truncationNotice is appended whenever input is cut to fit the token
// budget, so the model (and the reader) knows the notes are incomplete.
const truncationNotice = "\n\n[Note: Input was truncated due to length]"

// CountWords counts whitespace-separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EstimateTokens gives a rough token count. Actual tokenization is
// model-specific; one token per ~4 characters is close enough for
// budgeting input size.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// Truncate cuts text to roughly maxTokens, preferring a sentence
// boundary when one falls in the last 20% of the kept range. The second
// return value reports whether anything was cut.
func Truncate(text string, maxTokens int) (string, bool) {
	if EstimateTokens(text) <= maxTokens {
		return text, false
	}

	maxChars := maxTokens * 4
	// Back up to a rune boundary so the cut never produces invalid UTF-8.
	for maxChars > 0 && !utf8.RuneStart(text[maxChars]) {
		maxChars--
	}
	truncated := text[:maxChars]

	if last := strings.LastIndex(truncated, "."); last > int(float64(maxChars)*0.8) {
		truncated = truncated[:last+1]
	}

	return truncated + truncationNotice, true
}
