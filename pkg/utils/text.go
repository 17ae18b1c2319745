package utils

import "strings"

// Excerpt returns at most maxChars runes of text, cut back to the last
// word boundary so embeddings never see a torn word.
func Excerpt(text string, maxChars int) string {
	text = strings.TrimSpace(text)
	if maxChars <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	cut := string(runes[:maxChars])
	if idx := strings.LastIndexAny(cut, " \t\n"); idx > 0 {
		cut = cut[:idx]
	}

	return strings.TrimSpace(cut)
}
