// internal/analysis/quality.go
package analysis

import (
	"strings"
	"unicode"
)

const (
	qualityBaseline = 70
	neutralQuality  = 50

	shortTextThreshold     = 10
	briefTextThreshold     = 30
	substantialTextLength  = 100
	maxExclamationMarks    = 3
	maxProfessionalBonus   = 15
	professionalWordBonus  = 5
	shoutingMinLetterCount = 10
)

var professionalWords = []string{
	"quality", "professional", "excellence", "innovative", "trusted",
	"premium", "expertise", "reliable", "dedicated", "solution",
}

// ScoreText rates the structural quality of a piece of text on a 0-100
// scale. Empty input gets a fixed neutral score rather than an error.
func ScoreText(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return neutralQuality
	}

	score := qualityBaseline

	length := len(trimmed)
	switch {
	case length < shortTextThreshold:
		score -= 20
	case length < briefTextThreshold:
		score -= 10
	case length >= substantialTextLength:
		score += 10
	}

	lower := strings.ToLower(trimmed)
	bonus := 0
	for _, word := range professionalWords {
		if strings.Contains(lower, word) {
			bonus += professionalWordBonus
		}
	}
	score += min(bonus, maxProfessionalBonus)

	if isShouting(trimmed) {
		score -= 15
	}

	if strings.Count(trimmed, "!") > maxExclamationMarks {
		score -= 10
	}

	return clamp(score, 0, 100)
}

// isShouting reports whether the text is effectively ALL CAPS: enough
// letters to matter and none of them lowercase.
func isShouting(text string) bool {
	letters := 0
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= shoutingMinLetterCount
}
