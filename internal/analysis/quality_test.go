// internal/analysis/quality_test.go
package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{
			name:     "empty text gets neutral score",
			text:     "",
			expected: 50,
		},
		{
			name:     "whitespace only is treated as empty",
			text:     "   \n\t  ",
			expected: 50,
		},
		{
			name:     "very short text penalized",
			text:     "hi there",
			expected: 50, // 70 - 20
		},
		{
			name:     "brief text mildly penalized",
			text:     "a short marketing line",
			expected: 60, // 70 - 10
		},
		{
			name:     "substantial text rewarded",
			text:     strings.Repeat("solid marketing copy here. ", 5),
			expected: 80, // 70 + 10
		},
		{
			name:     "professional vocabulary bonus capped",
			text:     "Our premium quality solution delivers trusted professional expertise to every reliable client engagement.",
			expected: 95, // 70 + 10 length + 15 capped bonus
		},
		{
			name:     "all caps shouting penalized",
			text:     "BUY OUR AMAZING PRODUCT RIGHT NOW TODAY",
			expected: 55, // 70 - 15
		},
		{
			name:     "excessive exclamation marks penalized",
			text:     "Wow!!!! This is so exciting!! Come see us now!",
			expected: 60, // 70 - 10
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreText(tt.text)
			assert.Equal(t, tt.expected, score)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		})
	}
}

func TestScoreText_AlwaysInRange(t *testing.T) {
	inputs := []string{
		"",
		"!",
		"!!!!!!!!!!!!!!!!",
		"AAAAAAAAAAAAAAAAAAAA!!!!!!!!",
		strings.Repeat("a", 10000),
		strings.Repeat("QUALITY PREMIUM TRUSTED ", 100),
		"'; DROP TABLE content; --",
	}

	for _, text := range inputs {
		score := ScoreText(text)
		assert.GreaterOrEqual(t, score, 0, "input: %q", text)
		assert.LessOrEqual(t, score, 100, "input: %q", text)
	}
}

func TestIsShouting(t *testing.T) {
	assert.True(t, isShouting("THIS IS ALL CAPS SHOUTING"))
	assert.False(t, isShouting("This Is Mixed Case"))
	assert.False(t, isShouting("SHORT"), "too few letters to count as shouting")
	assert.False(t, isShouting("1234567890!!!"), "digits are not letters")
}
