// internal/analysis/theme.go
package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"brandscore-workers/internal/models"
)

// Keyword tables drive every theme heuristic. New categories are additive:
// extend the table, not the control flow.

const (
	explicitColorWeight = 3
	impliedColorWeight  = 2
	maxTagLength        = 50
)

var colorKeywords = []string{
	"red", "blue", "green", "yellow", "orange", "purple", "pink",
	"black", "white", "gray", "grey", "gold", "silver", "brown",
	"teal", "navy", "beige", "pastel",
}

// moodImpliedColors maps mood adjectives to the colors they suggest.
var moodImpliedColors = []struct {
	Keyword string
	Colors  []string
}{
	{"vibrant", []string{"pink", "yellow", "blue"}},
	{"warm", []string{"orange", "red", "yellow"}},
	{"cool", []string{"blue", "teal", "gray"}},
	{"earthy", []string{"brown", "green", "beige"}},
	{"bright", []string{"yellow", "white", "orange"}},
	{"dark", []string{"black", "navy", "gray"}},
}

// fallbackPalettes apply in declared order when no color or mood keyword
// matched at all.
var fallbackPalettes = []struct {
	Keyword string
	Colors  []string
}{
	{"playful", []string{"pink", "yellow", "pastel"}},
	{"professional", []string{"blue", "gray", "white"}},
	{"modern", []string{"white", "black", "gray"}},
}

var defaultPalette = []string{"blue", "white", "gray"}

var warmColors = []string{"red", "orange", "yellow", "pink"}
var coolColors = []string{"blue", "green", "teal", "navy"}

// paletteMoodKeywords override the color-derived mood; the last group to
// match wins.
var paletteMoodKeywords = []struct {
	Mood  string
	Words []string
}{
	{"energetic", []string{"energetic", "vibrant", "dynamic", "exciting"}},
	{"calm", []string{"calm", "serene", "peaceful", "gentle"}},
	{"professional", []string{"professional", "corporate", "business", "formal"}},
}

var styleCategories = []struct {
	Name  string
	Words []string
}{
	{"modern", []string{"modern", "contemporary", "sleek", "tech", "digital", "futuristic"}},
	{"vintage", []string{"vintage", "retro", "classic", "nostalgic", "antique"}},
	{"elegant", []string{"elegant", "luxury", "sophisticated", "refined", "premium"}},
	{"bold", []string{"bold", "vibrant", "dynamic", "striking", "powerful"}},
	{"playful", []string{"playful", "fun", "whimsical", "quirky", "cheerful"}},
	{"professional", []string{"professional", "corporate", "business", "formal", "trustworthy"}},
	{"artistic", []string{"artistic", "creative", "expressive", "handcrafted"}},
	{"minimalist", []string{"minimalist", "minimal", "clean", "simple", "uncluttered"}},
}

const pointsPerStyleKeyword = 20

// visualMoodGroups compete on keyword hit count; ties resolve to the
// first-declared group, and zero hits means "balanced".
var visualMoodGroups = []struct {
	Mood  string
	Words []string
}{
	{"energetic", []string{"energetic", "vibrant", "dynamic", "bold", "exciting"}},
	{"calm", []string{"calm", "serene", "peaceful", "soft", "gentle"}},
	{"professional", []string{"professional", "corporate", "business", "formal", "reliable"}},
	{"friendly", []string{"friendly", "warm", "welcoming", "approachable", "fun"}},
	{"luxurious", []string{"luxury", "luxurious", "premium", "elegant", "exclusive"}},
	{"innovative", []string{"innovative", "tech", "futuristic", "cutting-edge", "digital"}},
}

const defaultVisualMood = "balanced"

// AnalyzeTheme derives the brand profile for a theme from its name, tags and
// inspirations. Entirely offline and deterministic: the same theme always
// produces the same analysis.
func AnalyzeTheme(theme models.Theme) models.ThemeAnalysis {
	tokens := themeTokens(theme)

	palette := extractColorPalette(tokens)
	palette.Mood = paletteMood(tokens, palette)

	styleScores := scoreStyles(tokens)
	dominant := dominantStyles(styleScores)
	topStyle := 0
	if len(dominant) > 0 {
		topStyle = styleScores[dominant[0]]
	}

	complexity := complexityScore(theme, tokens)
	strength := brandStrength(theme, tokens)

	styleScore := clamp(int(math.Round(
		0.4*float64(topStyle)+0.3*float64(complexity)+0.3*float64(strength))), 0, 100)

	return models.ThemeAnalysis{
		ColorPalette:    palette,
		StyleScore:      styleScore,
		DominantStyles:  dominant,
		VisualMood:      visualMood(tokens),
		ComplexityScore: complexity,
		BrandStrength:   strength,
	}
}

// themeTokens lowercases and concatenates every text field of the theme into
// a single searchable string.
func themeTokens(theme models.Theme) string {
	parts := make([]string, 0, 2+len(theme.Tags)+len(theme.Inspirations))
	parts = append(parts, theme.Name)
	parts = append(parts, theme.Tags...)
	parts = append(parts, theme.Inspirations...)
	return strings.ToLower(strings.Join(parts, " "))
}

func extractColorPalette(tokens string) models.ColorPalette {
	weights := map[string]int{}
	order := []string{}

	addColor := func(color string, weight int) {
		if _, seen := weights[color]; !seen {
			order = append(order, color)
		}
		weights[color] += weight
	}

	for _, color := range colorKeywords {
		if strings.Contains(tokens, color) {
			addColor(color, explicitColorWeight)
		}
	}
	for _, implied := range moodImpliedColors {
		if strings.Contains(tokens, implied.Keyword) {
			for _, color := range implied.Colors {
				addColor(color, impliedColorWeight)
			}
		}
	}

	var ranked []string
	if len(order) > 0 {
		ranked = append(ranked, order...)
		sort.SliceStable(ranked, func(i, j int) bool {
			return weights[ranked[i]] > weights[ranked[j]]
		})
	} else {
		ranked = fallbackColors(tokens)
	}

	return models.ColorPalette{
		Primary:   sliceRange(ranked, 0, 2),
		Secondary: sliceRange(ranked, 2, 4),
		Accent:    sliceRange(ranked, 4, 7),
	}
}

func fallbackColors(tokens string) []string {
	for _, fb := range fallbackPalettes {
		if strings.Contains(tokens, fb.Keyword) {
			return fb.Colors
		}
	}
	return defaultPalette
}

func paletteMood(tokens string, palette models.ColorPalette) string {
	mood := "neutral"

	colors := append(append([]string{}, palette.Primary...), palette.Secondary...)
	if containsAny(colors, warmColors) {
		mood = "energetic"
	} else if containsAny(colors, coolColors) {
		mood = "calm"
	}

	for _, group := range paletteMoodKeywords {
		for _, word := range group.Words {
			if strings.Contains(tokens, word) {
				mood = group.Mood
				break
			}
		}
	}
	return mood
}

func scoreStyles(tokens string) map[string]int {
	scores := map[string]int{}
	for _, cat := range styleCategories {
		score := 0
		for _, word := range cat.Words {
			if strings.Contains(tokens, word) {
				score += pointsPerStyleKeyword
			}
		}
		scores[cat.Name] = clamp(score, 0, 100)
	}
	return scores
}

// dominantStyles returns at most three non-zero styles ranked by score,
// breaking ties by table declaration order.
func dominantStyles(scores map[string]int) []string {
	var names []string
	for _, cat := range styleCategories {
		if scores[cat.Name] > 0 {
			names = append(names, cat.Name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return scores[names[i]] > scores[names[j]]
	})
	if len(names) > 3 {
		names = names[:3]
	}
	return names
}

func visualMood(tokens string) string {
	best := defaultVisualMood
	bestHits := 0
	for _, group := range visualMoodGroups {
		hits := 0
		for _, word := range group.Words {
			if strings.Contains(tokens, word) {
				hits++
			}
		}
		if hits > bestHits {
			best = group.Mood
			bestHits = hits
		}
	}
	return best
}

func complexityScore(theme models.Theme, tokens string) int {
	score := 50

	score += min(len(theme.Tags)*5, 20)
	score += min(len(theme.Inspirations)*5, 15)

	if len(strings.Fields(theme.Name)) > 2 {
		score += 10
	}
	if distinctStyleKeywords(tokens) > 2 {
		score += 15
	}

	return clamp(score, 0, 100)
}

func distinctStyleKeywords(tokens string) int {
	count := 0
	for _, cat := range styleCategories {
		for _, word := range cat.Words {
			if strings.Contains(tokens, word) {
				count++
			}
		}
	}
	return count
}

func brandStrength(theme models.Theme, tokens string) int {
	score := 20

	tags, tagsDirty := sanitizeTokens(theme.Tags)
	inspirations, inspDirty := sanitizeTokens(theme.Inspirations)

	meaningful := 0
	for _, tag := range tags {
		if len(tag) > 2 && !isNumeric(tag) {
			meaningful++
		}
	}
	if meaningful >= 5 {
		score += 25
	} else if meaningful >= 3 {
		score += 15
	}

	if len(inspirations) >= 3 {
		score += 20
	} else if len(inspirations) >= 1 {
		score += 10
	}

	if len(strings.Fields(theme.Name)) > 1 {
		score += 15
	}

	if containsAnyKeyword(tokens, colorKeywords) {
		score += 10
	}
	if distinctStyleKeywords(tokens) > 0 {
		score += 10
	}

	if tagsDirty || inspDirty {
		score -= 15
	}

	return clamp(score, 0, 100)
}

// sanitizeTokens drops entries carrying injection-style special characters or
// implausible length, and reports whether anything was dropped.
func sanitizeTokens(tokens []string) ([]string, bool) {
	var clean []string
	dirty := false
	for _, token := range tokens {
		if strings.ContainsAny(token, `'";<>`) {
			dirty = true
			continue
		}
		if len(token) > maxTagLength {
			continue
		}
		clean = append(clean, token)
	}
	return clean, dirty
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func containsAny(haystack, needles []string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}

func containsAnyKeyword(tokens string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(tokens, kw) {
			return true
		}
	}
	return false
}

func sliceRange(s []string, from, to int) []string {
	if from >= len(s) {
		return []string{}
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
