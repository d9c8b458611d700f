// Package intent implements the rule-based routing layer: an ordered pattern
// table mapping free text to one of nine intents, plus the per-intent
// argument extractors.
package intent

import (
	"regexp"

	"iris-assistant/internal/models"
)

// Pattern is one (intent, matcher) pair of the routing table.
type Pattern struct {
	Intent models.Intent
	re     *regexp.Regexp
}

// Expression returns the pattern's regular expression source.
func (p Pattern) Expression() string { return p.re.String() }

// patternTable is evaluated in order; the first match wins. The sequence
// encodes precedence and must be preserved: "image" is checked before
// "search" because phrases like "show me images of X" also contain generic
// search triggers such as "find".
var patternTable = []Pattern{
	{models.IntentImage, regexp.MustCompile(`(?i)\b(image|images|photo|photos|picture|pictures|show me|pic of|pics of|find image|search image)\b`)},
	{models.IntentYouTube, regexp.MustCompile(`(?i)\b(play|youtube|video|videos|music|song|watch|stream|yt)\b`)},
	{models.IntentWeather, regexp.MustCompile(`(?i)\b(weather|temperature|temp\b|forecast|rain|humid|climate|hot outside|cold outside|sunny|cloudy|monsoon|snow)\b`)},
	{models.IntentSearch, regexp.MustCompile(`(?i)\b(search|google|find|look up|lookup|who is|what is|news|latest|tell me about)\b`)},
	{models.IntentDictionary, regexp.MustCompile(`(?i)\b(define|definition|meaning of|what does .+ mean|synonym|antonym)\b`)},
	{models.IntentCalculate, regexp.MustCompile(`(?i)\b(calculate|compute|solve|math|\d+\s*[\+\-\*/\^]\s*\d+|sqrt|percent|interest|equation)\b`)},
	{models.IntentTranslate, regexp.MustCompile(`(?i)\b(translate|translation|say .+ in |how do you say|in (hindi|spanish|french|german|japanese|arabic|chinese|urdu|tamil|telugu|marathi|bengali|gujarati|punjabi|kannada|malayalam|russian|korean|italian|dutch|turkish|portuguese))\b`)},
	{models.IntentHealth, regexp.MustCompile(`(?i)\b(symptom|symptoms|medicine|drug|disease|illness|ill|sick|fever|pain|cure|remedy|tablet|dose|health tip|first aid|nutrition|diet)\b`)},
	{models.IntentOpen, regexp.MustCompile(`(?i)\b(open|launch|start|run)\b`)},
}

// Patterns exposes the routing table for order-locking tests.
func Patterns() []Pattern {
	out := make([]Pattern, len(patternTable))
	copy(out, patternTable)
	return out
}

// Classify assigns text to exactly one intent. Deterministic, case
// insensitive, and total: unmatched input (including the empty string) falls
// back to chat.
func Classify(text string) models.Intent {
	for _, p := range patternTable {
		if p.re.MatchString(text) {
			return p.Intent
		}
	}
	return models.IntentChat
}
