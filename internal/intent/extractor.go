package intent

import (
	"regexp"
	"strings"

	"iris-assistant/internal/models"
)

// Stop-word lists removed from the raw text before an argument is handed to
// an adapter. Multi-word entries are matched as whole phrases.
var (
	ImageStopWords = []string{
		"image", "images", "photo", "photos", "picture", "pictures",
		"show me", "pic of", "pics of", "find", "search", "get",
	}
	YouTubeStopWords = []string{
		"play", "youtube", "video", "videos", "music", "song",
		"watch", "stream", "yt", "me", "some", "a",
	}
	SearchStopWords = []string{
		"search", "google", "find", "look up", "tell me about",
		"what is", "who is", "news", "latest",
	}
	DictionaryStopWords = []string{"define", "definition", "meaning"}
	OpenStopWords       = []string{"open", "launch", "start", "run", "file", "this", "the"}
)

// City extraction templates, tried in order. Each allows 1-30 letters/spaces
// for the city, terminated by punctuation, end of string, or trailing words
// like "today"/"now".
var cityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)weather\s+(?:in|at|for|of)\s+([A-Za-z][A-Za-z\s]{1,30}?)(?:\?|$|\.|\s+today|\s+now)`),
	regexp.MustCompile(`(?i)([A-Za-z][A-Za-z\s]{1,20}?)\s+weather`),
	regexp.MustCompile(`(?i)temperature\s+(?:in|at|of)\s+([A-Za-z][A-Za-z\s]{1,30}?)(?:\?|$|\.)`),
	regexp.MustCompile(`(?i)forecast\s+(?:for|in)\s+([A-Za-z][A-Za-z\s]{1,30}?)(?:\?|$|\.)`),
}

var (
	imperialRe   = regexp.MustCompile(`(?i)\bfahrenheit\b|\b°f\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	wordRe       = regexp.MustCompile(`(?i)(?:define|definition|meaning of|what does)\s+["']?(\w+)`)
	// An expression run is digits, operators, parentheses, dot and spaces,
	// plus the three names the evaluator resolves. Other letters break the
	// run, so "calculate 2+2" yields "2+2".
	mathRunRe  = regexp.MustCompile(`(?i)(?:[0-9.+\-*/^()\s]|\b(?:sqrt|pi|e)\b)+`)
	mathNameRe = regexp.MustCompile(`(?i)\b(?:sqrt|pi|e)\b`)
)

// ExtractCity pulls a city name out of a weather request. Total: when no
// template matches, fallback is returned.
func ExtractCity(text, fallback string) string {
	for _, re := range cityPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		city := strings.TrimRight(strings.TrimSpace(m[1]), "?.,")
		if len(city) > 1 {
			return city
		}
	}
	return fallback
}

// ExtractUnit detects an explicit Fahrenheit request; everything else is
// metric.
func ExtractUnit(text string) models.TemperatureUnit {
	if imperialRe.MatchString(text) {
		return models.UnitImperial
	}
	return models.UnitMetric
}

// ExtractQuery strips each stop word as a whole-word, case-insensitive match,
// collapses whitespace, and trims surrounding punctuation. Total: a result
// that strips to nothing falls back to the original text.
func ExtractQuery(text string, stopWords []string) string {
	q := text
	for _, w := range stopWords {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
		q = re.ReplaceAllString(q, "")
	}
	q = whitespaceRe.ReplaceAllString(q, " ")
	q = strings.Trim(q, " ,?.")
	if q == "" {
		return text
	}
	return q
}

// ExtractWord pulls the term of a dictionary request: the token following
// "define"/"definition"/"meaning of"/"what does", quoted or bare. Falls back
// to generic query extraction.
func ExtractWord(text string) string {
	if m := wordRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ExtractQuery(text, DictionaryStopWords)
}

// ExtractMathExpression returns the longest contiguous run of expression
// characters (digits, operators, parentheses, dot, whitespace, and the names
// sqrt/pi/e) and whether a plausible expression was found. Evaluation is the
// caller's concern; a false return means "ask the model instead".
func ExtractMathExpression(text string) (string, bool) {
	best := ""
	for _, run := range mathRunRe.FindAllString(text, -1) {
		if len(run) > len(best) {
			best = run
		}
	}
	best = strings.TrimSpace(best)
	if best == "" {
		return "", false
	}
	if !strings.ContainsAny(best, "0123456789") && !mathNameRe.MatchString(best) {
		return "", false
	}
	return best, true
}
