package intent

import (
	"testing"

	"iris-assistant/internal/models"

	"github.com/stretchr/testify/assert"
)

const fallbackCity = "Mumbai"

func TestExtractCity(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"What's the weather in Tokyo?", "Tokyo"},
		{"weather in New York today", "New York"},
		{"weather at Paris", "Paris"},
		{"weather for London.", "London"},
		{"Delhi weather", "Delhi"},
		{"temperature in Berlin?", "Berlin"},
		{"forecast for Oslo?", "Oslo"},
		{"just chatting", fallbackCity},
		{"weather", fallbackCity},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractCity(tc.text, fallbackCity), "text: %q", tc.text)
	}
}

func TestExtractCityNeverFails(t *testing.T) {
	for _, in := range []string{"", "???", "weather in ", "weather in X"} {
		got := ExtractCity(in, fallbackCity)
		assert.NotEmpty(t, got, "input %q", in)
	}
}

func TestExtractUnit(t *testing.T) {
	assert.Equal(t, models.UnitImperial, ExtractUnit("weather in Miami in Fahrenheit"))
	assert.Equal(t, models.UnitImperial, ExtractUnit("is it 90°F outside"))
	assert.Equal(t, models.UnitMetric, ExtractUnit("weather in Miami"))
	assert.Equal(t, models.UnitMetric, ExtractUnit(""))
}

func TestExtractQueryStripsStopWords(t *testing.T) {
	got := ExtractQuery("search for the latest news", []string{"search", "for", "the"})
	assert.Equal(t, "latest news", got)
}

func TestExtractQueryYouTube(t *testing.T) {
	got := ExtractQuery("play Arijit Singh songs", YouTubeStopWords)
	assert.Equal(t, "Arijit Singh songs", got)
}

func TestExtractQueryImage(t *testing.T) {
	got := ExtractQuery("show me pictures of cats", ImageStopWords)
	assert.Equal(t, "of cats", got)
}

func TestExtractQueryWholeWordsOnly(t *testing.T) {
	// "a" must not be carved out of "Arijit"; "play" must not touch "playground".
	got := ExtractQuery("playground", []string{"play"})
	assert.Equal(t, "playground", got)
}

func TestExtractQueryFallsBackToOriginalText(t *testing.T) {
	got := ExtractQuery("play music", []string{"play", "music"})
	assert.Equal(t, "play music", got)
}

func TestExtractQueryCaseInsensitive(t *testing.T) {
	got := ExtractQuery("SEARCH for golang", []string{"search", "for"})
	assert.Equal(t, "golang", got)
}

func TestExtractWord(t *testing.T) {
	assert.Equal(t, "serendipity", ExtractWord("define serendipity"))
	assert.Equal(t, "ephemeral", ExtractWord(`what does "ephemeral" mean`))
	assert.Equal(t, "petrichor", ExtractWord("meaning of petrichor please"))
	// No trigger phrase: generic stripping applies.
	assert.Equal(t, "gravity", ExtractWord("definition gravity"))
}

func TestExtractMathExpression(t *testing.T) {
	expr, ok := ExtractMathExpression("calculate 2^10 + sqrt(144)")
	assert.True(t, ok)
	assert.Equal(t, "2^10 + sqrt(144)", expr)

	expr, ok = ExtractMathExpression("what is 15 * 4?")
	assert.True(t, ok)
	assert.Equal(t, "15 * 4", expr)

	_, ok = ExtractMathExpression("solve my homework")
	assert.False(t, ok)

	_, ok = ExtractMathExpression("")
	assert.False(t, ok)
}
