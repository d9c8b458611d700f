package dispatch

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"iris-assistant/internal/adapters/llm"
	"iris-assistant/internal/adapters/search"
	stderrors "iris-assistant/internal/common/errors"
	"iris-assistant/internal/common/logger"
	"iris-assistant/internal/common/observability"
	"iris-assistant/internal/models"
)

type fakeLLM struct {
	completeText string
	completeErr  error
	streamErr    error
	streamText   []string
	lastPrompt   string
	lastSystem   string
	lastModel    string
}

func (f *fakeLLM) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	f.lastModel = opts.Model
	f.lastPrompt = messages[len(messages)-1].Content
	return f.completeText, f.completeErr
}

func (f *fakeLLM) Stream(ctx context.Context, messages []llm.Message, opts llm.Options) (<-chan llm.Chunk, error) {
	f.lastSystem = messages[0].Content
	f.lastPrompt = messages[len(messages)-1].Content
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	out := make(chan llm.Chunk, len(f.streamText))
	for _, delta := range f.streamText {
		out <- llm.Chunk{Delta: delta}
	}
	close(out)
	return out, nil
}

func (f *fakeLLM) BuildMessages(system string, history []models.ConversationTurn, prompt string) []llm.Message {
	msgs := []llm.Message{{Role: "system", Content: system}}
	for _, turn := range history {
		msgs = append(msgs, llm.Message{Role: string(turn.Role), Content: turn.Content})
	}
	return append(msgs, llm.Message{Role: "user", Content: prompt})
}

func (f *fakeLLM) QuickModel() string { return "quick-model" }

type fakeSearch struct {
	results   []search.Result
	images    []models.ImageResult
	err       error
	lastQuery string
}

func (f *fakeSearch) Search(ctx context.Context, query string, num int) ([]search.Result, error) {
	f.lastQuery = query
	return f.results, f.err
}

func (f *fakeSearch) SearchImages(ctx context.Context, query string, num int) ([]models.ImageResult, error) {
	f.lastQuery = query
	return f.images, f.err
}

type fakeVideos struct {
	videos    []models.VideoResult
	err       error
	lastQuery string
}

func (f *fakeVideos) Search(ctx context.Context, query string, num int) ([]models.VideoResult, error) {
	f.lastQuery = query
	return f.videos, f.err
}

type fakeWeather struct {
	snap     *models.WeatherSnapshot
	err      error
	lastCity string
	lastUnit models.TemperatureUnit
}

func (f *fakeWeather) Current(ctx context.Context, city string, unit models.TemperatureUnit) (*models.WeatherSnapshot, error) {
	f.lastCity = city
	f.lastUnit = unit
	return f.snap, f.err
}

type fakeFiles struct{ lastQuery string }

func (f *fakeFiles) Open(query string) string {
	f.lastQuery = query
	return "📂 Opened file: **" + query + "**"
}

type fixture struct {
	dispatcher *Dispatcher
	llm        *fakeLLM
	search     *fakeSearch
	videos     *fakeVideos
	weather    *fakeWeather
	files      *fakeFiles
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		llm:     &fakeLLM{streamText: []string{"streamed ", "reply"}},
		search:  &fakeSearch{},
		videos:  &fakeVideos{},
		weather: &fakeWeather{},
		files:   &fakeFiles{},
	}
	f.dispatcher = New(
		Config{FallbackCity: "Mumbai", MaxResults: 5, MaxImages: 6, MaxVideos: 4},
		f.llm, f.search, f.videos, f.weather, f.files,
		&observability.Observability{}, logger.NewTestLogger(t),
	)
	return f
}

func drain(t *testing.T, resp Response) string {
	t.Helper()
	if resp.Stream == nil {
		return resp.Text
	}
	var b strings.Builder
	for chunk := range resp.Stream {
		assert.NoError(t, chunk.Err)
		b.WriteString(chunk.Delta)
	}
	return b.String()
}

func TestHandleYouTubeEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.videos.videos = []models.VideoResult{{ID: "abc", Title: "Tum Hi Ho", URL: "https://www.youtube.com/watch?v=abc"}}

	resp := f.dispatcher.Handle(context.Background(), Request{UserID: "u", Text: "play Arijit Singh songs"})

	assert.Equal(t, models.IntentYouTube, resp.Intent)
	assert.Equal(t, "Arijit Singh songs", f.videos.lastQuery)
	assert.Contains(t, resp.Text, "YouTube results for: Arijit Singh songs")
	assert.Equal(t, models.MediaVideos, resp.Media.Kind)
	assert.Len(t, resp.Media.Videos, 1)
}

func TestHandleYouTubeErrorLinksManualSearch(t *testing.T) {
	f := newFixture(t)
	f.videos.err = stderrors.NewMissingCredentialError("youtube")

	resp := f.dispatcher.Handle(context.Background(), Request{Text: "play some lofi music"})

	assert.Nil(t, resp.Media)
	assert.Contains(t, resp.Text, "https://youtube.com/results?search_query=lofi")
}

func TestHandleWeather(t *testing.T) {
	f := newFixture(t)
	f.weather.snap = &models.WeatherSnapshot{
		City: "Pune", Country: "India", Temp: "29°C", FeelsLike: "31°C",
		Desc: "Moderate rain", Humidity: 80, Wind: "10 km/h SW",
		Visibility: "8 km", Pressure: "1002 hPa", UVIndex: "6",
		High: "30°C", Low: "24°C", Sunrise: "06:15", Sunset: "18:50",
	}

	resp := f.dispatcher.Handle(context.Background(), Request{Text: "weather in Pune"})

	assert.Equal(t, models.IntentWeather, resp.Intent)
	assert.Equal(t, "Pune", f.weather.lastCity)
	assert.Equal(t, models.UnitMetric, f.weather.lastUnit)
	assert.Contains(t, resp.Text, "🌧 **Weather in Pune, India**")
	assert.Contains(t, resp.Text, "**29°C** — Moderate rain")
	assert.Equal(t, models.MediaWeather, resp.Media.Kind)
}

func TestHandleWeatherFahrenheitAndFallbackCity(t *testing.T) {
	f := newFixture(t)
	f.weather.snap = &models.WeatherSnapshot{City: "Mumbai", Desc: "Clear sky"}

	f.dispatcher.Handle(context.Background(), Request{Text: "how hot outside in fahrenheit"})

	assert.Equal(t, "Mumbai", f.weather.lastCity)
	assert.Equal(t, models.UnitImperial, f.weather.lastUnit)
}

func TestHandleWeatherError(t *testing.T) {
	f := newFixture(t)
	f.weather.err = stderrors.NewNotFoundError("City not found: Atlantis")

	resp := f.dispatcher.Handle(context.Background(), Request{Text: "weather in Atlantis"})

	assert.Nil(t, resp.Media)
	assert.Contains(t, resp.Text, "Couldn't get weather for **Atlantis**")
	assert.Contains(t, resp.Text, "City not found: Atlantis")
}

func TestHandleImage(t *testing.T) {
	f := newFixture(t)
	f.search.images = []models.ImageResult{{Title: "Cat", Link: "https://x/c.jpg", Thumbnail: "https://x/t.jpg"}}

	resp := f.dispatcher.Handle(context.Background(), Request{Text: "show me pictures of cats"})

	assert.Equal(t, models.IntentImage, resp.Intent)
	assert.Equal(t, "of cats", f.search.lastQuery)
	assert.Contains(t, resp.Text, "Here are images for")
	assert.Equal(t, models.MediaImages, resp.Media.Kind)
}

func TestHandleSearchComposesSummaryAndLinks(t *testing.T) {
	f := newFixture(t)
	f.search.results = []search.Result{
		{Title: "A", Link: "https://a", Snippet: "first snippet"},
		{Title: "B", Link: "https://b", Snippet: "second snippet"},
	}
	f.llm.completeText = "A two sentence summary."

	resp := f.dispatcher.Handle(context.Background(), Request{Text: "search quantum computing"})

	assert.Equal(t, models.IntentSearch, resp.Intent)
	assert.Nil(t, resp.Stream)
	assert.Contains(t, resp.Text, "🔍 **quantum computing**")
	assert.Contains(t, resp.Text, "A two sentence summary.")
	assert.Contains(t, resp.Text, "**[A](https://a)**")
	// summarization goes through the quick model over the snippets
	assert.Equal(t, "quick-model", f.llm.lastModel)
	assert.Contains(t, f.llm.lastPrompt, "first snippet")
}

func TestHandleSearchFallsBackToModelOnError(t *testing.T) {
	f := newFixture(t)
	f.search.err = stderrors.NewMissingCredentialError("search")

	resp := f.dispatcher.Handle(context.Background(), Request{Text: "search quantum computing"})

	assert.NotNil(t, resp.Stream)
	assert.Equal(t, "streamed reply", drain(t, resp))
	assert.Equal(t, "search quantum computing", f.llm.lastPrompt)
}

func TestHandleCalculateLocally(t *testing.T) {
	f := newFixture(t)

	resp := f.dispatcher.Handle(context.Background(), Request{Text: "calculate 2^10 + sqrt(144)"})

	assert.Equal(t, models.IntentCalculate, resp.Intent)
	assert.Nil(t, resp.Stream)
	assert.Contains(t, resp.Text, "🧮 **Result:** `1036`")
	assert.Contains(t, resp.Text, "2^10 + sqrt(144)")
}

func TestHandleCalculateFallsBackToModel(t *testing.T) {
	f := newFixture(t)

	resp := f.dispatcher.Handle(context.Background(), Request{Text: "calculate the derivative of x squared"})

	assert.NotNil(t, resp.Stream)
	assert.Equal(t, systemMath, f.llm.lastSystem)
	assert.Contains(t, f.llm.lastPrompt, "Solve step by step:")
}

func TestHandleDictionaryIgnoresHistory(t *testing.T) {
	f := newFixture(t)
	history := []models.ConversationTurn{{Role: models.RoleUser, Content: "earlier turn"}}

	resp := f.dispatcher.Handle(context.Background(), Request{Text: "define ephemeral", History: history})

	assert.Equal(t, models.IntentDictionary, resp.Intent)
	assert.NotNil(t, resp.Stream)
	assert.Equal(t, systemDictionary, f.llm.lastSystem)
	assert.Contains(t, f.llm.lastPrompt, "Define 'ephemeral'")
}

func TestHandleOpen(t *testing.T) {
	f := newFixture(t)

	resp := f.dispatcher.Handle(context.Background(), Request{Text: "open report.pdf"})

	assert.Equal(t, models.IntentOpen, resp.Intent)
	assert.Equal(t, "report.pdf", f.files.lastQuery)
	assert.Contains(t, resp.Text, "report.pdf")
}

func TestHandleChatStreams(t *testing.T) {
	f := newFixture(t)

	resp := f.dispatcher.Handle(context.Background(), Request{Text: "tell me a joke"})

	assert.Equal(t, models.IntentChat, resp.Intent)
	assert.Equal(t, "streamed reply", drain(t, resp))
	assert.Equal(t, systemDefault, f.llm.lastSystem)
}

func TestHandleChatStreamErrorBecomesText(t *testing.T) {
	f := newFixture(t)
	f.llm.streamErr = stderrors.NewMissingCredentialError("language model")

	resp := f.dispatcher.Handle(context.Background(), Request{Text: "tell me a joke"})

	assert.Nil(t, resp.Stream)
	assert.Contains(t, resp.Text, "⚠️")
	assert.Contains(t, resp.Text, "Missing credential")
}
