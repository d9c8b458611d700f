// Package dispatch routes a classified user turn to its collaborator and
// composes the displayable response. Every path returns something renderable;
// adapter failures become user text, never faults.
package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"iris-assistant/internal/adapters/llm"
	"iris-assistant/internal/adapters/search"
	stderrors "iris-assistant/internal/common/errors"
	"iris-assistant/internal/common/logger"
	"iris-assistant/internal/common/metrics"
	"iris-assistant/internal/common/observability"
	"iris-assistant/internal/intent"
	"iris-assistant/internal/mathexpr"
	"iris-assistant/internal/models"
)

// System prompts per intent. The default persona handles chat and anything
// that falls through to the model.
const (
	systemDefault = "You are IRIS, a smart AI assistant. Be helpful, concise, and friendly. " +
		"For weather, search, YouTube, images, dictionary, health, math, and translation " +
		"requests — handle them clearly and directly."
	systemDictionary = "You are a precise dictionary. Use clear formatting."
	systemMath       = "You are a precise math solver. Show all steps."
	systemTranslate  = "You are a professional multilingual translator."
	systemHealth     = "You are a health information assistant. Give accurate general info. " +
		"Always recommend consulting a doctor. Be concise and structured."
	systemSummary = "You are a helpful, concise assistant."
)

type LanguageModel interface {
	Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error)
	Stream(ctx context.Context, messages []llm.Message, opts llm.Options) (<-chan llm.Chunk, error)
	BuildMessages(system string, history []models.ConversationTurn, prompt string) []llm.Message
	QuickModel() string
}

type WebSearcher interface {
	Search(ctx context.Context, query string, num int) ([]search.Result, error)
	SearchImages(ctx context.Context, query string, num int) ([]models.ImageResult, error)
}

type VideoSearcher interface {
	Search(ctx context.Context, query string, num int) ([]models.VideoResult, error)
}

type WeatherProvider interface {
	Current(ctx context.Context, city string, unit models.TemperatureUnit) (*models.WeatherSnapshot, error)
}

type FileOpener interface {
	Open(query string) string
}

// Request is one user turn plus the context needed to answer it.
type Request struct {
	UserID  string
	Text    string
	History []models.ConversationTurn
}

// Response carries either complete text (adapter-composed paths) or a live
// stream (chat and model-fallback paths). Media, when present, is the
// structured payload for the turn.
type Response struct {
	Intent models.Intent
	Text   string
	Media  *models.MediaPayload
	Stream <-chan llm.Chunk
}

type Config struct {
	FallbackCity string
	MaxResults   int
	MaxImages    int
	MaxVideos    int
}

type Dispatcher struct {
	config  Config
	llm     LanguageModel
	search  WebSearcher
	videos  VideoSearcher
	weather WeatherProvider
	files   FileOpener
	obs     *observability.Observability
	logger  logger.Logger
}

func New(config Config, lm LanguageModel, ws WebSearcher, vs VideoSearcher,
	wp WeatherProvider, fo FileOpener, obs *observability.Observability, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		config:  config,
		llm:     lm,
		search:  ws,
		videos:  vs,
		weather: wp,
		files:   fo,
		obs:     obs,
		logger:  log.With(map[string]interface{}{"component": "dispatcher"}),
	}
}

// Handle classifies the turn and routes it. The returned response is always
// displayable; errors surface as user text inside it.
func (d *Dispatcher) Handle(ctx context.Context, req Request) Response {
	start := time.Now()
	in := intent.Classify(req.Text)
	metrics.DispatchRequests.WithLabelValues(string(in)).Inc()

	d.logger.Info("dispatching turn", map[string]interface{}{
		"user":   req.UserID,
		"intent": string(in),
	})

	var resp Response
	switch in {
	case models.IntentWeather:
		resp = d.handleWeather(ctx, req)
	case models.IntentImage:
		resp = d.handleImage(ctx, req)
	case models.IntentYouTube:
		resp = d.handleYouTube(ctx, req)
	case models.IntentSearch:
		resp = d.handleSearch(ctx, req)
	case models.IntentDictionary:
		resp = d.handleDictionary(ctx, req)
	case models.IntentCalculate:
		resp = d.handleCalculate(ctx, req)
	case models.IntentTranslate:
		resp = d.streamed(ctx, models.IntentTranslate, systemTranslate, req.History,
			req.Text+"\n\nGive only the translation. If non-Latin script, add romanized pronunciation below.")
	case models.IntentHealth:
		resp = d.streamed(ctx, models.IntentHealth, systemHealth, req.History, req.Text)
	case models.IntentOpen:
		resp = Response{
			Intent: models.IntentOpen,
			Text:   d.files.Open(intent.ExtractQuery(req.Text, intent.OpenStopWords)),
		}
	default:
		resp = d.streamed(ctx, models.IntentChat, systemDefault, req.History, req.Text)
	}

	elapsed := time.Since(start)
	metrics.DispatchDuration.WithLabelValues(string(in)).Observe(elapsed.Seconds())
	d.obs.RecordDispatch(ctx, string(in), "ok")
	d.obs.RecordDispatchDuration(ctx, elapsed, string(in))
	return resp
}

func (d *Dispatcher) handleWeather(ctx context.Context, req Request) Response {
	city := intent.ExtractCity(req.Text, d.config.FallbackCity)
	unit := intent.ExtractUnit(req.Text)

	snap, err := d.weather.Current(ctx, city, unit)
	if err != nil {
		d.recordAdapterError("weather", err)
		return Response{
			Intent: models.IntentWeather,
			Text:   fmt.Sprintf("Couldn't get weather for **%s**: %s", city, stderrors.UserMessage(err)),
		}
	}

	text := fmt.Sprintf("%s **Weather in %s, %s**\n\n"+
		"**%s** — %s\n"+
		"Feels like %s · High %s / Low %s\n\n"+
		"💧 Humidity %v%% · 💨 Wind %s\n"+
		"👁 Visibility %s · 📊 %s\n"+
		"☀️ UV %s · 🌅 %s / 🌇 %s",
		weatherEmoji(snap.Desc), snap.City, snap.Country,
		snap.Temp, snap.Desc,
		snap.FeelsLike, snap.High, snap.Low,
		snap.Humidity, snap.Wind,
		snap.Visibility, snap.Pressure,
		snap.UVIndex, snap.Sunrise, snap.Sunset)

	return Response{
		Intent: models.IntentWeather,
		Text:   text,
		Media:  &models.MediaPayload{Kind: models.MediaWeather, Query: city, Weather: snap},
	}
}

func weatherEmoji(desc string) string {
	d := strings.ToLower(desc)
	switch {
	case strings.Contains(d, "thunder"):
		return "⛈"
	case strings.Contains(d, "rain"):
		return "🌧"
	case strings.Contains(d, "drizzle"):
		return "🌦"
	case strings.Contains(d, "snow"):
		return "❄️"
	case strings.Contains(d, "fog"), strings.Contains(d, "mist"):
		return "🌫"
	case strings.Contains(d, "cloud"):
		return "🌤"
	}
	return "☀️"
}

func (d *Dispatcher) handleImage(ctx context.Context, req Request) Response {
	q := intent.ExtractQuery(req.Text, intent.ImageStopWords)

	images, err := d.search.SearchImages(ctx, q, d.config.MaxImages)
	if err != nil {
		d.recordAdapterError("search", err)
		return Response{
			Intent: models.IntentImage,
			Text:   "Image search error: " + stderrors.UserMessage(err),
		}
	}

	return Response{
		Intent: models.IntentImage,
		Text:   fmt.Sprintf("🖼 Here are images for **%s**:", q),
		Media:  &models.MediaPayload{Kind: models.MediaImages, Query: q, Images: images},
	}
}

func (d *Dispatcher) handleYouTube(ctx context.Context, req Request) Response {
	q := intent.ExtractQuery(req.Text, intent.YouTubeStopWords)

	videos, err := d.videos.Search(ctx, q, d.config.MaxVideos)
	if err != nil {
		d.recordAdapterError("youtube", err)
		manual := "https://youtube.com/results?search_query=" + url.QueryEscape(q)
		return Response{
			Intent: models.IntentYouTube,
			Text:   fmt.Sprintf("▶️ YouTube search for **%s**\n\n[Open YouTube →](%s)", q, manual),
		}
	}

	return Response{
		Intent: models.IntentYouTube,
		Text:   fmt.Sprintf("▶️ **YouTube results for: %s**", q),
		Media:  &models.MediaPayload{Kind: models.MediaVideos, Query: q, Videos: videos},
	}
}

func (d *Dispatcher) handleSearch(ctx context.Context, req Request) Response {
	q := intent.ExtractQuery(req.Text, intent.SearchStopWords)

	results, err := d.search.Search(ctx, q, d.config.MaxResults)
	if err != nil || len(results) == 0 {
		if err != nil {
			d.recordAdapterError("search", err)
		}
		return d.streamed(ctx, models.IntentSearch, systemDefault, req.History, req.Text)
	}

	top := results
	if len(top) > 4 {
		top = top[:4]
	}
	var snippets []string
	for _, r := range top {
		snippets = append(snippets, r.Snippet)
	}

	summaryPrompt := fmt.Sprintf("Summarize in 2 concise sentences about '%s':\n%s",
		q, strings.Join(snippets, "\n"))
	summary, err := d.llm.Complete(ctx,
		d.llm.BuildMessages(systemSummary, nil, summaryPrompt),
		llm.Options{Model: d.llm.QuickModel()})
	if err != nil {
		d.recordAdapterError("llm", err)
		return d.streamed(ctx, models.IntentSearch, systemDefault, req.History, req.Text)
	}

	var links []string
	for _, r := range results {
		links = append(links, fmt.Sprintf("**[%s](%s)**\n%s", r.Title, r.Link, r.Snippet))
	}

	return Response{
		Intent: models.IntentSearch,
		Text: fmt.Sprintf("🔍 **%s**\n\n%s\n\n---\n%s",
			q, summary, strings.Join(links, "\n\n")),
	}
}

func (d *Dispatcher) handleDictionary(ctx context.Context, req Request) Response {
	word := intent.ExtractWord(req.Text)
	prompt := fmt.Sprintf(
		"Define '%s': 1) phonetics, 2) part of speech, 3) definition, 4) brief etymology, 5) 2 examples.",
		word)
	// dictionary lookups ignore history
	return d.streamed(ctx, models.IntentDictionary, systemDictionary, nil, prompt)
}

func (d *Dispatcher) handleCalculate(ctx context.Context, req Request) Response {
	if expr, ok := intent.ExtractMathExpression(req.Text); ok {
		if val, err := mathexpr.Eval(expr); err == nil {
			return Response{
				Intent: models.IntentCalculate,
				Text: fmt.Sprintf("🧮 **Result:** `%s`\n\n*%s*",
					strconv.FormatFloat(val, 'f', -1, 64), expr),
			}
		}
	}
	// anything the evaluator rejects goes to the model, without history
	return d.streamed(ctx, models.IntentCalculate, systemMath, nil, "Solve step by step: "+req.Text)
}

func (d *Dispatcher) streamed(ctx context.Context, in models.Intent, system string,
	history []models.ConversationTurn, prompt string) Response {
	msgs := d.llm.BuildMessages(system, history, prompt)
	chunks, err := d.llm.Stream(ctx, msgs, llm.Options{})
	if err != nil {
		d.recordAdapterError("llm", err)
		return Response{Intent: in, Text: "⚠️ " + stderrors.UserMessage(err)}
	}
	return Response{Intent: in, Stream: chunks}
}

func (d *Dispatcher) recordAdapterError(adapter string, err error) {
	code := "UNKNOWN"
	if stdErr := stderrors.AsStandard(err); stdErr != nil {
		code = string(stdErr.Code)
	}
	metrics.AdapterErrors.WithLabelValues(adapter, code).Inc()
	d.logger.Warn("adapter failure", map[string]interface{}{
		"adapter": adapter,
		"code":    code,
		"error":   err.Error(),
	})
}
