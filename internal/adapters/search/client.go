// Package search wraps Google Custom Search for web and image queries.
package search

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	stderrors "iris-assistant/internal/common/errors"
	"iris-assistant/internal/common/httpclient"
	"iris-assistant/internal/common/logger"
	"iris-assistant/internal/models"
)

const serviceName = "search"

// Result is one web-search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type Client struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.With(map[string]interface{}{
			"adapter": "search",
		}),
	}
}

// Configured reports whether both the API key and the engine ID are present.
func (c *Client) Configured() bool {
	return c.config.APIKey != "" && c.config.EngineID != ""
}

// Search runs a web search and returns up to num results. An empty result set
// is an error carrying the upstream message, so the dispatcher can fall back
// to the model.
func (c *Client) Search(ctx context.Context, query string, num int) ([]Result, error) {
	if !c.Configured() {
		return nil, stderrors.NewMissingCredentialError(serviceName)
	}
	if num <= 0 {
		num = c.config.MaxResults
	}

	params := c.baseParams(query)
	params.Set("num", strconv.Itoa(num))

	var body searchResponse
	if err := c.get(ctx, params, &body); err != nil {
		return nil, err
	}
	if len(body.Items) == 0 {
		return nil, stderrors.NewUpstreamAPIError(serviceName, body.errorMessage("No results found"))
	}

	results := make([]Result, 0, len(body.Items))
	for _, item := range body.Items {
		results = append(results, Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}

// SearchImages runs an image search and returns up to num hits. The thumbnail
// falls back to the full image link when the API omits one.
func (c *Client) SearchImages(ctx context.Context, query string, num int) ([]models.ImageResult, error) {
	if !c.Configured() {
		return nil, stderrors.NewMissingCredentialError(serviceName)
	}
	if num <= 0 {
		num = c.config.MaxImages
	}

	params := c.baseParams(query)
	params.Set("searchType", "image")
	params.Set("num", strconv.Itoa(num))

	var body searchResponse
	if err := c.get(ctx, params, &body); err != nil {
		return nil, err
	}
	if len(body.Items) == 0 {
		return nil, stderrors.NewUpstreamAPIError(serviceName, body.errorMessage("No images found"))
	}

	images := make([]models.ImageResult, 0, len(body.Items))
	for _, item := range body.Items {
		thumbnail := item.Image.ThumbnailLink
		if thumbnail == "" {
			thumbnail = item.Link
		}
		images = append(images, models.ImageResult{
			Title:     item.Title,
			Link:      item.Link,
			Thumbnail: thumbnail,
		})
	}
	return images, nil
}

func (c *Client) baseParams(query string) url.Values {
	params := url.Values{}
	params.Set("key", c.config.APIKey)
	params.Set("cx", c.config.EngineID)
	params.Set("q", query)
	return params
}

func (c *Client) get(ctx context.Context, params url.Values, out *searchResponse) error {
	resp, err := c.client.GetJSON(ctx, c.config.BaseURL, params)
	if err != nil {
		if httpclient.IsTimeout(ctx, err) {
			return stderrors.NewTimeoutError(serviceName)
		}
		return stderrors.NewNetworkError(serviceName, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("unreadable search response", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return stderrors.NewUpstreamAPIError(serviceName, "Search returned an unreadable response")
	}
	return nil
}

type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Image   struct {
			ThumbnailLink string `json:"thumbnailLink"`
		} `json:"image"`
	} `json:"items"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// errorMessage prefers the upstream error message over the given default.
func (r *searchResponse) errorMessage(fallback string) string {
	if r.Error != nil && r.Error.Message != "" {
		return r.Error.Message
	}
	return fallback
}
