// Package youtube wraps the YouTube Data API v3 search endpoint.
package youtube

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	stderrors "iris-assistant/internal/common/errors"
	"iris-assistant/internal/common/httpclient"
	"iris-assistant/internal/common/logger"
	"iris-assistant/internal/models"
)

const serviceName = "youtube"

// Video and playlist hits map to different watch URLs.
const (
	watchURL    = "https://www.youtube.com/watch?v="
	playlistURL = "https://www.youtube.com/playlist?list="
)

// descriptionLimit caps snippet descriptions for rendering.
const descriptionLimit = 110

type Config struct {
	BaseURL    string
	APIKey     string
	MaxResults int
	Timeout    time.Duration
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
			"adapter": "youtube",
		}),
	}
}

func (c *Client) Configured() bool { return c.config.APIKey != "" }

// Search returns up to num video or playlist hits for the query. Results keep
// the API's relevance order.
func (c *Client) Search(ctx context.Context, query string, num int) ([]models.VideoResult, error) {
	if !c.Configured() {
		return nil, stderrors.NewMissingCredentialError(serviceName)
	}
	if num <= 0 {
		num = c.config.MaxResults
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video,playlist")
	params.Set("maxResults", strconv.Itoa(num))
	params.Set("key", c.config.APIKey)

	resp, err := c.client.GetJSON(ctx, c.config.BaseURL, params)
	if err != nil {
		if httpclient.IsTimeout(ctx, err) {
			return nil, stderrors.NewTimeoutError(serviceName)
		}
		return nil, stderrors.NewNetworkError(serviceName, err)
	}
	defer resp.Body.Close()

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, stderrors.NewUpstreamAPIError(serviceName, "YouTube returned an unreadable response")
	}
	if len(body.Items) == 0 {
		msg := "No videos found"
		if body.Error != nil && body.Error.Message != "" {
			msg = body.Error.Message
		}
		return nil, stderrors.NewUpstreamAPIError(serviceName, msg)
	}

	videos := make([]models.VideoResult, 0, len(body.Items))
	for _, item := range body.Items {
		video := models.VideoResult{
			Title:       item.Snippet.Title,
			Channel:     item.Snippet.ChannelTitle,
			Description: truncate(item.Snippet.Description, descriptionLimit),
			Thumbnail:   item.Snippet.Thumbnails.Medium.URL,
		}
		switch {
		case item.ID.VideoID != "":
			video.ID = item.ID.VideoID
			video.URL = watchURL + item.ID.VideoID
		case item.ID.PlaylistID != "":
			video.ID = item.ID.PlaylistID
			video.URL = playlistURL + item.ID.PlaylistID
		default:
			continue
		}
		videos = append(videos, video)
	}
	if len(videos) == 0 {
		return nil, stderrors.NewUpstreamAPIError(serviceName, "No videos found")
	}
	return videos, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID    string `json:"videoId"`
			PlaylistID string `json:"playlistId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Description  string `json:"description"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}
