package models

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConversationTurn is one entry in a user's append-only conversation history.
// An assistant turn may carry the media payload produced when it was
// generated, so the caller can re-render without re-querying the collaborator.
type ConversationTurn struct {
	Role    Role          `json:"role"`
	Content string        `json:"content"`
	Media   *MediaPayload `json:"media,omitempty"`
}

// MediaKind tags the variant held by a MediaPayload.
type MediaKind string

const (
	MediaNone    MediaKind = ""
	MediaImages  MediaKind = "images"
	MediaVideos  MediaKind = "videos"
	MediaWeather MediaKind = "weather"
)

// MediaPayload is a tagged union over the structured, renderable data a
// dispatch can attach to a turn. Exactly one of the variant fields is set,
// matching Kind.
type MediaPayload struct {
	Kind    MediaKind        `json:"kind"`
	Query   string           `json:"query,omitempty"`
	Images  []ImageResult    `json:"images,omitempty"`
	Videos  []VideoResult    `json:"videos,omitempty"`
	Weather *WeatherSnapshot `json:"weather,omitempty"`
}

// ImageResult is one image-search hit.
type ImageResult struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail"`
}

// VideoResult is one video-search hit.
type VideoResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	URL         string `json:"url"`
}

// WeatherSnapshot holds everything needed to render current conditions
// without another forecast call. String fields carry their unit suffixes
// already formatted ("31.4°C", "12.9 km/h NW").
type WeatherSnapshot struct {
	City       string  `json:"city"`
	Country    string  `json:"country"`
	Temp       string  `json:"temp"`
	FeelsLike  string  `json:"feelsLike"`
	Desc       string  `json:"desc"`
	Humidity   float64 `json:"humidity"`
	Wind       string  `json:"wind"`
	Visibility string  `json:"visibility"`
	Pressure   string  `json:"pressure"`
	UVIndex    string  `json:"uv"`
	High       string  `json:"high"`
	Low        string  `json:"low"`
	Sunrise    string  `json:"sunrise"`
	Sunset     string  `json:"sunset"`
}
