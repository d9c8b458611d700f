package search

import "time"

type Config struct {
	BaseURL    string
	APIKey     string
	EngineID   string
	MaxResults int
	MaxImages  int
	Timeout    time.Duration
}
