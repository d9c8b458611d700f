package llm

import "time"

type Config struct {
	BaseURL       string
	APIKey        string
	Model         string
	QuickModel    string
	Temperature   float64
	HistoryWindow int
	Timeout       time.Duration
}
