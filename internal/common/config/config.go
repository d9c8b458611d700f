package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	YouTube   YouTubeConfig   `mapstructure:"youtube"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // seconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // seconds; 0 disables (required for SSE)
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LLMConfig configures the hosted language model (Groq, OpenAI-compatible).
type LLMConfig struct {
	BaseURL       string  `mapstructure:"base_url"`
	APIKey        string  `mapstructure:"api_key"`
	Model         string  `mapstructure:"model"`
	QuickModel    string  `mapstructure:"quick_model"`
	Temperature   float64 `mapstructure:"temperature"`
	HistoryWindow int     `mapstructure:"history_window"`
}

// SearchConfig configures Google Custom Search (web and image).
type SearchConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	APIKey        string `mapstructure:"api_key"`
	EngineID      string `mapstructure:"engine_id"`
	MaxResults    int    `mapstructure:"max_results"`
	MaxImages     int    `mapstructure:"max_images"`
}

type YouTubeConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	MaxResults int    `mapstructure:"max_results"`
}

type WeatherConfig struct {
	GeocodeBaseURL  string `mapstructure:"geocode_base_url"`
	ForecastBaseURL string `mapstructure:"forecast_base_url"`
}

// AssistantConfig holds the core dispatch settings.
type AssistantConfig struct {
	AdapterTimeout  int    `mapstructure:"adapter_timeout"`  // seconds
	HistoryLimit    int    `mapstructure:"history_limit"`    // turns kept per user
	FallbackCity    string `mapstructure:"fallback_city"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AdapterTimeout returns the shared per-request timeout for all collaborator
// adapters as a duration.
func (c AssistantConfig) Timeout() time.Duration {
	return time.Duration(c.AdapterTimeout) * time.Second
}
