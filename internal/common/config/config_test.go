package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "iris-assistant", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.LLM.QuickModel)
	assert.Equal(t, 20, cfg.LLM.HistoryWindow)
	assert.Equal(t, 8, cfg.Assistant.AdapterTimeout)
	assert.Equal(t, 80, cfg.Assistant.HistoryLimit)
	assert.Equal(t, "Mumbai", cfg.Assistant.FallbackCity)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Assistant.FallbackCity = "Pune"
	cfg.Assistant.HistoryLimit = 40
	applyDefaults(cfg)

	assert.Equal(t, "Pune", cfg.Assistant.FallbackCity)
	assert.Equal(t, 40, cfg.Assistant.HistoryLimit)
}

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("GOOGLE_API_KEY", "g-test")
	t.Setenv("GOOGLE_CSE_ID", "cx-test")
	t.Setenv("YOUTUBE_API_KEY", "yt-test")

	cfg := &Config{}
	overrideFromEnv(cfg)

	assert.Equal(t, "gsk-test", cfg.LLM.APIKey)
	assert.Equal(t, "g-test", cfg.Search.APIKey)
	assert.Equal(t, "cx-test", cfg.Search.EngineID)
	assert.Equal(t, "yt-test", cfg.YouTube.APIKey)
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	assert.NoError(t, validateConfig(cfg))

	cfg.Server.Port = -1
	assert.Error(t, validateConfig(cfg))

	applyDefaults(cfg)
	cfg.Server.Port = 8080
	cfg.Assistant.HistoryLimit = 0
	assert.Error(t, validateConfig(cfg))
}

func TestMissingAPIKeysAreNotFatal(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.LLM.APIKey = ""
	cfg.Search.APIKey = ""
	assert.NoError(t, validateConfig(cfg))
}
