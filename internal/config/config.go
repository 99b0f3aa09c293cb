package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds application configuration.
type Config struct {
	// Model is the chat-completions model used by the resolve command.
	Model string `json:"model,omitempty"`

	// BaseURL is the OpenAI-compatible endpoint base, e.g. https://api.openai.com/v1.
	BaseURL string `json:"base_url,omitempty"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `json:"api_key_env,omitempty"`

	// TimeoutSeconds is the client-level timeout for LLM calls.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	// Workers bounds the number of files parsed concurrently.
	// 0 means one worker per CPU.
	Workers int `json:"workers,omitempty"`

	// Style is the default annotation marker style name.
	Style string `json:"style,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are ignored with a warning.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:          "gpt-4.1-mini",
		BaseURL:        "https://api.openai.com/v1",
		APIKeyEnv:      "OPENAI_API_KEY",
		TimeoutSeconds: 60,
		Workers:        runtime.NumCPU(),
		Style:          "guillemet",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.idmark.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// loadFile loads configuration from a specific file path, filling unset
// scalars from the defaults.
func loadFile(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	overlay := &Config{}
	if err := json.Unmarshal(data, overlay); err != nil {
		return nil, err
	}
	return merge(cfg, overlay), nil
}

// merge combines base and overlay configs. Overlay values win if non-zero.
func merge(base, overlay *Config) *Config {
	result := *base
	if overlay.Model != "" {
		result.Model = overlay.Model
	}
	if overlay.BaseURL != "" {
		result.BaseURL = overlay.BaseURL
	}
	if overlay.APIKeyEnv != "" {
		result.APIKeyEnv = overlay.APIKeyEnv
	}
	if overlay.TimeoutSeconds > 0 {
		result.TimeoutSeconds = overlay.TimeoutSeconds
	}
	if overlay.Workers > 0 {
		result.Workers = overlay.Workers
	}
	if overlay.Style != "" {
		result.Style = overlay.Style
	}
	if len(overlay.DisabledTools) > 0 {
		result.DisabledTools = overlay.DisabledTools
	}
	return &result
}
