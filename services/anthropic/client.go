package anthropic

import (
	"net/http"
	"time"
)

const (
	// BaseURL is the Anthropic API base URL
	BaseURL = "https://api.anthropic.com"
	// APIVersion is the anthropic-version header value
	APIVersion = "2023-06-01"
	// DefaultModel is used when no model is configured
	DefaultModel = "claude-3-5-haiku-latest"
	// DefaultTimeout bounds a single generation call. The orchestrator treats
	// a timeout the same as any other generation failure and falls back.
	DefaultTimeout = 25 * time.Second
	// DefaultMaxTokens caps the reply length
	DefaultMaxTokens = 1024
)

// Client handles all Anthropic messages API interactions
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the Anthropic client
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new Anthropic API client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &Client{
		apiKey:  config.APIKey,
		model:   config.Model,
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Model returns the configured model identifier
func (c *Client) Model() string {
	return c.model
}
