package mnexium

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is the production Mnexium API endpoint.
const DefaultBaseURL = "https://mnexium.com/api/v1"

// DefaultClaimURL is where provisioned trial keys are claimed when the
// server did not send a claim link.
const DefaultClaimURL = "https://mnexium.com/claim"

const (
	// DefaultTimeout is the per-request timeout, in seconds, for
	// non-streaming calls.
	DefaultTimeout = 30

	// DefaultMaxRetries is how many times a failed request is retried.
	DefaultMaxRetries = 2

	// DefaultModel is used when neither the call, the chat, nor the client
	// defaults pick a model.
	DefaultModel = "gpt-4o-mini"
)

// ProviderConfig carries the credentials for one upstream LLM provider.
type ProviderConfig struct {
	// APIKey is the provider's API key. It is forwarded to the service,
	// which calls the provider on the client's behalf.
	APIKey string `json:"api_key"`
}

// Config holds all client configuration.
//
// Example:
//
//	config := mnexium.DefaultConfig()
//	config.APIKey = os.Getenv("MNX_KEY")
//	config.OpenAI = &mnexium.ProviderConfig{APIKey: os.Getenv("OPENAI_API_KEY")}
//
//	client, err := mnexium.NewClient(config)
type Config struct {
	// APIKey authenticates with the Mnexium API. Leaving it empty enables
	// trial mode: the server provisions a temporary key on first use, which
	// the client picks up and sends on subsequent requests.
	APIKey string `json:"api_key"`

	// BaseURL is the API endpoint. Defaults to DefaultBaseURL.
	BaseURL string `json:"base_url"`

	// Timeout is the per-request timeout in seconds for non-streaming
	// calls. Streaming connections are bounded only until response headers
	// arrive and then stay open as long as the server keeps sending.
	Timeout int `json:"timeout"`

	// MaxRetries is how many times a failed request is retried. Retries
	// apply to network errors, HTTP 5xx, and HTTP 429; other HTTP errors
	// fail immediately. Zero disables retries; DefaultConfig sets
	// DefaultMaxRetries.
	MaxRetries int `json:"max_retries"`

	// OpenAI carries the OpenAI API key, used for GPT-family models and as
	// the fallback when no provider matches the model name.
	OpenAI *ProviderConfig `json:"openai,omitempty"`

	// Anthropic carries the Anthropic API key, used for Claude models.
	Anthropic *ProviderConfig `json:"anthropic,omitempty"`

	// Google carries the Google API key, used for Gemini models.
	Google *ProviderConfig `json:"google,omitempty"`

	// Defaults apply to every process call that does not override them.
	Defaults *Defaults `json:"defaults,omitempty"`

	// HTTPClient overrides the HTTP client used for non-streaming
	// requests. Leave nil to get a client with Timeout applied.
	HTTPClient *http.Client `json:"-"`

	// Logger receives the client's debug and warning logs. Leave nil to
	// use slog.Default().
	Logger *slog.Logger `json:"-"`
}

// DefaultConfig returns a Config with production defaults. Credentials are
// left empty.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
	}
}

// LoadConfigFromEnv builds a Config from environment variables, loading a
// .env file first if one is found near the working directory.
//
// Recognized variables:
//
//	MNX_KEY            Mnexium API key (optional, trial mode without it)
//	MNX_BASE_URL       API endpoint override
//	MNX_TIMEOUT        request timeout in seconds
//	MNX_MAX_RETRIES    retry attempts after the first failure
//	OPENAI_API_KEY     OpenAI provider key
//	ANTHROPIC_API_KEY  Anthropic provider key
//	GOOGLE_API_KEY     Google provider key
func LoadConfigFromEnv() (*Config, error) {
	if envFile := FindEnvFile(); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, NewError("config.load_env", err)
		}
	}
	return configFromEnvironment()
}

// LoadConfigFromEnvFile builds a Config from a specific .env file plus the
// process environment.
func LoadConfigFromEnvFile(filePath string) (*Config, error) {
	if err := godotenv.Load(filePath); err != nil {
		return nil, NewError("config.load_env", err)
	}
	return configFromEnvironment()
}

// LoadConfigFromJSON builds a Config from a JSON file. Missing fields keep
// their defaults.
func LoadConfigFromJSON(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, NewError("config.read", err)
	}
	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, NewError("config.parse", err)
	}
	return config, nil
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries must not be negative", ErrInvalidConfig)
	}
	return nil
}

// FindEnvFile looks for a .env file in the working directory and up to five
// parent directories, returning the first match or an empty string.
func FindEnvFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// configFromEnvironment reads the recognized variables from the process
// environment.
func configFromEnvironment() (*Config, error) {
	config := DefaultConfig()
	config.APIKey = os.Getenv("MNX_KEY")
	config.BaseURL = getEnvOrDefault("MNX_BASE_URL", DefaultBaseURL)

	if v := os.Getenv("MNX_TIMEOUT"); v != "" {
		timeout, err := strconv.Atoi(v)
		if err != nil {
			return nil, NewError("config.parse", fmt.Errorf("invalid MNX_TIMEOUT %q: %w", v, err))
		}
		config.Timeout = timeout
	}
	if v := os.Getenv("MNX_MAX_RETRIES"); v != "" {
		retries, err := strconv.Atoi(v)
		if err != nil {
			return nil, NewError("config.parse", fmt.Errorf("invalid MNX_MAX_RETRIES %q: %w", v, err))
		}
		config.MaxRetries = retries
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.OpenAI = &ProviderConfig{APIKey: key}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Anthropic = &ProviderConfig{APIKey: key}
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		config.Google = &ProviderConfig{APIKey: key}
	}
	return config, nil
}

// getEnvOrDefault returns the environment variable's value, or defaultValue
// when it is unset or empty.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// requestTimeout converts the configured timeout to a duration.
func (c *Config) requestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
