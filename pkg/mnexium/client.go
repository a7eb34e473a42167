package mnexium

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Client talks to the Mnexium API. It proxies chat traffic through the
// service's memory layer and exposes the resource APIs as services hanging
// off the client. A Client is safe for concurrent use.
//
// Example:
//
//	config, err := mnexium.LoadConfigFromEnv()
//	if err != nil {
//	    log.Fatalf("Failed to load config: %v", err)
//	}
//
//	client, err := mnexium.NewClient(config)
//	if err != nil {
//	    log.Fatalf("Failed to create client: %v", err)
//	}
//	defer client.Close()
//
//	user := client.Subject("user_123")
//	resp, err := user.Process(ctx, "I moved to Lisbon last month")
type Client struct {
	config       *Config
	baseURL      string
	httpClient   *http.Client
	streamClient *http.Client
	logger       *slog.Logger
	defaults     *Defaults

	mu             sync.RWMutex
	provisionedKey string
	claimURL       string

	// Memories manages stored memories.
	Memories *MemoriesService

	// State is the per-subject key-value store.
	State *StateService

	// Prompts manages stored system prompts.
	Prompts *PromptsService

	// Records manages structured records and their schemas.
	Records *RecordsService
}

// NewClient creates a Mnexium client from the given configuration. A nil
// config is equivalent to DefaultConfig(). An empty BaseURL and a zero
// Timeout fall back to their defaults; MaxRetries is taken as-is, so a zero
// value disables retries.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	cfg := *config
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.requestTimeout()}
	}

	c := &Client{
		config:       &cfg,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   httpClient,
		streamClient: newStreamClient(&cfg),
		logger:       logger.With("component", "mnexium"),
		defaults:     cfg.Defaults.clone(),
	}
	c.Memories = &MemoriesService{client: c}
	c.State = &StateService{client: c}
	c.Prompts = &PromptsService{client: c}
	c.Records = &RecordsService{client: c}
	return c, nil
}

// NewClientFromEnv creates a client configured from environment variables,
// loading a .env file first if one is found near the working directory. See
// LoadConfigFromEnv for the recognized variables.
func NewClientFromEnv() (*Client, error) {
	config, err := LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewClient(config)
}

// newStreamClient builds the HTTP client used for SSE connections. It has
// no overall timeout: an established stream stays open as long as the
// server keeps sending. Only the wait for response headers is bounded.
func newStreamClient(cfg *Config) *http.Client {
	var base http.RoundTripper = http.DefaultTransport
	if cfg.HTTPClient != nil && cfg.HTTPClient.Transport != nil {
		base = cfg.HTTPClient.Transport
	}
	if transport, ok := base.(*http.Transport); ok {
		cloned := transport.Clone()
		cloned.ResponseHeaderTimeout = cfg.requestTimeout()
		base = cloned
	}
	return &http.Client{Transport: base}
}

// Close releases idle connections held by the client's HTTP pools. The
// client must not be used afterwards.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	c.streamClient.CloseIdleConnections()
	return nil
}

// Subject returns a view of the client bound to one subject. Pass an empty
// subjectID to mint a random one, useful for anonymous sessions.
//
// Example:
//
//	user := client.Subject("user_123")
//	memories, err := user.Memories.List(ctx)
func (c *Client) Subject(subjectID string) *Subject {
	if subjectID == "" {
		subjectID = uuid.NewString()
	}
	s := &Subject{ID: subjectID, client: c}
	s.Memories = &SubjectMemories{service: c.Memories, subjectID: subjectID}
	s.State = &SubjectState{service: c.State, subjectID: subjectID}
	s.Claims = &ClaimsService{client: c, subjectID: subjectID}
	s.Profile = &ProfileService{client: c, subjectID: subjectID}
	s.Chats = &ChatsService{client: c, subjectID: subjectID}
	return s
}

// CreateChat starts a conversation thread for a subject without going
// through a Subject handle first. An empty subjectID mints a random one.
func (c *Client) CreateChat(subjectID string, opts ...ChatOption) *Chat {
	return c.Subject(subjectID).CreateChat(opts...)
}

// ProvisionedKey returns the trial API key the server minted for this
// client, or an empty string if none was provisioned. Keys are provisioned
// when a client without an APIKey makes its first chat request.
func (c *Client) ProvisionedKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.provisionedKey
}

// TrialInfo returns the provisioned trial key together with the URL where
// it can be claimed into a permanent account.
func (c *Client) TrialInfo() *TrialInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	claimURL := c.claimURL
	if claimURL == "" {
		claimURL = DefaultClaimURL
	}
	return &TrialInfo{Key: c.provisionedKey, ClaimURL: claimURL}
}

// effectiveAPIKey returns the key sent with requests: the configured key,
// or the server-provisioned trial key as a fallback.
func (c *Client) effectiveAPIKey() string {
	if c.config.APIKey != "" {
		return c.config.APIKey
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.provisionedKey
}

// captureTrialKey stores a server-provisioned trial key and claim URL from
// response headers.
func (c *Client) captureTrialKey(header http.Header) {
	key := header.Get("x-mnx-key-provisioned")
	claimURL := header.Get("x-mnx-claim-url")
	if key == "" && claimURL == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if key != "" && key != c.provisionedKey {
		c.logger.Debug("trial key provisioned", "claim_url", claimURL)
		c.provisionedKey = key
	}
	if claimURL != "" {
		c.claimURL = claimURL
	}
}
