package model

import "time"

// DefaultEndpoint is the analysis service the UI talks to out of the box
const DefaultEndpoint = "http://127.0.0.1:8000/api/v1/analysis"

// Config is the complete deepread configuration
type Config struct {
	Client  ClientConfig  `yaml:"client"`
	UI      UIConfig      `yaml:"ui"`
	Backend BackendConfig `yaml:"backend"`
	LLM     LLMConfig     `yaml:"llm"`
	Output  OutputConfig  `yaml:"output"`
}

// ClientConfig configures the analysis API client
type ClientConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	StrictSchema bool          `yaml:"strict_schema"` // Reject responses missing a required list field
	HTTPProxy    string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty"`
}

// UIConfig configures the web UI
type UIConfig struct {
	Addr       string        `yaml:"addr"`
	Language   string        `yaml:"language"` // zh, en or auto
	Theme      string        `yaml:"theme"`    // light or dark
	Mode       Mode          `yaml:"mode"`     // Default analysis mode
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// BackendConfig configures the development analysis service
type BackendConfig struct {
	Addr              string        `yaml:"addr"`
	Analyzer          string        `yaml:"analyzer"` // mock or llm
	UserAgent         string        `yaml:"user_agent"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	RespectRobots     bool          `yaml:"respect_robots"`
	RequestsPerSecond float64       `yaml:"requests_per_second"` // Per article host
	BurstSize         int           `yaml:"burst_size"`
	MaxContentChars   int           `yaml:"max_content_chars"` // Article text sent to the model
}

// LLMConfig configures the model behind the development analysis service
type LLMConfig struct {
	Provider  string        `yaml:"provider"` // qwen, openai, anthropic
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"-"` // Environment only
	BaseURL   string        `yaml:"base_url,omitempty"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
}

// OutputConfig configures CLI rendering
type OutputConfig struct {
	Verbose  bool   `yaml:"verbose"`
	Format   string `yaml:"format"` // cards, markdown, text, json
	Language string `yaml:"language"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			Endpoint:     DefaultEndpoint,
			Timeout:      3 * time.Minute,
			UserAgent:    "deepread/0.2 (+https://github.com/ppiankov/deepread)",
			MaxBodyBytes: 4_000_000,
		},
		UI: UIConfig{
			Addr:       "127.0.0.1:3000",
			Language:   "zh",
			Theme:      "light",
			Mode:       ModeConcise,
			SessionTTL: 30 * time.Minute,
		},
		Backend: BackendConfig{
			Addr:              "127.0.0.1:8000",
			Analyzer:          "mock",
			UserAgent:         "Mozilla/5.0 (compatible; deepread/0.2; +https://github.com/ppiankov/deepread)",
			FetchTimeout:      60 * time.Second,
			MaxBodyBytes:      5_000_000,
			RespectRobots:     true,
			RequestsPerSecond: 1,
			BurstSize:         2,
			MaxContentChars:   12_000,
		},
		LLM: LLMConfig{
			Provider:  "qwen",
			Model:     "qwen-turbo",
			Timeout:   2 * time.Minute,
			MaxTokens: 2000,
		},
		Output: OutputConfig{
			Format:   "cards",
			Language: "zh",
		},
	}
}
