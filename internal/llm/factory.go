package llm

import (
	"fmt"
	"os"
	"strings"
)

// DashScopeCompatibleURL is Alibaba Cloud's OpenAI-compatible endpoint
const DashScopeCompatibleURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))
	if config.APIKey == "" {
		config.APIKey = os.Getenv(APIKeyEnv(provider))
	}

	switch provider {
	case "qwen", "dashscope":
		if config.BaseURL == "" {
			config.BaseURL = DashScopeCompatibleURL
		}
		return newOpenAICompatible("qwen", config, "qwen-turbo")

	case "openai":
		return newOpenAICompatible("openai", config, "gpt-4o-mini")

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (supported: qwen, openai, anthropic, ollama)", config.Provider)
	}
}

// APIKeyEnv names the environment variable holding a provider's key
func APIKeyEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "qwen", "dashscope":
		return "DASHSCOPE_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic", "claude":
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}
