package llm

import "fmt"

const (
	defaultSambaNovaBaseURL  = "https://api.sambanova.ai/v1"
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// NewSambaNovaProvider creates a provider targeting SambaNova Cloud, which
// serves the Llama family behind an OpenAI-compatible API.
func NewSambaNovaProvider(cfg CompatibleConfig) (*OpenAIProvider, error) {
	return newCompatibleProvider("sambanova", cfg, defaultSambaNovaBaseURL)
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg CompatibleConfig) (*OpenAIProvider, error) {
	return newCompatibleProvider("openrouter", cfg, defaultOpenRouterBaseURL)
}

func newCompatibleProvider(name string, cfg CompatibleConfig, defaultBaseURL string) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	// Model IDs are passed through as-is; these hosts have no friendly names.
	return NewOpenAIProvider(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	})
}
