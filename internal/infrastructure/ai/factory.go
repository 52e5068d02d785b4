package ai

import (
	"fmt"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/jhoicas/clara-api/internal/application/ports"
	"github.com/jhoicas/clara-api/pkg/config"
)

// NewClassifier elige el adaptador según AI_PROVIDER.
func NewClassifier(cfg config.AIConfig) (ports.Classifier, error) {
	switch cfg.Provider {
	case config.AIProviderNone, "":
		return NoopClassifier{}, nil
	case config.AIProviderAnthropic:
		return NewAnthropicClassifier(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.HTTPTimeout), nil
	case config.AIProviderGemini:
		return NewGeminiClassifier(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.HTTPTimeout), nil
	case config.AIProviderOpenAI:
		c, err := NewOpenAIClassifier(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.HTTPTimeout)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.AIProviderAnyLLM:
		var opts []anyllmlib.Option
		if cfg.AnyLLMAPIKey != "" {
			opts = append(opts, anyllmlib.WithAPIKey(cfg.AnyLLMAPIKey))
		}
		if cfg.AnyLLMBaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(cfg.AnyLLMBaseURL))
		}
		c, err := NewAnyLLMClassifier(cfg.AnyLLMBackend, cfg.AnyLLMModel, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("AI: proveedor %q no soportado", cfg.Provider)
	}
}
