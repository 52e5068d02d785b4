package ai

import (
	"context"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/deepseek"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"

	"github.com/jhoicas/clara-api/internal/application/dto"
	"github.com/jhoicas/clara-api/internal/application/ports"
)

var _ ports.Classifier = (*AnyLLMClassifier)(nil)

// AnyLLMClassifier adaptador universal sobre any-llm-go; permite cambiar de
// proveedor (incluido Ollama local) solo con configuración.
type AnyLLMClassifier struct {
	backend anyllmlib.Provider
	name    string
	model   string
}

// NewAnyLLMClassifier crea el backend indicado. opts suelen ser anyllmlib.WithAPIKey / WithBaseURL.
func NewAnyLLMClassifier(backendName, model string, opts ...anyllmlib.Option) (*AnyLLMClassifier, error) {
	if backendName == "" {
		return nil, fmt.Errorf("AI: ANYLLM_BACKEND no configurado")
	}
	if model == "" {
		return nil, fmt.Errorf("AI: ANYLLM_MODEL no configurado")
	}
	backend, err := anyLLMBackend(backendName, opts...)
	if err != nil {
		return nil, fmt.Errorf("AI: crear backend %q: %w", backendName, err)
	}
	return &AnyLLMClassifier{backend: backend, name: strings.ToLower(backendName), model: model}, nil
}

func anyLLMBackend(name string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(name) {
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	case "mistral":
		return mistral.New(opts...)
	case "groq":
		return groq.New(opts...)
	case "deepseek":
		return deepseek.New(opts...)
	default:
		return nil, fmt.Errorf("proveedor no soportado; válidos: openai, anthropic, gemini, ollama, mistral, groq, deepseek")
	}
}

func (c *AnyLLMClassifier) Classify(ctx context.Context, req ports.ClassifyRequest) (*dto.Judgment, error) {
	temp := req.Temperature
	params := anyllmlib.CompletionParams{
		Model: c.model,
		Messages: []anyllmlib.Message{
			{Role: anyllmlib.RoleSystem, Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: &temp,
	}
	if req.MaxTokens > 0 {
		mt := req.MaxTokens
		params.MaxTokens = &mt
	}

	resp, err := c.backend.Completion(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("AI: %s completion: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("AI: %s devolvió respuesta vacía", c.name)
	}
	return parseJudgment(c.name, resp.Choices[0].Message.ContentString())
}
