package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/jhoicas/clara-api/internal/application/dto"
	"github.com/jhoicas/clara-api/internal/application/ports"
)

var _ ports.Classifier = (*OpenAIClassifier)(nil)

// OpenAIClassifier adaptador sobre el SDK oficial de OpenAI. Con baseURL sirve
// también para cualquier servidor compatible (vLLM, LM Studio, Azure vía proxy).
type OpenAIClassifier struct {
	client oai.Client
	model  string
}

// NewOpenAIClassifier construye el adaptador. apiKey y model son obligatorios.
func NewOpenAIClassifier(apiKey, model, baseURL string, timeout time.Duration) (*OpenAIClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("AI: OPENAI_API_KEY no configurado")
	}
	if model == "" {
		return nil, fmt.Errorf("AI: OPENAI_MODEL no configurado")
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// un único intento por etapa; el pipeline degrada ante cualquier fallo
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: timeout}))
	}
	return &OpenAIClassifier{client: oai.NewClient(reqOpts...), model: model}, nil
}

func (c *OpenAIClassifier) Classify(ctx context.Context, req ports.ClassifyRequest) (*dto.Judgment, error) {
	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(req.SystemPrompt),
			oai.UserMessage(req.UserPrompt),
		},
		Temperature: param.NewOpt(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("AI: OpenAI completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("AI: OpenAI devolvió respuesta vacía")
	}
	return parseJudgment("OpenAI", resp.Choices[0].Message.Content)
}
