package ports

import (
	"context"

	"github.com/jhoicas/clara-api/internal/application/dto"
)

// ClassifyRequest prompt y parámetros de muestreo de una llamada de clasificación.
// Stage solo se usa para logs/métricas del adaptador.
type ClassifyRequest struct {
	Stage        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}

// Classifier define el puerto de salida hacia el servicio de inferencia.
// Cualquier adaptador (Anthropic, Gemini, OpenAI, any-llm, mock) debe implementar esta interfaz.
// El pipeline de corrección solo conoce este contrato: classify(prompt) -> juicio estructurado.
// El contexto lleva el timeout de la etapa; una respuesta que no sea JSON válido es un error.
type Classifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (*dto.Judgment, error)
}
