package ai

import (
	"context"

	"github.com/jhoicas/clara-api/internal/application/dto"
	"github.com/jhoicas/clara-api/internal/application/ports"
)

var _ ports.Classifier = NoopClassifier{}

// NoopClassifier se usa con AI_PROVIDER=none: nunca encuentra errores.
type NoopClassifier struct{}

func (NoopClassifier) Classify(context.Context, ports.ClassifyRequest) (*dto.Judgment, error) {
	return &dto.Judgment{Errors: []dto.JudgmentError{}}, nil
}

// IsNoop informa si c es el clasificador vacío: el pipeline nunca producirá hallazgos.
func IsNoop(c ports.Classifier) bool {
	switch c.(type) {
	case NoopClassifier, *NoopClassifier:
		return true
	}
	return false
}
