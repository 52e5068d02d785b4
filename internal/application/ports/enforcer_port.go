package ports

import (
	"context"

	"github.com/jhoicas/clara-api/internal/domain/language"
)

// LanguageEnforcer convierte un intento de cambio de idioma en un mensaje localizado
// y presentable al usuario. Se invoca siempre después de cada intento, con éxito o sin él.
type LanguageEnforcer interface {
	HandleLanguageSwitchRequest(ctx context.Context, sessionID string, requested language.Code) (string, error)
}
