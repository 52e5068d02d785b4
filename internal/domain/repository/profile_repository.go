package repository

import (
	"context"

	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
)

// ProfileRepository define el puerto de persistencia para UserProfile (DIP).
// Todas las operaciones se indexan por session_id y son atómicas por llamada.
type ProfileRepository interface {
	// GetProfile devuelve (nil, nil) si la sesión no tiene perfil.
	GetProfile(ctx context.Context, sessionID string) (*entity.UserProfile, error)
	// SaveProfile inserta el perfil si no existe; nunca sobrescribe uno existente.
	SaveProfile(ctx context.Context, profile *entity.UserProfile) error
	UpdateSubscriptionType(ctx context.Context, sessionID string, t entity.SubscriptionType) error
	UpdateAvailableLanguages(ctx context.Context, sessionID string, langs []language.Code) error
	UpdateActiveLanguage(ctx context.Context, sessionID string, lang language.Code) error
}
