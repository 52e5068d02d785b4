package subscription

import (
	"context"

	"github.com/jhoicas/clara-api/internal/domain/repository"
)

// ProfileTxRunner ejecuta fn con un repositorio atado a una transacción que tiene
// bloqueado el perfil de sessionID. Garantiza el read-modify-write atómico por sesión
// que exigen upgrade, downgrade y cambio de idioma; el motor no implementa locking propio.
type ProfileTxRunner interface {
	RunInProfileTx(ctx context.Context, sessionID string, fn func(repo repository.ProfileRepository) error) error
}
