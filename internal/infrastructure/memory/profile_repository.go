// Package memory implementa el repositorio de perfiles en memoria de proceso.
// Pensado para desarrollo y tests; se pierde al reiniciar.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/clara-api/internal/domain"
	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
	"github.com/jhoicas/clara-api/internal/domain/repository"
)

// ProfileRepo almacén de perfiles protegido por RWMutex. Devuelve siempre copias.
type ProfileRepo struct {
	mu       sync.RWMutex
	profiles map[string]*entity.UserProfile
	now      func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// NewProfileRepo crea un repositorio vacío.
func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{
		profiles: make(map[string]*entity.UserProfile),
		locks:    make(map[string]*sync.Mutex),
		now:      time.Now,
	}
}

func (r *ProfileRepo) GetProfile(ctx context.Context, sessionID string) (*entity.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[sessionID]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (r *ProfileRepo) SaveProfile(ctx context.Context, profile *entity.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.profiles[profile.SessionID]; exists {
		return nil
	}
	r.profiles[profile.SessionID] = profile.Clone()
	return nil
}

func (r *ProfileRepo) UpdateSubscriptionType(ctx context.Context, sessionID string, t entity.SubscriptionType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: subscription_type %q", domain.ErrValidation, t)
	}
	return r.update(ctx, sessionID, func(p *entity.UserProfile) { p.SubscriptionType = t })
}

func (r *ProfileRepo) UpdateAvailableLanguages(ctx context.Context, sessionID string, langs []language.Code) error {
	cp := append([]language.Code(nil), langs...)
	return r.update(ctx, sessionID, func(p *entity.UserProfile) { p.AvailableLanguages = cp })
}

func (r *ProfileRepo) UpdateActiveLanguage(ctx context.Context, sessionID string, lang language.Code) error {
	return r.update(ctx, sessionID, func(p *entity.UserProfile) { p.ActiveLanguage = lang })
}

// update aplica fn al perfil; si no existe no hace nada (igual que un UPDATE sin filas).
func (r *ProfileRepo) update(ctx context.Context, sessionID string, fn func(p *entity.UserProfile)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[sessionID]
	if !ok {
		return nil
	}
	fn(p)
	p.UpdatedAt = r.now()
	return nil
}

// publish reemplaza el perfil en un solo paso tras validarlo. Un perfil creado dentro
// de la transacción no pisa a otro insertado entretanto fuera de ella.
func (r *ProfileRepo) publish(p *entity.UserProfile, insertOnly bool) error {
	if p == nil {
		return nil
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("publicar perfil: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.profiles[p.SessionID]; exists && insertOnly {
		return nil
	}
	r.profiles[p.SessionID] = p.Clone()
	return nil
}

// sessionLock devuelve el mutex de la sesión, creándolo si hace falta.
func (r *ProfileRepo) sessionLock(sessionID string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[sessionID] = l
	}
	return l
}
