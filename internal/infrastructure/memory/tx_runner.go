package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/clara-api/internal/application/subscription"
	"github.com/jhoicas/clara-api/internal/domain"
	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
	"github.com/jhoicas/clara-api/internal/domain/repository"
)

// TxRunner serializa las mutaciones por sesión con un mutex por session_id.
// fn escribe sobre una copia del perfil que se publica de una vez al terminar sin error;
// los lectores nunca ven estados intermedios y un error descarta los cambios.
type TxRunner struct {
	repo *ProfileRepo
}

var _ subscription.ProfileTxRunner = (*TxRunner)(nil)

func NewTxRunner(repo *ProfileRepo) *TxRunner {
	return &TxRunner{repo: repo}
}

func (t *TxRunner) RunInProfileTx(ctx context.Context, sessionID string, fn func(repo repository.ProfileRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := t.repo.sessionLock(sessionID)
	l.Lock()
	defer l.Unlock()

	current, err := t.repo.GetProfile(ctx, sessionID)
	if err != nil {
		return err
	}
	tx := &txRepo{base: t.repo, sessionID: sessionID, working: current}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}
	return t.repo.publish(tx.working, tx.created)
}

// txRepo vista transaccional: la sesión bloqueada se lee y escribe sobre working,
// cualquier otra sesión se delega al repositorio compartido.
type txRepo struct {
	base      *ProfileRepo
	sessionID string
	working   *entity.UserProfile // nil si el perfil no existe
	dirty     bool
	created   bool // working nació de un SaveProfile dentro de la transacción
}

var _ repository.ProfileRepository = (*txRepo)(nil)

func (r *txRepo) GetProfile(ctx context.Context, sessionID string) (*entity.UserProfile, error) {
	if sessionID != r.sessionID {
		return r.base.GetProfile(ctx, sessionID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.working.Clone(), nil
}

func (r *txRepo) SaveProfile(ctx context.Context, p *entity.UserProfile) error {
	if p.SessionID != r.sessionID {
		return r.base.SaveProfile(ctx, p)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if r.working != nil {
		return nil
	}
	r.working = p.Clone()
	r.dirty = true
	r.created = true
	return nil
}

func (r *txRepo) UpdateSubscriptionType(ctx context.Context, sessionID string, t entity.SubscriptionType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: subscription_type %q", domain.ErrValidation, t)
	}
	if sessionID != r.sessionID {
		return r.base.UpdateSubscriptionType(ctx, sessionID, t)
	}
	return r.stage(ctx, func(p *entity.UserProfile) { p.SubscriptionType = t })
}

func (r *txRepo) UpdateAvailableLanguages(ctx context.Context, sessionID string, langs []language.Code) error {
	if sessionID != r.sessionID {
		return r.base.UpdateAvailableLanguages(ctx, sessionID, langs)
	}
	cp := append([]language.Code(nil), langs...)
	return r.stage(ctx, func(p *entity.UserProfile) { p.AvailableLanguages = cp })
}

func (r *txRepo) UpdateActiveLanguage(ctx context.Context, sessionID string, lang language.Code) error {
	if sessionID != r.sessionID {
		return r.base.UpdateActiveLanguage(ctx, sessionID, lang)
	}
	return r.stage(ctx, func(p *entity.UserProfile) { p.ActiveLanguage = lang })
}

// stage aplica fn a la copia; sin perfil no hace nada, igual que el repositorio compartido.
func (r *txRepo) stage(ctx context.Context, fn func(p *entity.UserProfile)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.working == nil {
		return nil
	}
	fn(r.working)
	r.working.UpdatedAt = r.base.now()
	r.dirty = true
	return nil
}
