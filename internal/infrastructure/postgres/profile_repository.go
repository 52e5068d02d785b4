package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
	"github.com/jhoicas/clara-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementación del puerto ProfileRepository sobre PostgreSQL.
type ProfileRepo struct {
	db Querier
}

// NewProfileRepository construye el adaptador con un pool o una transacción.
func NewProfileRepository(db Querier) *ProfileRepo {
	return &ProfileRepo{db: db}
}

const profileColumns = `session_id, subscription_type, available_languages, active_language, preferred_language, created_at, updated_at`

// GetProfile obtiene el perfil; (nil, nil) si no existe.
func (r *ProfileRepo) GetProfile(ctx context.Context, sessionID string) (*entity.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE session_id = $1`
	var (
		p     entity.UserProfile
		sub   string
		langs []string
		act   string
		pref  string
	)
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&p.SessionID, &sub, &langs, &act, &pref, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.SubscriptionType = entity.SubscriptionType(sub)
	p.AvailableLanguages = language.FromStrings(langs)
	p.ActiveLanguage = language.Code(act)
	p.PreferredLanguage = language.Code(pref)
	return &p, nil
}

// SaveProfile inserta el perfil; si ya existe no hace nada.
func (r *ProfileRepo) SaveProfile(ctx context.Context, p *entity.UserProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO user_profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		p.SessionID, string(p.SubscriptionType), language.Strings(p.AvailableLanguages),
		string(p.ActiveLanguage), string(p.PreferredLanguage), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepo) UpdateSubscriptionType(ctx context.Context, sessionID string, t entity.SubscriptionType) error {
	_, err := r.db.Exec(ctx,
		`UPDATE user_profiles SET subscription_type = $2, updated_at = now() WHERE session_id = $1`,
		sessionID, string(t))
	if err != nil {
		return fmt.Errorf("update subscription_type: %w", err)
	}
	return nil
}

func (r *ProfileRepo) UpdateAvailableLanguages(ctx context.Context, sessionID string, langs []language.Code) error {
	_, err := r.db.Exec(ctx,
		`UPDATE user_profiles SET available_languages = $2, updated_at = now() WHERE session_id = $1`,
		sessionID, language.Strings(langs))
	if err != nil {
		return fmt.Errorf("update available_languages: %w", err)
	}
	return nil
}

func (r *ProfileRepo) UpdateActiveLanguage(ctx context.Context, sessionID string, lang language.Code) error {
	_, err := r.db.Exec(ctx,
		`UPDATE user_profiles SET active_language = $2, updated_at = now() WHERE session_id = $1`,
		sessionID, string(lang))
	if err != nil {
		return fmt.Errorf("update active_language: %w", err)
	}
	return nil
}

// isUniqueViolation 23505: otra petición creó el perfil entre el SELECT y el INSERT.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
