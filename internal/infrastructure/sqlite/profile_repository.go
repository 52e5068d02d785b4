package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
	"github.com/jhoicas/clara-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// dbtx lo cumplen *sql.DB y *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ProfileRepo implementación de ProfileRepository sobre SQLite.
// available_languages se guarda como lista separada por comas.
type ProfileRepo struct {
	db  dbtx
	now func() time.Time
}

// Profiles repositorio fuera de transacción.
func (s *Store) Profiles() *ProfileRepo {
	return &ProfileRepo{db: s.db, now: time.Now}
}

func (r *ProfileRepo) GetProfile(ctx context.Context, sessionID string) (*entity.UserProfile, error) {
	var (
		p                entity.UserProfile
		sub, langs       string
		act, pref        string
		created, updated string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT session_id, subscription_type, available_languages, active_language, preferred_language, created_at, updated_at
		FROM user_profiles WHERE session_id = ?`, sessionID,
	).Scan(&p.SessionID, &sub, &langs, &act, &pref, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.SubscriptionType = entity.SubscriptionType(sub)
	p.AvailableLanguages = splitLanguages(langs)
	p.ActiveLanguage = language.Code(act)
	p.PreferredLanguage = language.Code(pref)
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &p, nil
}

func (r *ProfileRepo) SaveProfile(ctx context.Context, p *entity.UserProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_profiles (session_id, subscription_type, available_languages, active_language, preferred_language, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO NOTHING`,
		p.SessionID, string(p.SubscriptionType), joinLanguages(p.AvailableLanguages),
		string(p.ActiveLanguage), string(p.PreferredLanguage),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepo) UpdateSubscriptionType(ctx context.Context, sessionID string, t entity.SubscriptionType) error {
	return r.set(ctx, "subscription_type", sessionID, string(t))
}

func (r *ProfileRepo) UpdateAvailableLanguages(ctx context.Context, sessionID string, langs []language.Code) error {
	return r.set(ctx, "available_languages", sessionID, joinLanguages(langs))
}

func (r *ProfileRepo) UpdateActiveLanguage(ctx context.Context, sessionID string, lang language.Code) error {
	return r.set(ctx, "active_language", sessionID, string(lang))
}

// set column viene siempre de una constante del paquete, nunca de la entrada.
func (r *ProfileRepo) set(ctx context.Context, column, sessionID, value string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_profiles SET `+column+` = ?, updated_at = ? WHERE session_id = ?`,
		value, formatTime(r.now()), sessionID)
	if err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}
	return nil
}

func joinLanguages(langs []language.Code) string {
	return strings.Join(language.Strings(langs), ",")
}

func splitLanguages(raw string) []language.Code {
	if raw == "" {
		return []language.Code{}
	}
	return language.FromStrings(strings.Split(raw, ","))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
