package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/clara-api/internal/domain"
	"github.com/jhoicas/clara-api/internal/domain/language"
)

// SubscriptionType nivel de suscripción de una sesión.
type SubscriptionType string

// Niveles válidos (deben coincidir con el CHECK de la tabla user_profiles).
const (
	SubscriptionFreemium SubscriptionType = "freemium"
	SubscriptionPremium  SubscriptionType = "premium"
)

// Valid informa si el tipo es uno de los niveles conocidos.
func (t SubscriptionType) Valid() bool {
	return t == SubscriptionFreemium || t == SubscriptionPremium
}

// CanSwitchLanguages se deriva siempre del tipo de suscripción; nunca se persiste.
func CanSwitchLanguages(t SubscriptionType) bool {
	return t == SubscriptionPremium
}

// UserProfile perfil por sesión: nivel de suscripción e idiomas habilitados.
type UserProfile struct {
	SessionID          string
	SubscriptionType   SubscriptionType
	AvailableLanguages []language.Code // freemium: exactamente 1; premium: el conjunto completo
	ActiveLanguage     language.Code   // siempre ∈ AvailableLanguages
	PreferredLanguage  language.Code   // idioma con el que se creó el perfil
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewUserProfile construye el perfil inicial freemium con un único idioma.
func NewUserProfile(sessionID string, preferred language.Code, now time.Time) *UserProfile {
	return &UserProfile{
		SessionID:          sessionID,
		SubscriptionType:   SubscriptionFreemium,
		AvailableLanguages: []language.Code{preferred},
		ActiveLanguage:     preferred,
		PreferredLanguage:  preferred,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// CanAccess informa si el idioma está habilitado para la sesión.
func (p *UserProfile) CanAccess(code language.Code) bool {
	return language.Contains(p.AvailableLanguages, code)
}

// CanSwitchLanguages ver función homónima.
func (p *UserProfile) CanSwitchLanguages() bool {
	return CanSwitchLanguages(p.SubscriptionType)
}

// Validate comprueba las invariantes del perfil en reposo.
func (p *UserProfile) Validate() error {
	if p.SessionID == "" {
		return fmt.Errorf("%w: session_id vacío", domain.ErrInvariant)
	}
	if !p.SubscriptionType.Valid() {
		return fmt.Errorf("%w: subscription_type %q", domain.ErrInvariant, p.SubscriptionType)
	}
	if !p.CanAccess(p.ActiveLanguage) {
		return fmt.Errorf("%w: active_language %q fuera de available_languages", domain.ErrInvariant, p.ActiveLanguage)
	}
	switch p.SubscriptionType {
	case SubscriptionFreemium:
		if len(p.AvailableLanguages) != 1 {
			return fmt.Errorf("%w: freemium con %d idiomas", domain.ErrInvariant, len(p.AvailableLanguages))
		}
	case SubscriptionPremium:
		if len(language.Canonical(p.AvailableLanguages)) != len(language.Supported()) {
			return fmt.Errorf("%w: premium sin el conjunto completo de idiomas", domain.ErrInvariant)
		}
	}
	return nil
}

// Clone copia profunda (los repositorios en memoria no comparten slices).
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.AvailableLanguages = append([]language.Code(nil), p.AvailableLanguages...)
	return &c
}
