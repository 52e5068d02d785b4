// Package subscription contiene el motor de políticas de acceso: niveles de
// suscripción, idiomas habilitados por sesión y transiciones del idioma activo.
package subscription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/clara-api/internal/domain"
	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
	"github.com/jhoicas/clara-api/internal/domain/repository"
	"github.com/jhoicas/clara-api/internal/observe"
)

// DowngradePolicy decide qué idioma conserva una sesión al volver a freemium.
type DowngradePolicy string

const (
	// DowngradeKeepActive conserva el idioma activo en el momento del downgrade.
	DowngradeKeepActive DowngradePolicy = "keep_active"
	// DowngradeRevertPreferred vuelve siempre al idioma preferido con el que se creó el perfil.
	DowngradeRevertPreferred DowngradePolicy = "revert_preferred"
)

// Config parámetros del motor.
type Config struct {
	DefaultLanguage language.Code
	DowngradePolicy DowngradePolicy
}

// Status vista de estado de la sesión.
type Status struct {
	SubscriptionType   entity.SubscriptionType
	ActiveLanguage     language.Code
	AvailableLanguages []language.Code
	CanSwitchLanguages bool
}

// SwitchOutcome clasifica el resultado de un intento de cambio de idioma.
type SwitchOutcome string

const (
	SwitchApplied         SwitchOutcome = "switched"
	SwitchProfileNotFound SwitchOutcome = "profile_not_found"
	SwitchUpgradeRequired SwitchOutcome = "upgrade_required"     // freemium contra el muro de suscripción
	SwitchUnavailable     SwitchOutcome = "unsupported_language" // premium pidiendo un código fuera del conjunto
)

// SwitchResult resultado estructurado de SwitchActiveLanguage.
type SwitchResult struct {
	Success        bool
	Message        string
	Outcome        SwitchOutcome
	ActiveLanguage language.Code // idioma activo tras el intento (vacío si no hay perfil)
}

// RequiresUpgrade informa si el rechazo se resuelve mejorando la suscripción.
func (r SwitchResult) RequiresUpgrade() bool {
	return r.Outcome == SwitchUpgradeRequired
}

// MixedLanguageResult resultado de ClassifyMixedLanguageInput. ShouldProcess siempre es true:
// nunca se rechaza un turno por el idioma, solo se decide en cuál se responde.
type MixedLanguageResult struct {
	ShouldProcess  bool
	ActiveLanguage language.Code
	Message        string
}

// PolicyEngine motor de acceso por suscripción. Es el único escritor de active_language.
type PolicyEngine struct {
	repo    repository.ProfileRepository
	tx      ProfileTxRunner
	cfg     Config
	log     zerolog.Logger
	metrics *observe.Metrics
	now     func() time.Time
}

// NewPolicyEngine construye el motor inyectando el repositorio y el runner transaccional.
// metrics puede ser nil.
func NewPolicyEngine(
	repo repository.ProfileRepository,
	tx ProfileTxRunner,
	cfg Config,
	log zerolog.Logger,
	metrics *observe.Metrics,
) *PolicyEngine {
	if !language.IsSupported(cfg.DefaultLanguage) {
		cfg.DefaultLanguage = language.ES
	}
	if cfg.DowngradePolicy == "" {
		cfg.DowngradePolicy = DowngradeKeepActive
	}
	return &PolicyEngine{
		repo:    repo,
		tx:      tx,
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		now:     time.Now,
	}
}

// DefaultLanguage idioma con el que se crean los perfiles cuando el llamador no indica otro.
func (e *PolicyEngine) DefaultLanguage() language.Code {
	return e.cfg.DefaultLanguage
}

// EnsureProfile devuelve el perfil existente o crea uno freemium con defaultLanguage.
// Es idempotente y nunca sobrescribe campos de un perfil existente.
func (e *PolicyEngine) EnsureProfile(ctx context.Context, sessionID string, defaultLanguage language.Code) (*entity.UserProfile, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: sessionId es obligatorio", domain.ErrValidation)
	}
	if !language.IsSupported(defaultLanguage) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLanguage, defaultLanguage)
	}

	existing, err := e.repo.GetProfile(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("ensure profile: leer: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	// SaveProfile inserta solo si no existe; ante una carrera gana el primero y se relee.
	if err := e.repo.SaveProfile(ctx, entity.NewUserProfile(sessionID, defaultLanguage, e.now())); err != nil {
		return nil, fmt.Errorf("ensure profile: guardar: %w", err)
	}
	created, err := e.repo.GetProfile(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("ensure profile: releer: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("ensure profile %s: %w", sessionID, domain.ErrProfileNotFound)
	}
	e.log.Debug().Str("session_id", sessionID).Str("language", string(created.ActiveLanguage)).Msg("perfil creado")
	return created, nil
}

// Upgrade pasa la sesión a premium con el conjunto completo de idiomas.
// No modifica el idioma activo. Si tras escribir el perfil no existe, devuelve ErrProfileNotFound.
func (e *PolicyEngine) Upgrade(ctx context.Context, sessionID string) (*entity.UserProfile, error) {
	var out *entity.UserProfile
	err := e.tx.RunInProfileTx(ctx, sessionID, func(repo repository.ProfileRepository) error {
		if err := repo.UpdateSubscriptionType(ctx, sessionID, entity.SubscriptionPremium); err != nil {
			return fmt.Errorf("upgrade: actualizar tipo: %w", err)
		}
		if err := repo.UpdateAvailableLanguages(ctx, sessionID, language.Supported()); err != nil {
			return fmt.Errorf("upgrade: actualizar idiomas: %w", err)
		}
		p, err := repo.GetProfile(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("upgrade: releer: %w", err)
		}
		if p == nil {
			return fmt.Errorf("upgrade %s: %w", sessionID, domain.ErrProfileNotFound)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.metrics.RecordSubscriptionChange(ctx, string(entity.SubscriptionPremium))
	e.log.Info().Str("session_id", sessionID).Msg("suscripción mejorada a premium")
	return out, nil
}

// Downgrade vuelve la sesión a freemium. Con la política por defecto el único idioma
// habilitado pasa a ser el idioma activo previo al downgrade.
func (e *PolicyEngine) Downgrade(ctx context.Context, sessionID string) (*entity.UserProfile, error) {
	var out *entity.UserProfile
	err := e.tx.RunInProfileTx(ctx, sessionID, func(repo repository.ProfileRepository) error {
		current, err := repo.GetProfile(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("downgrade: leer: %w", err)
		}
		if current == nil {
			return fmt.Errorf("downgrade %s: %w", sessionID, domain.ErrProfileNotFound)
		}

		keep := current.ActiveLanguage
		if e.cfg.DowngradePolicy == DowngradeRevertPreferred && language.IsSupported(current.PreferredLanguage) {
			keep = current.PreferredLanguage
		}

		if err := repo.UpdateAvailableLanguages(ctx, sessionID, []language.Code{keep}); err != nil {
			return fmt.Errorf("downgrade: actualizar idiomas: %w", err)
		}
		if keep != current.ActiveLanguage {
			if err := repo.UpdateActiveLanguage(ctx, sessionID, keep); err != nil {
				return fmt.Errorf("downgrade: actualizar idioma activo: %w", err)
			}
		}
		if err := repo.UpdateSubscriptionType(ctx, sessionID, entity.SubscriptionFreemium); err != nil {
			return fmt.Errorf("downgrade: actualizar tipo: %w", err)
		}

		p, err := repo.GetProfile(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("downgrade: releer: %w", err)
		}
		if p == nil {
			return fmt.Errorf("downgrade %s: %w", sessionID, domain.ErrProfileNotFound)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.metrics.RecordSubscriptionChange(ctx, string(entity.SubscriptionFreemium))
	e.log.Info().Str("session_id", sessionID).Str("language", string(out.ActiveLanguage)).Msg("suscripción reducida a freemium")
	return out, nil
}

// CanAccess informa si la sesión puede usar el idioma. Sin perfil devuelve false, no error.
func (e *PolicyEngine) CanAccess(ctx context.Context, sessionID string, lang language.Code) (bool, error) {
	p, err := e.repo.GetProfile(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("can access: %w", err)
	}
	if p == nil {
		return false, nil
	}
	return p.CanAccess(lang), nil
}

// SwitchActiveLanguage intenta fijar el idioma activo. Los rechazos son resultados
// modelados (Success=false), no errores; error solo ante fallos de infraestructura.
func (e *PolicyEngine) SwitchActiveLanguage(ctx context.Context, sessionID string, lang language.Code) (SwitchResult, error) {
	var res SwitchResult
	err := e.tx.RunInProfileTx(ctx, sessionID, func(repo repository.ProfileRepository) error {
		p, err := repo.GetProfile(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("switch language: leer: %w", err)
		}
		if p == nil {
			res = SwitchResult{
				Outcome: SwitchProfileNotFound,
				Message: "No se encontró un perfil para esta sesión.",
			}
			return nil
		}
		if !p.CanAccess(lang) {
			res = rejectSwitch(p, lang)
			return nil
		}
		if p.ActiveLanguage != lang {
			if err := repo.UpdateActiveLanguage(ctx, sessionID, lang); err != nil {
				return fmt.Errorf("switch language: actualizar: %w", err)
			}
		}
		res = SwitchResult{
			Success:        true,
			Outcome:        SwitchApplied,
			Message:        fmt.Sprintf("Idioma cambiado a %s.", lang.NativeName()),
			ActiveLanguage: lang,
		}
		return nil
	})
	if err != nil {
		return SwitchResult{}, err
	}

	e.metrics.RecordLanguageSwitch(ctx, string(res.Outcome))
	e.log.Info().
		Str("session_id", sessionID).
		Str("requested", string(lang)).
		Str("outcome", string(res.Outcome)).
		Msg("cambio de idioma")
	return res, nil
}

// rejectSwitch distingue el muro freemium del código no disponible para premium.
func rejectSwitch(p *entity.UserProfile, lang language.Code) SwitchResult {
	if p.SubscriptionType == entity.SubscriptionFreemium {
		return SwitchResult{
			Outcome: SwitchUpgradeRequired,
			Message: fmt.Sprintf(
				"Tu plan gratuito incluye solo %s. Mejora a Premium para conversar en otros idiomas.",
				p.ActiveLanguage.NativeName(),
			),
			ActiveLanguage: p.ActiveLanguage,
		}
	}
	return SwitchResult{
		Outcome:        SwitchUnavailable,
		Message:        fmt.Sprintf("El idioma %q no está disponible.", string(lang)),
		ActiveLanguage: p.ActiveLanguage,
	}
}

// GetStatus devuelve el estado de la sesión, creando el perfil por defecto si no existe.
func (e *PolicyEngine) GetStatus(ctx context.Context, sessionID string) (*Status, error) {
	p, err := e.EnsureProfile(ctx, sessionID, e.cfg.DefaultLanguage)
	if err != nil {
		return nil, err
	}
	return StatusOf(p), nil
}

// StatusOf proyecta un perfil a Status; CanSwitchLanguages siempre derivado.
func StatusOf(p *entity.UserProfile) *Status {
	return &Status{
		SubscriptionType:   p.SubscriptionType,
		ActiveLanguage:     p.ActiveLanguage,
		AvailableLanguages: language.Canonical(p.AvailableLanguages),
		CanSwitchLanguages: entity.CanSwitchLanguages(p.SubscriptionType),
	}
}

// ResolveResponseLanguage idioma en que debe responder el sistema en este turno.
// Fuente única de verdad: se llama una vez por turno y prevalece sobre el idioma del enunciado.
func (e *PolicyEngine) ResolveResponseLanguage(ctx context.Context, sessionID string) (language.Code, error) {
	p, err := e.EnsureProfile(ctx, sessionID, e.cfg.DefaultLanguage)
	if err != nil {
		return "", err
	}
	return p.ActiveLanguage, nil
}

// ClassifyMixedLanguageInput nunca rechaza el turno. Adjunta un aviso cuando se detectó
// más de un idioma y ninguno es el activo. No modifica el perfil.
func (e *PolicyEngine) ClassifyMixedLanguageInput(ctx context.Context, sessionID string, detected []language.Code) (MixedLanguageResult, error) {
	p, err := e.repo.GetProfile(ctx, sessionID)
	if err != nil {
		return MixedLanguageResult{}, fmt.Errorf("classify mixed input: %w", err)
	}
	active := e.cfg.DefaultLanguage
	if p != nil {
		active = p.ActiveLanguage
	}
	return ClassifyMixedLanguage(active, detected), nil
}

// ClassifyMixedLanguage aplica la regla sobre un idioma activo ya resuelto; el turno
// la usa con el idioma de ResolveResponseLanguage para no releer el perfil.
func ClassifyMixedLanguage(active language.Code, detected []language.Code) MixedLanguageResult {
	res := MixedLanguageResult{ShouldProcess: true, ActiveLanguage: active}
	distinct := dedupe(detected)
	if len(distinct) > 1 && !language.Contains(distinct, active) {
		names := make([]string, len(distinct))
		for i, c := range distinct {
			names[i] = c.NativeName()
		}
		res.Message = fmt.Sprintf(
			"Detecté varios idiomas (%s). Seguiré respondiendo en %s.",
			strings.Join(names, ", "), active.NativeName(),
		)
	}
	return res
}

func dedupe(codes []language.Code) []language.Code {
	out := make([]language.Code, 0, len(codes))
	for _, c := range codes {
		if c == "" || language.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}
