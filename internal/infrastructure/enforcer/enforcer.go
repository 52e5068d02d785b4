// Package enforcer genera el mensaje que Clara dirige al usuario tras un intento
// de cambio de idioma, en el idioma que corresponde a cada caso.
package enforcer

import (
	"context"
	"fmt"

	"golang.org/x/text/language/display"

	"github.com/jhoicas/clara-api/internal/application/ports"
	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
	"github.com/jhoicas/clara-api/internal/domain/repository"
)

var _ ports.LanguageEnforcer = (*Enforcer)(nil)

// Enforcer lee el estado de la sesión ya resuelto por el motor y elige plantilla:
// confirmación en el idioma nuevo, rechazo en el idioma activo y sesión
// inexistente en el idioma por defecto. Nunca modifica el perfil.
type Enforcer struct {
	repo        repository.ProfileRepository
	catalog     *Catalog
	defaultLang language.Code
}

func New(repo repository.ProfileRepository, catalog *Catalog, defaultLang language.Code) *Enforcer {
	if !language.IsSupported(defaultLang) {
		defaultLang = language.ES
	}
	return &Enforcer{repo: repo, catalog: catalog, defaultLang: defaultLang}
}

func (e *Enforcer) HandleLanguageSwitchRequest(ctx context.Context, sessionID string, requested language.Code) (string, error) {
	p, err := e.repo.GetProfile(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("enforcer: leer perfil: %w", err)
	}
	if p == nil {
		return e.catalog.render(e.defaultLang, func(s messageSet) string { return s.NotFound }, ""), nil
	}

	if p.ActiveLanguage == requested {
		return e.catalog.render(requested, func(s messageSet) string { return s.Switched }, nameIn(requested, requested)), nil
	}

	in := p.ActiveLanguage
	if !language.IsSupported(requested) {
		return e.catalog.render(in, func(s messageSet) string { return s.Unavailable }, nameIn(in, requested)), nil
	}
	if p.SubscriptionType == entity.SubscriptionFreemium {
		return e.catalog.render(in, func(s messageSet) string { return s.UpgradeRequired }, nameIn(in, requested)), nil
	}
	return e.catalog.render(in, func(s messageSet) string { return s.Unavailable }, nameIn(in, requested)), nil
}

// nameIn nombre de target escrito en el idioma in. Para códigos fuera del conjunto devuelve el código.
func nameIn(in, target language.Code) string {
	if !language.IsSupported(target) {
		return fmt.Sprintf("%q", string(target))
	}
	if name := display.Languages(in.Tag()).Name(target.Tag()); name != "" {
		return name
	}
	return target.EnglishName()
}
