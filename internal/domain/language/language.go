// Package language define el vocabulario cerrado de idiomas que Clara sabe conversar.
// Cualquier código fuera de este conjunto se rechaza en el borde (HTTP, CLI, detector).
package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/jhoicas/clara-api/internal/domain"
)

// Code código ISO 639-1 de un idioma soportado.
type Code string

// Idiomas soportados (conjunto fijo y cerrado).
const (
	ES Code = "es"
	EN Code = "en"
	FR Code = "fr"
	IT Code = "it"
	DE Code = "de"
	PT Code = "pt"
)

// supported mantiene el orden canónico usado en respuestas y persistencia.
var supported = []Code{ES, EN, FR, IT, DE, PT}

// Supported devuelve una copia del conjunto completo en orden canónico.
func Supported() []Code {
	out := make([]Code, len(supported))
	copy(out, supported)
	return out
}

// IsSupported informa si el código pertenece al conjunto cerrado (comparación exacta).
func IsSupported(code Code) bool {
	for _, c := range supported {
		if c == code {
			return true
		}
	}
	return false
}

// Parse normaliza y valida un código recibido desde el exterior.
// Acepta mayúsculas/espacios ("ES " -> "es") pero rechaza subetiquetas de región
// o script ("es-MX") y cualquier idioma fuera del conjunto.
func Parse(raw string) (Code, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: código vacío", domain.ErrInvalidLanguage)
	}
	tag, err := xlang.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidLanguage, raw)
	}
	base, conf := tag.Base()
	if conf != xlang.Exact || tag.String() != base.String() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidLanguage, raw)
	}
	code := Code(base.String())
	if !IsSupported(code) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidLanguage, raw)
	}
	return code, nil
}

// Tag devuelve la etiqueta BCP 47 correspondiente.
func (c Code) Tag() xlang.Tag {
	return xlang.Make(string(c))
}

// String implementa fmt.Stringer.
func (c Code) String() string { return string(c) }

// NativeName nombre del idioma en el propio idioma y capitalizado ("Español", "Français").
func (c Code) NativeName() string {
	tag := c.Tag()
	name := display.Self.Name(tag)
	if name == "" {
		return string(c)
	}
	return cases.Title(tag).String(name)
}

// EnglishName nombre en inglés, usado al construir prompts para el modelo.
func (c Code) EnglishName() string {
	name := display.English.Languages().Name(c.Tag())
	if name == "" {
		return string(c)
	}
	return name
}

// Contains informa si code está en langs.
func Contains(langs []Code, code Code) bool {
	for _, l := range langs {
		if l == code {
			return true
		}
	}
	return false
}

// Canonical elimina duplicados y ordena según el orden canónico.
// Los códigos fuera del conjunto se descartan.
func Canonical(langs []Code) []Code {
	out := make([]Code, 0, len(langs))
	for _, c := range supported {
		if Contains(langs, c) {
			out = append(out, c)
		}
	}
	return out
}

// Strings convierte a []string (persistencia y DTOs).
func Strings(langs []Code) []string {
	out := make([]string, len(langs))
	for i, l := range langs {
		out[i] = string(l)
	}
	return out
}

// FromStrings convierte desde []string sin validar; usar Canonical para filtrar.
func FromStrings(raw []string) []Code {
	out := make([]Code, len(raw))
	for i, r := range raw {
		out[i] = Code(r)
	}
	return out
}
