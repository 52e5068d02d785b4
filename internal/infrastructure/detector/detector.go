// Package detector identifica en qué idiomas soportados está escrito un enunciado.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"

	"github.com/jhoicas/clara-api/internal/application/ports"
	"github.com/jhoicas/clara-api/internal/domain/language"
)

var _ ports.LanguageDetector = (*Detector)(nil)

// linguaLanguages restringe el modelo a los seis idiomas del producto.
var linguaLanguages = []lingua.Language{
	lingua.Spanish,
	lingua.English,
	lingua.French,
	lingua.Italian,
	lingua.German,
	lingua.Portuguese,
}

// Detector envuelve lingua-go. Construirlo es caro; reutilizar la instancia.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(linguaLanguages...).
		Build()
	return &Detector{detector: d}
}

// DetectLanguages devuelve los idiomas presentes en text en orden de aparición, sin duplicados.
// Si el análisis por segmentos no encuentra nada cae a la detección de un único idioma.
func (d *Detector) DetectLanguages(text string) []language.Code {
	text = strings.TrimSpace(text)
	out := []language.Code{}
	if text == "" {
		return out
	}

	for _, r := range d.detector.DetectMultipleLanguagesOf(text) {
		if c, ok := toCode(r.Language()); ok && !language.Contains(out, c) {
			out = append(out, c)
		}
	}
	if len(out) > 0 {
		return out
	}

	if l, ok := d.detector.DetectLanguageOf(text); ok {
		if c, ok := toCode(l); ok {
			out = append(out, c)
		}
	}
	return out
}

func toCode(l lingua.Language) (language.Code, bool) {
	if l == lingua.Unknown {
		return "", false
	}
	c := language.Code(strings.ToLower(l.IsoCode639_1().String()))
	return c, language.IsSupported(c)
}
