package ports

import "github.com/jhoicas/clara-api/internal/domain/language"

// LanguageDetector identifica los idiomas soportados presentes en un texto.
// Devuelve una lista sin duplicados; vacía si no reconoce ninguno.
type LanguageDetector interface {
	DetectLanguages(text string) []language.Code
}
