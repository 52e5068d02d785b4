package entity

// FindingKind etapa del análisis que produjo el hallazgo.
type FindingKind string

const (
	FindingBasic      FindingKind = "basic"      // ortografía, mayúsculas, gramática, sintaxis
	FindingArtificial FindingKind = "artificial" // construcciones poco naturales o calcos literales
)

// ErrorFinding defecto detectado en un enunciado del usuario. Efímero: no se persiste.
type ErrorFinding struct {
	Wrong   string
	Correct string
	Kind    FindingKind
}
