package dto

// JudgmentError par (incorrecto, correcto) tal como lo devuelve el modelo.
type JudgmentError struct {
	Wrong   string `json:"wrong"`
	Correct string `json:"correct"`
}

// Judgment juicio estructurado que devuelve el clasificador LLM.
// CorrectedSentence solo lo rellena la etapa de errores básicos.
type Judgment struct {
	HasErrors         bool            `json:"hasErrors"`
	Errors            []JudgmentError `json:"errors"`
	CorrectedSentence *string         `json:"correctedSentence"`
}

// FindingDTO hallazgo expuesto por la API.
type FindingDTO struct {
	Wrong   string `json:"wrong"`
	Correct string `json:"correct"`
	Kind    string `json:"kind"`
}

// TurnRequest entrada de POST /api/conversation/turn.
type TurnRequest struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

// MixedLanguageDTO resultado de la clasificación de entrada multilingüe.
type MixedLanguageDTO struct {
	ShouldProcess     bool     `json:"shouldProcess"`
	ActiveLanguage    string   `json:"activeLanguage"`
	DetectedLanguages []string `json:"detectedLanguages"`
	Message           string   `json:"message,omitempty"`
}

// TurnResponse insumos para la etapa (externa) de generación de respuesta.
type TurnResponse struct {
	Success           bool             `json:"success"`
	SessionID         string           `json:"sessionId"`
	Utterance         string           `json:"utterance"`
	ResponseLanguage  string           `json:"responseLanguage"`
	Findings          []FindingDTO     `json:"findings"`
	CorrectedSentence string           `json:"correctedSentence,omitempty"`
	MixedLanguage     MixedLanguageDTO `json:"mixedLanguage"`
}
