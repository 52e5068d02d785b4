package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/clara-api/internal/application/dto"
)

// maxResponseBytes límite de lectura del cuerpo de las respuestas HTTP del proveedor.
const maxResponseBytes = 64 * 1024

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
// Captura desde el primer '{' hasta el último '}'.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON extrae el primer objeto JSON de un texto libre.
//  1. Elimina bloques de código markdown (```json … ``` o ``` … ```).
//  2. Si no empieza por '{', usa la regex para capturar el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}

// parseJudgment convierte el texto del modelo en un juicio estructurado.
// Cualquier desviación del contrato JSON es un error (el pipeline lo degrada a "sin hallazgos").
func parseJudgment(provider, raw string) (*dto.Judgment, error) {
	clean := extractJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("AI: %s no devolvió JSON (respuesta: %.200s)", provider, raw)
	}
	var j dto.Judgment
	if err := json.Unmarshal([]byte(clean), &j); err != nil {
		return nil, fmt.Errorf("AI: parsear juicio de %s: %w (JSON extraído: %.200s)", provider, err, clean)
	}
	if j.Errors == nil {
		j.Errors = []dto.JudgmentError{}
	}
	if !j.HasErrors && len(j.Errors) > 0 {
		// el modelo a veces olvida el flag; los pares mandan
		j.HasErrors = true
	}
	return &j, nil
}
