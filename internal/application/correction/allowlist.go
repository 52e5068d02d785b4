package correction

import (
	"strings"
	"unicode"
)

// maxShortPhraseTokens umbral de "frase corta" para el atajo de saludos.
const maxShortPhraseTokens = 3

// greetings saludos y acuses de recibo frecuentes en los seis idiomas.
// Una frase corta que contenga alguno se da por correcta sin consultar al modelo.
var greetings = map[string]struct{}{
	// en
	"hi": {}, "hello": {}, "hey": {}, "thanks": {}, "thank": {}, "ok": {}, "okay": {},
	"yes": {}, "no": {}, "bye": {}, "goodbye": {},
	// es
	"hola": {}, "gracias": {}, "sí": {}, "si": {}, "adiós": {}, "adios": {}, "vale": {},
	"buenas": {}, "chao": {},
	// fr
	"bonjour": {}, "salut": {}, "merci": {}, "oui": {}, "non": {}, "bonsoir": {}, "d'accord": {},
	// it
	"ciao": {}, "grazie": {}, "sì": {}, "prego": {}, "buongiorno": {}, "arrivederci": {},
	// de
	"hallo": {}, "danke": {}, "ja": {}, "nein": {}, "tschüss": {}, "servus": {},
	// pt
	"olá": {}, "ola": {}, "obrigado": {}, "obrigada": {}, "sim": {}, "tchau": {}, "oi": {},
}

// tokenize separa por espacios, pasa a minúsculas y recorta la puntuación de los bordes.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.TrimFunc(strings.ToLower(f), func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// isTrivialPhrase: ≤3 tokens y al menos uno en la lista de saludos.
func isTrivialPhrase(text string) bool {
	tokens := tokenize(text)
	if len(tokens) == 0 || len(tokens) > maxShortPhraseTokens {
		return false
	}
	for _, t := range tokens {
		if _, ok := greetings[t]; ok {
			return true
		}
	}
	return false
}
