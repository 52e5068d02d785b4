package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/clara-api/internal/domain/language"
	"github.com/jhoicas/clara-api/internal/infrastructure/detector"
)

func TestDetectLanguages(t *testing.T) {
	d := detector.New()

	assert.Empty(t, d.DetectLanguages("   "))
	assert.Contains(t, d.DetectLanguages("Yesterday I went to the market and bought some fresh vegetables"), language.EN)
	assert.Contains(t, d.DetectLanguages("Ayer fui al mercado y compré muchas verduras frescas para la cena"), language.ES)
	assert.Contains(t, d.DetectLanguages("Hier je suis allé au marché et j'ai acheté des légumes frais"), language.FR)
}

func TestDetectLanguages_SinDuplicados(t *testing.T) {
	d := detector.New()

	got := d.DetectLanguages("Guten Morgen, wie geht es dir heute? Ich hoffe, es geht dir gut und du hast einen schönen Tag")
	seen := map[language.Code]bool{}
	for _, c := range got {
		assert.False(t, seen[c], "duplicado %s", c)
		seen[c] = true
		assert.True(t, language.IsSupported(c))
	}
}
