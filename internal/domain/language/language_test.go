package language_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clara-api/internal/domain"
	"github.com/jhoicas/clara-api/internal/domain/language"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    language.Code
		wantErr bool
	}{
		{"minúsculas", "fr", language.FR, false},
		{"mayúsculas y espacios", " EN ", language.EN, false},
		{"con región", "es-MX", "", true},
		{"fuera del conjunto", "ja", "", true},
		{"vacío", "", "", true},
		{"basura", "no-es-un-idioma!", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := language.Parse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidLanguage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSupported_OrdenCanónicoYCopia(t *testing.T) {
	s := language.Supported()
	assert.Equal(t, []language.Code{"es", "en", "fr", "it", "de", "pt"}, s)

	s[0] = "xx"
	assert.Equal(t, language.ES, language.Supported()[0])
}

func TestIsSupported_ComparaciónExacta(t *testing.T) {
	assert.True(t, language.IsSupported("de"))
	assert.False(t, language.IsSupported("DE"))
	assert.False(t, language.IsSupported("ru"))
}

func TestNombres(t *testing.T) {
	assert.Equal(t, "Español", language.ES.NativeName())
	assert.Equal(t, "Français", language.FR.NativeName())
	assert.Equal(t, "Deutsch", language.DE.NativeName())
	assert.Equal(t, "Italian", language.IT.EnglishName())
	assert.Equal(t, "Portuguese", language.PT.EnglishName())
}

func TestCanonical(t *testing.T) {
	in := []language.Code{"pt", "es", "ja", "pt", "en"}
	assert.Equal(t, []language.Code{"es", "en", "pt"}, language.Canonical(in))
	assert.Empty(t, language.Canonical(nil))
}

func TestStringsYFromStrings(t *testing.T) {
	codes := []language.Code{language.IT, language.DE}
	raw := language.Strings(codes)
	assert.Equal(t, []string{"it", "de"}, raw)
	assert.Equal(t, codes, language.FromStrings(raw))
}
