package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json puro", `{"hasErrors":false}`, `{"hasErrors":false}`},
		{"bloque markdown", "```json\n{\"hasErrors\":true}\n```", `{"hasErrors":true}`},
		{"texto alrededor", `Aquí va: {"hasErrors":false} listo`, `{"hasErrors":false}`},
		{"sin json", "no sé", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}

func TestParseJudgment_CompletaErroresYFlag(t *testing.T) {
	j, err := parseJudgment("test", `{"errors":[{"wrong":"has","correct":"have"}],"correctedSentence":"I have an apple."}`)
	require.NoError(t, err)
	assert.True(t, j.HasErrors)
	require.Len(t, j.Errors, 1)
	require.NotNil(t, j.CorrectedSentence)
	assert.Equal(t, "I have an apple.", *j.CorrectedSentence)
}

func TestParseJudgment_SinErroresDevuelveSliceVacio(t *testing.T) {
	j, err := parseJudgment("test", `{"hasErrors":false,"correctedSentence":null}`)
	require.NoError(t, err)
	assert.NotNil(t, j.Errors)
	assert.Nil(t, j.CorrectedSentence)
}

func TestParseJudgment_NoJSONEsError(t *testing.T) {
	_, err := parseJudgment("test", "Lo siento, no puedo ayudar con eso.")
	assert.Error(t, err)

	_, err = parseJudgment("test", `{"hasErrors": tru`)
	assert.Error(t, err)
}
