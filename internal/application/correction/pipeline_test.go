package correction_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clara-api/internal/application/correction"
	"github.com/jhoicas/clara-api/internal/application/dto"
	"github.com/jhoicas/clara-api/internal/application/ports"
	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
)

// fakeClassifier responde por etapa y registra las peticiones recibidas.
type fakeClassifier struct {
	mu       sync.Mutex
	calls    []ports.ClassifyRequest
	byStage  map[string]func(ctx context.Context) (*dto.Judgment, error)
	numCalls atomic.Int32
}

func newFake() *fakeClassifier {
	return &fakeClassifier{byStage: map[string]func(ctx context.Context) (*dto.Judgment, error){}}
}

func (f *fakeClassifier) on(stage string, fn func(ctx context.Context) (*dto.Judgment, error)) *fakeClassifier {
	f.byStage[stage] = fn
	return f
}

func (f *fakeClassifier) Classify(ctx context.Context, req ports.ClassifyRequest) (*dto.Judgment, error) {
	f.numCalls.Add(1)
	f.mu.Lock()
	f.calls = append(f.calls, req)
	fn := f.byStage[req.Stage]
	f.mu.Unlock()
	if fn == nil {
		return &dto.Judgment{}, nil
	}
	return fn(ctx)
}

func (f *fakeClassifier) request(stage string) (ports.ClassifyRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c.Stage == stage {
			return c, true
		}
	}
	return ports.ClassifyRequest{}, false
}

func judgment(corrected string, pairs ...string) func(context.Context) (*dto.Judgment, error) {
	return func(context.Context) (*dto.Judgment, error) {
		j := &dto.Judgment{HasErrors: len(pairs) > 0}
		for i := 0; i+1 < len(pairs); i += 2 {
			j.Errors = append(j.Errors, dto.JudgmentError{Wrong: pairs[i], Correct: pairs[i+1]})
		}
		if corrected != "" {
			j.CorrectedSentence = &corrected
		}
		return j, nil
	}
}

func failing(context.Context) (*dto.Judgment, error) {
	return nil, errors.New("respuesta no es JSON")
}

func newPipeline(c ports.Classifier, timeout time.Duration) *correction.Pipeline {
	cfg := correction.DefaultConfig()
	cfg.StageTimeout = timeout
	return correction.NewPipeline(c, cfg, zerolog.Nop(), nil)
}

// ──────────────────────────────────────────────────────────────────────────────
// Etapa A
// ──────────────────────────────────────────────────────────────────────────────

func TestDetectBasicErrors_SaludoCortoNoLlamaAlModelo(t *testing.T) {
	for _, in := range []string{"Hola", "hola!", "Merci beaucoup", "Ja, danke", "ok"} {
		f := newFake()
		p := newPipeline(f, time.Second)

		got := p.DetectBasicErrors(context.Background(), in, language.ES)
		assert.Empty(t, got, in)
		assert.Zero(t, f.numCalls.Load(), "no debe invocar al clasificador para %q", in)
	}
}

func TestDetectBasicErrors_FraseCortaSinSaludoSiLlamaAlModelo(t *testing.T) {
	f := newFake().on(correction.StageBasic, judgment("I am tired.", "I is", "I am"))
	p := newPipeline(f, time.Second)

	got := p.DetectBasicErrors(context.Background(), "I is tired", language.EN)
	require.Len(t, got, 1)
	assert.Equal(t, entity.ErrorFinding{Wrong: "I is", Correct: "I am", Kind: entity.FindingBasic}, got[0])
	assert.EqualValues(t, 1, f.numCalls.Load())
}

func TestDetectBasicErrors_FalloDelModeloDevuelveVacio(t *testing.T) {
	f := newFake().on(correction.StageBasic, failing)
	p := newPipeline(f, time.Second)

	var got []entity.ErrorFinding
	assert.NotPanics(t, func() {
		got = p.DetectBasicErrors(context.Background(), "I has a apple", language.EN)
	})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDetectBasicErrors_UsaParametrosDeBajaTemperatura(t *testing.T) {
	f := newFake()
	p := newPipeline(f, time.Second)

	p.DetectBasicErrors(context.Background(), "I has a apple", language.EN)
	req, ok := f.request(correction.StageBasic)
	require.True(t, ok)
	assert.InDelta(t, 0.1, req.Temperature, 1e-9)
	assert.Equal(t, 300, req.MaxTokens)
	assert.Contains(t, req.SystemPrompt, "English")
	assert.Contains(t, req.UserPrompt, "I has a apple")
}

func TestDetectBasicErrors_TextoVacioNoLlamaAlModelo(t *testing.T) {
	f := newFake()
	p := newPipeline(f, time.Second)

	assert.Empty(t, p.DetectBasicErrors(context.Background(), "   ", language.EN))
	assert.Empty(t, p.DetectArtificialConstructions(context.Background(), "", language.EN))
	assert.Zero(t, f.numCalls.Load())
}

// ──────────────────────────────────────────────────────────────────────────────
// Etapa B
// ──────────────────────────────────────────────────────────────────────────────

func TestDetectArtificialConstructions_SiempreLlamaAlModelo(t *testing.T) {
	f := newFake().on(correction.StageArtificial, judgment("", "Hola", "Hola"))
	p := newPipeline(f, time.Second)

	got := p.DetectArtificialConstructions(context.Background(), "Hola", language.ES)
	assert.Empty(t, got, "los pares sin cambio se descartan")
	assert.EqualValues(t, 1, f.numCalls.Load())

	req, ok := f.request(correction.StageArtificial)
	require.True(t, ok)
	assert.InDelta(t, 0.5, req.Temperature, 1e-9)
	assert.Equal(t, 400, req.MaxTokens)
}

func TestDetectArtificialConstructions_FalloDelModeloDevuelveVacio(t *testing.T) {
	f := newFake().on(correction.StageArtificial, failing)
	p := newPipeline(f, time.Second)

	got := p.DetectArtificialConstructions(context.Background(), "I has a apple", language.EN)
	assert.Empty(t, got)
}

func TestDetectArtificialConstructions_PanicoDelClasificadorDevuelveVacio(t *testing.T) {
	f := newFake().on(correction.StageArtificial, func(context.Context) (*dto.Judgment, error) {
		panic("adaptador roto")
	})
	p := newPipeline(f, time.Second)

	assert.Empty(t, p.DetectArtificialConstructions(context.Background(), "I make a party", language.EN))
}

// ──────────────────────────────────────────────────────────────────────────────
// Analyze
// ──────────────────────────────────────────────────────────────────────────────

func TestAnalyze_OrdenBasicosLuegoArtificiales(t *testing.T) {
	f := newFake().
		on(correction.StageBasic, func(ctx context.Context) (*dto.Judgment, error) {
			// la etapa A termina después que la B; el orden debe mantenerse
			time.Sleep(30 * time.Millisecond)
			return judgment("I have an apple.", "has", "have", "a apple", "an apple")(ctx)
		}).
		on(correction.StageArtificial, judgment("ignorada", "make a party", "throw a party"))
	p := newPipeline(f, time.Second)

	a := p.Analyze(context.Background(), "I has a apple and I make a party", language.EN)
	require.Len(t, a.Findings, 3)
	assert.Equal(t, entity.FindingBasic, a.Findings[0].Kind)
	assert.Equal(t, entity.FindingBasic, a.Findings[1].Kind)
	assert.Equal(t, entity.FindingArtificial, a.Findings[2].Kind)
	assert.Equal(t, "I have an apple.", a.CorrectedSentence)
	assert.False(t, a.Degraded())
}

func TestAnalyze_FalloEnAmbasEtapasNoFallaElTurno(t *testing.T) {
	f := newFake().on(correction.StageBasic, failing).on(correction.StageArtificial, failing)
	p := newPipeline(f, time.Second)

	a := p.Analyze(context.Background(), "I has a apple", language.EN)
	assert.Empty(t, a.Findings)
	assert.Empty(t, a.CorrectedSentence)
	assert.ElementsMatch(t, []string{correction.StageBasic, correction.StageArtificial}, a.DegradedStages)
}

func TestAnalyze_TimeoutDegradaSinBloquear(t *testing.T) {
	block := func(ctx context.Context) (*dto.Judgment, error) {
		time.Sleep(2 * time.Second) // ignora el contexto a propósito
		return judgment("x", "a", "b")(ctx)
	}
	f := newFake().on(correction.StageBasic, block).on(correction.StageArtificial, block)
	p := newPipeline(f, 50*time.Millisecond)

	start := time.Now()
	a := p.Analyze(context.Background(), "I has a apple", language.EN)
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, a.Findings)
	assert.Len(t, a.DegradedStages, 2)
}

func TestAnalyze_ContextoCanceladoDegrada(t *testing.T) {
	f := newFake().
		on(correction.StageBasic, func(ctx context.Context) (*dto.Judgment, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).
		on(correction.StageArtificial, func(ctx context.Context) (*dto.Judgment, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
	p := newPipeline(f, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := p.Analyze(ctx, "I has a apple", language.EN)
	assert.Empty(t, a.Findings)
	assert.True(t, a.Degraded())
}

func TestAnalyze_JuicioNuloCuentaComoDegradado(t *testing.T) {
	f := newFake().on(correction.StageBasic, func(context.Context) (*dto.Judgment, error) { return nil, nil })
	p := newPipeline(f, time.Second)

	a := p.Analyze(context.Background(), "I has a apple", language.EN)
	assert.Equal(t, []string{correction.StageBasic}, a.DegradedStages)
}
