// Package correction detecta errores en el enunciado del alumno en dos etapas
// independientes (errores básicos y construcciones artificiales). Ninguna etapa
// falla hacia el llamador: ante cualquier error devuelve cero hallazgos.
package correction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/clara-api/internal/application/dto"
	"github.com/jhoicas/clara-api/internal/application/ports"
	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
	"github.com/jhoicas/clara-api/internal/observe"
)

// Nombres de etapa usados en logs, métricas y ClassifyRequest.Stage.
const (
	StageBasic      = "basic"
	StageArtificial = "artificial"
)

var errEmptyJudgment = errors.New("juicio vacío")

// Config perillas de ajuste por etapa.
type Config struct {
	BasicTemperature      float64
	BasicMaxTokens        int
	ArtificialTemperature float64
	ArtificialMaxTokens   int
	StageTimeout          time.Duration
}

// DefaultConfig valores por defecto: etapa básica casi determinista, naturalidad moderada.
func DefaultConfig() Config {
	return Config{
		BasicTemperature:      0.1,
		BasicMaxTokens:        300,
		ArtificialTemperature: 0.5,
		ArtificialMaxTokens:   400,
		StageTimeout:          8 * time.Second,
	}
}

// Analysis resultado combinado de ambas etapas.
type Analysis struct {
	Findings          []entity.ErrorFinding // primero los básicos, luego los artificiales
	CorrectedSentence string
	DegradedStages    []string
}

// Degraded informa si alguna etapa cayó a su resultado vacío por fallo.
func (a Analysis) Degraded() bool { return len(a.DegradedStages) > 0 }

// stageResult salida interna de una etapa.
type stageResult struct {
	findings  []entity.ErrorFinding
	corrected string
	degraded  bool
}

// Pipeline orquesta las dos etapas sobre un Classifier.
type Pipeline struct {
	classifier ports.Classifier
	cfg        Config
	log        zerolog.Logger
	metrics    *observe.Metrics
}

// NewPipeline crea el pipeline. Los valores no positivos de cfg se sustituyen por los de DefaultConfig.
func NewPipeline(classifier ports.Classifier, cfg Config, log zerolog.Logger, metrics *observe.Metrics) *Pipeline {
	def := DefaultConfig()
	if cfg.BasicTemperature < 0 {
		cfg.BasicTemperature = def.BasicTemperature
	}
	if cfg.BasicMaxTokens <= 0 {
		cfg.BasicMaxTokens = def.BasicMaxTokens
	}
	if cfg.ArtificialTemperature < 0 {
		cfg.ArtificialTemperature = def.ArtificialTemperature
	}
	if cfg.ArtificialMaxTokens <= 0 {
		cfg.ArtificialMaxTokens = def.ArtificialMaxTokens
	}
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = def.StageTimeout
	}
	return &Pipeline{classifier: classifier, cfg: cfg, log: log, metrics: metrics}
}

// DetectBasicErrors etapa A: ortografía, mayúsculas, gramática y sintaxis.
// Las frases cortas de saludo no llegan al modelo.
func (p *Pipeline) DetectBasicErrors(ctx context.Context, text string, lang language.Code) []entity.ErrorFinding {
	return p.basic(ctx, text, lang).findings
}

// DetectArtificialConstructions etapa B: frases gramaticales pero poco naturales.
func (p *Pipeline) DetectArtificialConstructions(ctx context.Context, text string, lang language.Code) []entity.ErrorFinding {
	return p.artificial(ctx, text, lang).findings
}

// Analyze ejecuta ambas etapas en paralelo y solo consume los resultados cuando las dos terminaron.
func (p *Pipeline) Analyze(ctx context.Context, text string, lang language.Code) Analysis {
	var basic, artificial stageResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		basic = p.basic(gctx, text, lang)
		return nil
	})
	g.Go(func() error {
		artificial = p.artificial(gctx, text, lang)
		return nil
	})
	_ = g.Wait() // las etapas nunca devuelven error

	out := Analysis{
		Findings:          make([]entity.ErrorFinding, 0, len(basic.findings)+len(artificial.findings)),
		CorrectedSentence: basic.corrected,
	}
	out.Findings = append(out.Findings, basic.findings...)
	out.Findings = append(out.Findings, artificial.findings...)
	if basic.degraded {
		out.DegradedStages = append(out.DegradedStages, StageBasic)
	}
	if artificial.degraded {
		out.DegradedStages = append(out.DegradedStages, StageArtificial)
	}
	return out
}

func (p *Pipeline) basic(ctx context.Context, text string, lang language.Code) stageResult {
	if strings.TrimSpace(text) == "" || isTrivialPhrase(text) {
		return stageResult{findings: []entity.ErrorFinding{}}
	}
	return p.run(ctx, entity.FindingBasic, ports.ClassifyRequest{
		Stage:        StageBasic,
		SystemPrompt: basicPrompt(lang),
		UserPrompt:   userPrompt(text, lang),
		Temperature:  p.cfg.BasicTemperature,
		MaxTokens:    p.cfg.BasicMaxTokens,
	})
}

func (p *Pipeline) artificial(ctx context.Context, text string, lang language.Code) stageResult {
	if strings.TrimSpace(text) == "" {
		return stageResult{findings: []entity.ErrorFinding{}}
	}
	return p.run(ctx, entity.FindingArtificial, ports.ClassifyRequest{
		Stage:        StageArtificial,
		SystemPrompt: artificialPrompt(lang),
		UserPrompt:   userPrompt(text, lang),
		Temperature:  p.cfg.ArtificialTemperature,
		MaxTokens:    p.cfg.ArtificialMaxTokens,
	})
}

// run hace un único intento contra el clasificador con timeout propio.
// Timeout, error, pánico o juicio vacío degradan a cero hallazgos.
func (p *Pipeline) run(ctx context.Context, kind entity.FindingKind, req ports.ClassifyRequest) stageResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()

	j, err := p.classify(ctx, req)
	if err == nil && j == nil {
		err = errEmptyJudgment
	}
	if err != nil {
		p.log.Warn().Err(err).Str("stage", req.Stage).Msg("etapa de corrección degradada, sin hallazgos")
		p.metrics.RecordStage(ctx, req.Stage, time.Since(start), true)
		return stageResult{findings: []entity.ErrorFinding{}, degraded: true}
	}
	p.metrics.RecordStage(ctx, req.Stage, time.Since(start), false)

	res := stageResult{findings: toFindings(j, kind)}
	if kind == entity.FindingBasic && j.CorrectedSentence != nil {
		res.corrected = strings.TrimSpace(*j.CorrectedSentence)
	}
	return res
}

type classifyOutcome struct {
	judgment *dto.Judgment
	err      error
}

// classify llama al clasificador en una goroutine para que el timeout resuelva
// la etapa aunque el adaptador ignore el contexto.
func (p *Pipeline) classify(ctx context.Context, req ports.ClassifyRequest) (*dto.Judgment, error) {
	done := make(chan classifyOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- classifyOutcome{err: fmt.Errorf("pánico en clasificador: %v", r)}
			}
		}()
		j, err := p.classifier.Classify(ctx, req)
		done <- classifyOutcome{judgment: j, err: err}
	}()

	select {
	case out := <-done:
		return out.judgment, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// toFindings normaliza el juicio: descarta pares sin span o sin cambio.
func toFindings(j *dto.Judgment, kind entity.FindingKind) []entity.ErrorFinding {
	out := make([]entity.ErrorFinding, 0, len(j.Errors))
	for _, e := range j.Errors {
		wrong := strings.TrimSpace(e.Wrong)
		correct := strings.TrimSpace(e.Correct)
		if wrong == "" || wrong == correct {
			continue
		}
		out = append(out, entity.ErrorFinding{Wrong: wrong, Correct: correct, Kind: kind})
	}
	return out
}
