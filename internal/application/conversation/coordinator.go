// Package conversation compone, por turno, el motor de suscripción y el pipeline de corrección.
package conversation

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/clara-api/internal/application/correction"
	"github.com/jhoicas/clara-api/internal/application/ports"
	"github.com/jhoicas/clara-api/internal/application/subscription"
	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
)

// SwitchOutput resultado estructurado del motor más el mensaje localizado del enforcer.
type SwitchOutput struct {
	Result        subscription.SwitchResult
	ClaraResponse string
}

// TurnInput lo que consume la etapa (externa) de generación de respuesta.
type TurnInput struct {
	SessionID         string
	Utterance         string
	ResponseLanguage  language.Code
	DetectedLanguages []language.Code
	Findings          []entity.ErrorFinding
	CorrectedSentence string
	MixedLanguage     subscription.MixedLanguageResult
}

// Coordinator orquesta un turno de conversación.
type Coordinator struct {
	engine   *subscription.PolicyEngine
	pipeline *correction.Pipeline
	detector ports.LanguageDetector
	enforcer ports.LanguageEnforcer
	log      zerolog.Logger
}

// NewCoordinator construye el coordinador. detector puede ser nil: el turno se
// procesa sin clasificación multilingüe.
func NewCoordinator(
	engine *subscription.PolicyEngine,
	pipeline *correction.Pipeline,
	detector ports.LanguageDetector,
	enforcer ports.LanguageEnforcer,
	log zerolog.Logger,
) *Coordinator {
	return &Coordinator{
		engine:   engine,
		pipeline: pipeline,
		detector: detector,
		enforcer: enforcer,
		log:      log,
	}
}

// SwitchLanguage intenta el cambio y, salga como salga, pide al enforcer el mensaje
// para el usuario. Si el enforcer falla se usa el mensaje del motor.
func (c *Coordinator) SwitchLanguage(ctx context.Context, sessionID string, lang language.Code) (*SwitchOutput, error) {
	res, err := c.engine.SwitchActiveLanguage(ctx, sessionID, lang)
	if err != nil {
		return nil, err
	}

	msg := res.Message
	if c.enforcer != nil {
		reply, ferr := c.enforcer.HandleLanguageSwitchRequest(ctx, sessionID, lang)
		switch {
		case ferr != nil:
			c.log.Warn().Err(ferr).Str("session_id", sessionID).Msg("enforcer falló, se usa el mensaje del motor")
		case strings.TrimSpace(reply) != "":
			msg = reply
		}
	}
	return &SwitchOutput{Result: res, ClaraResponse: msg}, nil
}

// ProcessTurn resuelve el idioma de respuesta una sola vez y analiza el enunciado en ese idioma.
// Solo los fallos del almacén de perfiles se propagan; el análisis nunca falla.
func (c *Coordinator) ProcessTurn(ctx context.Context, sessionID, utterance string) (*TurnInput, error) {
	lang, err := c.engine.ResolveResponseLanguage(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var detected []language.Code
	if c.detector != nil {
		detected = c.detector.DetectLanguages(utterance)
	}
	mixed := subscription.ClassifyMixedLanguage(lang, detected)

	analysis := c.pipeline.Analyze(ctx, utterance, lang)
	c.log.Debug().
		Str("session_id", sessionID).
		Str("language", string(lang)).
		Int("findings", len(analysis.Findings)).
		Strs("degraded", analysis.DegradedStages).
		Msg("turno analizado")

	return &TurnInput{
		SessionID:         sessionID,
		Utterance:         utterance,
		ResponseLanguage:  lang,
		DetectedLanguages: detected,
		Findings:          analysis.Findings,
		CorrectedSentence: analysis.CorrectedSentence,
		MixedLanguage:     mixed,
	}, nil
}
