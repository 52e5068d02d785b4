package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clara-api/internal/application/conversation"
	"github.com/jhoicas/clara-api/internal/application/dto"
	"github.com/jhoicas/clara-api/internal/domain/language"
)

// ConversationHandler procesa turnos de conversación.
type ConversationHandler struct {
	coord *conversation.Coordinator
}

// NewConversationHandler construye el handler.
func NewConversationHandler(coord *conversation.Coordinator) *ConversationHandler {
	return &ConversationHandler{coord: coord}
}

// Turn godoc
// @Summary      Procesar un turno
// @Description  Resuelve el idioma de respuesta y corrige el enunciado. Un fallo del modelo no falla el turno:
// @Description  las etapas afectadas simplemente no aportan hallazgos.
// @Tags         conversation
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TurnRequest  true  "sessionId y text"
// @Success      200  {object}  dto.TurnResponse
// @Failure      400  {object}  dto.FailureResponse
// @Failure      500  {object}  dto.InternalErrorResponse
// @Router       /api/conversation/turn [post]
func (h *ConversationHandler) Turn(c *fiber.Ctx) error {
	var req dto.TurnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.FailureResponse{Error: "cuerpo de la petición inválido"})
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" || strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.FailureResponse{Error: "sessionId y text son obligatorios"})
	}

	in, err := h.coord.ProcessTurn(c.Context(), sessionID, req.Text)
	if err != nil {
		return err
	}

	findings := make([]dto.FindingDTO, 0, len(in.Findings))
	for _, f := range in.Findings {
		findings = append(findings, dto.FindingDTO{Wrong: f.Wrong, Correct: f.Correct, Kind: string(f.Kind)})
	}
	return c.JSON(dto.TurnResponse{
		Success:           true,
		SessionID:         in.SessionID,
		Utterance:         in.Utterance,
		ResponseLanguage:  string(in.ResponseLanguage),
		Findings:          findings,
		CorrectedSentence: in.CorrectedSentence,
		MixedLanguage: dto.MixedLanguageDTO{
			ShouldProcess:     in.MixedLanguage.ShouldProcess,
			ActiveLanguage:    string(in.MixedLanguage.ActiveLanguage),
			DetectedLanguages: language.Strings(in.DetectedLanguages),
			Message:           in.MixedLanguage.Message,
		},
	})
}
