package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/clara-api/internal/application/conversation"
	"github.com/jhoicas/clara-api/internal/application/dto"
	"github.com/jhoicas/clara-api/internal/application/subscription"
	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
)

// SubscriptionHandler maneja estado, cambio de idioma y cambios de nivel.
type SubscriptionHandler struct {
	engine *subscription.PolicyEngine
	coord  *conversation.Coordinator
}

// NewSubscriptionHandler construye el handler.
func NewSubscriptionHandler(engine *subscription.PolicyEngine, coord *conversation.Coordinator) *SubscriptionHandler {
	return &SubscriptionHandler{engine: engine, coord: coord}
}

// Status godoc
// @Summary      Estado de suscripción de una sesión
// @Description  Crea el perfil freemium por defecto si la sesión aún no existe.
// @Tags         subscription
// @Produce      json
// @Param        sessionId  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.StatusResponse
// @Failure      500  {object}  dto.InternalErrorResponse
// @Router       /api/subscription/status/{sessionId} [get]
func (h *SubscriptionHandler) Status(c *fiber.Ctx) error {
	st, err := h.engine.GetStatus(c.Context(), c.Params("sessionId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.StatusResponse{Success: true, Data: toStatusDTO(st)})
}

// SwitchLanguage godoc
// @Summary      Cambiar el idioma activo
// @Description  Freemium solo puede usar su idioma; premium cualquiera de es, en, fr, it, de, pt.
// @Description  claraResponse es el mensaje localizado para el usuario, también en los rechazos.
// @Tags         subscription
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SwitchLanguageRequest  true  "sessionId y language"
// @Success      200  {object}  dto.SwitchLanguageResponse
// @Failure      400  {object}  dto.FailureResponse
// @Failure      403  {object}  dto.SwitchLanguageDenied
// @Failure      404  {object}  dto.SwitchLanguageDenied
// @Failure      500  {object}  dto.InternalErrorResponse
// @Router       /api/subscription/switch-language [post]
func (h *SubscriptionHandler) SwitchLanguage(c *fiber.Ctx) error {
	var req dto.SwitchLanguageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.FailureResponse{Error: "cuerpo de la petición inválido"})
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" || strings.TrimSpace(req.Language) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.FailureResponse{Error: "sessionId y language son obligatorios"})
	}
	lang, err := language.Parse(req.Language)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.FailureResponse{Error: err.Error()})
	}

	out, err := h.coord.SwitchLanguage(c.Context(), sessionID, lang)
	if err != nil {
		return err
	}
	res := out.Result
	switch {
	case res.Success:
		return c.JSON(dto.SwitchLanguageResponse{
			Success:           true,
			Message:           res.Message,
			ClaraResponse:     out.ClaraResponse,
			NewActiveLanguage: string(res.ActiveLanguage),
		})
	case res.Outcome == subscription.SwitchProfileNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.SwitchLanguageDenied{
			Error:         res.Message,
			ClaraResponse: out.ClaraResponse,
		})
	default:
		return c.Status(fiber.StatusForbidden).JSON(dto.SwitchLanguageDenied{
			Error:           res.Message,
			ClaraResponse:   out.ClaraResponse,
			RequiresUpgrade: res.RequiresUpgrade(),
		})
	}
}

// Upgrade godoc
// @Summary      Mejorar a premium
// @Description  Habilita los seis idiomas sin cambiar el idioma activo. Requiere JWT admin si ADMIN_JWT_SECRET está definido.
// @Tags         subscription
// @Security     Bearer
// @Produce      json
// @Param        sessionId  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.SubscriptionChangeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.InternalErrorResponse
// @Router       /api/subscription/upgrade/{sessionId} [post]
func (h *SubscriptionHandler) Upgrade(c *fiber.Ctx) error {
	p, err := h.engine.Upgrade(c.Context(), c.Params("sessionId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.SubscriptionChangeResponse{
		Success: true,
		Message: "Suscripción mejorada a Premium",
		Profile: toProfileDTO(p),
	})
}

// Downgrade godoc
// @Summary      Volver a freemium
// @Description  El único idioma habilitado pasa a ser el idioma activo en el momento del downgrade.
// @Tags         subscription
// @Security     Bearer
// @Produce      json
// @Param        sessionId  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.SubscriptionChangeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.InternalErrorResponse
// @Router       /api/subscription/downgrade/{sessionId} [post]
func (h *SubscriptionHandler) Downgrade(c *fiber.Ctx) error {
	p, err := h.engine.Downgrade(c.Context(), c.Params("sessionId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.SubscriptionChangeResponse{
		Success: true,
		Message: "Suscripción cambiada a Freemium",
		Profile: toProfileDTO(p),
	})
}

// CreateSession godoc
// @Summary      Crear sesión
// @Description  Genera un sessionId y su perfil freemium. language es opcional (por defecto DEFAULT_LANGUAGE).
// @Tags         subscription
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSessionRequest  false  "idioma inicial"
// @Success      201  {object}  dto.CreateSessionResponse
// @Failure      400  {object}  dto.FailureResponse
// @Failure      500  {object}  dto.InternalErrorResponse
// @Router       /api/subscription/session [post]
func (h *SubscriptionHandler) CreateSession(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.FailureResponse{Error: "cuerpo de la petición inválido"})
		}
	}
	lang := h.engine.DefaultLanguage()
	if strings.TrimSpace(req.Language) != "" {
		parsed, err := language.Parse(req.Language)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.FailureResponse{Error: err.Error()})
		}
		lang = parsed
	}

	sessionID := uuid.NewString()
	p, err := h.engine.EnsureProfile(c.Context(), sessionID, lang)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateSessionResponse{
		Success:   true,
		SessionID: sessionID,
		Data:      toStatusDTO(subscription.StatusOf(p)),
	})
}

func toStatusDTO(st *subscription.Status) dto.StatusDTO {
	return dto.StatusDTO{
		SubscriptionType:   string(st.SubscriptionType),
		ActiveLanguage:     string(st.ActiveLanguage),
		AvailableLanguages: language.Strings(st.AvailableLanguages),
		CanSwitchLanguages: st.CanSwitchLanguages,
	}
}

func toProfileDTO(p *entity.UserProfile) dto.ProfileDTO {
	return dto.ProfileDTO{
		SubscriptionType:   string(p.SubscriptionType),
		AvailableLanguages: language.Strings(language.Canonical(p.AvailableLanguages)),
		ActiveLanguage:     string(p.ActiveLanguage),
	}
}
