package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/clara-api/internal/application/dto"
	"github.com/jhoicas/clara-api/internal/observe"
)

// HeaderRequestID se respeta si llega del proxy; si no, se genera.
const HeaderRequestID = "X-Request-ID"

// RequestLogger registra cada petición con zerolog y su latencia en el histograma HTTP.
func RequestLogger(log zerolog.Logger, metrics *observe.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(HeaderRequestID, reqID)

		err := c.Next()
		if err != nil {
			// resolver el status ahora para que log y métrica vean el definitivo
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		metrics.RecordHTTPRequest(c.Context(), c.Method(), route, status, elapsed)

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("http")
		return nil
	}
}

// ErrorHandler traduce errores no controlados a 500 {error, details}.
// Los *fiber.Error (404 de ruta, 405, body demasiado grande) conservan su código.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.InternalErrorResponse{Error: fe.Message, Details: fe.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.InternalErrorResponse{
		Error:   "Error interno del servidor",
		Details: err.Error(),
	})
}
