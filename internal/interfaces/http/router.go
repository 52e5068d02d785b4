package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/clara-api/internal/application/conversation"
	"github.com/jhoicas/clara-api/internal/application/subscription"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine         *subscription.PolicyEngine
	Coordinator    *conversation.Coordinator
	AdminJWTSecret string
	AdminJWTIssuer string
	MetricsHandler nethttp.Handler // exposición Prometheus; nil = sin /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Suscripción (público salvo los cambios de nivel)
	subHandler := NewSubscriptionHandler(deps.Engine, deps.Coordinator)
	sub := api.Group("/subscription")
	sub.Post("/session", subHandler.CreateSession)
	sub.Get("/status/:sessionId", subHandler.Status)
	sub.Post("/switch-language", subHandler.SwitchLanguage)

	admin := AdminMiddleware(deps.AdminJWTSecret, deps.AdminJWTIssuer)
	sub.Post("/upgrade/:sessionId", admin, subHandler.Upgrade)
	sub.Post("/downgrade/:sessionId", admin, subHandler.Downgrade)

	// Conversación
	convHandler := NewConversationHandler(deps.Coordinator)
	api.Group("/conversation").Post("/turn", convHandler.Turn)
}
