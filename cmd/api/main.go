package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/clara-api/internal/application/conversation"
	"github.com/jhoicas/clara-api/internal/application/correction"
	"github.com/jhoicas/clara-api/internal/application/subscription"
	"github.com/jhoicas/clara-api/internal/domain/language"
	infraai "github.com/jhoicas/clara-api/internal/infrastructure/ai"
	"github.com/jhoicas/clara-api/internal/infrastructure/detector"
	"github.com/jhoicas/clara-api/internal/infrastructure/enforcer"
	"github.com/jhoicas/clara-api/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/clara-api/internal/interfaces/http"
	"github.com/jhoicas/clara-api/internal/observe"
	"github.com/jhoicas/clara-api/pkg/config"
	"github.com/jhoicas/clara-api/pkg/logger"

	_ "github.com/jhoicas/clara-api/docs"
)

var version = "dev"

// @title        Clara API
// @version      1.0
// @description  Políticas de conversación y corrección para la tutora de idiomas Clara.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("ai", cfg.AI.Provider).
		Msg("iniciando aplicación")

	defaultLang, err := language.Parse(cfg.Subscription.DefaultLanguage)
	if err != nil {
		log.Fatal().Err(err).Msg("DEFAULT_LANGUAGE")
	}

	ctx := context.Background()

	shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: cfg.App.Name, ServiceVersion: version})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar métricas")
	}
	metrics, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		log.Fatal().Err(err).Msg("registrar instrumentos")
	}

	profiles, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén de perfiles")
	}
	defer profiles.Close()

	classifier, err := infraai.NewClassifier(cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("clasificador LLM")
	}
	if infraai.IsNoop(classifier) {
		log.Warn().Str("ai", cfg.AI.Provider).Msg("AI_PROVIDER=none: la corrección no devolverá hallazgos; configure anthropic, gemini, openai o anyllm")
	}

	engine := subscription.NewPolicyEngine(profiles.Repo, profiles.Tx, subscription.Config{
		DefaultLanguage: defaultLang,
		DowngradePolicy: subscription.DowngradePolicy(cfg.Subscription.DowngradePolicy),
	}, log.Component("subscription"), metrics)

	pipeline := correction.NewPipeline(classifier, correction.Config{
		BasicTemperature:      cfg.Correction.BasicTemperature,
		BasicMaxTokens:        cfg.Correction.BasicMaxTokens,
		ArtificialTemperature: cfg.Correction.ArtificialTemperature,
		ArtificialMaxTokens:   cfg.Correction.ArtificialMaxTokens,
		StageTimeout:          cfg.Correction.StageTimeout,
	}, log.Component("correction"), metrics)

	catalog, err := enforcer.DefaultCatalog()
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo de mensajes")
	}
	coordinator := conversation.NewCoordinator(
		engine,
		pipeline,
		detector.New(),
		enforcer.New(profiles.Repo, catalog, defaultLang),
		log.Component("conversation"),
	)

	// WriteTimeout cubre la espera de las dos etapas del LLM en /api/conversation/turn.
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Correction.StageTimeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), metrics))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Clara API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := profiles.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:         engine,
		Coordinator:    coordinator,
		AdminJWTSecret: cfg.Admin.JWTSecret,
		AdminJWTIssuer: cfg.Admin.JWTIssuer,
		MetricsHandler: promhttp.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownMetrics(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de métricas")
	}

	log.Info().Msg("aplicación detenida")
}
