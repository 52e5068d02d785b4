// Package observe agrupa las métricas OpenTelemetry del servicio.
//
// Las métricas se exponen en /metrics a través del exportador Prometheus
// configurado por InitProvider. En tests usar NewMetrics con un
// metric.MeterProvider propio (o noop) para no contaminar el proveedor global.
// Todos los métodos Record* aceptan un receptor nil y no hacen nada.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/jhoicas/clara-api"

// Metrics instrumentos del motor de políticas y del pipeline de corrección.
type Metrics struct {
	// StageDuration latencia de cada etapa de corrección (attr stage).
	StageDuration metric.Float64Histogram

	// DegradedAnalyses etapas que fallaron y se degradaron a "sin hallazgos" (attr stage).
	DegradedAnalyses metric.Int64Counter

	// LanguageSwitches intentos de cambio de idioma (attr outcome).
	LanguageSwitches metric.Int64Counter

	// SubscriptionChanges upgrades/downgrades (attr tier).
	SubscriptionChanges metric.Int64Counter

	// HTTPRequestDuration latencia HTTP (attrs method, route, status).
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets en segundos, pensados para llamadas a LLM.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16,
}

// NewMetrics crea todos los instrumentos con el MeterProvider dado.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.StageDuration, err = m.Float64Histogram("clara.correction.stage.duration",
		metric.WithDescription("Latencia de cada etapa del pipeline de corrección."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.DegradedAnalyses, err = m.Int64Counter("clara.correction.degraded",
		metric.WithDescription("Etapas de corrección degradadas a resultado vacío."),
	); err != nil {
		return nil, err
	}
	if met.LanguageSwitches, err = m.Int64Counter("clara.language.switch",
		metric.WithDescription("Intentos de cambio de idioma activo por resultado."),
	); err != nil {
		return nil, err
	}
	if met.SubscriptionChanges, err = m.Int64Counter("clara.subscription.changes",
		metric.WithDescription("Cambios de nivel de suscripción por nivel destino."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("clara.http.request.duration",
		metric.WithDescription("Latencia de peticiones HTTP."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// RecordStage registra la duración de una etapa y, si se degradó, incrementa el contador.
func (m *Metrics) RecordStage(ctx context.Context, stage string, elapsed time.Duration, degraded bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("stage", stage))
	m.StageDuration.Record(ctx, elapsed.Seconds(), attrs)
	if degraded {
		m.DegradedAnalyses.Add(ctx, 1, attrs)
	}
}

// RecordLanguageSwitch cuenta un intento de cambio de idioma.
func (m *Metrics) RecordLanguageSwitch(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.LanguageSwitches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordSubscriptionChange cuenta un upgrade/downgrade.
func (m *Metrics) RecordSubscriptionChange(ctx context.Context, tier string) {
	if m == nil {
		return
	}
	m.SubscriptionChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", tier)))
}

// RecordHTTPRequest registra la latencia de una petición HTTP.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
}
