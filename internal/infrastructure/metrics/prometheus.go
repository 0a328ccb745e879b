package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Salidas-api/internal/application/stockout"
	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

const namespace = "salidas"

var _ stockout.Recorder = (*Recorder)(nil)

// Recorder métricas del motor de salidas sobre un registry propio.
type Recorder struct {
	registry     *prometheus.Registry
	decisions    *prometheus.CounterVec
	executions   prometheus.Counter
	failures     *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewRecorder crea y registra los colectores (incluye los de proceso y runtime de Go).
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approval_decisions_total",
			Help:      "Decisiones registradas por capa y resultado.",
		}, []string{"layer", "decision"}),
		executions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executions_total",
			Help:      "Asignaciones ejecutadas (salidas completadas).",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Operaciones rechazadas por operación y categoría de error.",
		}, []string{"operation", "kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y código.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	r.registry.MustRegister(
		r.decisions, r.executions, r.failures, r.httpRequests, r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Decision cuenta una decisión L1 o L2.
func (r *Recorder) Decision(layer entity.ApprovalLayer, decision string) {
	r.decisions.WithLabelValues(string(layer), decision).Inc()
}

// Execution cuenta una ejecución.
func (r *Recorder) Execution() { r.executions.Inc() }

// Failure cuenta un rechazo clasificado por categoría de dominio.
func (r *Recorder) Failure(operation string, err error) {
	r.failures.WithLabelValues(operation, Kind(err)).Inc()
}

// Kind etiqueta corta de la categoría del error.
func Kind(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrPermission):
		return "permission"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrAlreadyExists):
		return "already_exists"
	default:
		return "internal"
	}
}

// Handler expone el registry en formato Prometheus.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry acceso directo (tests).
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Middleware mide cada petición HTTP. Usa la ruta registrada (no la URL) para acotar cardinalidad.
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		route := c.Route().Path
		r.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		r.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
