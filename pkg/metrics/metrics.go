// Package metrics expone los contadores Prometheus del servicio.
//
// Los colectores se registran sobre un *prometheus.Registry propio (no el global)
// para que cada test pueda crear su Recorder sin conflictos de registro.
// Un *Recorder nil es válido: todos sus métodos son no-op.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados posibles de un movimiento o de un envío de resumen (label "outcome").
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeInsufficient = "insufficient"
	OutcomeError        = "error"
	OutcomeSkipped      = "skipped"
)

// Recorder agrupa los colectores de negocio.
type Recorder struct {
	registry *prometheus.Registry

	// MovementsTotal movimientos ejecutados por tipo (IN/OUT/MOVE) y resultado.
	MovementsTotal *prometheus.CounterVec
	// MovementDuration duración de validar + transacción + commit.
	MovementDuration *prometheus.HistogramVec
	// IdempotencyEvents hit_cache, hit_store, miss, in_flight, lookup_error, stored.
	IdempotencyEvents *prometheus.CounterVec
	// IdempotencyPurged filas eliminadas por la purga programada.
	IdempotencyPurged prometheus.Counter
	// DigestsSent resúmenes de stock bajo enviados.
	DigestsSent *prometheus.CounterVec
}

// New crea un Recorder con registro propio, incluyendo colectores de proceso y runtime.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		MovementsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_movements_total",
			Help: "Movimientos de stock por tipo y resultado.",
		}, []string{"type", "outcome"}),
		MovementDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stock_movement_duration_seconds",
			Help:    "Duración de la ejecución de un movimiento.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"type"}),
		IdempotencyEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "idempotency_events_total",
			Help: "Eventos de la capa de idempotencia.",
		}, []string{"event"}),
		IdempotencyPurged: f.NewCounter(prometheus.CounterOpts{
			Name: "idempotency_records_purged_total",
			Help: "Registros de idempotencia eliminados por antigüedad.",
		}),
		DigestsSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "low_stock_digests_total",
			Help: "Resúmenes de stock bajo por resultado.",
		}, []string{"outcome"}),
	}
}

// ObserveMovement registra un movimiento terminado.
func (r *Recorder) ObserveMovement(kind, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.MovementsTotal.WithLabelValues(kind, outcome).Inc()
	r.MovementDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// IdempotencyEvent incrementa el contador del evento dado.
func (r *Recorder) IdempotencyEvent(event string) {
	if r == nil {
		return
	}
	r.IdempotencyEvents.WithLabelValues(event).Inc()
}

// Purged suma filas purgadas.
func (r *Recorder) Purged(n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.IdempotencyPurged.Add(float64(n))
}

// DigestSent registra un envío del resumen (sent, skipped, failed).
func (r *Recorder) DigestSent(outcome string) {
	if r == nil {
		return
	}
	r.DigestsSent.WithLabelValues(outcome).Inc()
}

// Handler devuelve el handler HTTP de exposición (/metrics).
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
