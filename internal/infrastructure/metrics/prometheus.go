// Package metrics exporta contadores Prometheus del ciclo de vida de documentos y de los movimientos de stock.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/FarmHub-api/internal/application/finance"
	"github.com/jhoicas/FarmHub-api/internal/application/inventory"
)

// Nombres de métricas.
const (
	MetricDocumentsCreated    = "farmhub_documents_created_total"
	MetricDocumentTransitions = "farmhub_document_transitions_total"
	MetricDocumentsRejected   = "farmhub_documents_rejected_total"
	MetricStockMovements      = "farmhub_stock_movements_total"
)

var (
	_ finance.Recorder   = (*PrometheusRecorder)(nil)
	_ inventory.Recorder = (*PrometheusRecorder)(nil)
)

// PrometheusRecorder implementa finance.Recorder e inventory.Recorder sobre un registry propio (no el global).
type PrometheusRecorder struct {
	registry    *prometheus.Registry
	created     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	movements   *prometheus.CounterVec
}

// NewPrometheusRecorder registra los contadores y los collectors de proceso y runtime.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	r := &PrometheusRecorder{
		registry: registry,
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricDocumentsCreated,
			Help: "Documentos creados por tipo y estado inicial.",
		}, []string{"kind", "status"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricDocumentTransitions,
			Help: "Transiciones de estado aplicadas por tipo de documento.",
		}, []string{"kind", "from", "to"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricDocumentsRejected,
			Help: "Operaciones rechazadas por tipo de documento y motivo.",
		}, []string{"kind", "reason"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricStockMovements,
			Help: "Movimientos de stock aplicados por tipo.",
		}, []string{"type"}),
	}
	registry.MustRegister(
		r.created, r.transitions, r.rejected, r.movements,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// DocumentCreated implementa finance.Recorder.
func (r *PrometheusRecorder) DocumentCreated(kind, status string) {
	r.created.WithLabelValues(kind, status).Inc()
}

// DocumentTransition implementa finance.Recorder.
func (r *PrometheusRecorder) DocumentTransition(kind, from, to string) {
	r.transitions.WithLabelValues(kind, from, to).Inc()
}

// DocumentRejected implementa finance.Recorder.
func (r *PrometheusRecorder) DocumentRejected(kind, reason string) {
	r.rejected.WithLabelValues(kind, reason).Inc()
}

// StockMoved implementa inventory.Recorder.
func (r *PrometheusRecorder) StockMoved(movementType string) {
	r.movements.WithLabelValues(movementType).Inc()
}

// Registry expone el registry (tests y collectors adicionales).
func (r *PrometheusRecorder) Registry() *prometheus.Registry { return r.registry }

// Handler endpoint de scraping en formato texto de Prometheus.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
