package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Buckets para renderização: gráficos SVG ficam na casa dos milissegundos.
var RenderDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}

type Metrics struct {
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	EventsTotal    *prometheus.CounterVec

	reg *prometheus.Registry
}

// New registra as métricas num registry próprio (sem estado global),
// junto com os coletores de processo e runtime Go.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		RendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "painel_renders_total",
			Help: "Report renders by output format and status",
		}, []string{"format", "status"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "painel_render_duration_seconds",
			Help:    "Report render duration",
			Buckets: RenderDurationBuckets,
		}, []string{"format"}),
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "painel_events_published_total",
			Help: "Events published to the broker by name and status",
		}, []string{"event", "status"}),
		reg: reg,
	}
	reg.MustRegister(
		m.RendersTotal, m.RenderDuration, m.EventsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRender(format string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.RendersTotal.WithLabelValues(format, status(err)).Inc()
	m.RenderDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveEvent(event string, err error) {
	if m == nil {
		return
	}
	m.EventsTotal.WithLabelValues(event, status(err)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
