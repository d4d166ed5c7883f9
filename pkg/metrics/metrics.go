// Package metrics holds the Prometheus collectors exported by the daemon.
package metrics

import (
	"math"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/keypad"
)

const namespace = "calc"

// Metrics is a set of collectors on a dedicated registry. All methods are
// safe to call on a nil *Metrics, which records nothing.
type Metrics struct {
	Registry     *prometheus.Registry
	KeyPresses   *prometheus.CounterVec
	Computations *prometheus.CounterVec
	NaNResults   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		KeyPresses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "key_presses_total",
			Help:      "Keys pressed, by kind.",
		}, []string{"kind"}),
		Computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Results computed by equals, by operator.",
		}, []string{"operator"}),
		NaNResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nan_results_total",
			Help:      "Computations that produced NaN.",
		}),
	}

	m.Registry.MustRegister(
		m.KeyPresses,
		m.Computations,
		m.NaNResults,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// TrackSessions exports the value returned by count as the calc_sessions
// gauge. count is called on every scrape.
func (m *Metrics) TrackSessions(count func() (int, error)) {
	if m == nil {
		return
	}
	m.Registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions",
		Help:      "Calculator sessions currently stored.",
	}, func() float64 {
		n, err := count()
		if err != nil {
			logrus.WithError(err).Warn("failed to count sessions")
			return math.NaN()
		}
		return float64(n)
	}))
}

func (m *Metrics) ObserveKey(k keypad.Key) {
	if m == nil {
		return
	}
	m.KeyPresses.WithLabelValues(string(k.Kind)).Inc()
}

// ObserveComputation records an equals press that computed display from an
// operation with op.
func (m *Metrics) ObserveComputation(op calculator.Operator, display string) {
	if m == nil {
		return
	}
	m.Computations.WithLabelValues(op.String()).Inc()
	if display == "NaN" {
		m.NaNResults.Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
