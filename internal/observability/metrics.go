package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/contact-scheduler/core"
)

// ContactCollector bundles Prometheus metrics for the contact pipeline and
// provides a ready-to-serve /metrics handler. It implements core.Observer,
// so the scheduler drives the decision metrics directly.
type ContactCollector struct {
	gatherer prometheus.Gatherer

	WindowsGenerated   prometheus.Counter
	WindowsPurged      prometheus.Counter
	SchedulerDecisions *prometheus.CounterVec
	PassDuration       prometheus.Histogram
	TelemetryRecords   prometheus.Counter

	CatalogSatellites prometheus.Gauge
	CatalogStations   prometheus.Gauge
}

// NewContactCollector registers the pipeline metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewContactCollector(reg prometheus.Registerer) (*ContactCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	generated, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "contact_windows_generated_total",
		Help: "Total number of contact windows produced by the generator.",
	}), "contact_windows_generated_total")
	if err != nil {
		return nil, err
	}

	purged, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "contact_windows_purged_total",
		Help: "Total number of expired contact windows removed from the store.",
	}), "contact_windows_purged_total")
	if err != nil {
		return nil, err
	}

	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_decisions_total",
		Help: "Total number of scheduling decisions, labeled by outcome.",
	}, []string{"decision"})
	decisions, err = registerCounterVec(reg, decisions, "scheduler_decisions_total")
	if err != nil {
		return nil, err
	}

	passDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_pass_duration_seconds",
		Help:    "Duration of full scheduling passes.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
	passDuration, err = registerHistogram(reg, passDuration, "scheduler_pass_duration_seconds")
	if err != nil {
		return nil, err
	}

	telemetry, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "telemetry_records_total",
		Help: "Total number of telemetry records produced for admitted contacts.",
	}), "telemetry_records_total")
	if err != nil {
		return nil, err
	}

	satellites, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_satellites",
		Help: "Current number of satellites in the catalog.",
	}), "catalog_satellites")
	if err != nil {
		return nil, err
	}
	stations, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_ground_stations",
		Help: "Current number of ground stations in the catalog.",
	}), "catalog_ground_stations")
	if err != nil {
		return nil, err
	}

	return &ContactCollector{
		gatherer:           gatherer,
		WindowsGenerated:   generated,
		WindowsPurged:      purged,
		SchedulerDecisions: decisions,
		PassDuration:       passDuration,
		TelemetryRecords:   telemetry,
		CatalogSatellites:  satellites,
		CatalogStations:    stations,
	}, nil
}

// ObserveDecision counts one scheduling decision. Implements core.Observer.
func (c *ContactCollector) ObserveDecision(d core.Decision) {
	if c == nil || c.SchedulerDecisions == nil {
		return
	}
	outcome := "rejected"
	if d.Admitted {
		outcome = "assigned"
	}
	c.SchedulerDecisions.WithLabelValues(outcome).Inc()
}

// ObservePass records the duration of a completed scheduling pass.
// Implements core.Observer.
func (c *ContactCollector) ObservePass(s core.PassSummary) {
	if c == nil || c.PassDuration == nil {
		return
	}
	c.PassDuration.Observe(s.Elapsed.Seconds())
}

// AddWindowsGenerated counts freshly generated contact windows.
func (c *ContactCollector) AddWindowsGenerated(n int) {
	if c == nil || c.WindowsGenerated == nil || n <= 0 {
		return
	}
	c.WindowsGenerated.Add(float64(n))
}

// AddWindowsPurged counts windows removed by the expiry purge.
func (c *ContactCollector) AddWindowsPurged(n int64) {
	if c == nil || c.WindowsPurged == nil || n <= 0 {
		return
	}
	c.WindowsPurged.Add(float64(n))
}

// AddTelemetryRecords counts produced telemetry records.
func (c *ContactCollector) AddTelemetryRecords(n int) {
	if c == nil || c.TelemetryRecords == nil || n <= 0 {
		return
	}
	c.TelemetryRecords.Add(float64(n))
}

// SetCatalogCounts updates the catalog size gauges.
func (c *ContactCollector) SetCatalogCounts(satellites, stations int) {
	if c == nil {
		return
	}
	if c.CatalogSatellites != nil {
		c.CatalogSatellites.Set(float64(satellites))
	}
	if c.CatalogStations != nil {
		c.CatalogStations.Set(float64(stations))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *ContactCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *ContactCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
