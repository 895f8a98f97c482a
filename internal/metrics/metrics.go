package metrics

import (
	"codeberg.org/mutker/cukraszda/internal/logger"
	"codeberg.org/mutker/cukraszda/internal/sensor"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cukraszda"

type service struct {
	registry        *prometheus.Registry
	cycles          prometheus.Counter
	measurements    *prometheus.CounterVec
	persisted       *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
}

type noopRecorder struct{}

// NewService returns a prometheus-backed recorder on its own registry,
// or a no-op recorder when metrics are disabled.
func NewService(cfg Config, log logger.Logger) Recorder {
	if !cfg.Enabled {
		log.Debug().Msg("Metrics disabled, using no-op recorder")
		return noopRecorder{}
	}

	s := &service{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Completed measurement cycles.",
		}),
		measurements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "measurements_total",
			Help:      "Measurements generated, by type.",
		}, []string{"type"}),
		persisted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persisted_records_total",
			Help:      "Records written successfully, by sink.",
		}, []string{"sink"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Failed persistence attempts, by sink.",
		}, []string{"sink"}),
	}
	s.registry.MustRegister(s.cycles, s.measurements, s.persisted, s.persistFailures)

	log.Debug().Msg("Metrics recorder initialized")

	return s
}

func (s *service) ObserveMeasurement(m sensor.Measurement) {
	s.measurements.WithLabelValues(m.Type.String()).Inc()
}

func (s *service) ObserveCycle() {
	s.cycles.Inc()
}

func (s *service) ObservePersist(sink string, records int, err error) {
	if err != nil {
		s.persistFailures.WithLabelValues(sink).Inc()
		return
	}
	s.persisted.WithLabelValues(sink).Add(float64(records))
}

// Snapshot gathers the registry into plain maps.
func (s *service) Snapshot() Snapshot {
	snap := Snapshot{
		Measurements:    map[string]int{},
		Persisted:       map[string]int{},
		PersistFailures: map[string]int{},
	}

	families, err := s.registry.Gather()
	if err != nil {
		return snap
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			value := int(m.GetCounter().GetValue())
			label := ""
			if pairs := m.GetLabel(); len(pairs) > 0 {
				label = pairs[0].GetValue()
			}

			switch mf.GetName() {
			case namespace + "_cycles_total":
				snap.Cycles = value
			case namespace + "_measurements_total":
				snap.Measurements[label] = value
			case namespace + "_persisted_records_total":
				snap.Persisted[label] = value
			case namespace + "_persist_failures_total":
				snap.PersistFailures[label] = value
			}
		}
	}

	return snap
}

func (noopRecorder) ObserveMeasurement(sensor.Measurement) {}
func (noopRecorder) ObserveCycle()                         {}
func (noopRecorder) ObservePersist(string, int, error)     {}
func (noopRecorder) Snapshot() Snapshot                    { return Snapshot{} }
