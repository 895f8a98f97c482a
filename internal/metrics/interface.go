package metrics

import "codeberg.org/mutker/cukraszda/internal/sensor"

// Recorder counts what happens during a simulation run.
type Recorder interface {
	ObserveMeasurement(m sensor.Measurement)
	ObserveCycle()
	ObservePersist(sink string, records int, err error)
	Snapshot() Snapshot
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Cycles          int
	Measurements    map[string]int
	Persisted       map[string]int
	PersistFailures map[string]int
}
