package metrics

import (
	"fmt"
	"testing"

	"codeberg.org/mutker/cukraszda/internal/logger"
	"codeberg.org/mutker/cukraszda/internal/sensor"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCounts(t *testing.T) {
	rec := NewService(DefaultConfig(), logger.Default())
	s, ok := rec.(*service)
	require.True(t, ok)

	rec.ObserveMeasurement(sensor.Measurement{Type: sensor.Temperature})
	rec.ObserveMeasurement(sensor.Measurement{Type: sensor.Temperature})
	rec.ObserveMeasurement(sensor.Measurement{Type: sensor.Viscosity})
	rec.ObserveCycle()
	rec.ObservePersist("document-store", 100, nil)
	rec.ObservePersist("json-export", 100, fmt.Errorf("read-only file system"))

	assert.Equal(t, 2.0, testutil.ToFloat64(s.measurements.WithLabelValues("Temperature")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.cycles))
	assert.Equal(t, 100.0, testutil.ToFloat64(s.persisted.WithLabelValues("document-store")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.persistFailures.WithLabelValues("json-export")))

	snap := rec.Snapshot()
	assert.Equal(t, 1, snap.Cycles)
	assert.Equal(t, 2, snap.Measurements["Temperature"])
	assert.Equal(t, 1, snap.Measurements["Viscosity"])
	assert.Equal(t, 100, snap.Persisted["document-store"])
	assert.Equal(t, 1, snap.PersistFailures["json-export"])
}

func TestServicesDoNotShareRegistry(t *testing.T) {
	a := NewService(DefaultConfig(), logger.Default())
	b := NewService(DefaultConfig(), logger.Default())

	a.ObserveCycle()

	assert.Equal(t, 1, a.Snapshot().Cycles)
	assert.Equal(t, 0, b.Snapshot().Cycles)
}

func TestDisabledIsNoop(t *testing.T) {
	rec := NewService(Config{Enabled: false}, logger.Default())

	rec.ObserveCycle()
	rec.ObserveMeasurement(sensor.Measurement{})

	assert.IsType(t, noopRecorder{}, rec)
	assert.Equal(t, Snapshot{}, rec.Snapshot())
}
