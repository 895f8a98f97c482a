package export_test

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/cukraszda/internal/errors"
	"codeberg.org/mutker/cukraszda/internal/export"
	"codeberg.org/mutker/cukraszda/internal/logger"
	"codeberg.org/mutker/cukraszda/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "measurements.json")
	network := sensor.NewDefaultNetwork(rand.New(rand.NewSource(7)))

	var records []sensor.Measurement
	for i := 0; i < 3; i++ {
		records = append(records, network.RunCycle()...)
	}

	sink := export.NewJSONFile(path, logger.Default())
	require.NoError(t, sink.Persist(context.Background(), records))

	got, err := export.ReadJSON(path)
	require.NoError(t, err)
	require.Len(t, got, len(records))

	for i := range records {
		assert.Equal(t, records[i].SensorID, got[i].SensorID)
		assert.Equal(t, records[i].SensorName, got[i].SensorName)
		assert.Equal(t, records[i].Type, got[i].Type)
		assert.InDelta(t, records[i].Value, got[i].Value, 1e-9)
		assert.WithinDuration(t, records[i].Timestamp, got[i].Timestamp, time.Microsecond)
	}
}

func TestJSONIsIndentedWithEnumNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "measurements.json")
	records := []sensor.Measurement{{
		SensorID:   4,
		SensorName: "Díszítő pult",
		Type:       sensor.Humidity,
		Value:      55.5,
		Timestamp:  time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}}

	require.NoError(t, export.NewJSONFile(path, logger.Default()).Persist(context.Background(), records))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(raw)
	assert.True(t, strings.HasPrefix(out, "[\n  {\n    \"SensorId\": 4,"))
	assert.Contains(t, out, `"Type": "Humidity"`)
	assert.Contains(t, out, `"Timestamp": "2024-05-01T08:00:00Z"`)
}

func TestJSONOverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "measurements.json")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale ", 1000)), 0o600))

	sink := export.NewJSONFile(path, logger.Default())
	require.NoError(t, sink.Persist(context.Background(), nil))

	got, err := export.ReadJSON(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestJSONWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	sink := export.NewJSONFile(filepath.Join(blocker, "measurements.json"), logger.Default())
	err := sink.Persist(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, export.ErrWrite))
}

func TestReadJSONRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"Type":"Pressure"}]`), 0o600))

	_, err := export.ReadJSON(path)

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, export.ErrDecode))
}
