package simulation_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/cukraszda/internal/errors"
	"codeberg.org/mutker/cukraszda/internal/export"
	"codeberg.org/mutker/cukraszda/internal/logger"
	"codeberg.org/mutker/cukraszda/internal/metrics"
	"codeberg.org/mutker/cukraszda/internal/report"
	"codeberg.org/mutker/cukraszda/internal/sensor"
	"codeberg.org/mutker/cukraszda/internal/simulation"
	"codeberg.org/mutker/cukraszda/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenSink struct{}

func (brokenSink) Name() string { return "broken" }

func (brokenSink) Persist(context.Context, []sensor.Measurement) error {
	return fmt.Errorf("no space left on device")
}

func settings() simulation.Settings {
	return simulation.Settings{
		Cycles:         5,
		AlertThreshold: report.DefaultAlertThreshold,
	}
}

func TestRunProducesAndPersistsAllRecords(t *testing.T) {
	dir := t.TempDir()
	storeCfg := store.DefaultConfig()
	storeCfg.DBPath = filepath.Join(dir, "cukraszda.db")
	jsonPath := filepath.Join(dir, "measurements.json")

	var out bytes.Buffer
	network := sensor.NewDefaultNetwork(rand.New(rand.NewSource(1)))
	recorder := metrics.NewService(metrics.DefaultConfig(), logger.Default())

	driver := simulation.New(network, report.New(&out), recorder, logger.Default(), settings(),
		store.NewSink(storeCfg, logger.Default()),
		export.NewJSONFile(jsonPath, logger.Default()),
	)

	res, err := driver.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, res.PersistErr)

	assert.Len(t, res.Records, 100)
	assert.Len(t, res.Persisted, 2)
	assert.Equal(t, 5, strings.Count(out.String(), "Mérési ciklus"))
	assert.Contains(t, out.String(), "Szimuláció vége")
	assert.Len(t, res.Summary.Averages, 5)
	assert.True(t, res.Summary.HasViscosity)

	fromJSON, err := export.ReadJSON(jsonPath)
	require.NoError(t, err)
	assert.Len(t, fromJSON, 100)

	s, err := store.Open(storeCfg, logger.Default())
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	snap := recorder.Snapshot()
	assert.Equal(t, 5, snap.Cycles)
	assert.Equal(t, 25, snap.Measurements["Temperature"])
	assert.Equal(t, 100, snap.Persisted["json-export"])
}

func TestTableIsCumulative(t *testing.T) {
	var out bytes.Buffer
	network := sensor.NewDefaultNetwork(rand.New(rand.NewSource(3)))
	s := settings()
	s.Cycles = 2

	res, err := simulation.New(network, report.New(&out), metrics.NewService(metrics.Config{}, logger.Default()),
		logger.Default(), s).Run(context.Background())
	require.NoError(t, err)

	humidity := report.Row(res.Records[1])
	assert.Equal(t, 2, strings.Count(out.String(), humidity))
}

func TestSinkFailureDoesNotFailRun(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "measurements.json")
	var out bytes.Buffer

	driver := simulation.New(sensor.NewDefaultNetwork(rand.New(rand.NewSource(4))), report.New(&out),
		metrics.NewService(metrics.DefaultConfig(), logger.Default()), logger.Default(), settings(),
		brokenSink{},
		export.NewJSONFile(jsonPath, logger.Default()),
	)

	res, err := driver.Run(context.Background())
	require.NoError(t, err)

	require.Error(t, res.PersistErr)
	assert.Contains(t, res.PersistErr.Error(), "no space left on device")
	assert.Error(t, res.Persisted[0].Err)
	assert.NoError(t, res.Persisted[1].Err)

	fromJSON, err := export.ReadJSON(jsonPath)
	require.NoError(t, err)
	assert.Len(t, fromJSON, 100)
}

func TestCancelledRunStopsBeforePersisting(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "measurements.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := settings()
	s.Interval = time.Hour

	res, err := simulation.New(sensor.NewDefaultNetwork(rand.New(rand.NewSource(5))), report.New(&bytes.Buffer{}),
		metrics.NewService(metrics.DefaultConfig(), logger.Default()), logger.Default(), s,
		export.NewJSONFile(jsonPath, logger.Default()),
	).Run(ctx)

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInterrupted))
	assert.Len(t, res.Records, 20)
	assert.NoFileExists(t, jsonPath)
}

func TestWaitIsCalledAfterClosingBanner(t *testing.T) {
	var out bytes.Buffer
	var seen string

	s := settings()
	s.Cycles = 1
	s.Wait = func(context.Context) error {
		seen = out.String()
		return nil
	}

	_, err := simulation.New(sensor.NewDefaultNetwork(rand.New(rand.NewSource(6))), report.New(&out),
		metrics.NewService(metrics.DefaultConfig(), logger.Default()), logger.Default(), s).Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, seen, "Szimuláció vége")
	assert.True(t, strings.HasSuffix(seen, "Nyomj Entert a kilépéshez..."))
}

func TestWaitForEnter(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, simulation.WaitForEnter(strings.NewReader("\n"))(ctx))
	assert.NoError(t, simulation.WaitForEnter(strings.NewReader(""))(ctx))
}

func TestWaitForEnterReturnsOnCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := simulation.WaitForEnter(r)(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCancelAtExitPromptEndsRun(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	jsonPath := filepath.Join(t.TempDir(), "measurements.json")
	s := settings()
	s.Cycles = 1
	s.Wait = simulation.WaitForEnter(r)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driver := simulation.New(sensor.NewDefaultNetwork(rand.New(rand.NewSource(7))), report.New(&bytes.Buffer{}),
		metrics.NewService(metrics.DefaultConfig(), logger.Default()), logger.Default(), s,
		export.NewJSONFile(jsonPath, logger.Default()),
	)

	type outcome struct {
		res simulation.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := driver.Run(ctx)
		done <- outcome{res, err}
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case got := <-done:
		require.NoError(t, got.err)
		assert.Len(t, got.res.Records, 20)
		assert.FileExists(t, jsonPath)
	case <-time.After(2 * time.Second):
		t.Fatal("Run still waiting for Enter after the context was cancelled")
	}
}

func TestRunPrintsStatistics(t *testing.T) {
	var out bytes.Buffer
	s := settings()
	s.Cycles = 2

	_, err := simulation.New(sensor.NewDefaultNetwork(rand.New(rand.NewSource(8))), report.New(&out),
		metrics.NewService(metrics.DefaultConfig(), logger.Default()), logger.Default(), s,
		export.NewJSONFile(filepath.Join(t.TempDir(), "m.json"), logger.Default()),
	).Run(context.Background())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Statisztika:")
	assert.Contains(t, text, "Ciklusok")
	assert.Less(t, strings.Index(text, "Statisztika:"), strings.Index(text, "Szimuláció vége"))
}
