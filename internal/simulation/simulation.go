package simulation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"codeberg.org/mutker/cukraszda/internal/collector"
	"codeberg.org/mutker/cukraszda/internal/errors"
	"codeberg.org/mutker/cukraszda/internal/logger"
	"codeberg.org/mutker/cukraszda/internal/metrics"
	"codeberg.org/mutker/cukraszda/internal/persist"
	"codeberg.org/mutker/cukraszda/internal/report"
	"codeberg.org/mutker/cukraszda/internal/sensor"
)

const (
	closingTitle = "♥ Szimuláció vége ♥"
	exitPrompt   = "Nyomj Entert a kilépéshez..."
)

// Settings control the run loop.
type Settings struct {
	Cycles         int
	Interval       time.Duration
	AlertThreshold float64
	// Wait blocks until the operator acknowledges the end of the run or ctx
	// is done; nil skips it.
	Wait func(ctx context.Context) error
}

// Result describes a finished run.
type Result struct {
	Records    []sensor.Measurement
	Summary    report.Summary
	Persisted  []persist.Result
	PersistErr error
}

// Driver runs the simulation end to end.
type Driver struct {
	network   *sensor.Network
	collector *collector.Collector
	reporter  *report.Reporter
	recorder  metrics.Recorder
	sinks     []persist.Sink
	log       logger.Logger
	settings  Settings
}

// New wires the collector and recorder to every node of network.
func New(
	network *sensor.Network,
	reporter *report.Reporter,
	recorder metrics.Recorder,
	log logger.Logger,
	settings Settings,
	sinks ...persist.Sink,
) *Driver {
	c := collector.New()
	c.Attach(network)
	network.Subscribe(recorder.ObserveMeasurement)

	return &Driver{
		network:   network,
		collector: c,
		reporter:  reporter,
		recorder:  recorder,
		sinks:     sinks,
		log:       log,
		settings:  settings,
	}
}

// Run executes every cycle, the end-of-run queries and persistence.
// Sink failures are reported in Result and do not fail the run.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	d.reporter.Header()

	for i := 1; i <= d.settings.Cycles; i++ {
		d.reporter.Divider(fmt.Sprintf("Mérési ciklus %d", i))

		batch := d.network.RunCycle()
		d.recorder.ObserveCycle()
		d.log.Debug().
			Int("cycle", i).
			Int("batch", len(batch)).
			Int("total", d.collector.Len()).
			Msg("Measurement cycle completed")

		d.reporter.Table(d.collector.Measurements())

		if err := pause(ctx, d.settings.Interval); err != nil {
			return Result{Records: d.collector.Measurements()}, errors.New().Wrap(errors.ErrInterrupted, err)
		}
	}

	records := d.collector.Measurements()
	summary := d.reporter.Queries(records, d.settings.AlertThreshold)

	persisted, persistErr := persist.All(ctx, d.log, d.recorder, records, d.sinks...)

	snap := d.recorder.Snapshot()
	d.reporter.Stats(snap)

	d.reporter.Divider(closingTitle)

	d.log.Info().
		Int("cycles", snap.Cycles).
		Interface("measurements", snap.Measurements).
		Interface("persisted", snap.Persisted).
		Interface("persist_failures", snap.PersistFailures).
		Msg("Simulation finished")

	if d.settings.Wait != nil {
		d.reporter.Prompt(exitPrompt)
		if err := d.settings.Wait(ctx); err != nil {
			d.log.Debug().Err(err).Msg("Acknowledgement not received")
		}
	}

	return Result{
		Records:    records,
		Summary:    summary,
		Persisted:  persisted,
		PersistErr: persistErr,
	}, nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WaitForEnter returns a Wait function that reads one line from r.
// A cancelled ctx releases the caller; the pending read is abandoned.
func WaitForEnter(r io.Reader) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		done := make(chan error, 1)
		go func() {
			_, err := bufio.NewReader(r).ReadString('\n')
			done <- err
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
