package persist

import (
	"context"

	"codeberg.org/mutker/cukraszda/internal/errors"
	"codeberg.org/mutker/cukraszda/internal/logger"
	"codeberg.org/mutker/cukraszda/internal/sensor"
)

// Sink stores a whole batch of measurements.
type Sink interface {
	Name() string
	Persist(ctx context.Context, records []sensor.Measurement) error
}

// Result is the outcome of one sink.
type Result struct {
	Sink    string
	Records int
	Err     error
}

// Observer is told about every sink outcome.
type Observer interface {
	ObservePersist(sink string, records int, err error)
}

// All runs every sink once, in order. A failing sink never stops the others;
// the failures are logged and returned joined.
func All(ctx context.Context, log logger.Logger, obs Observer, records []sensor.Measurement, sinks ...Sink) ([]Result, error) {
	errFactory := errors.New()
	results := make([]Result, 0, len(sinks))
	var failures []error

	for _, sink := range sinks {
		err := sink.Persist(ctx, records)
		results = append(results, Result{Sink: sink.Name(), Records: len(records), Err: err})
		if obs != nil {
			obs.ObservePersist(sink.Name(), len(records), err)
		}

		if err != nil {
			log.Error().Err(err).Str("sink", sink.Name()).Msg("Failed to persist measurements")
			failures = append(failures, errFactory.Wrap(errors.ErrPersistFailed, err).
				WithMessage(errors.GetErrorMessage(errors.ErrPersistFailed)+" to "+sink.Name()))
			continue
		}

		log.Info().Str("sink", sink.Name()).Int("records", len(records)).Msg("Measurements persisted")
	}

	return results, errors.Join(failures...)
}
