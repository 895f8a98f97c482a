package store

import (
	"context"
	"encoding/json"

	"codeberg.org/mutker/cukraszda/internal/errors"
	"codeberg.org/mutker/cukraszda/internal/logger"
	"codeberg.org/mutker/cukraszda/internal/sensor"
	"github.com/google/uuid"
)

// Store keeps measurements as documents of one collection.
type Store struct {
	repo       Repository
	collection string
	log        logger.Logger
}

// Open opens the document store described by cfg.
func Open(cfg Config, log logger.Logger) (*Store, error) {
	repo, err := NewRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return New(repo, cfg.Collection, log), nil
}

// New wraps an existing repository.
func New(repo Repository, collection string, log logger.Logger) *Store {
	return &Store{
		repo:       repo,
		collection: collection,
		log:        log,
	}
}

// InsertAll inserts every record as its own document, stopping at the first failure.
func (s *Store) InsertAll(ctx context.Context, records []sensor.Measurement) error {
	errFactory := errors.New()

	for i, m := range records {
		if err := ctx.Err(); err != nil {
			return errFactory.Wrap(errors.ErrTimeout, err)
		}

		body, err := json.Marshal(m)
		if err != nil {
			return errFactory.Wrap(ErrInvalidDocument, err)
		}

		if err := s.repo.Insert(ctx, s.collection, uuid.NewString(), body); err != nil {
			return errFactory.WithData(ErrInsertFailed, struct {
				Inserted int
				Total    int
				Error    string
			}{
				Inserted: i,
				Total:    len(records),
				Error:    err.Error(),
			})
		}
	}

	s.log.Debug().
		Str("collection", s.collection).
		Int("records", len(records)).
		Msg("Inserted documents")

	return nil
}

// Find returns every measurement of the collection in insertion order.
func (s *Store) Find(ctx context.Context) ([]sensor.Measurement, error) {
	docs, err := s.repo.Find(ctx, s.collection)
	if err != nil {
		return nil, err
	}

	out := make([]sensor.Measurement, 0, len(docs))
	for _, doc := range docs {
		var m sensor.Measurement
		if err := json.Unmarshal(doc, &m); err != nil {
			return nil, errors.New().Wrap(ErrInvalidDocument, err)
		}
		out = append(out, m)
	}

	return out, nil
}

// Count returns the number of documents in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx, s.collection)
}

func (s *Store) Close() error {
	return s.repo.Close()
}

// Sink persists a batch by opening the store, inserting and closing it again.
type Sink struct {
	cfg Config
	log logger.Logger
}

func NewSink(cfg Config, log logger.Logger) *Sink {
	return &Sink{cfg: cfg, log: log}
}

func (*Sink) Name() string {
	return "document-store"
}

func (k *Sink) Persist(ctx context.Context, records []sensor.Measurement) (err error) {
	s, err := Open(k.cfg, k.log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return s.InsertAll(ctx, records)
}
