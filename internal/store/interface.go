package store

import "context"

// Repository stores opaque JSON documents grouped into named collections.
type Repository interface {
	Insert(ctx context.Context, collection, id string, body []byte) error
	Find(ctx context.Context, collection string) ([][]byte, error)
	Count(ctx context.Context, collection string) (int, error)
	Close() error
}
