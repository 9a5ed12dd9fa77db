package storage

import (
	"context"
	"errors"
)

// Object is a cached payload together with the media type it was served with.
type Object struct {
	ContentType string
	Body        []byte
}

// Store represents an object store keyed by resource key.
type Store interface {
	Put(ctx context.Context, key string, obj Object) (err error)

	// Get should return ErrNotFound if the key is not in the store.
	Get(ctx context.Context, key string) (obj Object, err error)
}

var (
	// ErrNotFound indicates a key is not in the store.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt indicates a stored entry could not be decoded.
	ErrCorrupt = errors.New("corrupt entry")
)

func dup(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
