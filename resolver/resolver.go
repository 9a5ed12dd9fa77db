// Package resolver returns flag images by key, going to the upstream service
// only when the object store does not have them yet.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nicolagi/secureflag/storage"
	"github.com/nicolagi/secureflag/upstream"
	log "github.com/sirupsen/logrus"
)

const (
	// KeySuffix is appended to the lowercase code to form a key.
	KeySuffix = ".svg"

	// DefaultContentType is stored when upstream does not declare one.
	DefaultContentType = "image/svg+xml"
)

var (
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("not found")
)

// NotFoundError is returned when upstream has no resource for Key.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, ErrNotFound)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Key normalizes a country code into a resource key, e.g., "PH" into "ph.svg".
func Key(code string) string {
	return strings.ToLower(code) + KeySuffix
}

// Fetcher retrieves a resource from its origin. Fetch returns an error
// matching upstream.ErrStatus when the origin has no resource for key; any
// other error means the origin could not be asked.
type Fetcher interface {
	Fetch(ctx context.Context, key string) (storage.Object, error)
}

type Option func(*Resolver)

// WithDefaultContentType overrides DefaultContentType.
func WithDefaultContentType(value string) Option {
	return func(r *Resolver) {
		r.defaultContentType = value
	}
}

// Resolver is a read-through cache in front of a Fetcher. It does no locking:
// concurrent misses for the same key may both fetch and both put, which is
// harmless as long as upstream serves the same bytes for a key.
type Resolver struct {
	store              storage.Store
	fetcher            Fetcher
	defaultContentType string
}

func New(store storage.Store, fetcher Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		store:              store,
		fetcher:            fetcher,
		defaultContentType: DefaultContentType,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns the object for key, from the store if present, otherwise
// from upstream (storing it for next time). A non-success upstream response
// results in a *NotFoundError and nothing is stored.
func (r *Resolver) Resolve(ctx context.Context, key string) (storage.Object, error) {
	logger := log.WithField("key", key)
	obj, err := r.store.Get(ctx, key)
	if err == nil {
		logger.Debug("Cache hit")
		return obj, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		// The store is only an optimization; carry on as if it were a miss.
		logger.WithField("err", err).Warn("Could not read from store")
	}

	obj, err = r.fetcher.Fetch(ctx, key)
	if err != nil {
		if errors.Is(err, upstream.ErrStatus) {
			logger.WithField("err", err).Info("Not found upstream")
			return storage.Object{}, &NotFoundError{Key: key}
		}
		return storage.Object{}, err
	}
	if obj.ContentType == "" {
		obj.ContentType = r.defaultContentType
	}
	if err := r.store.Put(ctx, key, obj); err != nil {
		logger.WithField("err", err).Warn("Could not store fetched object")
	} else {
		logger.WithFields(log.Fields{
			"content_type": obj.ContentType,
			"size":         len(obj.Body),
		}).Debug("Stored fetched object")
	}
	return obj, nil
}
