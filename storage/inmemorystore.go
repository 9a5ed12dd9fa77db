package storage

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryStore is a Store implementation powered by a map, to be used for
// testing or as a per-process cache.
type InMemoryStore struct {
	sync.Mutex
	m map[string]Object
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		m: make(map[string]Object),
	}
}

func (s *InMemoryStore) Put(_ context.Context, key string, obj Object) (err error) {
	s.Lock()
	s.m[key] = Object{ContentType: obj.ContentType, Body: dup(obj.Body)}
	s.Unlock()
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, key string) (obj Object, err error) {
	s.Lock()
	obj, ok := s.m[key]
	s.Unlock()
	if !ok {
		return Object{}, fmt.Errorf("%.40q: %w", key, ErrNotFound)
	}
	obj.Body = dup(obj.Body)
	if obj.Body == nil {
		obj.Body = []byte{}
	}
	return obj, nil
}

// Len reports how many objects are held.
func (s *InMemoryStore) Len() int {
	s.Lock()
	defer s.Unlock()
	return len(s.m)
}
