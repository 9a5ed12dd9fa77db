package storage

import (
	"context"
	"crypto/sha512"
	"fmt"
	"os"
	"path/filepath"
)

// DiskStore implements Store with one file per key.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

func (s *DiskStore) Put(_ context.Context, key string, obj Object) (err error) {
	valpath := s.pathFor(key)
	value := encodeObject(obj)
	err = os.WriteFile(valpath, value, 0600)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("could not write %q: %w", valpath, err)
	}
	if err = os.MkdirAll(filepath.Dir(valpath), 0700); err != nil {
		return fmt.Errorf("could not make dir for %q: %w", valpath, err)
	}
	return os.WriteFile(valpath, value, 0600)
}

func (s *DiskStore) Get(_ context.Context, key string) (obj Object, err error) {
	value, err := os.ReadFile(s.pathFor(key))
	if os.IsNotExist(err) {
		return Object{}, fmt.Errorf("%q: %w", key, ErrNotFound)
	}
	if err != nil {
		return Object{}, err
	}
	obj, err = decodeObject(value)
	if err != nil {
		return Object{}, fmt.Errorf("%q: %w", key, err)
	}
	return obj, nil
}

func (s *DiskStore) pathFor(key string) string {
	// Prevent ENAMETOOLONG, while retaining low probability of clashes.
	k := []byte(key)
	if len(k) > sha512.Size {
		hash := sha512.Sum512(k)
		k = hash[:]
	}
	hex := fmt.Sprintf("%02x", k)
	return filepath.Join(s.dir, hex[:2], hex)
}
