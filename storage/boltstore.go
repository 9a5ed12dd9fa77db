package storage

import (
	"context"
	"fmt"

	"github.com/boltdb/bolt"
)

// BoltStore is an implementation of Store whose backend is a Bolt database.
type BoltStore bolt.DB

var (
	bucketName = []byte("objects")
)

func NewBoltStore(db *bolt.DB) (*BoltStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return fmt.Errorf("could not ensure bucket %q exists: %w", bucketName, err)
		}
		return nil
	})
	return (*BoltStore)(db), err
}

func (s *BoltStore) Put(_ context.Context, key string, obj Object) error {
	return (*bolt.DB)(s).Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketName).Put([]byte(key), encodeObject(obj)); err != nil {
			return fmt.Errorf("could not put %.40q (%s): %w", key, obj.ContentType, err)
		}
		return nil
	})
}

func (s *BoltStore) Get(_ context.Context, key string) (obj Object, err error) {
	err = (*bolt.DB)(s).View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketName).Get([]byte(key))
		if value == nil {
			return fmt.Errorf("%.40q: %w", key, ErrNotFound)
		}
		// The value is only valid within the transaction; decodeObject copies.
		obj, err = decodeObject(value)
		if err != nil {
			return fmt.Errorf("%.40q: %w", key, err)
		}
		return nil
	})
	return obj, err
}
