package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/boltdb/bolt"
	"github.com/nicolagi/secureflag/storage"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// openStore builds the store described by the cache section. The returned
// cleanup function releases whatever the store holds open.
func openStore(c *config) (store storage.Store, cleanup func(), err error) {
	cleanup = func() {}
	cc := c.Cache
	switch cc.Type {
	case "memory":
		store = storage.NewInMemoryStore()
	case "bolt":
		file := os.ExpandEnv(cc.Path)
		if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
			return nil, nil, fmt.Errorf("could not ensure directory for %q exists: %w", file, err)
		}
		db, err := bolt.Open(file, 0600, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open database %q: %w", file, err)
		}
		cleanup = func() {
			if err := db.Close(); err != nil {
				log.Warnf("Could not close boltdb database: %v", err)
			}
		}
		if store, err = storage.NewBoltStore(db); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("could not instantiate boltdb store at %q: %w", file, err)
		}
	case "disk":
		store = storage.NewDiskStore(os.ExpandEnv(cc.Path))
	case "s3":
		store = storage.NewS3(storage.S3Options{
			Profile:   cc.Profile,
			Region:    cc.Region,
			Bucket:    cc.Bucket,
			Endpoint:  cc.Endpoint,
			PathStyle: cc.PathStyle,
			AccessKey: cc.AccessKey,
			SecretKey: os.ExpandEnv(cc.SecretKey),
		})
	case "dynamodb":
		if store, err = storage.NewDynamoDBStore(cc.Profile, cc.Region, cc.Table); err != nil {
			return nil, nil, fmt.Errorf("could not instantiate dynamodb store for table %q: %w", cc.Table, err)
		}
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cc.Address})
		cleanup = func() {
			if err := client.Close(); err != nil {
				log.Warnf("Could not close redis client: %v", err)
			}
		}
		store = storage.NewRedisStore(client, cc.Prefix)
	case "dino":
		store = storage.NewRemoteStore(cc.Address)
	default:
		return nil, nil, fmt.Errorf("unknown cache type %q", cc.Type)
	}
	if cc.LocalPath != "" {
		store = storage.NewPaired(storage.NewDiskStore(os.ExpandEnv(cc.LocalPath)), store)
	}
	return store, cleanup, nil
}
