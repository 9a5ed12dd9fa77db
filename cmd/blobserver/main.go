package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/gops/agent"
	"github.com/nicolagi/secureflag/blobserver"
	"github.com/nicolagi/secureflag/storage"
	log "github.com/sirupsen/logrus"
)

func main() {
	defaultConfigFile := os.ExpandEnv("$HOME/lib/secureflag/blobserver.config")
	configFile := flag.String("config", defaultConfigFile, "location of configuration file")
	flag.Parse()

	opts, err := loadConfig(*configFile)
	if err != nil {
		log.WithFields(log.Fields{
			"err":  err,
			"path": *configFile,
		}).Fatal("Could not load configuration")
	}
	opts.applyDefaultsForMissingProperties()

	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if err := agent.Listen(agent.Options{
		ShutdownCleanup: true,
	}); err != nil {
		log.WithField("err", err).Warn("Could not start gops agent")
	} else {
		defer agent.Close()
	}

	store, closeStore, err := openBackend(opts)
	if err != nil {
		log.WithField("err", err).Fatal("Could not open backend")
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              opts.BlobServer,
		Handler:           blobserver.Handler(store),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.WithField("addr", opts.BlobServer).Info("Serving blobs")
	if err := srv.ListenAndServe(); err != nil {
		log.WithField("err", err).Fatal("Could not listen and serve")
	}
}

func openBackend(c *config) (storage.Store, func(), error) {
	path := os.ExpandEnv(c.Path)
	switch c.Backend {
	case "disk":
		if err := os.MkdirAll(path, 0700); err != nil {
			return nil, nil, fmt.Errorf("could not ensure directory %q exists: %w", path, err)
		}
		log.Infof("Will use a disk-based backend storing data at %s", path)
		return storage.NewDiskStore(path), func() {}, nil
	case "bolt":
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, nil, fmt.Errorf("could not ensure directory for %q exists: %w", path, err)
		}
		db, err := bolt.Open(path, 0600, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open database %q: %w", path, err)
		}
		store, err := storage.NewBoltStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Infof("Will use a boltdb backend at %s", path)
		return store, func() {
			if err := db.Close(); err != nil {
				log.WithField("err", err).Warn("Could not close database")
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
}
