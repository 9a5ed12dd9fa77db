package main

import (
	"fmt"
	"os"

	"github.com/rogpeppe/rjson"
)

type config struct {
	BlobServer string `json:"blob_server"`
	Debug      bool   `json:"debug"`

	// One of "disk" (default) or "bolt".
	Backend string `json:"backend"`

	// Directory for "disk", database file for "bolt".
	Path string `json:"path"`
}

func loadConfig(pathname string) (*config, error) {
	f, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	var c *config
	if err := rjson.NewDecoder(f).Decode(&c); err != nil {
		return nil, fmt.Errorf("could not decode %q: %w", pathname, err)
	}
	if c == nil {
		c = new(config)
	}
	return c, nil
}

func (c *config) applyDefaultsForMissingProperties() {
	if c.BlobServer == "" {
		c.BlobServer = ":8081"
	}
	if c.Backend == "" {
		c.Backend = "disk"
	}
	if c.Path == "" {
		switch c.Backend {
		case "bolt":
			c.Path = "$HOME/lib/secureflag/blobs.db"
		default:
			c.Path = "$HOME/lib/secureflag/data"
		}
	}
}
