package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nicolagi/secureflag/storage"
	"github.com/nicolagi/secureflag/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	pathname := filepath.Join(t.TempDir(), "flagserver.config")
	require.Nil(t, os.WriteFile(pathname, []byte(content), 0600))
	return pathname
}

func TestLoadConfig(t *testing.T) {
	t.Run("relaxed syntax and nested sections", func(t *testing.T) {
		pathname := writeConfig(t, `{
	// Listen on all interfaces.
	address: ":9090"
	debug: true
	defaults: {
		country: "NZ"
	}
	cache: {
		type: "disk"
		path: "/tmp/flags"
		local_path: "/tmp/flags-fast"
	}
}`)
		c, err := loadConfig(pathname)
		require.Nil(t, err)
		c.applyDefaultsForMissingProperties()
		assert.Equal(t, ":9090", c.Address)
		assert.True(t, c.Debug)
		assert.Equal(t, "NZ", c.Defaults.Country)
		assert.Equal(t, web.DefaultEmail, c.Defaults.Email)
		assert.Equal(t, "disk", c.Cache.Type)
		assert.Equal(t, "/tmp/flags", c.Cache.Path)
		assert.Equal(t, "/tmp/flags-fast", c.Cache.LocalPath)
	})
	t.Run("empty object gets every default", func(t *testing.T) {
		c, err := loadConfig(writeConfig(t, `{}`))
		require.Nil(t, err)
		c.applyDefaultsForMissingProperties()
		assert.Equal(t, ":8080", c.Address)
		assert.Equal(t, "https://flagcdn.com", c.UpstreamURL)
		assert.Equal(t, "/assets", c.AssetBaseURL)
		assert.Equal(t, "image/svg+xml", c.ContentType)
		assert.Equal(t, "memory", c.Cache.Type)
		assert.Equal(t, web.StandardDefaults(), c.webDefaults())
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "nope.config"))
		assert.True(t, os.IsNotExist(err))
	})
	t.Run("malformed file", func(t *testing.T) {
		_, err := loadConfig(writeConfig(t, `{address: `))
		assert.NotNil(t, err)
	})
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name  string
		setup func(c *config)
	}{
		{name: "memory", setup: func(c *config) {}},
		{name: "disk", setup: func(c *config) {
			c.Cache.Type = "disk"
			c.Cache.Path = t.TempDir()
		}},
		{name: "bolt", setup: func(c *config) {
			c.Cache.Type = "bolt"
			c.Cache.Path = filepath.Join(t.TempDir(), "sub", "cache.db")
		}},
		{name: "memory behind local disk", setup: func(c *config) {
			c.Cache.LocalPath = t.TempDir()
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var c config
			tc.setup(&c)
			c.applyDefaultsForMissingProperties()
			store, cleanup, err := openStore(&c)
			require.Nil(t, err)
			defer cleanup()
			obj := storage.Object{ContentType: "image/svg+xml", Body: []byte("<svg/>")}
			require.Nil(t, store.Put(ctx, "ph.svg", obj))
			got, err := store.Get(ctx, "ph.svg")
			require.Nil(t, err)
			assert.Equal(t, obj, got)
		})
	}
	t.Run("unknown type", func(t *testing.T) {
		var c config
		c.Cache.Type = "floppy"
		_, _, err := openStore(&c)
		assert.NotNil(t, err)
	})
}
