package main

import (
	"fmt"
	"os"

	"github.com/nicolagi/secureflag/resolver"
	"github.com/nicolagi/secureflag/upstream"
	"github.com/nicolagi/secureflag/web"
	"github.com/rogpeppe/rjson"
)

type config struct {
	Address      string `json:"address"`
	Debug        bool   `json:"debug"`
	LogPath      string `json:"log_path"`
	UpstreamURL  string `json:"upstream_url"`
	AssetBaseURL string `json:"asset_base_url"`

	// Stored for flags upstream serves without a content type.
	ContentType string `json:"content_type"`

	Defaults struct {
		Email         string `json:"email"`
		Country       string `json:"country"`
		Code          string `json:"code"`
		EmailHeader   string `json:"email_header"`
		CountryHeader string `json:"country_header"`
	} `json:"defaults"`

	Cache struct {
		// One of "memory", "bolt", "disk", "s3", "dynamodb", "redis", "dino".
		Type string `json:"type"`

		// If set, a disk store at this path is kept in front of the cache.
		LocalPath string `json:"local_path"`

		// Properties for "bolt" and "disk" types.
		Path string `json:"path"`

		// Properties for "dino" and "redis" types.
		Address string `json:"address"`

		// Properties for "redis" type.
		Prefix string `json:"prefix"`

		// Properties for "s3" and "dynamodb" types.
		Profile string `json:"profile"`
		Region  string `json:"region"`

		// Properties for "s3" type.
		Bucket    string `json:"bucket"`
		Endpoint  string `json:"endpoint"`
		PathStyle bool   `json:"path_style"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`

		// Properties for "dynamodb" type.
		Table string `json:"table"`
	} `json:"cache"`
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
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.UpstreamURL == "" {
		c.UpstreamURL = upstream.DefaultBaseURL
	}
	if c.AssetBaseURL == "" {
		c.AssetBaseURL = web.DefaultAssetBaseURL
	}
	if c.ContentType == "" {
		c.ContentType = resolver.DefaultContentType
	}
	if c.Defaults.Email == "" {
		c.Defaults.Email = web.DefaultEmail
	}
	if c.Defaults.Country == "" {
		c.Defaults.Country = web.DefaultCountry
	}
	if c.Defaults.Code == "" {
		c.Defaults.Code = web.DefaultCode
	}
	if c.Defaults.EmailHeader == "" {
		c.Defaults.EmailHeader = web.DefaultEmailHeader
	}
	if c.Defaults.CountryHeader == "" {
		c.Defaults.CountryHeader = web.DefaultCountryHeader
	}
	if c.Cache.Type == "" {
		c.Cache.Type = "memory"
	}
	if c.Cache.Path == "" {
		switch c.Cache.Type {
		case "bolt":
			c.Cache.Path = "$HOME/lib/secureflag/cache.db"
		case "disk":
			c.Cache.Path = "$HOME/lib/secureflag/cache"
		}
	}
	if c.Cache.Region == "" {
		c.Cache.Region = "us-east-1"
	}
}

func (c *config) webDefaults() web.Defaults {
	return web.Defaults{
		Email:         c.Defaults.Email,
		Country:       c.Defaults.Country,
		Code:          c.Defaults.Code,
		EmailHeader:   c.Defaults.EmailHeader,
		CountryHeader: c.Defaults.CountryHeader,
	}
}
