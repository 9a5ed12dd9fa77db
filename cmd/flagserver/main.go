package main

import (
	"context"
	"flag"
	"fmt"
	golog "log"
	"os"
	"os/signal"
	"time"

	"github.com/google/gops/agent"
	"github.com/nicolagi/secureflag/upstream"
	"github.com/nicolagi/secureflag/web"
	log "github.com/sirupsen/logrus"
)

func main() {
	defaultConfigFile := os.ExpandEnv("$HOME/lib/secureflag/flagserver.config")
	configFile := flag.String("config", defaultConfigFile, "location of configuration file")
	flag.Parse()

	config, err := loadConfig(*configFile)
	if err != nil {
		log.WithFields(log.Fields{
			"err":  err,
			"path": *configFile,
		}).Fatal("Could not load configuration")
	}

	config.applyDefaultsForMissingProperties()

	if config.Debug {
		log.SetLevel(log.DebugLevel)
	}

	cleanupLogging := redirectLogging(config)
	defer cleanupLogging()

	if err := agent.Listen(agent.Options{
		ShutdownCleanup: true,
	}); err != nil {
		log.WithField("err", err).Warn("Could not start gops agent")
	} else {
		defer agent.Close()
	}

	store, cleanupStore, err := openStore(config)
	if err != nil {
		log.WithField("err", err).Fatal("Could not open cache")
	}
	defer cleanupStore()
	log.WithField("type", config.Cache.Type).Info("Opened cache")

	srv := web.New(
		web.WithAddress(config.Address),
		web.WithStore(store),
		web.WithUpstream(upstream.New(upstream.WithBaseURL(config.UpstreamURL))),
		web.WithDefaultContentType(config.ContentType),
		web.WithAssetBaseURL(config.AssetBaseURL),
		web.WithDefaults(config.webDefaults()),
	)
	addr, err := srv.Listen()
	if err != nil {
		log.WithField("err", err).Fatal("Could not listen")
	}
	log.WithFields(log.Fields{"addr": addr}).Info("Listening")

	// Serve returns only after Shutdown is called, so install a signal handler
	// that calls it.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		sig := <-c
		log.WithField("signal", sig).Info("Shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	if err := srv.Serve(); err != nil {
		log.Error(err)
	}
}

func redirectLogging(c *config) (cleanup func()) {
	golog.SetOutput(log.StandardLogger().Writer())
	if c.LogPath == "" {
		return func() {}
	}
	pathname := os.ExpandEnv(c.LogPath)
	logger := log.WithField("pathname", pathname)
	f, err := os.OpenFile(pathname, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		logger.WithField("err", err).Fatal("Could not open log file")
	}
	logger.Info("Lines after this one will logged to a file")
	log.SetOutput(f)
	return func() {
		if err := f.Close(); err != nil {
			// Can't use the logger here!
			_, _ = fmt.Fprintf(os.Stderr, "Could not close log file cleanly %q: %v", pathname, err)
		}
	}
}
