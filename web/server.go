// Package web serves the request details page and the flag pages.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nicolagi/secureflag/resolver"
	"github.com/nicolagi/secureflag/storage"
	"github.com/nicolagi/secureflag/upstream"
	log "github.com/sirupsen/logrus"
)

type Option func(*options)

type options struct {
	address            string
	store              storage.Store
	upstream           *upstream.Client
	defaultContentType string
	assetBaseURL       string
	defaults           Defaults
	now                func() time.Time
}

func WithAddress(value string) Option {
	return func(o *options) {
		o.address = value
	}
}

// WithStore sets the object store cached flags go to. It is also served
// read-only under /assets/.
func WithStore(value storage.Store) Option {
	return func(o *options) {
		o.store = value
	}
}

func WithUpstream(value *upstream.Client) Option {
	return func(o *options) {
		o.upstream = value
	}
}

// WithDefaultContentType sets the content type stored for flags upstream
// serves without one.
func WithDefaultContentType(value string) Option {
	return func(o *options) {
		o.defaultContentType = value
	}
}

// WithAssetBaseURL sets where cached flags are displayed from.
func WithAssetBaseURL(value string) Option {
	return func(o *options) {
		o.assetBaseURL = value
	}
}

// WithDefaults overrides the fallbacks; zero fields keep their standard value.
func WithDefaults(value Defaults) Option {
	return func(o *options) {
		o.defaults = value.merge(StandardDefaults())
	}
}

func WithClock(value func() time.Time) Option {
	return func(o *options) {
		o.now = value
	}
}

type Server struct {
	opts     options
	resolver *resolver.Resolver
	ln       net.Listener
	srv      *http.Server
}

func New(opts ...Option) *Server {
	s := &Server{}
	s.opts.address = ":8080"
	s.opts.defaultContentType = resolver.DefaultContentType
	s.opts.assetBaseURL = DefaultAssetBaseURL
	s.opts.defaults = StandardDefaults()
	s.opts.now = time.Now
	for _, o := range opts {
		o(&s.opts)
	}
	if s.opts.store == nil {
		s.opts.store = storage.NewInMemoryStore()
	}
	if s.opts.upstream == nil {
		s.opts.upstream = upstream.New()
	}
	s.opts.assetBaseURL = strings.TrimRight(s.opts.assetBaseURL, "/")
	s.resolver = resolver.New(s.opts.store, s.opts.upstream, resolver.WithDefaultContentType(s.opts.defaultContentType))
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return s
}

func (s *Server) Listen() (addr string, err error) {
	s.ln, err = net.Listen("tcp", s.opts.address)
	if err != nil {
		return
	}
	addr = s.ln.Addr().String()
	return
}

// Serve handles requests on the listener opened by Listen. It returns nil
// after Shutdown is called.
func (s *Server) Serve() error {
	err := s.srv.Serve(s.ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	if err != nil {
		log.WithField("err", err).Warn("Could not shut down cleanly")
	}
	return err
}
