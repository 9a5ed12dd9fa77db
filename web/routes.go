package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/nicolagi/secureflag/blobserver"
	"github.com/nicolagi/secureflag/resolver"
	log "github.com/sirupsen/logrus"
)

// A flag code with this suffix is shown from the object store rather than
// straight from upstream.
const cachedSuffix = "-r2"

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /secure", s.details)
	mux.HandleFunc("GET /secure/{$}", s.details)
	mux.HandleFunc("GET /secure/{code}", s.flag)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /assets/", http.StripPrefix("/assets", blobserver.Handler(s.opts.store)))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, r, http.StatusNotFound, "Page not found")
	})
	return withLogging(mux)
}

func (s *Server) details(w http.ResponseWriter, r *http.Request) {
	d := s.opts.defaults
	page := detailsPage{
		Email:     r.Header.Get(d.EmailHeader),
		Country:   r.Header.Get(d.CountryHeader),
		Timestamp: s.opts.now().UTC().Format(timestampLayout),
	}
	if page.Email == "" {
		page.Email = d.Email
	}
	if page.Country == "" {
		page.Country = d.Country
	}
	render(w, r, http.StatusOK, "details", page)
}

func (s *Server) flag(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if strings.HasSuffix(code, cachedSuffix) {
		s.cachedFlag(w, r, strings.TrimSuffix(code, cachedSuffix))
		return
	}
	render(w, r, http.StatusOK, "flag", flagPage{
		Code:     code,
		ImageURL: s.opts.upstream.URLFor(resolver.Key(code)),
	})
}

func (s *Server) cachedFlag(w http.ResponseWriter, r *http.Request, code string) {
	if code == "" {
		code = s.opts.defaults.Code
	}
	key := resolver.Key(code)
	obj, err := s.resolver.Resolve(r.Context(), key)
	if errors.Is(err, resolver.ErrNotFound) {
		render(w, r, http.StatusNotFound, "notfound", notFoundPage{Key: key})
		return
	}
	if err != nil {
		loggerFor(r).WithFields(log.Fields{
			"err": err,
			"key": key,
		}).Error("Could not resolve flag")
		writeText(w, r, http.StatusBadGateway, "Flag service unavailable")
		return
	}
	render(w, r, http.StatusOK, "flag", flagPage{
		Code:        code,
		ImageURL:    s.opts.assetBaseURL + "/" + url.PathEscape(key),
		Cached:      true,
		ContentType: obj.ContentType,
		Size:        len(obj.Body),
	})
}
