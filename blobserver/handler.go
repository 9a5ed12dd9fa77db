package blobserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/nicolagi/secureflag/storage"
	log "github.com/sirupsen/logrus"
)

// Stored objects never change for a given key.
const cacheControl = "public, max-age=31536000, immutable"

const fallbackContentType = "application/octet-stream"

// Handler serves GETs, HEADs and PUTs of objects in store.
func Handler(store storage.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var logger *log.Entry
		status, contentType, body := func() (int, string, []byte) {
			key, err := url.PathUnescape(r.URL.EscapedPath()[1:])
			if err != nil || key == "" {
				return http.StatusBadRequest, "", []byte(fmt.Sprintf("%q: not a valid path, expecting key only", r.URL.Path))
			}
			logger = log.WithFields(log.Fields{
				"op":  r.Method,
				"key": key,
			})
			switch r.Method {
			case http.MethodGet, http.MethodHead:
				obj, err := store.Get(r.Context(), key)
				if errors.Is(err, storage.ErrNotFound) {
					logger.WithField("err", err).Debug("Not found")
					return http.StatusNotFound, "", nil
				}
				if err != nil {
					logger.WithField("err", err).Error()
					return http.StatusInternalServerError, "", []byte(fmt.Sprintf("%q: %v", key, err))
				}
				logger.Debug("Success")
				if obj.ContentType == "" {
					obj.ContentType = fallbackContentType
				}
				return http.StatusOK, obj.ContentType, obj.Body
			case http.MethodPut:
				value, err := io.ReadAll(r.Body)
				if err != nil {
					logger.WithField("err", err).Error()
					return http.StatusInternalServerError, "", []byte(fmt.Sprintf("%q: %v", key, err))
				}
				obj := storage.Object{
					ContentType: r.Header.Get("Content-Type"),
					Body:        value,
				}
				if err := store.Put(r.Context(), key, obj); err != nil {
					logger.WithField("err", err).Error()
					return http.StatusInternalServerError, "", []byte(fmt.Sprintf("%q: %v", key, err))
				}
				logger.Debug("Success")
				return http.StatusOK, "", nil
			default:
				logger.Warn("Bad request")
				return http.StatusBadRequest, "", []byte(fmt.Sprintf("%q: invalid method, expecting GET, HEAD or PUT", r.Method))
			}
		}()
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
			w.Header().Set("Cache-Control", cacheControl)
		}
		w.WriteHeader(status)
		if body != nil {
			if _, err := w.Write(body); err != nil {
				if logger == nil {
					logger = log.NewEntry(log.StandardLogger())
				}
				logger.WithField("err", err).Error("Failed writing response")
			}
		}
	})
}
