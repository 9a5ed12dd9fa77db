package upstream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nicolagi/secureflag/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ph.svg":
			w.Header().Set("Content-Type", "image/svg+xml")
			_, _ = w.Write([]byte("<svg>ph</svg>"))
		case "/bare.svg":
			// Suppress content sniffing.
			w.Header()["Content-Type"] = nil
			_, _ = w.Write([]byte("bare"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	c := upstream.New(upstream.WithBaseURL(srv.URL + "/"))

	t.Run("url is base plus key", func(t *testing.T) {
		assert.Equal(t, srv.URL+"/ph.svg", c.URLFor("ph.svg"))
		assert.Equal(t, "https://flagcdn.com/ph.svg", upstream.New().URLFor("ph.svg"))
	})
	t.Run("success returns body and content type", func(t *testing.T) {
		obj, err := c.Fetch(context.Background(), "ph.svg")
		require.Nil(t, err)
		assert.Equal(t, "image/svg+xml", obj.ContentType)
		assert.Equal(t, []byte("<svg>ph</svg>"), obj.Body)
	})
	t.Run("missing content type is passed on empty", func(t *testing.T) {
		obj, err := c.Fetch(context.Background(), "bare.svg")
		require.Nil(t, err)
		assert.Equal(t, "", obj.ContentType)
	})
	t.Run("non-success status", func(t *testing.T) {
		_, err := c.Fetch(context.Background(), "zz.svg")
		var serr *upstream.StatusError
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, "zz.svg", serr.Key)
		assert.Equal(t, http.StatusNotFound, serr.StatusCode)
		assert.True(t, errors.Is(err, upstream.ErrStatus))
	})
	t.Run("transport failure is not a status error", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		dead.Close()
		_, err := upstream.New(upstream.WithBaseURL(dead.URL)).Fetch(context.Background(), "ph.svg")
		require.NotNil(t, err)
		var serr *upstream.StatusError
		assert.False(t, errors.As(err, &serr))
		assert.False(t, errors.Is(err, upstream.ErrStatus))
	})
}
