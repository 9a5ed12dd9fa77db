package blobserver_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nicolagi/secureflag/blobserver"
	"github.com/nicolagi/secureflag/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	store := storage.NewInMemoryStore()
	srv := httptest.NewServer(blobserver.Handler(store))
	defer srv.Close()

	do := func(t *testing.T, method, path, contentType, body string) *http.Response {
		req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
		require.Nil(t, err)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		res, err := http.DefaultClient.Do(req)
		require.Nil(t, err)
		t.Cleanup(func() { _ = res.Body.Close() })
		return res
	}

	t.Run("get missing key", func(t *testing.T) {
		res := do(t, http.MethodGet, "/zz.svg", "", "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		body, err := io.ReadAll(res.Body)
		require.Nil(t, err)
		assert.Empty(t, body)
	})
	t.Run("put then get keeps content type", func(t *testing.T) {
		res := do(t, http.MethodPut, "/ph.svg", "image/svg+xml", "<svg/>")
		require.Equal(t, http.StatusOK, res.StatusCode)

		res = do(t, http.MethodGet, "/ph.svg", "", "")
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "image/svg+xml", res.Header.Get("Content-Type"))
		assert.Contains(t, res.Header.Get("Cache-Control"), "immutable")
		body, err := io.ReadAll(res.Body)
		require.Nil(t, err)
		assert.Equal(t, "<svg/>", string(body))
	})
	t.Run("head reports headers without a body", func(t *testing.T) {
		res := do(t, http.MethodHead, "/ph.svg", "", "")
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "image/svg+xml", res.Header.Get("Content-Type"))
		body, err := io.ReadAll(res.Body)
		require.Nil(t, err)
		assert.Empty(t, body)

		res = do(t, http.MethodHead, "/zz.svg", "", "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
	t.Run("escaped keys round trip", func(t *testing.T) {
		res := do(t, http.MethodPut, "/a%2Fb.svg", "image/svg+xml", "nested")
		require.Equal(t, http.StatusOK, res.StatusCode)
		_, err := store.Get(context.Background(), "a/b.svg")
		assert.Nil(t, err)
	})
	t.Run("empty key", func(t *testing.T) {
		res := do(t, http.MethodGet, "/", "", "")
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
	t.Run("unsupported method", func(t *testing.T) {
		res := do(t, http.MethodDelete, "/ph.svg", "", "")
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}
