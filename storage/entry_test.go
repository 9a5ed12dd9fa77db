package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeObject(t *testing.T) {
	t.Run("rejects empty entries", func(t *testing.T) {
		_, err := decodeObject(nil)
		assert.True(t, errors.Is(err, ErrCorrupt))
	})
	t.Run("rejects unknown versions", func(t *testing.T) {
		b := encodeObject(Object{ContentType: "text/plain", Body: []byte("abc")})
		b[0] = 9
		_, err := decodeObject(b)
		assert.True(t, errors.Is(err, ErrCorrupt))
	})
	t.Run("rejects entries shorter than the length prefix", func(t *testing.T) {
		_, err := decodeObject([]byte{1, 7})
		assert.True(t, errors.Is(err, ErrCorrupt))
	})
	t.Run("rejects truncated content type", func(t *testing.T) {
		b := encodeObject(Object{ContentType: "image/svg+xml", Body: []byte("<svg/>")})
		_, err := decodeObject(b[:6])
		assert.True(t, errors.Is(err, ErrCorrupt))
	})
	t.Run("empty content type and body", func(t *testing.T) {
		obj, err := decodeObject(encodeObject(Object{}))
		require.Nil(t, err)
		assert.Equal(t, "", obj.ContentType)
		assert.Equal(t, []byte{}, obj.Body)
	})
	t.Run("decoded body does not alias the entry", func(t *testing.T) {
		b := encodeObject(Object{ContentType: "text/plain", Body: []byte("abc")})
		obj, err := decodeObject(b)
		require.Nil(t, err)
		b[len(b)-1] = 'z'
		assert.Equal(t, []byte("abc"), obj.Body)
	})
}
