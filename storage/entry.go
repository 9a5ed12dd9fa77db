package storage

import (
	"fmt"
	"math"

	"github.com/nicolagi/secureflag/bits"
)

// Backends that only hold opaque bytes (bolt, disk) store an object as a
// version byte, the length-prefixed content type, then the body.
const entryVersion = 1

func encodeObject(obj Object) []byte {
	ct := obj.ContentType
	if len(ct) > math.MaxUint16 {
		ct = ct[:math.MaxUint16]
	}
	b := make([]byte, 1+bits.Size(ct)+len(obj.Body))
	rest := bits.Put8(b, entryVersion)
	rest = bits.Puts(rest, ct)
	copy(rest, obj.Body)
	return b
}

func decodeObject(b []byte) (Object, error) {
	if len(b) < 1 {
		return Object{}, fmt.Errorf("empty entry: %w", ErrCorrupt)
	}
	version, rest := bits.Get8(b)
	if version != entryVersion {
		return Object{}, fmt.Errorf("entry version %d: %w", version, ErrCorrupt)
	}
	ct, rest, ok := bits.Gets(rest)
	if !ok {
		return Object{}, fmt.Errorf("truncated content type in entry of %d bytes: %w", len(b), ErrCorrupt)
	}
	return Object{
		ContentType: ct,
		Body:        dup(rest),
	}, nil
}
