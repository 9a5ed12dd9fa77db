// Package bits reads and writes the little-endian fields of the framed
// entries that byte-oriented cache backends persist.
package bits

// Put8 writes v and returns the rest of b.
func Put8(b []byte, v uint8) []byte {
	b[0] = v
	return b[1:]
}

func Put16(b []byte, v uint16) []byte {
	b[0] = uint8(v)
	b[1] = uint8(v >> 8)
	return b[2:]
}

// Puts writes the length of v as a uint16 followed by v. Callers must ensure
// v fits.
func Puts(b []byte, v string) []byte {
	vlen := uint16(len(v))
	b = Put16(b, vlen)
	copy(b, v)
	return b[vlen:]
}

// Size returns how many bytes Puts needs for v.
func Size(v string) int {
	return 2 + len(v)
}

func Get8(b []byte) (uint8, []byte) {
	return b[0], b[1:]
}

func Get16(b []byte) (uint16, []byte) {
	v := uint16(b[0])
	v += uint16(b[1]) << 8
	return v, b[2:]
}

// Gets is the inverse of Puts. It reports false if b is too short to hold
// the length prefix or the string it announces.
func Gets(b []byte) (string, []byte, bool) {
	if len(b) < 2 {
		return "", b, false
	}
	var vlen uint16
	vlen, b = Get16(b)
	if len(b) < int(vlen) {
		return "", b, false
	}
	return string(b[:vlen]), b[vlen:], true
}
