package util

import (
	"errors"
	"strings"
)

const (
	base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	base        = uint64(len(base62Chars))
)

// ToBase62 encodes n as a base-62 string, most significant symbol first,
// with no padding. ToBase62(0) == "0".
func ToBase62(n uint64) string {
	if n == 0 {
		return string(base62Chars[0])
	}

	buf := make([]byte, 0, 11) // 11 symbols cover the full uint64 range
	for n > 0 {
		buf = append(buf, base62Chars[n%base])
		n /= base
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// ErrInvalidBase62 reports a symbol outside the base-62 alphabet.
var ErrInvalidBase62 = errors.New("invalid base62 string")

// FromBase62 is the inverse of ToBase62. Decoding is not used on the hot
// path, but the codec stays reversible so codes can be mapped back to ids.
func FromBase62(s string) (uint64, error) {
	if s == "" {
		return 0, ErrInvalidBase62
	}

	var n uint64
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(base62Chars, s[i])
		if idx < 0 {
			return 0, ErrInvalidBase62
		}
		n = n*base + uint64(idx)
	}
	return n, nil
}
