package msgframe

import (
	"fmt"
	"strconv"
	"strings"
)

const hexTableUpper = "0123456789ABCDEF"

// encodeHexUpper converts src to uppercase hex and writes it to dst, which
// must hold len(src)*2 bytes.
func encodeHexUpper(dst, src []byte) {
	for i, v := range src {
		dst[i*2] = hexTableUpper[v>>4]
		dst[i*2+1] = hexTableUpper[v&0x0f]
	}
}

// pow10 returns 10^n for small non-negative n.
func pow10(n int) int {
	res := 1
	for i := 0; i < n; i++ {
		res *= 10
	}
	return res
}

// stripNonDigits drops every character outside '0'..'9'. A leading sign is
// the caller's business.
func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// fitFixed pads or truncates s to exactly width characters. Padding goes on
// the dir side; truncation keeps the value-bearing end (rightmost characters
// for left padding, leftmost for right padding).
func fitFixed(s string, width int, pad byte, dir PadDirection) string {
	if len(s) == width {
		return s
	}
	if len(s) > width {
		if dir == PadLeft {
			return s[len(s)-width:]
		}
		return s[:width]
	}
	fill := strings.Repeat(string(pad), width-len(s))
	if dir == PadLeft {
		return fill + s
	}
	return s + fill
}

// keepRight returns the rightmost n characters of s.
func keepRight(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// textValue renders a field value as text for the character and numeric
// codecs. Byte slices are taken as already-encoded text; integers are
// formatted in decimal.
func textValue(v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("%w: unsupported value type %T", ErrFormatError, v)
}
