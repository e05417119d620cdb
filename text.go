package iomock

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is UTF-8 without a byte order mark.
var DefaultEncoding encoding.Encoding = unicode.UTF8

var byteOrderMarks = [][]byte{
	{0xEF, 0xBB, 0xBF},
	{0xFE, 0xFF},
	{0xFF, 0xFE},
}

// encodeText encodes s with enc. When preamble is false any byte order
// mark the encoder emits is dropped, as when appending to existing content.
func encodeText(s string, enc encoding.Encoding, preamble bool) ([]byte, error) {
	if enc == nil {
		enc = DefaultEncoding
	}

	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	if preamble || strings.HasPrefix(s, "\uFEFF") {
		return b, nil
	}

	for _, bom := range byteOrderMarks {
		if bytes.HasPrefix(b, bom) {
			return b[len(bom):], nil
		}
	}
	return b, nil
}

// decodeText decodes b with enc, letting a leading byte order mark select
// the actual encoding. The mark is not part of the result.
func decodeText(b []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		enc = DefaultEncoding
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// splitLines splits s at "\r\n", "\n" or "\r". A terminator at the very end
// does not start another line, and an empty string has no lines.
func splitLines(s string) []string {
	lines := []string{}
	for s != "" {
		i := strings.IndexAny(s, "\r\n")
		if i < 0 {
			lines = append(lines, s)
			break
		}

		lines = append(lines, s[:i])
		if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			i++
		}
		s = s[i+1:]
	}
	return lines
}

// joinLines terminates every line with nl.
func joinLines(lines []string, nl string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString(nl)
	}
	return sb.String()
}
