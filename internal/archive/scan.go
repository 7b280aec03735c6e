package archive

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Window bounds for the exhaustive fallback scan.
const (
	scanWindowMax  = 5000
	scanWindowStep = 5
	scanWindowMin  = 10
)

// Marker byte sequences of the legacy archive string classes. The longer
// marker is matched first so NSMutableString is not double-counted as
// NSString.
var classMarkers = [][]byte{
	[]byte("NSMutableString"),
	[]byte("NSString"),
}

// scanClassMarkers locates class-name markers in a legacy streamtyped blob
// and tries to read a length-prefixed UTF-8 string after each one. The
// prefix usually sits a few class-metadata bytes past the marker, but the
// scan walks all the way forward: it is either a single byte in [1,127] or
// a base-128 varint, and validation rejects the stray bytes tried along the
// way. First validated match wins.
func scanClassMarkers(blob []byte) string {
	for i := 0; i < len(blob); {
		matched := 0
		for _, marker := range classMarkers {
			if bytes.HasPrefix(blob[i:], marker) {
				matched = len(marker)
				break
			}
		}
		if matched == 0 {
			i++
			continue
		}

		start := i + matched
		for off := 0; off < len(blob)-start; off++ {
			if s := tryLengthPrefixed(blob[start+off:]); s != "" {
				return s
			}
		}
		i = start
	}
	return ""
}

// tryLengthPrefixed reads a length prefix at the head of b and decodes that
// many following bytes as UTF-8 message text.
func tryLengthPrefixed(b []byte) string {
	if len(b) == 0 {
		return ""
	}

	var n, consumed int
	if b[0] >= 1 && b[0] <= 127 {
		n, consumed = int(b[0]), 1
	} else if b[0]&0x80 != 0 {
		n, consumed = readVarint(b)
		if consumed == 0 {
			return ""
		}
	} else {
		return ""
	}

	if n < minTextLen || consumed+n > len(b) {
		return ""
	}
	candidate := b[consumed : consumed+n]
	if !utf8.Valid(candidate) {
		return ""
	}
	text := strings.TrimSpace(string(candidate))
	if !isMessageText(text) {
		return ""
	}
	return text
}

// readVarint decodes a little-endian base-128 varint (0x80 continuation).
// Returns (0, 0) on overflow or truncation.
func readVarint(b []byte) (value, consumed int) {
	var shift uint
	for i := 0; i < len(b) && i < 4; i++ {
		value |= int(b[i]&0x7f) << shift
		if b[i]&0x80 == 0 {
			return value, i + 1
		}
		shift += 7
	}
	return 0, 0
}

// scanHeuristic enumerates candidate start offsets at control-to-printable
// transitions and after zero bytes, then tries decreasing UTF-8 windows at
// each, keeping the longest validated candidate. Quadratic-ish in the worst
// case; callers gate it behind a blob-size budget.
func scanHeuristic(blob []byte) string {
	var best string
	for i := 1; i < len(blob); i++ {
		if !candidateStart(blob[i-1], blob[i]) {
			continue
		}
		maxLen := min(scanWindowMax, len(blob)-i)
		for length := maxLen; length >= scanWindowMin; length -= scanWindowStep {
			window := blob[i : i+length]
			if !utf8.Valid(window) {
				continue
			}
			text := strings.TrimSpace(string(window))
			if len(text) <= len(best) {
				break
			}
			if isMessageText(text) {
				best = text
				break
			}
		}
	}
	return best
}

func candidateStart(prev, cur byte) bool {
	if prev == 0 {
		return true
	}
	return prev < 32 && cur >= 32
}
