// Package archive recovers message text from rich-text body blobs. Newer
// bodies are keyed, plist-backed archives; older ones use an unstructured
// streamtyped byte format with class-name markers and length-prefixed
// strings. Recovery is best-effort: three tiers of decreasing precision,
// degrading to an empty string rather than an error.
package archive

// DefaultScanBudget bounds the blob size eligible for the exhaustive
// heuristic tier. The cheaper tiers always run.
const DefaultScanBudget = 256 * 1024

// Decoder decodes message bodies. The zero value uses DefaultScanBudget.
type Decoder struct {
	ScanBudget int
}

// Decode returns the message text for a row: the sanitized text column when
// present, otherwise the best-effort decode of the rich-text blob. Pure and
// total; worst case is an empty string.
func (d Decoder) Decode(text string, blob []byte) string {
	if text != "" {
		return Sanitize(text)
	}
	if len(blob) == 0 {
		return ""
	}

	if s := decodeKeyedArchive(blob); s != "" {
		return Sanitize(s)
	}
	if s := scanClassMarkers(blob); s != "" {
		return Sanitize(s)
	}

	budget := d.ScanBudget
	if budget <= 0 {
		budget = DefaultScanBudget
	}
	if len(blob) <= budget {
		if s := scanHeuristic(blob); s != "" {
			return Sanitize(s)
		}
	}
	return ""
}
