package archive

import "strings"

// Sanitize strips characters that leak out of rich-text blobs and break
// rendering: NUL, the object-replacement and replacement characters,
// zero-width space, zero-width non-joiner, BOM, and control bytes below 32
// except newline and tab. The zero-width joiner (U+200D) is kept because
// emoji sequences depend on it. Applied before both preview and export
// rendering; idempotent.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isStrippedRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func isStrippedRune(r rune) bool {
	switch r {
	case 0x0000, 0xFFFC, 0xFFFD, 0x200B, 0x200C, 0xFEFF:
		return true
	}
	return r < 32 && r != '\n' && r != '\t'
}
