package archive

import (
	"strings"
	"unicode"
)

const minTextLen = 5

// Substrings that mark archive metadata rather than message text: legacy
// and keyed-archive class names, the streamtyped signature, messaging
// framework prefixes, and archive root-key literals.
var metadataBlacklist = []string{
	"NSString",
	"NSMutableString",
	"NSAttributedString",
	"NSMutableAttributedString",
	"NSDictionary",
	"NSMutableDictionary",
	"NSArray",
	"NSMutableArray",
	"NSNumber",
	"NSValue",
	"NSData",
	"NSObject",
	"NSFont",
	"NSColor",
	"NSParagraphStyle",
	"NSMutableParagraphStyle",
	"NSKern",
	"NSBaselineOffset",
	"NSKeyedArchiver",
	"streamtyped",
	"__kIM",
	"IMMessagePart",
	"IMFileTransfer",
	"$class",
	"$null",
	"$top",
	"$objects",
	"$archiver",
}

// isMessageText reports whether a decoded candidate looks like actual
// message text rather than archive metadata. Requires at least minTextLen
// runes, no blacklisted substring, at least 3 distinct runes, and 90% of
// runes being alphanumeric, punctuation, whitespace, or non-ASCII (emoji
// and other scripts live above U+007F). ASCII math and currency symbols
// fall in none of these classes and count against the threshold.
func isMessageText(s string) bool {
	for _, bad := range metadataBlacklist {
		if strings.Contains(s, bad) {
			return false
		}
	}

	total := 0
	printable := 0
	distinct := make(map[rune]struct{}, 8)
	for _, r := range s {
		total++
		distinct[r] = struct{}{}
		if r >= 0x80 || unicode.IsLetter(r) || unicode.IsNumber(r) ||
			unicode.IsPunct(r) || unicode.IsSpace(r) {
			printable++
		}
	}

	if total < minTextLen || len(distinct) < 3 {
		return false
	}
	return float64(printable)/float64(total) >= 0.9
}
