package identity

import "strings"

// NormalizeKey canonicalizes a raw handle identifier into a comparable key.
// Emails are lower-cased; anything else is treated as a phone number.
func NormalizeKey(raw string) string {
	if strings.Contains(raw, "@") {
		return strings.ToLower(raw)
	}
	return NormalizePhone(raw)
}

// NormalizePhone reduces a phone number to digits and standardizes US numbers:
// 10 digits get the country code "1" prepended, 11 digits starting with "1"
// are kept as-is, everything else passes through digits-only. Best-effort and
// non-bijective for international numbers.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 10 {
		return "1" + digits
	}
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		return digits
	}
	return digits
}

// FormatIdentifier formats an identifier for display when no directory entry
// matches: emails unchanged, US numbers as (AAA) BBB-CCCC.
func FormatIdentifier(identifier string) string {
	if strings.Contains(identifier, "@") {
		return identifier
	}

	var b strings.Builder
	for _, r := range identifier {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		rest := digits[1:]
		return "+1 (" + rest[:3] + ") " + rest[3:6] + "-" + rest[6:]
	}
	return identifier
}
