package archive

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"passthrough", "hello", "hello"},
		{"nul removed", "he\x00llo", "hello"},
		{"object replacement removed", "photo ￼ here", "photo  here"},
		{"replacement removed", "bad�byte", "badbyte"},
		{"zero widths removed", "a​b‌c\uFEFFd", "abcd"},
		{"zwj kept for emoji", "\U0001F469‍\U0001F4BB", "\U0001F469‍\U0001F4BB"},
		{"control bytes dropped", "a\x01\x02b", "ab"},
		{"newline and tab kept", "line1\nline2\tend", "line1\nline2\tend"},
		{"trimmed", "  padded  ", "padded"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"hello", "he\x00llo￼", "  spaced​  ", "\U0001F469‍\U0001F4BB", "",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}
