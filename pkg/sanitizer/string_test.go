package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"leading and trailing", "  hello  ", "hello"},
		{"inner whitespace collapsed", "a \t b\n\nc", "a b c"},
		{"already clean", "hello world", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	if got := NormalizeLabel("  Dog  Walking "); got != "dog walking" {
		t.Errorf("NormalizeLabel = %q, want %q", got, "dog walking")
	}
}

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Pro-123", "pro-123"},
		{"  user 42  ", "user_42"},
		{"a!!b", "a_b"},
		{"__x__", "x"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeID(tt.input); got != tt.want {
			t.Errorf("SanitizeID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeTimeZone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Europe/Rome", "Europe/Rome"},
		{" America/New_York ", "America/New_York"},
		{"Europe//Rome", "Europe/Rome"},
		{"/UTC/", "UTC"},
		{"not a zone!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeTimeZone(tt.input); got != tt.want {
			t.Errorf("SanitizeTimeZone(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
