package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reKeepIDChars     = regexp.MustCompile(`[^0-9\p{L}\-_]+`)
	reTrimUnderscores = regexp.MustCompile(`_+`)
	reValidTZ         = regexp.MustCompile(`^[A-Za-z0-9_\-/+]+$`)
	reMultiSlash      = regexp.MustCompile(`/+`)
)

func trimAndLower(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

func collapseUnderscores(s string) string {
	s = reTrimUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// SanitizeID normalizes an external identifier (provider or user).
func SanitizeID(input string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return reKeepIDChars.ReplaceAllString(s, "_") },
		collapseUnderscores,
	}
	return p.Apply(input)
}

// SanitizeTimeZone trims an IANA zone name and rejects anything outside
// the valid character set. Case is preserved; zone names are case sensitive.
func SanitizeTimeZone(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	s = reMultiSlash.ReplaceAllString(s, "/")
	s = strings.Trim(s, "/")
	if !reValidTZ.MatchString(s) {
		return ""
	}
	return s
}
