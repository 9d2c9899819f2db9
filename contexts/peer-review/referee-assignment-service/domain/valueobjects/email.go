package valueobjects

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeEmail trims and lower-cases a reviewer address. Reviewer identity
// is always compared on the normalized form.
func NormalizeEmail(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	// A Caser carries state, so each call builds its own.
	return cases.Lower(language.Und).String(trimmed)
}
