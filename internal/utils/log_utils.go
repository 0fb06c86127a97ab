package utils

import (
	"strings"
	"unicode"
)

// MaxLogStringLength defines the maximum length for user-provided strings in logs
const MaxLogStringLength = 200

// SanitizeLogString sanitizes a user-controlled string for safe logging:
// control characters become spaces, long values are truncated and format
// specifiers are escaped. Booking titles and organizer names pass
// through here before reaching the log.
func SanitizeLogString(input string) string {
	if input == "" {
		return ""
	}

	if len(input) > MaxLogStringLength {
		input = input[:MaxLogStringLength] + "... (truncated)"
	}

	input = strings.ReplaceAll(input, "\r\n", "\n")

	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, input)

	return strings.ReplaceAll(sanitized, "%", "%%")
}
