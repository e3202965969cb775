package command

import "strings"

// QuotePOSIX wraps s in single quotes for a POSIX shell. An embedded single
// quote closes the quoting, is escaped with a backslash and reopens it.
func QuotePOSIX(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// QuoteWindows quotes s for the Windows command line parser used by
// CommandLineToArgvW. Strings without spaces, tabs or quotes are returned
// unchanged.
func QuoteWindows(s string) string {
	if s == "" {
		return `""`
	}

	if !strings.ContainsAny(s, " \t\"") {
		return s
	}

	var b strings.Builder

	b.WriteByte('"')

	slashes := 0

	for i := range len(s) {
		c := s[i]

		switch c {
		case '\\':
			slashes++
		case '"':
			b.WriteString(strings.Repeat(`\`, slashes+1))

			slashes = 0
		default:
			slashes = 0
		}

		b.WriteByte(c)
	}

	// Backslashes before the closing quote must be doubled.
	b.WriteString(strings.Repeat(`\`, slashes))
	b.WriteByte('"')

	return b.String()
}
