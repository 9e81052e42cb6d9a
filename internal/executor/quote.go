package executor

import "strings"

// Quote returns the string in a form safe to embed in a POSIX shell command
// line. Values made only of safe characters pass through unchanged; anything
// else is single-quoted, with embedded single quotes closed, escaped, and
// reopened.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if isShellSafe(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isShellSafe(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.' || r == '/' || r == ':' || r == '@' || r == '=':
		default:
			return false
		}
	}
	return true
}
