package executor

import "strings"

const mask = "******"

// Redact masks secret values in a command line so it can be logged.
// It hides the argument following any flag or set-config key whose name
// suggests a credential, and the value of KEY=VALUE pairs likewise.
func Redact(command string) string {
	fields := strings.Fields(command)
	maskNext := false

	for i, f := range fields {
		if maskNext {
			fields[i] = mask
			maskNext = false
			continue
		}

		if k, _, ok := strings.Cut(f, "="); ok && sensitiveName(k) {
			fields[i] = k + "=" + mask
			continue
		}

		if sensitiveName(f) {
			maskNext = true
		}
	}

	return strings.Join(fields, " ")
}

func sensitiveName(name string) bool {
	n := strings.ToLower(strings.TrimLeft(name, "-"))
	return strings.Contains(n, "password") ||
		strings.Contains(n, "secret") ||
		strings.Contains(n, "access_key") ||
		strings.Contains(n, "access-key")
}
