package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Shared field validators. Every input route runs the same predicates, so a
// value the wizard accepts is exactly a value a YAML file or flag set may
// carry. Validators return nil for valid input and a short reason otherwise,
// which makes them directly usable as huh field validation functions.

var (
	hostnameRe = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?)+$`)
	versionRe  = regexp.MustCompile(`^v\d+\.\d+\.\d+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// MinPasswordLength is the shared minimum for both secrets.
const MinPasswordLength = 6

// ValidateSiteName checks a fully qualified site name: dot-separated labels
// of letters, digits and hyphens, each starting and ending alphanumeric.
func ValidateSiteName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("site name must not be empty")
	}
	if strings.ContainsAny(s, " \t") {
		return fmt.Errorf("site name must not contain whitespace")
	}
	if !strings.Contains(s, ".") {
		return fmt.Errorf("site name must contain at least one dot, like erp.example.com")
	}
	if !hostnameRe.MatchString(s) {
		return fmt.Errorf("site name may only contain letters, digits, hyphens and dots")
	}
	return nil
}

// ValidateDomain checks a public domain name.
func ValidateDomain(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("domain must not be empty")
	}
	if !hostnameRe.MatchString(s) {
		return fmt.Errorf("domain must be a valid hostname, like erp.example.com")
	}
	return nil
}

// ValidateVersion checks the release tag form v<major>.<minor>.<patch>.
func ValidateVersion(s string) error {
	if !versionRe.MatchString(s) {
		return fmt.Errorf("version must look like v16.7.3")
	}
	return nil
}

// ValidateEmail checks a plausible mailbox address.
func ValidateEmail(s string) error {
	if !emailRe.MatchString(s) {
		return fmt.Errorf("must be a valid email address")
	}
	return nil
}

// ValidatePassword checks the shared secret rule.
func ValidatePassword(s string) error {
	if len(s) < MinPasswordLength {
		return fmt.Errorf("must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateHTTPPort checks a published-port string: canonical decimal in the
// unprivileged range.
func ValidateHTTPPort(s string) error {
	n, err := canonicalPort(s)
	if err != nil {
		return err
	}
	return validHTTPPort(n)
}

// ValidateSSHPort checks a port string in the full TCP range.
func ValidateSSHPort(s string) error {
	n, err := canonicalPort(s)
	if err != nil {
		return err
	}
	return validSSHPort(n)
}

func canonicalPort(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(n) != s {
		return 0, fmt.Errorf("must be a number")
	}
	return n, nil
}

func validHTTPPort(n int) error {
	if n < 1024 || n > 65535 {
		return fmt.Errorf("must be between 1024 and 65535")
	}
	return nil
}

func validSSHPort(n int) error {
	if n < 1 || n > 65535 {
		return fmt.Errorf("must be between 1 and 65535")
	}
	return nil
}
