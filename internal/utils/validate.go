package utils

// validate.go holds the field validators shared by the user and hotel
// handlers. All of them are pure functions over the raw request values so
// the rules can be unit-tested without HTTP.

import (
	"regexp"
	"strings"
)

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitsRe  = regexp.MustCompile(`\D`)
	gstRe     = regexp.MustCompile(`^[0-9]{2}[A-Z0-9]{13}$`)
	pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// ValidEmail reports whether s has the local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// NormalizePhone strips every non-digit character and reports whether the
// result is exactly 10 digits. The normalized form is what gets stored.
func NormalizePhone(s string) (string, bool) {
	n := digitsRe.ReplaceAllString(s, "")
	return n, len(n) == 10
}

// ValidGST reports whether s matches the 15-character GST pattern
// (2 digits followed by 13 alphanumerics).
func ValidGST(s string) bool {
	return gstRe.MatchString(strings.TrimSpace(s))
}

// ValidPincode reports whether s is a 6-digit code not starting with zero.
func ValidPincode(s string) bool {
	return pincodeRe.MatchString(strings.TrimSpace(s))
}

// ValidLatitude and ValidLongitude are boundary-inclusive range checks.
func ValidLatitude(v float64) bool  { return v >= -90 && v <= 90 }
func ValidLongitude(v float64) bool { return v >= -180 && v <= 180 }
