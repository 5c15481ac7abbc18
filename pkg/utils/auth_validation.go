package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	tenDigitRegex   = regexp.MustCompile(`^\d{10}$`)
	otpCodeRegex    = regexp.MustCompile(`^\d{6}$`)
	storedE164Regex = regexp.MustCompile(`^\+\d{10,15}$`)
)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsTenDigitPhone reports whether the raw form input is exactly 10 digits.
func IsTenDigitPhone(phone string) bool {
	return tenDigitRegex.MatchString(strings.TrimSpace(phone))
}

// IsSixDigitCode reports whether an OTP code is exactly 6 digits.
func IsSixDigitCode(code string) bool {
	return otpCodeRegex.MatchString(code)
}

// IsStorablePhone checks the storage-boundary shape for phone numbers.
// Profiles only ever persist numbers matching ^\+\d{10,15}$.
func IsStorablePhone(phone string) bool {
	return storedE164Regex.MatchString(phone)
}

// StripNonDigits drops everything but 0-9 from s.
func StripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
