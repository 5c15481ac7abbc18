package otp

import (
	"strings"

	"agricure-auth-service/pkg/utils"
	xerrors "agricure-auth-service/pkg/xerrors"
)

// India country calling code. All mobile numbers in the product's market are
// Indian; bare 10-digit numbers are normalized under it.
const countryCode = "91"

// NormalizePhone reduces raw phone input to the single canonical
// international form "+91XXXXXXXXXX":
//
//   - all non-digits are stripped first, so "78770 59117" and "+91-7877059117"
//     are acceptable inputs;
//   - a bare 10-digit number must start with a mobile-leading digit (6-9) and
//     gets the country code prefixed;
//   - a 12-digit number already carrying "91" (with or without a leading "+")
//     is normalized to a leading "+".
//
// Anything not reducible to that form fails with ErrInvalidPhoneFormat.
// Normalization is idempotent: feeding back an already-normalized number
// returns it unchanged.
func NormalizePhone(raw string) (string, error) {
	digits := utils.StripNonDigits(raw)

	switch {
	case len(digits) == 10:
		if digits[0] < '6' || digits[0] > '9' {
			return "", xerrors.ErrInvalidPhoneFormat
		}
		return "+" + countryCode + digits, nil

	case len(digits) == 12 && strings.HasPrefix(digits, countryCode):
		rest := digits[len(countryCode):]
		if rest[0] < '6' || rest[0] > '9' {
			return "", xerrors.ErrInvalidPhoneFormat
		}
		return "+" + digits, nil

	default:
		return "", xerrors.ErrInvalidPhoneFormat
	}
}

// NormalizeIdentifier validates and canonicalizes an identifier for the given
// channel: email is lowercased and syntax-checked, phone goes through
// NormalizePhone.
func NormalizeIdentifier(channel, identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	switch channel {
	case "email":
		identifier = strings.ToLower(identifier)
		if !utils.ValidateEmail(identifier) {
			return "", xerrors.ErrInvalidEmailFormat
		}
		return identifier, nil
	case "phone":
		return NormalizePhone(identifier)
	default:
		return "", xerrors.ErrInvalidChannel
	}
}

// MaskRecipient hides most of an identifier for user-facing copy.
func MaskRecipient(channel, recipient string) string {
	switch channel {
	case "email":
		at := strings.Index(recipient, "@")
		if at > 2 {
			return recipient[:2] + strings.Repeat("*", at-2) + recipient[at:]
		}
		return "***" + recipient[at+1:]
	case "phone":
		if len(recipient) > 4 {
			return strings.Repeat("*", len(recipient)-4) + recipient[len(recipient)-4:]
		}
	}
	return "****"
}
