package identity

import (
	"context"
	"errors"
	"net"
	"strings"

	xerrors "agricure-auth-service/pkg/xerrors"
)

// Provider error codes, per the provider's documented error surface.
const (
	codeSignupDisabled    = "signup_disabled"
	codeUserAlreadyExists = "user_already_exists"
	codeEmailExists       = "email_exists"
	codePhoneExists       = "phone_exists"
	codeUserNotFound      = "user_not_found"
	codeOTPDisabled       = "otp_disabled"
	codeSMSSendFailed     = "sms_send_failed"
	codeOTPExpired        = "otp_expired"
	codeEmailNotConfirmed = "email_not_confirmed"
	codePhoneNotConfirmed = "phone_not_confirmed"
)

// transientSignatures are message fragments that identify a transient network
// failure when the provider (or the transport in front of it) does not expose
// a structured code. Substring matching is a documented fallback only; the
// structured code path above it is authoritative.
var transientSignatures = []string{
	"failed to fetch",
	"network changed",
	"err_network_changed",
	"retryable fetch error",
	"typeerror",
	"connection refused",
	"connection reset",
	"no such host",
	"timeout",
	"timed out",
}

// Classify maps a raw provider or transport error onto the domain error
// taxonomy. Unmatched provider errors pass through unchanged so their
// original message still reaches the caller as a fallback.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	// Transport-level failures never carry a ProviderError.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return xerrors.ErrNetworkFailure
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return xerrors.ErrNetworkFailure
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		if mapped := classifyCode(pe.Code); mapped != nil {
			return mapped
		}
		if mapped := classifyMessage(pe.Message); mapped != nil {
			return mapped
		}
		return err
	}

	if mapped := classifyMessage(err.Error()); mapped != nil {
		return mapped
	}
	return err
}

// IsTransient reports whether err (already classified or raw) should be
// retried under the bounded linear-backoff policy.
func IsTransient(err error) bool {
	return errors.Is(Classify(err), xerrors.ErrNetworkFailure)
}

func classifyCode(code string) error {
	switch code {
	case "":
		return nil
	case codeSignupDisabled, codeOTPDisabled:
		return xerrors.ErrSignupDisabled
	case codeUserAlreadyExists, codeEmailExists, codePhoneExists:
		return xerrors.ErrAlreadyRegistered
	case codeUserNotFound:
		return xerrors.ErrUserNotFound
	case codeSMSSendFailed:
		return xerrors.ErrSmsProviderUnavailable
	case codeOTPExpired:
		return xerrors.ErrTokenExpired
	case "otp_invalid", "invalid_otp", "bad_code":
		return xerrors.ErrInvalidToken
	case codeEmailNotConfirmed, codePhoneNotConfirmed:
		return xerrors.ErrChannelNotConfirmed
	default:
		return nil
	}
}

func classifyMessage(msg string) error {
	m := strings.ToLower(msg)
	switch {
	case m == "":
		return nil
	case containsAny(m, transientSignatures):
		return xerrors.ErrNetworkFailure
	case strings.Contains(m, "signups not allowed"), strings.Contains(m, "signup disabled"):
		return xerrors.ErrSignupDisabled
	case strings.Contains(m, "already registered"), strings.Contains(m, "already exists"), strings.Contains(m, "already been registered"):
		return xerrors.ErrAlreadyRegistered
	case strings.Contains(m, "user not found"), strings.Contains(m, "no user found"):
		return xerrors.ErrUserNotFound
	case strings.Contains(m, "error sending sms"), strings.Contains(m, "sms provider"), strings.Contains(m, "unable to get sms provider"):
		return xerrors.ErrSmsProviderUnavailable
	case strings.Contains(m, "expired"):
		return xerrors.ErrTokenExpired
	case strings.Contains(m, "token has expired or is invalid"), strings.Contains(m, "invalid token"), strings.Contains(m, "invalid otp"):
		return xerrors.ErrInvalidToken
	case strings.Contains(m, "not confirmed"):
		return xerrors.ErrChannelNotConfirmed
	default:
		return nil
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
