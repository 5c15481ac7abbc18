package xerrors

import "errors"

import "github.com/jackc/pgx/v5/pgconn"

func ParsePGErrorCode(err error) string {
	if pgErr, ok := err.(*pgconn.PgError); ok {
		return pgErr.Code // e.g. 23505 for unique_violation
	}
	return "unknown"
}

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
)

// Signup form validation
var (
	ErrProductIDRequired   = errors.New("product ID is required")
	ErrFullNameRequired    = errors.New("full name is required")
	ErrInvalidEmailFormat  = errors.New("invalid email format")
	ErrInvalidMobileNumber = errors.New("mobile number must be exactly 10 digits")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters long")
	ErrPasswordMismatch    = errors.New("passwords do not match")
)

// Product gate. Deliberately opaque: not-found, inactive and query failures
// all collapse into this one error.
var ErrInvalidProductID = errors.New("invalid product ID")

// OTP / identity provider
var (
	ErrInvalidPhoneFormat     = errors.New("invalid phone number format")
	ErrSignupDisabled         = errors.New("signups are currently disabled")
	ErrAlreadyRegistered      = errors.New("an account with this email or phone already exists")
	ErrUserNotFound           = errors.New("no account found for this email or phone")
	ErrSmsProviderUnavailable = errors.New("SMS service is temporarily unavailable")
	ErrTokenExpired           = errors.New("verification code has expired, please request a new one")
	ErrInvalidToken           = errors.New("invalid verification code")
	ErrChannelNotConfirmed    = errors.New("this email or phone has not been confirmed yet")
	ErrNetworkFailure         = errors.New("network error, please check your connection and try again")
	ErrInvalidOTPLength       = errors.New("verification code must be exactly 6 digits")
)

// Signup flow state
var (
	ErrSignupFlowNotFound = errors.New("signup session not found or expired")
	ErrInvalidSignupStage = errors.New("invalid signup stage")
	ErrInvalidChannel     = errors.New("invalid channel")
)

// Login
var ErrInvalidCredentials = errors.New("invalid credentials")

// Reconciliation. Soft: logged, never surfaced to the signup caller.
var ErrProfileReconciliation = errors.New("profile reconciliation failed")

// Rate limiting / cooldown
var (
	ErrResendTooSoon      = errors.New("please wait before requesting another code")
	ErrTooManyOTPRequests = errors.New("too many OTP requests; try again later")
)
