package handler

import (
	"errors"
	"net/http"

	xerrors "agricure-auth-service/pkg/xerrors"
)

// statusFor maps domain errors to HTTP status codes. Anything unmapped is a
// 500 with its own message preserved (provider pass-through fallback).
func statusFor(err error) int {
	switch {
	case errors.Is(err, xerrors.ErrProductIDRequired),
		errors.Is(err, xerrors.ErrFullNameRequired),
		errors.Is(err, xerrors.ErrInvalidEmailFormat),
		errors.Is(err, xerrors.ErrInvalidMobileNumber),
		errors.Is(err, xerrors.ErrPasswordTooShort),
		errors.Is(err, xerrors.ErrPasswordMismatch),
		errors.Is(err, xerrors.ErrInvalidProductID),
		errors.Is(err, xerrors.ErrInvalidPhoneFormat),
		errors.Is(err, xerrors.ErrInvalidOTPLength),
		errors.Is(err, xerrors.ErrInvalidChannel),
		errors.Is(err, xerrors.ErrInvalidSignupStage),
		errors.Is(err, xerrors.ErrInvalidRequest):
		return http.StatusBadRequest

	case errors.Is(err, xerrors.ErrInvalidCredentials),
		errors.Is(err, xerrors.ErrInvalidToken),
		errors.Is(err, xerrors.ErrTokenExpired),
		errors.Is(err, xerrors.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, xerrors.ErrSignupDisabled),
		errors.Is(err, xerrors.ErrChannelNotConfirmed):
		return http.StatusForbidden

	case errors.Is(err, xerrors.ErrSignupFlowNotFound),
		errors.Is(err, xerrors.ErrNotFound),
		errors.Is(err, xerrors.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, xerrors.ErrAlreadyRegistered):
		return http.StatusConflict

	case errors.Is(err, xerrors.ErrResendTooSoon),
		errors.Is(err, xerrors.ErrTooManyOTPRequests):
		return http.StatusTooManyRequests

	case errors.Is(err, xerrors.ErrSmsProviderUnavailable),
		errors.Is(err, xerrors.ErrNetworkFailure):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
