package usecase

import (
	"context"
	"errors"
	"strings"

	"agricure-auth-service/internal/domain"
	"agricure-auth-service/internal/service/identity"
	"agricure-auth-service/internal/service/otp"
	"agricure-auth-service/pkg/utils"
	xerrors "agricure-auth-service/pkg/xerrors"
)

// AuthUsecase is the thin session facade: login, logout, current-user fetch.
// Everything passes straight through to the identity provider; the only local
// logic is identifier routing.
type AuthUsecase struct {
	provider identity.Provider
	otp      OTPCoordinator
}

func NewAuthUsecase(provider identity.Provider, otpSvc OTPCoordinator) *AuthUsecase {
	return &AuthUsecase{provider: provider, otp: otpSvc}
}

// RouteIdentifier decides whether a login identifier is an email or a phone.
// Emails go through as-is; anything phone-shaped is normalized to the
// canonical +91 form. Unrecognizable input fails as invalid credentials
// without reaching the provider.
func RouteIdentifier(identifier string) (channel, normalized string, err error) {
	identifier = strings.TrimSpace(identifier)
	if utils.ValidateEmail(identifier) {
		return domain.ChannelEmail, strings.ToLower(identifier), nil
	}
	phone, perr := otp.NormalizePhone(identifier)
	if perr != nil {
		return "", "", xerrors.ErrInvalidCredentials
	}
	return domain.ChannelPhone, phone, nil
}

// LoginWithPassword signs in by email or phone plus password.
func (uc *AuthUsecase) LoginWithPassword(ctx context.Context, identifierRaw, password string) (*domain.Session, error) {
	channel, normalized, err := RouteIdentifier(identifierRaw)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, xerrors.ErrInvalidCredentials
	}

	req := identity.PasswordGrantRequest{Password: password}
	if channel == domain.ChannelEmail {
		req.Email = normalized
	} else {
		req.Phone = normalized
	}

	session, err := uc.provider.PasswordGrant(ctx, req)
	if err != nil {
		classified := identity.Classify(err)
		if classified != err {
			return nil, classified
		}
		// Unmatched 4xx rejections read as bad credentials; anything else
		// passes through with its original message.
		var pe *identity.ProviderError
		if errors.As(err, &pe) && pe.Status >= 400 && pe.Status < 500 {
			return nil, xerrors.ErrInvalidCredentials
		}
		return nil, err
	}
	return session, nil
}

// RequestLoginOTP dispatches a login-intent code; the identity must already
// exist.
func (uc *AuthUsecase) RequestLoginOTP(ctx context.Context, identifierRaw string) (*domain.OTPReceipt, error) {
	channel, normalized, err := RouteIdentifier(identifierRaw)
	if err != nil {
		return nil, err
	}
	return uc.otp.SendOTP(ctx, channel, normalized, domain.IntentLogin, nil)
}

// VerifyLoginOTP completes an OTP login.
func (uc *AuthUsecase) VerifyLoginOTP(ctx context.Context, identifierRaw, code string) (*domain.Session, error) {
	channel, normalized, err := RouteIdentifier(identifierRaw)
	if err != nil {
		return nil, err
	}
	return uc.otp.VerifyOTP(ctx, channel, normalized, code, domain.IntentLogin)
}

// CurrentUser fetches the authenticated user from the provider.
func (uc *AuthUsecase) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	user, err := uc.provider.GetUser(ctx, accessToken)
	if err != nil {
		return nil, identity.Classify(err)
	}
	return user, nil
}

// Logout revokes the provider session.
func (uc *AuthUsecase) Logout(ctx context.Context, accessToken string) error {
	if err := uc.provider.Logout(ctx, accessToken); err != nil {
		return identity.Classify(err)
	}
	return nil
}
