package usecase

import (
	"context"
	"errors"
	"testing"

	"agricure-auth-service/internal/domain"
	"agricure-auth-service/internal/service/identity"
	xerrors "agricure-auth-service/pkg/xerrors"
)

// loginProvider is a scripted identity.Provider for the session facade tests.
type loginProvider struct {
	grantCalls  int
	lastGrant   identity.PasswordGrantRequest
	grantErr    error
	session     *domain.Session
	user        *domain.User
	userErr     error
	logoutCalls int
	logoutErr   error
}

func (p *loginProvider) SendOTP(ctx context.Context, req identity.OTPRequest) error { return nil }

func (p *loginProvider) VerifyOTP(ctx context.Context, req identity.VerifyRequest) (*domain.Session, error) {
	return nil, errors.New("not used")
}

func (p *loginProvider) PasswordGrant(ctx context.Context, req identity.PasswordGrantRequest) (*domain.Session, error) {
	p.grantCalls++
	p.lastGrant = req
	if p.grantErr != nil {
		return nil, p.grantErr
	}
	if p.session != nil {
		return p.session, nil
	}
	return &domain.Session{AccessToken: "tok", UserID: "user-7"}, nil
}

func (p *loginProvider) GetUser(ctx context.Context, accessToken string) (*domain.User, error) {
	if p.userErr != nil {
		return nil, p.userErr
	}
	return p.user, nil
}

func (p *loginProvider) UpdateUserMetadata(ctx context.Context, accessToken string, metadata map[string]string) error {
	return nil
}

func (p *loginProvider) Logout(ctx context.Context, accessToken string) error {
	p.logoutCalls++
	return p.logoutErr
}

func TestRouteIdentifier(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantChannel string
		wantValue   string
		wantErr     bool
	}{
		{name: "plain email", in: "user@x.com", wantChannel: domain.ChannelEmail, wantValue: "user@x.com"},
		{name: "email lowercased", in: "User@X.Com", wantChannel: domain.ChannelEmail, wantValue: "user@x.com"},
		{name: "email with padding", in: "  user@x.com ", wantChannel: domain.ChannelEmail, wantValue: "user@x.com"},
		{name: "bare mobile", in: "7877059117", wantChannel: domain.ChannelPhone, wantValue: "+917877059117"},
		{name: "canonical phone", in: "+917877059117", wantChannel: domain.ChannelPhone, wantValue: "+917877059117"},
		{name: "formatted phone", in: "78770 59117", wantChannel: domain.ChannelPhone, wantValue: "+917877059117"},
		{name: "neither shape", in: "12345", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel, value, err := RouteIdentifier(tt.in)
			if tt.wantErr {
				if !errors.Is(err, xerrors.ErrInvalidCredentials) {
					t.Fatalf("err = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if channel != tt.wantChannel || value != tt.wantValue {
				t.Fatalf("got (%q, %q), want (%q, %q)", channel, value, tt.wantChannel, tt.wantValue)
			}
		})
	}
}

func TestLoginWithPasswordEmail(t *testing.T) {
	p := &loginProvider{}
	uc := NewAuthUsecase(p, &fakeCoordinator{})

	session, err := uc.LoginWithPassword(context.Background(), "User@X.Com", "secret1")
	if err != nil {
		t.Fatalf("LoginWithPassword: %v", err)
	}
	if session.UserID != "user-7" {
		t.Fatalf("session = %+v", session)
	}
	if p.lastGrant.Email != "user@x.com" || p.lastGrant.Phone != "" {
		t.Fatalf("grant request = %+v", p.lastGrant)
	}
}

func TestLoginWithPasswordPhone(t *testing.T) {
	p := &loginProvider{}
	uc := NewAuthUsecase(p, &fakeCoordinator{})

	if _, err := uc.LoginWithPassword(context.Background(), "7877059117", "secret1"); err != nil {
		t.Fatalf("LoginWithPassword: %v", err)
	}
	if p.lastGrant.Phone != "+917877059117" || p.lastGrant.Email != "" {
		t.Fatalf("grant request = %+v", p.lastGrant)
	}
}

func TestLoginWithPasswordEmptyPassword(t *testing.T) {
	p := &loginProvider{}
	uc := NewAuthUsecase(p, &fakeCoordinator{})

	_, err := uc.LoginWithPassword(context.Background(), "user@x.com", "")
	if !errors.Is(err, xerrors.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if p.grantCalls != 0 {
		t.Fatal("provider reached with empty password")
	}
}

func TestLoginUnmatchedProviderErrorReadsAsBadCredentials(t *testing.T) {
	p := &loginProvider{grantErr: &identity.ProviderError{Status: 400, Code: "something_novel", Message: "opaque provider state"}}
	uc := NewAuthUsecase(p, &fakeCoordinator{})

	_, err := uc.LoginWithPassword(context.Background(), "user@x.com", "wrongpass")
	if !errors.Is(err, xerrors.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginProviderServerErrorNotBadCredentials(t *testing.T) {
	p := &loginProvider{grantErr: &identity.ProviderError{Status: 502, Code: "unexpected_failure", Message: "provider temporarily degraded"}}
	uc := NewAuthUsecase(p, &fakeCoordinator{})

	_, err := uc.LoginWithPassword(context.Background(), "user@x.com", "secret1")
	if errors.Is(err, xerrors.ErrInvalidCredentials) {
		t.Fatal("a provider 5xx must not read as bad credentials")
	}
	var pe *identity.ProviderError
	if !errors.As(err, &pe) || pe.Status != 502 {
		t.Fatalf("err = %v, want the original provider error", err)
	}
}

func TestLoginClassifiedProviderErrorPassesThrough(t *testing.T) {
	p := &loginProvider{grantErr: &identity.ProviderError{Status: 403, Code: "email_not_confirmed", Message: "Email not confirmed"}}
	uc := NewAuthUsecase(p, &fakeCoordinator{})

	_, err := uc.LoginWithPassword(context.Background(), "user@x.com", "secret1")
	if !errors.Is(err, xerrors.ErrChannelNotConfirmed) {
		t.Fatalf("err = %v, want ErrChannelNotConfirmed", err)
	}
}

func TestRequestLoginOTPRoutesPhone(t *testing.T) {
	otp := &fakeCoordinator{}
	uc := NewAuthUsecase(&loginProvider{}, otp)

	if _, err := uc.RequestLoginOTP(context.Background(), "7877059117"); err != nil {
		t.Fatalf("RequestLoginOTP: %v", err)
	}
	if otp.lastChannel != domain.ChannelPhone || otp.lastIdentifier != "+917877059117" {
		t.Fatalf("dispatch = %q %q", otp.lastChannel, otp.lastIdentifier)
	}
	if otp.lastIntent != domain.IntentLogin {
		t.Fatalf("intent = %q, want login", otp.lastIntent)
	}
}

func TestVerifyLoginOTP(t *testing.T) {
	otp := &fakeCoordinator{session: &domain.Session{AccessToken: "tok", UserID: "user-9"}}
	uc := NewAuthUsecase(&loginProvider{}, otp)

	session, err := uc.VerifyLoginOTP(context.Background(), "user@x.com", "123456")
	if err != nil {
		t.Fatalf("VerifyLoginOTP: %v", err)
	}
	if session.UserID != "user-9" {
		t.Fatalf("session = %+v", session)
	}
	if otp.lastCode != "123456" || otp.lastIntent != domain.IntentLogin {
		t.Fatalf("verify call = code %q intent %q", otp.lastCode, otp.lastIntent)
	}
}

func TestCurrentUser(t *testing.T) {
	email := "user@x.com"
	p := &loginProvider{user: &domain.User{ID: "user-7", Email: &email}}
	uc := NewAuthUsecase(p, &fakeCoordinator{})

	user, err := uc.CurrentUser(context.Background(), "tok")
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if user.ID != "user-7" {
		t.Fatalf("user = %+v", user)
	}
}

func TestLogout(t *testing.T) {
	p := &loginProvider{}
	uc := NewAuthUsecase(p, &fakeCoordinator{})

	if err := uc.Logout(context.Background(), "tok"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if p.logoutCalls != 1 {
		t.Fatalf("logoutCalls = %d", p.logoutCalls)
	}
}
