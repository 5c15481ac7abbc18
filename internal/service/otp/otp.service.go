package otp

import (
	"context"
	"log"
	"time"

	"agricure-auth-service/internal/domain"
	"agricure-auth-service/internal/service/identity"
	"agricure-auth-service/pkg/utils"
	xerrors "agricure-auth-service/pkg/xerrors"
)

// Retry policy for transient network failures: up to maxAttempts total calls,
// waiting baseDelay * attemptNumber between them. Linear, not exponential,
// and deliberately bounded so a hard failure surfaces within seconds instead
// of hiding behind a long hang.
const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// Service coordinates sending, resending and verifying one-time passcodes
// over the email and phone channels, for both the signup and login intents.
// All OTP generation, delivery and storage is the provider's; this layer owns
// input normalization, error classification and the retry policy.
type Service struct {
	provider    identity.Provider
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(time.Duration)
}

func NewService(provider identity.Provider) *Service {
	return &Service{
		provider:    provider,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		sleep:       time.Sleep,
	}
}

// NewServiceWithRetry overrides the retry policy; used by tests to avoid real
// sleeps.
func NewServiceWithRetry(provider identity.Provider, maxAttempts int, baseDelay time.Duration, sleep func(time.Duration)) *Service {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Service{provider: provider, maxAttempts: maxAttempts, baseDelay: baseDelay, sleep: sleep}
}

// SendOTP normalizes the identifier and asks the provider to dispatch a code.
// The signup intent may create a new identity and smuggles the staged
// metadata through so the provider-side insert trigger sees it; the login
// intent targets existing identities only.
func (s *Service) SendOTP(ctx context.Context, channel, identifier, intent string, metadata map[string]string) (*domain.OTPReceipt, error) {
	normalized, err := NormalizeIdentifier(channel, identifier)
	if err != nil {
		return nil, err
	}

	req := identity.OTPRequest{
		AllowNewUser: intent == domain.IntentSignup,
		Metadata:     metadata,
	}
	if channel == domain.ChannelEmail {
		req.Email = normalized
	} else {
		req.Phone = normalized
	}

	err = s.withRetry(ctx, "send_otp", func() error {
		return s.provider.SendOTP(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	return &domain.OTPReceipt{
		Channel:     channel,
		Recipient:   MaskRecipient(channel, normalized),
		RequestedAt: time.Now(),
	}, nil
}

// VerifyOTP submits a 6-digit code for verification. A code of any other
// length is rejected locally and never reaches the network. On success the
// provider has materialized the user; the returned session carries its ID.
func (s *Service) VerifyOTP(ctx context.Context, channel, identifier, code, intent string) (*domain.Session, error) {
	if !utils.IsSixDigitCode(code) {
		return nil, xerrors.ErrInvalidOTPLength
	}

	normalized, err := NormalizeIdentifier(channel, identifier)
	if err != nil {
		return nil, err
	}

	req := identity.VerifyRequest{Token: code}
	if channel == domain.ChannelEmail {
		req.Type = "email"
		req.Email = normalized
	} else {
		req.Type = "sms"
		req.Phone = normalized
	}

	var session *domain.Session
	err = s.withRetry(ctx, "verify_otp", func() error {
		var callErr error
		session, callErr = s.provider.VerifyOTP(ctx, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ResendOTP re-invokes the corresponding send. Rate limiting is the caller's
// responsibility (the signup flow holds a 60-second advisory cooldown).
func (s *Service) ResendOTP(ctx context.Context, channel, identifier, intent string, metadata map[string]string) (*domain.OTPReceipt, error) {
	return s.SendOTP(ctx, channel, identifier, intent, metadata)
}

// withRetry runs call, classifying failures against the domain taxonomy.
// Transient network failures are retried with linear backoff; everything else
// propagates immediately.
func (s *Service) withRetry(ctx context.Context, op string, call func() error) error {
	var classified error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := call()
		if err == nil {
			return nil
		}

		classified = identity.Classify(err)
		if classified != xerrors.ErrNetworkFailure {
			return classified
		}
		if attempt == s.maxAttempts {
			break
		}

		delay := s.baseDelay * time.Duration(attempt)
		log.Printf("[otp] %s transient failure (attempt %d/%d), retrying in %s: %v", op, attempt, s.maxAttempts, delay, err)
		select {
		case <-ctx.Done():
			return xerrors.ErrNetworkFailure
		default:
		}
		s.sleep(delay)
	}
	log.Printf("[otp] %s failed after %d attempts", op, s.maxAttempts)
	return classified
}
