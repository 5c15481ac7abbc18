package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"agricure-auth-service/internal/domain"
	"agricure-auth-service/pkg/utils"
	xerrors "agricure-auth-service/pkg/xerrors"
)

// ProductRepo is the minimal product lookup needed by the signup flow.
type ProductRepo interface {
	FindActiveProduct(ctx context.Context, id string) (*domain.Product, error)
}

// StagingStore holds staged signup records for the two-phase flow.
type StagingStore interface {
	Put(ctx context.Context, s *domain.StagedSignup) error
	Get(ctx context.Context, flowID string) (*domain.StagedSignup, error)
	Delete(ctx context.Context, flowID string) error
}

// OTPCoordinator dispatches and verifies one-time passcodes via the identity
// provider.
type OTPCoordinator interface {
	SendOTP(ctx context.Context, channel, identifier, intent string, metadata map[string]string) (*domain.OTPReceipt, error)
	VerifyOTP(ctx context.Context, channel, identifier, code, intent string) (*domain.Session, error)
	ResendOTP(ctx context.Context, channel, identifier, intent string, metadata map[string]string) (*domain.OTPReceipt, error)
}

// SendGuard rate-limits OTP dispatch per signup flow (60s advisory cooldown
// plus a windowed cap). CanRequest only checks; MarkSent is called after a
// successful dispatch, so a failed send leaves the flow free to retry.
type SendGuard interface {
	CanRequest(ctx context.Context, flowID string) error
	MarkSent(ctx context.Context, flowID string) error
	CooldownRemaining(ctx context.Context, flowID string) time.Duration
}

// SignupRequest is the raw signup form payload.
type SignupRequest struct {
	ProductID       string
	FullName        string
	Email           string
	MobileNumber    string
	Password        string
	ConfirmPassword string
}

// SignupResult is returned once OTP verification lands: the identity exists
// and a session is open. Profile completeness is best-effort by design.
type SignupResult struct {
	UserID  string
	Stage   string
	Session *domain.Session
}

// SignupUsecase sequences product-ID validation, temporary credential
// staging, channel selection, OTP dispatch/verification, profile
// reconciliation and completion.
type SignupUsecase struct {
	products   ProductRepo
	staging    StagingStore
	otp        OTPCoordinator
	guard      SendGuard
	reconciler *Reconciler
}

func NewSignupUsecase(products ProductRepo, staging StagingStore, otp OTPCoordinator, guard SendGuard, reconciler *Reconciler) *SignupUsecase {
	return &SignupUsecase{
		products:   products,
		staging:    staging,
		otp:        otp,
		guard:      guard,
		reconciler: reconciler,
	}
}

// ValidateForm runs the pure, pre-network form validation and returns the
// ordered list of violated rules. Callers surface the first violation.
func ValidateForm(req SignupRequest) []error {
	var violations []error
	if req.ProductID == "" {
		violations = append(violations, xerrors.ErrProductIDRequired)
	}
	if req.FullName == "" {
		violations = append(violations, xerrors.ErrFullNameRequired)
	}
	if !utils.ValidateEmail(req.Email) {
		violations = append(violations, xerrors.ErrInvalidEmailFormat)
	}
	if !utils.IsTenDigitPhone(req.MobileNumber) {
		violations = append(violations, xerrors.ErrInvalidMobileNumber)
	}
	if len(req.Password) < 6 {
		violations = append(violations, xerrors.ErrPasswordTooShort)
	}
	if req.Password != req.ConfirmPassword {
		violations = append(violations, xerrors.ErrPasswordMismatch)
	}
	return violations
}

// Start validates the form locally, gates on an active product, and stages
// the payload. No identity exists yet; nothing is persisted server-side
// beyond the staging record.
func (uc *SignupUsecase) Start(ctx context.Context, req SignupRequest) (*domain.StagedSignup, error) {
	if violations := ValidateForm(req); len(violations) > 0 {
		return nil, violations[0]
	}

	// Not-found, inactive and query errors are indistinguishable to the
	// caller on purpose.
	if _, err := uc.products.FindActiveProduct(ctx, req.ProductID); err != nil {
		log.Printf("[signup] product gate rejected id=%s: %v", req.ProductID, err)
		return nil, xerrors.ErrInvalidProductID
	}

	staged := &domain.StagedSignup{
		FlowID:       uuid.New().String(),
		Stage:        domain.StageStaged,
		ProductID:    req.ProductID,
		FullName:     req.FullName,
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
		Password:     req.Password,
		CreatedAt:    time.Now(),
	}
	if err := uc.staging.Put(ctx, staged); err != nil {
		return nil, err
	}
	return staged, nil
}

// SendOTP moves a staged flow to otp_pending by dispatching a code over the
// selected channel with the signup intent. On failure the flow stays staged
// and the error is surfaced.
func (uc *SignupUsecase) SendOTP(ctx context.Context, flowID, channel string) (*domain.OTPReceipt, error) {
	staged, err := uc.staging.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if staged.Stage != domain.StageStaged && staged.Stage != domain.StageOTPPending {
		return nil, xerrors.ErrInvalidSignupStage
	}
	if channel != domain.ChannelEmail && channel != domain.ChannelPhone {
		return nil, xerrors.ErrInvalidChannel
	}

	if err := uc.guard.CanRequest(ctx, flowID); err != nil {
		return nil, err
	}

	receipt, err := uc.otp.SendOTP(ctx, channel, staged.IdentifierFor(channel), domain.IntentSignup, staged.Metadata())
	if err != nil {
		return nil, err
	}
	if err := uc.guard.MarkSent(ctx, flowID); err != nil {
		log.Printf("[signup] failed to arm resend cooldown flow=%s: %v", flowID, err)
	}

	staged.Stage = domain.StageOTPPending
	staged.Channel = channel
	if err := uc.staging.Put(ctx, staged); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ResendOTP re-dispatches on the already-selected channel, cooldown
// permitting.
func (uc *SignupUsecase) ResendOTP(ctx context.Context, flowID string) (*domain.OTPReceipt, error) {
	staged, err := uc.staging.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if staged.Stage != domain.StageOTPPending {
		return nil, xerrors.ErrInvalidSignupStage
	}
	if err := uc.guard.CanRequest(ctx, flowID); err != nil {
		return nil, err
	}
	receipt, err := uc.otp.ResendOTP(ctx, staged.Channel, staged.IdentifierFor(staged.Channel), domain.IntentSignup, staged.Metadata())
	if err != nil {
		return nil, err
	}
	if err := uc.guard.MarkSent(ctx, flowID); err != nil {
		log.Printf("[signup] failed to arm resend cooldown flow=%s: %v", flowID, err)
	}
	return receipt, nil
}

// VerifyOTP completes the flow: provider verification, then unconditional
// profile reconciliation with the full staged payload, then staging teardown.
// Reconciliation exhausting its retries does not fail the signup; the
// authenticated identity is already valid and a degraded profile is a
// recoverable state.
func (uc *SignupUsecase) VerifyOTP(ctx context.Context, flowID, code string) (*SignupResult, error) {
	staged, err := uc.staging.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if staged.Stage != domain.StageOTPPending {
		return nil, xerrors.ErrInvalidSignupStage
	}

	session, err := uc.otp.VerifyOTP(ctx, staged.Channel, staged.IdentifierFor(staged.Channel), code, domain.IntentSignup)
	if err != nil {
		return nil, err
	}

	// The provider-side trigger may already have auto-created the profile
	// row; reconciliation runs regardless and the merge semantics make the
	// two producers commute.
	if err := uc.reconciler.Reconcile(ctx, session.UserID, staged); err != nil {
		log.Printf("[signup] profile reconciliation gave up for user=%s: %v", session.UserID, err)
	}

	staged.Stage = domain.StageComplete
	if err := uc.staging.Delete(ctx, flowID); err != nil {
		log.Printf("[signup] failed to clear staging flow=%s: %v", flowID, err)
	}

	return &SignupResult{UserID: session.UserID, Stage: staged.Stage, Session: session}, nil
}

// ChangeMethod returns an otp_pending flow to channel selection without
// clearing the staged data.
func (uc *SignupUsecase) ChangeMethod(ctx context.Context, flowID string) (*domain.StagedSignup, error) {
	staged, err := uc.staging.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if staged.Stage != domain.StageOTPPending {
		return nil, xerrors.ErrInvalidSignupStage
	}
	staged.Stage = domain.StageStaged
	staged.Channel = ""
	if err := uc.staging.Put(ctx, staged); err != nil {
		return nil, err
	}
	return staged, nil
}

// Abandon clears all staged state for the flow. Outstanding OTP calls are not
// cancelled; any response landing afterwards finds no staging record and
// mutates nothing.
func (uc *SignupUsecase) Abandon(ctx context.Context, flowID string) error {
	return uc.staging.Delete(ctx, flowID)
}

// CooldownRemaining exposes the advisory resend countdown for the UI.
func (uc *SignupUsecase) CooldownRemaining(ctx context.Context, flowID string) time.Duration {
	return uc.guard.CooldownRemaining(ctx, flowID)
}
