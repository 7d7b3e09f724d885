package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"posbackend/internal/apperror"
	"posbackend/internal/model"
	"posbackend/internal/repository"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

// TOTP parameters. The skew of 3 steps either side (~90s) absorbs mail
// delivery latency and client clock drift; widening or narrowing it is a
// deliberate tradeoff, not a tuning knob.
const (
	otpPeriod    = 30
	otpSkewSteps = 3
	otpIssuer    = "posbackend"
)

var otpValidateOpts = totp.ValidateOpts{
	Period:    otpPeriod,
	Skew:      otpSkewSteps,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// Notifier delivers the recovery code out-of-band. Delivery is fire-and-
// forget: a failure is logged and never rolls back the issued challenge.
type Notifier interface {
	SendRecoveryCode(to, code string) error
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	OTP             string `json:"otp" binding:"required,len=6"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// PasswordResetService drives the OTP challenge state machine:
// NONE -> ISSUED (RequestReset) -> consumed by any ResetPassword attempt.
type PasswordResetService interface {
	RequestReset(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type passwordResetService struct {
	userRepo      repository.UserRepository
	challengeRepo repository.ChallengeRepository
	notifier      Notifier
	audit         AuditService
	now           func() time.Time // injectable for window tests
}

func NewPasswordResetService(userRepo repository.UserRepository, challengeRepo repository.ChallengeRepository, notifier Notifier, audit AuditService) PasswordResetService {
	return &passwordResetService{
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
		notifier:      notifier,
		audit:         audit,
		now:           time.Now,
	}
}

// RequestReset issues a fresh challenge for the account behind email,
// replacing any prior unconsumed one, and relays the current code to the
// user's registered address.
func (s *passwordResetService) RequestReset(ctx context.Context, req ForgotPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("%w: no account with that email", apperror.ErrNotFound)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      otpIssuer,
		AccountName: user.Email,
		Period:      otpPeriod,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return fmt.Errorf("failed to generate otp secret: %w", err)
	}

	if err := s.challengeRepo.Replace(ctx, &model.PasswordResetChallenge{
		UserID: user.ID,
		Secret: key.Secret(),
	}); err != nil {
		return err
	}

	code, err := totp.GenerateCodeCustom(key.Secret(), s.now(), otpValidateOpts)
	if err != nil {
		return fmt.Errorf("failed to derive otp code: %w", err)
	}

	// The challenge is already committed; a delivery failure is logged and
	// the caller still gets "OTP sent".
	if err := s.notifier.SendRecoveryCode(user.Email, code); err != nil {
		log.Printf("password reset: failed to send code to %s: %v", user.Email, err)
	}

	s.audit.Record(ctx, nil, model.ActionRequestPasswordReset, user.ID.String(), user.Username, nil)
	return nil
}

// ResetPassword validates the submitted code against the live challenge and,
// on success, replaces the stored credential. The challenge is deleted by the
// attempt itself, matched or not: a failed attempt forces re-issue instead of
// letting a leaked code be retried.
func (s *passwordResetService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if reason := checkPasswordPolicy(req.Password); reason != "" {
		return apperror.NewValidation("password", reason)
	}
	if req.Password != req.ConfirmPassword {
		return apperror.NewValidation("confirm_password", "the two password fields did not match")
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("%w: no account with that email", apperror.ErrNotFound)
	}

	challenge, err := s.challengeRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return apperror.ErrChallengeMissing
	}

	valid, err := totp.ValidateCustom(req.OTP, challenge.Secret, s.now(), otpValidateOpts)
	if err != nil {
		valid = false
	}

	// Single use, no replay: consume before reporting the outcome
	if err := s.challengeRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return err
	}

	if !valid {
		return apperror.ErrOTPMismatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	actorID := user.ID
	s.audit.Record(ctx, &actorID, model.ActionResetPassword, user.ID.String(), user.Username, nil)
	return nil
}
