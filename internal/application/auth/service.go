package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/medbook-api/internal/domain"
	"github.com/medbook-api/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

const (
	verificationTypeOTP = "otp"
	otpTTL              = 15 * time.Minute
)

type PasswordRecoveryRequest struct {
	Email string `json:"email" validate:"required,email"`
	// "email" (default) or "sms". SMS requires a phone on the account.
	Channel string `json:"channel" validate:"omitempty,oneof=email sms"`
}

type ValidateOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type Service interface {
	RequestPasswordRecovery(ctx context.Context, req PasswordRecoveryRequest) error
	ValidateOTP(ctx context.Context, req ValidateOTPRequest) (string, error)
	ChangePassword(ctx context.Context, userID, newPassword string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.UserVerification) error
	Get(ctx context.Context, userID, verType string) (*domain.UserVerification, error)
	Delete(ctx context.Context, userID, verType string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type jwtSigner interface {
	Sign(userID, role string) (string, error)
}

type service struct {
	userRepo         userStore
	verificationRepo verificationStore
	mailer           mailer
	smsSender        smsSender
	jwtProvider      jwtSigner
}

type ServiceDeps struct {
	UserRepo         userStore
	VerificationRepo verificationStore
	Mailer           mailer
	SMSSender        smsSender
	JWTProvider      jwtSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo:         deps.UserRepo,
		verificationRepo: deps.VerificationRepo,
		mailer:           deps.Mailer,
		smsSender:        deps.SMSSender,
		jwtProvider:      deps.JWTProvider,
	}
}

func (s *service) RequestPasswordRecovery(ctx context.Context, req PasswordRecoveryRequest) error {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	code, err := otp.New()
	if err != nil {
		return err
	}
	v := &domain.UserVerification{
		UserID:    u.UserID,
		Type:      verificationTypeOTP,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL).Unix(),
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return err
	}
	if req.Channel == "sms" {
		if u.Phone == nil || *u.Phone == "" {
			return fmt.Errorf("account has no phone number: %w", domain.ErrBadRequest)
		}
		return s.smsSender.SendSMS(ctx, *u.Phone, "Your password recovery code: "+code)
	}
	return s.mailer.SendEmail(u.Email, "Password Recovery", "Your password recovery code: "+code)
}

// ValidateOTP exchanges a valid recovery code for a short-lived bearer token
// the client uses to call ChangePassword. Codes are single-use.
func (s *service) ValidateOTP(ctx context.Context, req ValidateOTPRequest) (string, error) {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	v, err := s.verificationRepo.Get(ctx, u.UserID, verificationTypeOTP)
	if err != nil {
		return "", fmt.Errorf("no recovery code requested: %w", domain.ErrUnauthorized)
	}
	if v.Code != req.OTP || time.Now().Unix() > v.ExpiresAt {
		return "", fmt.Errorf("invalid or expired code: %w", domain.ErrUnauthorized)
	}
	if err := s.verificationRepo.Delete(ctx, u.UserID, verificationTypeOTP); err != nil {
		return "", err
	}
	return s.jwtProvider.Sign(u.UserID, u.Role())
}

func (s *service) ChangePassword(ctx context.Context, userID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.Update(ctx, userID, map[string]interface{}{"password_hash": string(hash)})
}
