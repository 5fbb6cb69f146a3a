// Package otp implements the issue/verify lifecycle for one-time passcodes.
package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/handabata/otp-service/internal/domain"
	pkgotp "github.com/handabata/otp-service/internal/pkg/otp"
)

// OTPStore persists one live code per email.
type OTPStore interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	Delete(ctx context.Context, email string) error
}

// UserStore resolves accounts for the phone-verification flow.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// Mailer delivers one HTML message to one recipient.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// SMSSender delivers one text message to one phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type Service interface {
	// Send issues a fresh code for email under the given purpose and delivers
	// it by mail. Any existing code for that address is overwritten.
	Send(ctx context.Context, email, purpose string) error
	// Verify consumes the code for email. The full validation chain runs in
	// order: rate limit, existence, purpose, code/expiry. Success deletes the
	// record — a code verifies at most once.
	Verify(ctx context.Context, email, purpose, code string) error
	// SendPhone issues a phone-verification code for the account's phone
	// number, delivered over SMS.
	SendPhone(ctx context.Context, userID string) error
	// VerifyPhone consumes a phone-verification code and marks the account's
	// phone as confirmed.
	VerifyPhone(ctx context.Context, userID, code string) error
}

// ServiceDeps bundles the collaborators NewService needs.
type ServiceDeps struct {
	OTPRepo   OTPStore
	UserRepo  UserStore
	Limits    *RateLimitPolicy
	Mailer    Mailer
	SMSSender SMSSender
	// Validity is how long an issued code stays verifiable.
	Validity time.Duration
}

type service struct {
	otpRepo   OTPStore
	userRepo  UserStore
	limits    *RateLimitPolicy
	mailer    Mailer
	smsSender SMSSender
	validity  time.Duration
	nowFn     func() time.Time
}

func NewService(deps ServiceDeps) Service {
	return &service{
		otpRepo:   deps.OTPRepo,
		userRepo:  deps.UserRepo,
		limits:    deps.Limits,
		mailer:    deps.Mailer,
		smsSender: deps.SMSSender,
		validity:  deps.Validity,
		nowFn:     time.Now,
	}
}

func (s *service) Send(ctx context.Context, email, purpose string) error {
	rec := s.issue(email, purpose)
	if err := s.otpRepo.Put(ctx, rec); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	// The record is written before delivery on purpose: a failed send leaves
	// a valid code behind and the next send overwrites it.
	t := templateFor(purpose)
	if err := s.mailer.SendEmail(ctx, email, t.subject, t.html(rec.Code, s.validity)); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

func (s *service) Verify(ctx context.Context, email, purpose, code string) error {
	if err := s.limits.Check(ctx, email); err != nil {
		return err
	}
	s.limits.RecordAttempt(ctx, email)

	rec, err := s.otpRepo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no code found for this email: %w", domain.ErrNotFound)
		}
		return err
	}

	recPurpose := rec.Purpose
	if recPurpose == "" {
		// Records written before the purpose field existed are registration codes.
		recPurpose = domain.PurposeRegistration
	}
	if recPurpose != purpose {
		return fmt.Errorf("wrong code type: %w", domain.ErrBadRequest)
	}

	// Wrong code and expired code answer identically so the response doesn't
	// reveal which check failed. Expiry is strict: a code presented at
	// exactly expires_at is still valid.
	if rec.Code != code || s.nowFn().UnixMilli() > rec.ExpiresAt {
		return fmt.Errorf("invalid or expired code: %w", domain.ErrBadRequest)
	}

	if err := s.otpRepo.Delete(ctx, email); err != nil {
		slog.Warn("failed to delete consumed otp record", "email", email, "err", err)
	}
	return nil
}

func (s *service) SendPhone(ctx context.Context, userID string) error {
	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if u.Phone == nil {
		return fmt.Errorf("no phone number on account: %w", domain.ErrBadRequest)
	}

	rec := s.issue(u.Email, domain.PurposePhoneVerification)
	if err := s.otpRepo.Put(ctx, rec); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	if err := s.smsSender.SendSMS(ctx, *u.Phone, smsBody(rec.Code, s.validity)); err != nil {
		return fmt.Errorf("send otp sms: %w", err)
	}
	return nil
}

func (s *service) VerifyPhone(ctx context.Context, userID, code string) error {
	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err := s.Verify(ctx, u.Email, domain.PurposePhoneVerification, code); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, userID, map[string]interface{}{"phone_confirmed": true})
}

// issue builds a fresh record: new code, expiry at now + validity, attempt
// counter zeroed. ExpiresAt carries millisecond precision for the validity
// check; TTL is the same instant in seconds for the store's sweep.
func (s *service) issue(email, purpose string) *domain.OTPRecord {
	expires := s.nowFn().Add(s.validity)
	return &domain.OTPRecord{
		Email:     email,
		Code:      pkgotp.Generate(),
		ExpiresAt: expires.UnixMilli(),
		TTL:       expires.Unix(),
		Attempts:  0,
		Purpose:   purpose,
	}
}
