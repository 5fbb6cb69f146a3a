// Package token issues signed custom tokens for verified accounts.
package token

import (
	"context"
	"errors"
	"log/slog"

	"github.com/handabata/otp-service/internal/domain"
)

// UserStore resolves accounts by email.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Signer mints a signed token bound to an account identifier.
type Signer interface {
	SignCustomToken(uid string) (string, error)
}

type Service interface {
	// CreateCustomToken resolves the account for email and mints a signed
	// token bound to its stable identifier. It does not check that an OTP
	// verification preceded it — the client sequences verify-then-token.
	CreateCustomToken(ctx context.Context, email string) (string, error)
}

type service struct {
	users  UserStore
	signer Signer
}

func NewService(users UserStore, signer Signer) Service {
	return &service{users: users, signer: signer}
}

func (s *service) CreateCustomToken(ctx context.Context, email string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Lookup failures (including no-such-account) are deliberately not
		// distinguished in the response; detail goes to the log only.
		slog.Error("custom token: account lookup failed", "err", err)
		return "", errors.New("could not create token")
	}
	tok, err := s.signer.SignCustomToken(u.UserID)
	if err != nil {
		slog.Error("custom token: signing failed", "user_id", u.UserID, "err", err)
		return "", errors.New("could not create token")
	}
	return tok, nil
}
