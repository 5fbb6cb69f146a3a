package http

import (
	"github.com/handabata/otp-service/internal/infrastructure/dynamo"
	jwtinfra "github.com/handabata/otp-service/internal/infrastructure/jwt"
	"github.com/handabata/otp-service/internal/infrastructure/smtp"
	"github.com/handabata/otp-service/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	OTPRepo       *dynamo.OTPRepo
	RateLimitRepo *dynamo.RateLimitRepo
	UserRepo      *dynamo.UserRepo
	Mailer        smtp.Mailer
	SMSSender     sns.SMSSender
	// JWTProvider may be nil when no signing keys are configured; the
	// token and phone endpoints are then disabled.
	JWTProvider *jwtinfra.Provider
}
