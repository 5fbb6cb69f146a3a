package otp

import (
	"fmt"
	"time"

	"github.com/handabata/otp-service/internal/domain"
)

// mailTemplate carries the purpose-specific copy. The layout embeds the code
// in large spaced type and tells the user how long it stays valid.
type mailTemplate struct {
	subject string
	heading string
	intro   string
}

var mailTemplates = map[string]mailTemplate{
	domain.PurposeRegistration: {
		subject: "Email Verification Code",
		heading: "Email Verification",
		intro:   "Your verification code is:",
	},
	domain.PurposeEmailChange: {
		subject: "Email Change Confirmation Code",
		heading: "Confirm Your New Email",
		intro:   "Your email change confirmation code is:",
	},
	domain.PurposePasswordReset: {
		subject: "Password Reset Code",
		heading: "Password Reset",
		intro:   "Your password reset code is:",
	},
}

// templateFor falls back to the registration copy for unknown purposes rather
// than sending an empty mail.
func templateFor(purpose string) mailTemplate {
	if t, ok := mailTemplates[purpose]; ok {
		return t
	}
	return mailTemplates[domain.PurposeRegistration]
}

func (t mailTemplate) html(code string, validity time.Duration) string {
	return fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
        <h1 style="color: #6A359C;">%s</h1>
        <p>%s</p>
        <h2 style="color: #351B61; font-size: 32px; letter-spacing: 5px;">%s</h2>
        <p>This code will expire in %s minutes.</p>
        <p style="color: #666;">If you didn't request this code, please ignore this email.</p>
      </div>
    `, t.heading, t.intro, code, expiryText(validity))
}

func smsBody(code string, validity time.Duration) string {
	return fmt.Sprintf("Your phone verification code is %s. It expires in %s minutes.", code, expiryText(validity))
}

// expiryText renders a duration as m:ss, e.g. 288s -> "4:48".
func expiryText(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
