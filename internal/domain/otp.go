package domain

// OTP purposes. A record issued for one purpose can only be consumed by the
// matching verify flow. An empty purpose on a stored record means a
// registration-context code (older records were written without the field).
const (
	PurposeRegistration      = "registration"
	PurposeEmailChange       = "email_change"
	PurposePasswordReset     = "password_reset"
	PurposePhoneVerification = "phone_verification"
)

// OTPRecord is a one-time passcode stored per recipient email.
// PK: email — at most one live record per address, last write wins.
// ExpiresAt is Unix milliseconds; TTL duplicates it in Unix seconds for
// DynamoDB's background expiry sweep (expired records are rejected on read
// either way, the sweep only reclaims storage).
type OTPRecord struct {
	Email     string `json:"email" dynamodbav:"email"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"`
	TTL       int64  `json:"-" dynamodbav:"ttl"`
	Attempts  int    `json:"attempts" dynamodbav:"attempts"`
	Purpose   string `json:"purpose" dynamodbav:"purpose"`
}

// RateLimitRecord tracks verification attempts per recipient email.
// PK: email. LastAttempt is Unix milliseconds. Records are incremented on
// every verify attempt and never deleted; a lapsed window resets the counter.
type RateLimitRecord struct {
	Email       string `json:"email" dynamodbav:"email"`
	Attempts    int    `json:"attempts" dynamodbav:"attempts"`
	LastAttempt int64  `json:"last_attempt" dynamodbav:"last_attempt"`
}
