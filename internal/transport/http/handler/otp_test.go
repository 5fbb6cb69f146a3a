package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/handabata/otp-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- mock ---

type mockOTPSvc struct{ mock.Mock }

func (m *mockOTPSvc) Send(ctx context.Context, email, purpose string) error {
	return m.Called(ctx, email, purpose).Error(0)
}

func (m *mockOTPSvc) Verify(ctx context.Context, email, purpose, code string) error {
	return m.Called(ctx, email, purpose, code).Error(0)
}

func (m *mockOTPSvc) SendPhone(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockOTPSvc) VerifyPhone(ctx context.Context, userID, code string) error {
	return m.Called(ctx, userID, code).Error(0)
}

// --- helpers ---

func newOTPRouter(svc *mockOTPSvc) http.Handler {
	r := chi.NewRouter()
	h := NewOTPHandler(svc)
	r.Post("/otp/{purpose}/{action}", h.Action)
	return r
}

func postJSON(t *testing.T, h http.Handler, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestOTPHandler_Send_Success(t *testing.T) {
	svc := new(mockOTPSvc)
	svc.On("Send", mock.Anything, "juan@example.com", domain.PurposeRegistration).Return(nil)

	rec := postJSON(t, newOTPRouter(svc), "/otp/registration/send", SendOTPRequest{Email: "juan@example.com"})

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp SuccessEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	svc.AssertExpectations(t)
}

func TestOTPHandler_Send_MapsPurposeSlug(t *testing.T) {
	svc := new(mockOTPSvc)
	svc.On("Send", mock.Anything, "juan@example.com", domain.PurposePasswordReset).Return(nil)

	rec := postJSON(t, newOTPRouter(svc), "/otp/password-reset/send", SendOTPRequest{Email: "juan@example.com"})

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestOTPHandler_Send_UnknownPurpose(t *testing.T) {
	svc := new(mockOTPSvc)

	rec := postJSON(t, newOTPRouter(svc), "/otp/mystery/send", SendOTPRequest{Email: "juan@example.com"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Send")
}

func TestOTPHandler_Send_InvalidEmail(t *testing.T) {
	svc := new(mockOTPSvc)

	rec := postJSON(t, newOTPRouter(svc), "/otp/registration/send", SendOTPRequest{Email: "not-an-email"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	svc.AssertNotCalled(t, "Send")
}

func TestOTPHandler_Verify_Success(t *testing.T) {
	svc := new(mockOTPSvc)
	svc.On("Verify", mock.Anything, "juan@example.com", domain.PurposeEmailChange, "123456").Return(nil)

	rec := postJSON(t, newOTPRouter(svc), "/otp/email-change/verify", VerifyOTPRequest{
		Email: "juan@example.com",
		OTP:   "123456",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestOTPHandler_Verify_WrongCode(t *testing.T) {
	svc := new(mockOTPSvc)
	svc.On("Verify", mock.Anything, "juan@example.com", domain.PurposeRegistration, "000000").
		Return(fmt.Errorf("invalid or expired code: %w", domain.ErrBadRequest))

	rec := postJSON(t, newOTPRouter(svc), "/otp/registration/verify", VerifyOTPRequest{
		Email: "juan@example.com",
		OTP:   "000000",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp MessageEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "invalid or expired code")
}

func TestOTPHandler_Verify_RateLimited(t *testing.T) {
	svc := new(mockOTPSvc)
	svc.On("Verify", mock.Anything, "juan@example.com", domain.PurposeRegistration, "123456").
		Return(fmt.Errorf("too many attempts, try again later: %w", domain.ErrTooManyRequests))

	rec := postJSON(t, newOTPRouter(svc), "/otp/registration/verify", VerifyOTPRequest{
		Email: "juan@example.com",
		OTP:   "123456",
	})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestOTPHandler_Verify_MissingOTP(t *testing.T) {
	svc := new(mockOTPSvc)

	rec := postJSON(t, newOTPRouter(svc), "/otp/registration/verify", VerifyOTPRequest{Email: "juan@example.com"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	svc.AssertNotCalled(t, "Verify")
}

func TestOTPHandler_UnknownAction(t *testing.T) {
	svc := new(mockOTPSvc)

	rec := postJSON(t, newOTPRouter(svc), "/otp/registration/resend", SendOTPRequest{Email: "juan@example.com"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOTPHandler_InvalidBody(t *testing.T) {
	svc := new(mockOTPSvc)
	req := httptest.NewRequest(http.MethodPost, "/otp/registration/send", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	newOTPRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Send")
}
