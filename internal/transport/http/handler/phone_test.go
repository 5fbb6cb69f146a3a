package handler

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/handabata/otp-service/internal/config"
	jwtinfra "github.com/handabata/otp-service/internal/infrastructure/jwt"
	"github.com/handabata/otp-service/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestJWTProvider generates a fresh RSA key pair and returns a *jwtinfra.Provider.
func newTestJWTProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	p, err := jwtinfra.NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		TokenExpiry:       time.Hour,
	})
	require.NoError(t, err)
	return p
}

func newPhoneRouter(p *jwtinfra.Provider, svc *mockOTPSvc) http.Handler {
	r := chi.NewRouter()
	h := NewPhoneHandler(svc)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(p))
		r.Post("/phone/{action}", h.Action)
	})
	return r
}

// bearerReq builds a request with a signed Bearer token for the given userID.
func bearerReq(t *testing.T, p *jwtinfra.Provider, method, target, userID string, body []byte) *http.Request {
	t.Helper()
	token, err := p.SignCustomToken(userID)
	require.NoError(t, err)
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestPhoneHandler_Send_UsesAuthenticatedUID(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := new(mockOTPSvc)
	svc.On("SendPhone", mock.Anything, "user-123").Return(nil)

	rec := httptest.NewRecorder()
	newPhoneRouter(p, svc).ServeHTTP(rec, bearerReq(t, p, http.MethodPost, "/phone/send", "user-123", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestPhoneHandler_Verify_Success(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := new(mockOTPSvc)
	svc.On("VerifyPhone", mock.Anything, "user-123", "654321").Return(nil)

	body := []byte(`{"otp":"654321"}`)
	rec := httptest.NewRecorder()
	newPhoneRouter(p, svc).ServeHTTP(rec, bearerReq(t, p, http.MethodPost, "/phone/verify", "user-123", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestPhoneHandler_Verify_MissingOTP(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := new(mockOTPSvc)

	body := []byte(`{}`)
	rec := httptest.NewRecorder()
	newPhoneRouter(p, svc).ServeHTTP(rec, bearerReq(t, p, http.MethodPost, "/phone/verify", "user-123", body))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	svc.AssertNotCalled(t, "VerifyPhone")
}

func TestPhoneHandler_RequiresAuth(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := new(mockOTPSvc)

	req := httptest.NewRequest(http.MethodPost, "/phone/send", nil)
	rec := httptest.NewRecorder()
	newPhoneRouter(p, svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "SendPhone")
}

func TestPhoneHandler_RejectsGarbageToken(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := new(mockOTPSvc)

	req := httptest.NewRequest(http.MethodPost, "/phone/send", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	newPhoneRouter(p, svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "SendPhone")
}
