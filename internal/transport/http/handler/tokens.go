package handler

import (
	"encoding/json"
	"net/http"

	"github.com/handabata/otp-service/internal/application/token"
	"github.com/handabata/otp-service/internal/pkg/validate"
)

// CreateTokenRequest asks for a custom token for the given account email.
type CreateTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// TokenHandler mints custom tokens after a client-side OTP verification.
type TokenHandler struct {
	svc token.Service
}

func NewTokenHandler(svc token.Service) *TokenHandler {
	return &TokenHandler{svc: svc}
}

func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	tok, err := h.svc.CreateCustomToken(r.Context(), req.Email)
	if err != nil {
		// The service already logged the detail; the caller gets one opaque
		// answer whether the account is unknown or signing failed.
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{Token: tok})
}
