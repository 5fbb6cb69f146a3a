package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	otpapp "github.com/handabata/otp-service/internal/application/otp"
	"github.com/handabata/otp-service/internal/domain"
	"github.com/handabata/otp-service/internal/pkg/validate"
)

// purposeSlugs maps URL segments onto stored purpose tags.
var purposeSlugs = map[string]string{
	"registration":   domain.PurposeRegistration,
	"email-change":   domain.PurposeEmailChange,
	"password-reset": domain.PurposePasswordReset,
}

// SendOTPRequest asks for a fresh code to be mailed.
type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest presents a previously mailed code.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

// OTPHandler handles the send/verify endpoints for the mail-delivered flows.
type OTPHandler struct {
	svc otpapp.Service
}

func NewOTPHandler(svc otpapp.Service) *OTPHandler {
	return &OTPHandler{svc: svc}
}

func (h *OTPHandler) Action(w http.ResponseWriter, r *http.Request) {
	purpose, ok := purposeSlugs[chi.URLParam(r, "purpose")]
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown purpose")
		return
	}
	switch chi.URLParam(r, "action") {
	case "send":
		var req SendOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := h.svc.Send(r.Context(), req.Email, purpose); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SuccessEnvelope{Success: true})
	case "verify":
		var req VerifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := h.svc.Verify(r.Context(), req.Email, purpose, req.OTP); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SuccessEnvelope{Success: true})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
