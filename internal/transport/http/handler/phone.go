package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	otpapp "github.com/handabata/otp-service/internal/application/otp"
	"github.com/handabata/otp-service/internal/pkg/validate"
	"github.com/handabata/otp-service/internal/transport/http/middleware"
)

// PhoneHandler handles phone-number verification for the authenticated
// account. The code goes to the phone on file, never to a caller-chosen one.
type PhoneHandler struct {
	svc otpapp.Service
}

func NewPhoneHandler(svc otpapp.Service) *PhoneHandler {
	return &PhoneHandler{svc: svc}
}

func (h *PhoneHandler) Action(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	switch chi.URLParam(r, "action") {
	case "send":
		if err := h.svc.SendPhone(r.Context(), claims.UID); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SuccessEnvelope{Success: true})
	case "verify":
		var req struct {
			OTP string `json:"otp" validate:"required"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := h.svc.VerifyPhone(r.Context(), claims.UID, req.OTP); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SuccessEnvelope{Success: true})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
