package handler

import (
	"encoding/json"
	"net/http"

	"agricure-auth-service/internal/middleware"
	"agricure-auth-service/internal/usecase"
	"agricure-auth-service/pkg/response"
)

type AuthHandler struct {
	uc *usecase.AuthUsecase
}

func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"service": "agricure-auth", "status": "ok"})
}

// HandleLogin signs in with email or phone plus password. The identifier is
// routed by shape: email syntax goes to the email grant, phone-shaped input
// is normalized to +91 form and goes to the phone grant.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.uc.LoginWithPassword(r.Context(), req.Identifier, req.Password)
	if err != nil {
		response.Error(w, statusFor(err), err.Error())
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_in":    session.ExpiresIn,
		"user_id":       session.UserID,
	})
}

// HandleRequestLoginOTP dispatches a login-intent OTP to an existing account.
func (h *AuthHandler) HandleRequestLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req LoginOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.uc.RequestLoginOTP(r.Context(), req.Identifier)
	if err != nil {
		response.Error(w, statusFor(err), err.Error())
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"message": "OTP sent to " + receipt.Recipient,
		"channel": receipt.Channel,
	})
}

// HandleVerifyLoginOTP completes an OTP login.
func (h *AuthHandler) HandleVerifyLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req LoginOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.uc.VerifyLoginOTP(r.Context(), req.Identifier, req.Code)
	if err != nil {
		response.Error(w, statusFor(err), err.Error())
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_in":    session.ExpiresIn,
		"user_id":       session.UserID,
	})
}

// HandleMe returns the provider's view of the authenticated user.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.AccessTokenFrom(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.uc.CurrentUser(r.Context(), token)
	if err != nil {
		response.Error(w, statusFor(err), err.Error())
		return
	}
	response.JSON(w, http.StatusOK, user)
}

// HandleLogout revokes the provider session.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.AccessTokenFrom(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.uc.Logout(r.Context(), token); err != nil {
		response.Error(w, statusFor(err), err.Error())
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
