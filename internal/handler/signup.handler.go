package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"agricure-auth-service/internal/usecase"
	"agricure-auth-service/pkg/response"
)

type SignupHandler struct {
	uc *usecase.SignupUsecase
}

func NewSignupHandler(uc *usecase.SignupUsecase) *SignupHandler {
	return &SignupHandler{uc: uc}
}

// HandleStart validates the signup form, gates on the product ID and stages
// the payload. The client holds the returned flow_id for the OTP step.
func (h *SignupHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req SignupStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	staged, err := h.uc.Start(r.Context(), usecase.SignupRequest{
		ProductID:       req.ProductID,
		FullName:        req.FullName,
		Email:           req.Email,
		MobileNumber:    req.MobileNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		response.Error(w, statusFor(err), err.Error())
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"flow_id": staged.FlowID,
		"stage":   staged.Stage,
		"next":    "select_verification_method",
	})
}

// HandleSendOTP dispatches the signup code on the selected channel.
func (h *SignupHandler) HandleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req SignupSendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.uc.SendOTP(r.Context(), req.FlowID, req.Channel)
	if err != nil {
		response.Error(w, statusFor(err), err.Error())
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message":          "OTP sent to " + receipt.Recipient,
		"channel":          receipt.Channel,
		"cooldown_seconds": int(h.uc.CooldownRemaining(r.Context(), req.FlowID).Seconds()),
	})
}

// HandleResendOTP re-dispatches on the already-selected channel.
func (h *SignupHandler) HandleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req SignupFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.uc.ResendOTP(r.Context(), req.FlowID)
	if err != nil {
		response.Error(w, statusFor(err), err.Error())
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message":          "OTP resent to " + receipt.Recipient,
		"channel":          receipt.Channel,
		"cooldown_seconds": int(h.uc.CooldownRemaining(r.Context(), req.FlowID).Seconds()),
	})
}

// HandleVerifyOTP completes the signup. Reconciliation outcomes never reach
// this response; a verified identity is a completed signup.
func (h *SignupHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req SignupVerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.uc.VerifyOTP(r.Context(), req.FlowID, req.Code)
	if err != nil {
		response.Error(w, statusFor(err), err.Error())
		return
	}

	log.Printf("[signup] completed user=%s", result.UserID)
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Account created successfully",
		"stage":         result.Stage,
		"user_id":       result.UserID,
		"access_token":  result.Session.AccessToken,
		"refresh_token": result.Session.RefreshToken,
		"expires_in":    result.Session.ExpiresIn,
	})
}

// HandleChangeMethod goes back to channel selection, staged data kept.
func (h *SignupHandler) HandleChangeMethod(w http.ResponseWriter, r *http.Request) {
	var req SignupFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	staged, err := h.uc.ChangeMethod(r.Context(), req.FlowID)
	if err != nil {
		response.Error(w, statusFor(err), err.Error())
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"stage": staged.Stage,
		"next":  "select_verification_method",
	})
}

// HandleAbandon is the explicit "back": all staged state is cleared.
func (h *SignupHandler) HandleAbandon(w http.ResponseWriter, r *http.Request) {
	var req SignupFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.uc.Abandon(r.Context(), req.FlowID); err != nil {
		response.Error(w, statusFor(err), err.Error())
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Signup abandoned"})
}
