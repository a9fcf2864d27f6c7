package handler

import (
	"net/http"

	"github.com/clientspot/clientspot/backend/internal/service"
	"github.com/clientspot/clientspot/shared/api"
	mw "github.com/clientspot/clientspot/shared/middleware"
	"github.com/clientspot/clientspot/shared/utils"
)

// SendSignupCode handles POST /v1/admin/signup_codes
func (h *Handler) SendSignupCode(w http.ResponseWriter, r *http.Request) {
	var req api.SignupCodeRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	err := h.account.SendSignupCode(r.Context(), mw.GetUserFromContext(r), req.Email)
	recordOutcome("signup_code", err)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Verification code sent to " + req.Email})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req api.SignupRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, token, err := h.account.Signup(r.Context(), service.SignupInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password1: req.Password1,
		Password2: req.Password2,
		Code:      req.Code,
	})
	recordOutcome("signup", err)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.session.SetSessionCookie(w, token, h.sessionMaxAge())
	utils.WriteJSON(w, http.StatusOK, api.LoginResponse{
		Message:     "Account created",
		AccessToken: token,
		User:        api.NewProfileResponse(user),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, token, err := h.account.Login(r.Context(), req.Email, req.Password)
	recordOutcome("login", err)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.session.SetSessionCookie(w, token, h.sessionMaxAge())
	utils.WriteJSON(w, http.StatusOK, api.LoginResponse{
		Message:     "You logged in",
		AccessToken: token,
		User:        api.NewProfileResponse(user),
	})
}

// Logout only clears the cookie; tokens stay valid until they expire.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.ClearSessionCookie(w)
	utils.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "You logged out"})
}

// SendPasswordResetCode handles POST /v1/auth/password_reset
func (h *Handler) SendPasswordResetCode(w http.ResponseWriter, r *http.Request) {
	var req api.PasswordResetRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	err := h.account.SendPasswordResetCode(r.Context(), req.Email)
	recordOutcome("password_reset_code", err)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Password reset code sent"})
}

// ResetPassword handles POST /v1/auth/password_reset/confirm
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req api.PasswordResetConfirmRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	err := h.account.ResetPassword(r.Context(), req.Email, req.Otp, req.NewPassword)
	recordOutcome("password_reset", err)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Password updated. You can login now"})
}
