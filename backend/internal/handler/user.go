package handler

import (
	"net/http"

	"github.com/clientspot/clientspot/shared/api"
	mw "github.com/clientspot/clientspot/shared/middleware"
	"github.com/clientspot/clientspot/shared/utils"
)

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.account.Profile(r.Context(), mw.GetUserFromContext(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.NewProfileResponse(user))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateProfileRequest
	if err := utils.Decode(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, err := h.account.UpdateProfile(r.Context(), mw.GetUserFromContext(r), req.ToPatch())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.NewProfileResponse(user))
}

// DeleteAccount handles DELETE /v1/admin/users/{userId}
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userId, err := parseUUIDParam(r, "userId", "user ID")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.account.DeleteAccount(r.Context(), mw.GetUserFromContext(r), userId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "User deleted"})
}
