package api

import "github.com/clientspot/clientspot/shared/domain"

// UpdateProfileRequest is a patch: omitted fields stay as they are.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
}

func (r UpdateProfileRequest) ToPatch() domain.ProfilePatch {
	return domain.ProfilePatch{FirstName: r.FirstName, LastName: r.LastName, Email: r.Email}
}

type ProfileResponse struct {
	Id        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Admin     bool   `json:"admin,omitempty"`
}

func NewProfileResponse(u domain.User) ProfileResponse {
	return ProfileResponse{
		Id:        u.Id.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Admin:     u.Admin,
	}
}
