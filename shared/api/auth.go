package api

// Request DTOs

type SignupCodeRequest struct {
	Email string `json:"email" validate:"required"`
}

type SignupRequest struct {
	Email     string `json:"email" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password1 string `json:"password1" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
	Code      string `json:"code" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required"`
}

type PasswordResetConfirmRequest struct {
	Email       string `json:"email" validate:"required"`
	Otp         string `json:"otp" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// Response DTOs

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Message     string          `json:"message"`
	AccessToken string          `json:"access_token,omitempty"` // Token for non-cookie clients (mobile, API clients)
	User        ProfileResponse `json:"user"`
}
