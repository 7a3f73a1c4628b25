package validator

// SigninRequest carries the login credentials. The email field may hold
// either an email address or a username; emails are resolved to the owning
// account's username before verification.
type SigninRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest registers a new account. Role is accepted for wire
// compatibility but ignored: accounts always start with the base role.
type SignupRequest struct {
	Username string   `json:"username" validate:"required,username"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6,max=72"`
	Role     []string `json:"role"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

// UpdateProfileRequest is a partial update: nil means "leave unchanged".
type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,username"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}

// UpdateRoadmapRequest replaces the stored roadmap document wholesale. The
// document is not validated against the node schema; the caller owns it.
type UpdateRoadmapRequest struct {
	RoadmapJSON string `json:"roadmapJson" validate:"required"`
}
