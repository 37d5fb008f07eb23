package dto

import "time"

// UserProfileResponse is the full profile body
type UserProfileResponse struct {
	ID        int64     `json:"id" example:"1"`
	Username  string    `json:"username" example:"alice"`
	Email     *string   `json:"email,omitempty" example:"alice@example.com"`
	Points    int       `json:"points" example:"30"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateUsernameRequest renames the caller's account
type UpdateUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

// ChangePasswordRequest rotates the caller's password after verifying the
// current one.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ChangeEmailRequest updates the caller's email address. Both field names
// are accepted for compatibility with older clients.
type ChangeEmailRequest struct {
	Email    string `json:"email"`
	NewEmail string `json:"newEmail"`
}

// Address returns whichever email field the client filled in.
func (r *ChangeEmailRequest) Address() string {
	if r.NewEmail != "" {
		return r.NewEmail
	}
	return r.Email
}

// UsePointsRequest is the points-spend payload
type UsePointsRequest struct {
	Points int `json:"points" binding:"required,gt=0"`
}

// UsePointsResponse reports a successful debit
type UsePointsResponse struct {
	OK              bool `json:"ok" example:"true"`
	UsedPoints      int  `json:"usedPoints" example:"10"`
	RemainingPoints int  `json:"remainingPoints" example:"20"`
}
