package dto

// LoginRequest represents the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the caller's identity after a successful login.
// The token itself travels in the httpOnly cookie, not the body.
type LoginResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Points   int    `json:"points" example:"30"`
}

// RegisterRequest represents the registration payload. Username policy:
// 3-20 word characters. Email is optional.
type RegisterRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required,min=8"`
	Email    *string `json:"email,omitempty"`
}

// DevLoginRequest selects the user a test session is issued for.
type DevLoginRequest struct {
	UserID int64 `json:"userId"`
}

// MeResponse is the session probe body
type MeResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Points   int    `json:"points" example:"30"`
}
