package response

import (
	"time"

	"accountapp/internal/core/domain"
)

type UserResponse struct {
	UserID     int        `json:"userid"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	MobileNo   string     `json:"mobileno"`
	ProfilePic *string    `json:"profilepic"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

func NewUserResponse(user domain.User) UserResponse {
	res := UserResponse{
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email,
		MobileNo:   user.MobileNo,
		ProfilePic: user.ProfilePic,
	}

	if !user.CreatedAt.IsZero() {
		createdAt := user.CreatedAt
		res.CreatedAt = &createdAt
	}

	return res
}

type UserEnvelope struct {
	Message string       `json:"message,omitempty"`
	User    UserResponse `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
