package request

type SignUpRequest struct {
	Name       string  `json:"name" validate:"account_name"`
	Email      string  `json:"email" validate:"account_email"`
	MobileNo   string  `json:"mobileno" validate:"account_mobile"`
	Password   string  `json:"password" validate:"account_password"`
	ProfilePic *string `json:"profilepic"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EditProfileRequest keeps track of which keys were present in the body.
type EditProfileRequest struct {
	Name       Optional[string] `json:"name"`
	Email      Optional[string] `json:"email"`
	MobileNo   Optional[string] `json:"mobileno"`
	ProfilePic Optional[string] `json:"profilepic"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
