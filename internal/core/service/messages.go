package service

const (
	MsgInvalidName        = "Name must be at least 2 characters long"
	MsgInvalidEmail       = "Please provide a valid email address"
	MsgInvalidMobile      = "Please provide a valid 10-digit mobile number"
	MsgInvalidPassword    = "Password must be at least 6 characters long"
	MsgUserExists         = "User with this email or mobile number already exists"
	MsgCreateFailed       = "Failed to create user"
	MsgCredentialsMissing = "Email and password are required"
	MsgInvalidCredentials = "Invalid email or password"
	MsgUserNotFound       = "User not found"
	MsgNoFieldsToUpdate   = "No fields to update"
	MsgUpdateFailed       = "Failed to update user"
	MsgPasswordsMissing   = "Current password and new password are required"
	MsgWeakNewPassword    = "New password must be at least 6 characters long"
	MsgWrongPassword      = "Current password is incorrect"
	MsgPasswordFailed     = "Failed to change password"
	MsgInternal           = "Internal server error"
)
