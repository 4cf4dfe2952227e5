package port

import (
	"context"

	"accountapp/internal/core/domain"
	"accountapp/internal/core/model/request"
)

// UserRepository is the store contract. Lookups return an error wrapping
// apperror.ErrNotFound when no row matches; writes that hit a unique
// constraint return an error wrapping apperror.ErrConflict.
type UserRepository interface {
	FindByEmailOrMobile(ctx context.Context, email, mobile string) (domain.User, error)
	FindByEmailOrMobileExcluding(ctx context.Context, email, mobile string, excludeID int) (domain.User, error)
	Insert(ctx context.Context, user domain.User) (domain.User, error)
	// FindByEmail includes the password digest.
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	// FindByID leaves the password digest empty.
	FindByID(ctx context.Context, id int) (domain.User, error)
	// FindCredentialsByID includes the password digest.
	FindCredentialsByID(ctx context.Context, id int) (domain.User, error)
	Update(ctx context.Context, id int, patch domain.UserPatch) (domain.User, error)
	UpdatePassword(ctx context.Context, id int, digest string) error
}

type AccountService interface {
	SignUp(ctx context.Context, req *request.SignUpRequest) (domain.User, error)
	Login(ctx context.Context, req *request.LoginRequest) (domain.User, error)
	EditProfile(ctx context.Context, id int, req *request.EditProfileRequest) (domain.User, error)
	ChangePassword(ctx context.Context, id int, req *request.ChangePasswordRequest) error
	GetUser(ctx context.Context, id int) (domain.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}
