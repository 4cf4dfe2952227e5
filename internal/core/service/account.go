package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"accountapp/internal/core/apperror"
	"accountapp/internal/core/domain"
	"accountapp/internal/core/model/request"
	"accountapp/internal/core/port"
	tel "accountapp/internal/core/telemetry"
)

const serviceName = "account"

type AccountServiceConfig struct {
	Repo      port.UserRepository
	Hasher    port.PasswordHasher
	Validator port.Validator
	Cache     port.CacheRepository
	CacheTTL  time.Duration
	Telemetry port.Telemetry
	Logger    *zap.Logger
}

type AccountService struct {
	repo      port.UserRepository
	hasher    port.PasswordHasher
	validator port.Validator
	cache     port.CacheRepository
	cacheTTL  time.Duration
	telemetry port.Telemetry
	logger    *zap.Logger
}

func NewAccountService(cfg AccountServiceConfig) *AccountService {
	if cfg.Telemetry == nil {
		cfg.Telemetry = tel.NewNoOpProbe()
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &AccountService{
		repo:      cfg.Repo,
		hasher:    cfg.Hasher,
		validator: cfg.Validator,
		cache:     cfg.Cache,
		cacheTTL:  cfg.CacheTTL,
		telemetry: cfg.Telemetry,
		logger:    cfg.Logger,
	}
}

func (s *AccountService) SignUp(ctx context.Context, req *request.SignUpRequest) (domain.User, error) {
	return observe(ctx, s, "signup", func(ctx context.Context) (domain.User, error) {
		return s.signUp(ctx, req)
	})
}

func (s *AccountService) signUp(ctx context.Context, req *request.SignUpRequest) (domain.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		field, message := s.validator.FirstMessage(err)

		if message == "" {
			return domain.User{}, apperror.Internal(MsgInternal, err)
		}

		return domain.User{}, apperror.Validation(field, message)
	}

	_, err := s.repo.FindByEmailOrMobile(ctx, req.Email, req.MobileNo)

	if err == nil {
		return domain.User{}, apperror.Conflict(MsgUserExists)
	}

	if !errors.Is(err, apperror.ErrNotFound) {
		return domain.User{}, apperror.Internal(MsgInternal, err)
	}

	digest, err := s.hasher.Hash(req.Password)

	if err != nil {
		return domain.User{}, apperror.Internal(MsgCreateFailed, err)
	}

	var profilePic *string

	if req.ProfilePic != nil && *req.ProfilePic != "" {
		profilePic = req.ProfilePic
	}

	created, err := s.repo.Insert(ctx, domain.User{
		Name:           req.Name,
		Email:          req.Email,
		MobileNo:       req.MobileNo,
		PasswordDigest: digest,
		ProfilePic:     profilePic,
	})

	// the unique index catches signups that raced past the lookup above
	if errors.Is(err, apperror.ErrConflict) {
		return domain.User{}, apperror.Conflict(MsgUserExists)
	}

	if err != nil {
		return domain.User{}, apperror.Internal(MsgCreateFailed, err)
	}

	s.telemetry.RecordBusinessEvent(ctx, "user.created", "users", strconv.Itoa(created.ID), nil)

	return created.Public(), nil
}

func (s *AccountService) Login(ctx context.Context, req *request.LoginRequest) (domain.User, error) {
	return observe(ctx, s, "login", func(ctx context.Context) (domain.User, error) {
		return s.login(ctx, req)
	})
}

func (s *AccountService) login(ctx context.Context, req *request.LoginRequest) (domain.User, error) {
	if req.Email == "" || req.Password == "" {
		return domain.User{}, apperror.Validation("credentials", MsgCredentialsMissing)
	}

	if !domain.ValidEmail(req.Email) {
		return domain.User{}, apperror.Validation("email", MsgInvalidEmail)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)

	if errors.Is(err, apperror.ErrNotFound) {
		return domain.User{}, apperror.Unauthorized(MsgInvalidCredentials)
	}

	if err != nil {
		return domain.User{}, apperror.Internal(MsgInternal, err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordDigest) {
		return domain.User{}, apperror.Unauthorized(MsgInvalidCredentials)
	}

	return user.Public(), nil
}

func (s *AccountService) EditProfile(ctx context.Context, id int, req *request.EditProfileRequest) (domain.User, error) {
	return observe(ctx, s, "edit_profile", func(ctx context.Context) (domain.User, error) {
		return s.editProfile(ctx, id, req)
	}, attribute.Int("user.id", id))
}

func (s *AccountService) editProfile(ctx context.Context, id int, req *request.EditProfileRequest) (domain.User, error) {
	patch := domain.UserPatch{
		Name:          req.Name.Ptr(),
		Email:         req.Email.Ptr(),
		MobileNo:      req.MobileNo.Ptr(),
		ProfilePic:    req.ProfilePic.Ptr(),
		ProfilePicSet: req.ProfilePic.Set,
	}

	if patch.Name != nil && !domain.ValidName(*patch.Name) {
		return domain.User{}, apperror.Validation("name", MsgInvalidName)
	}

	if patch.Email != nil && !domain.ValidEmail(*patch.Email) {
		return domain.User{}, apperror.Validation("email", MsgInvalidEmail)
	}

	if patch.MobileNo != nil && !domain.ValidMobile(*patch.MobileNo) {
		return domain.User{}, apperror.Validation("mobileno", MsgInvalidMobile)
	}

	current, err := s.repo.FindByID(ctx, id)

	if errors.Is(err, apperror.ErrNotFound) {
		return domain.User{}, apperror.NotFound(MsgUserNotFound)
	}

	if err != nil {
		return domain.User{}, apperror.Internal(MsgInternal, err)
	}

	if patch.TouchesContact() {
		target := patch.Apply(current)

		_, err := s.repo.FindByEmailOrMobileExcluding(ctx, target.Email, target.MobileNo, id)

		if err == nil {
			return domain.User{}, apperror.Conflict(MsgUserExists)
		}

		if !errors.Is(err, apperror.ErrNotFound) {
			return domain.User{}, apperror.Internal(MsgInternal, err)
		}
	}

	if patch.IsEmpty() {
		return domain.User{}, apperror.Validation("request", MsgNoFieldsToUpdate)
	}

	updated, err := s.repo.Update(ctx, id, patch)

	switch {
	case errors.Is(err, apperror.ErrConflict):
		return domain.User{}, apperror.Conflict(MsgUserExists)
	case errors.Is(err, apperror.ErrNotFound):
		return domain.User{}, apperror.NotFound(MsgUserNotFound)
	case err != nil:
		return domain.User{}, apperror.Internal(MsgUpdateFailed, err)
	}

	s.forget(ctx, id)

	return updated.Public(), nil
}

func (s *AccountService) ChangePassword(ctx context.Context, id int, req *request.ChangePasswordRequest) error {
	_, err := observe(ctx, s, "change_password", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.changePassword(ctx, id, req)
	}, attribute.Int("user.id", id))

	return err
}

func (s *AccountService) changePassword(ctx context.Context, id int, req *request.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperror.Validation("password", MsgPasswordsMissing)
	}

	if !domain.ValidPassword(req.NewPassword) {
		return apperror.Validation("newPassword", MsgWeakNewPassword)
	}

	user, err := s.repo.FindCredentialsByID(ctx, id)

	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound(MsgUserNotFound)
	}

	if err != nil {
		return apperror.Internal(MsgInternal, err)
	}

	if !s.hasher.Verify(req.CurrentPassword, user.PasswordDigest) {
		return apperror.Unauthorized(MsgWrongPassword)
	}

	digest, err := s.hasher.Hash(req.NewPassword)

	if err != nil {
		return apperror.Internal(MsgPasswordFailed, err)
	}

	err = s.repo.UpdatePassword(ctx, id, digest)

	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound(MsgUserNotFound)
	}

	if err != nil {
		return apperror.Internal(MsgPasswordFailed, err)
	}

	s.telemetry.RecordBusinessEvent(ctx, "user.password_changed", "users", strconv.Itoa(id), nil)

	return nil
}

func (s *AccountService) GetUser(ctx context.Context, id int) (domain.User, error) {
	return observe(ctx, s, "get_user", func(ctx context.Context) (domain.User, error) {
		return s.getUser(ctx, id)
	}, attribute.Int("user.id", id))
}

func (s *AccountService) getUser(ctx context.Context, id int) (domain.User, error) {
	if user, ok := s.recall(ctx, id); ok {
		return user, nil
	}

	user, err := s.repo.FindByID(ctx, id)

	if errors.Is(err, apperror.ErrNotFound) {
		return domain.User{}, apperror.NotFound(MsgUserNotFound)
	}

	if err != nil {
		return domain.User{}, apperror.Internal(MsgInternal, err)
	}

	user = user.Public()
	s.remember(ctx, user)

	return user, nil
}

func observe[T any](ctx context.Context, s *AccountService, operation string, fn func(context.Context) (T, error), attrs ...attribute.KeyValue) (T, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, serviceName, operation, attrs)
	defer span.End()

	start := time.Now()
	result, err := fn(ctx)

	s.telemetry.RecordServiceOperation(ctx, serviceName, operation, time.Since(start), err)

	return result, err
}

func cacheKey(id int) string {
	return "user:" + strconv.Itoa(id)
}

// Cache failures are logged and the lookup falls through to the store.
func (s *AccountService) recall(ctx context.Context, id int) (domain.User, bool) {
	if s.cache == nil {
		return domain.User{}, false
	}

	data, err := s.cache.Get(ctx, cacheKey(id))

	if err != nil {
		if !errors.Is(err, port.ErrCacheMiss) {
			s.logger.Warn("Cache read failed", zap.Int("user_id", id), zap.Error(err))
		}

		s.telemetry.RecordCacheAccess(ctx, "user", false)
		return domain.User{}, false
	}

	var user domain.User

	if err := json.Unmarshal(data, &user); err != nil {
		s.logger.Warn("Discarding unreadable cache entry", zap.Int("user_id", id), zap.Error(err))
		s.forget(ctx, id)
		return domain.User{}, false
	}

	s.telemetry.RecordCacheAccess(ctx, "user", true)

	return user, true
}

func (s *AccountService) remember(ctx context.Context, user domain.User) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(user.Public())

	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, cacheKey(user.ID), data, s.cacheTTL); err != nil {
		s.logger.Warn("Cache write failed", zap.Int("user_id", user.ID), zap.Error(err))
	}
}

func (s *AccountService) forget(ctx context.Context, id int) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.logger.Warn("Cache invalidation failed", zap.Int("user_id", id), zap.Error(err))
	}
}
