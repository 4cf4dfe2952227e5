package service_test

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	memorycache "accountapp/internal/adapter/cache/memory"
	"accountapp/internal/adapter/database/sqlite"
	"accountapp/internal/adapter/database/sqlite/repository"
	"accountapp/internal/adapter/validation"
	"accountapp/internal/core/apperror"
	"accountapp/internal/core/domain"
	"accountapp/internal/core/model/request"
	"accountapp/internal/core/port"
	"accountapp/internal/core/service"
	"accountapp/internal/core/util"
	. "accountapp/pkg/test"
)

type AccountServiceSuite struct {
	suite.Suite
	db    *sqlite.DB
	repo  port.UserRepository
	cache port.CacheRepository
	svc   *service.AccountService
}

func TestAccountServiceSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) SetupTest() {
	s.db = InitTestDB()
	s.repo = repository.NewUserRepository(s.db, nil)
	s.cache = memorycache.NewCache(time.Minute)

	s.svc = service.NewAccountService(service.AccountServiceConfig{
		Repo:      s.repo,
		Hasher:    util.NewSaltedSHA256("salt"),
		Validator: validation.MustNew(),
		Cache:     s.cache,
		CacheTTL:  time.Minute,
	})
}

func (s *AccountServiceSuite) TearDownTest() {
	s.db.Close()
}

func ptr(v string) *string {
	return &v
}

func signUpRequest() *request.SignUpRequest {
	return &request.SignUpRequest{
		Name:     "Al",
		Email:    "a@b.com",
		MobileNo: "1234567890",
		Password: "secret1",
	}
}

func (s *AccountServiceSuite) signUp() domain.User {
	user, err := s.svc.SignUp(context.Background(), signUpRequest())
	Expect(err).ToNot(HaveOccurred())

	return user
}

func editRequest(body string) *request.EditProfileRequest {
	var req request.EditProfileRequest
	Expect(json.Unmarshal([]byte(body), &req)).To(Succeed())

	return &req
}

func expectAppError(err error, kind error, message string) {
	Expect(err).To(MatchError(kind))

	appErr, ok := apperror.As(err)
	Expect(ok).To(BeTrue())
	Expect(appErr.Message).To(Equal(message))
}

func (s *AccountServiceSuite) TestSignUp_Success() {
	user := s.signUp()

	Expect(user.ID).To(BeNumerically(">", 0))
	Expect(user.Name).To(Equal("Al"))
	Expect(user.PasswordDigest).To(BeEmpty())
	Expect(user.ProfilePic).To(BeNil())
	Expect(user.CreatedAt.IsZero()).To(BeFalse())

	digest, _ := util.NewSaltedSHA256("salt").Hash("secret1")

	stored, err := s.repo.FindByEmail(context.Background(), "a@b.com")
	Expect(err).ToNot(HaveOccurred())
	Expect(stored.PasswordDigest).To(Equal(digest))
}

func (s *AccountServiceSuite) TestSignUp_ValidationOrder() {
	cases := []struct {
		mutate  func(*request.SignUpRequest)
		message string
	}{
		{func(r *request.SignUpRequest) { r.Name = "A"; r.Email = "bad"; r.Password = "x" }, service.MsgInvalidName},
		{func(r *request.SignUpRequest) { r.Name = "  A  " }, service.MsgInvalidName},
		{func(r *request.SignUpRequest) { r.Email = "bad"; r.MobileNo = "12" }, service.MsgInvalidEmail},
		{func(r *request.SignUpRequest) { r.MobileNo = "12345abcde"; r.Password = "x" }, service.MsgInvalidMobile},
		{func(r *request.SignUpRequest) { r.Password = "12345" }, service.MsgInvalidPassword},
	}

	for _, tc := range cases {
		req := signUpRequest()
		tc.mutate(req)

		_, err := s.svc.SignUp(context.Background(), req)

		expectAppError(err, apperror.ErrValidation, tc.message)
	}
}

func (s *AccountServiceSuite) TestSignUp_DuplicateEmailOrMobile() {
	s.signUp()

	req := signUpRequest()
	req.MobileNo = "0987654321"

	_, err := s.svc.SignUp(context.Background(), req)
	expectAppError(err, apperror.ErrConflict, service.MsgUserExists)

	req = signUpRequest()
	req.Email = "other@b.com"

	_, err = s.svc.SignUp(context.Background(), req)
	expectAppError(err, apperror.ErrConflict, service.MsgUserExists)
}

// staleLookupRepo never sees an existing user, as when two signups race
// past the lookup before either insert lands.
type staleLookupRepo struct {
	port.UserRepository
}

func (r staleLookupRepo) FindByEmailOrMobile(ctx context.Context, email, mobile string) (domain.User, error) {
	return domain.User{}, apperror.ErrNotFound
}

func (s *AccountServiceSuite) TestSignUp_RaceHitsUniqueConstraint() {
	svc := service.NewAccountService(service.AccountServiceConfig{
		Repo:      staleLookupRepo{s.repo},
		Hasher:    util.NewSaltedSHA256("salt"),
		Validator: validation.MustNew(),
	})

	_, err := svc.SignUp(context.Background(), signUpRequest())
	Expect(err).ToNot(HaveOccurred())

	_, err = svc.SignUp(context.Background(), signUpRequest())
	expectAppError(err, apperror.ErrConflict, service.MsgUserExists)
}

func (s *AccountServiceSuite) TestSignUp_EmptyProfilePicStoredAsNull() {
	req := signUpRequest()
	req.ProfilePic = ptr("")

	user, err := s.svc.SignUp(context.Background(), req)

	Expect(err).ToNot(HaveOccurred())
	Expect(user.ProfilePic).To(BeNil())
}

func (s *AccountServiceSuite) TestSignUp_StoreFailure() {
	s.db.Close()

	_, err := s.svc.SignUp(context.Background(), signUpRequest())

	Expect(err).To(MatchError(apperror.ErrInternal))
}

func (s *AccountServiceSuite) TestLogin() {
	created := s.signUp()
	ctx := context.Background()

	user, err := s.svc.Login(ctx, &request.LoginRequest{Email: "a@b.com", Password: "secret1"})
	Expect(err).ToNot(HaveOccurred())
	Expect(user.ID).To(Equal(created.ID))
	Expect(user.PasswordDigest).To(BeEmpty())

	_, err = s.svc.Login(ctx, &request.LoginRequest{Email: "a@b.com", Password: "wrong"})
	expectAppError(err, apperror.ErrUnauthorized, service.MsgInvalidCredentials)

	_, err = s.svc.Login(ctx, &request.LoginRequest{Email: "nobody@b.com", Password: "secret1"})
	expectAppError(err, apperror.ErrUnauthorized, service.MsgInvalidCredentials)

	_, err = s.svc.Login(ctx, &request.LoginRequest{Email: "a@b.com"})
	expectAppError(err, apperror.ErrValidation, service.MsgCredentialsMissing)

	_, err = s.svc.Login(ctx, &request.LoginRequest{Email: "not-an-email", Password: "secret1"})
	expectAppError(err, apperror.ErrValidation, service.MsgInvalidEmail)
}

func (s *AccountServiceSuite) TestGetUser_RoundTrip() {
	req := signUpRequest()
	req.ProfilePic = ptr("me.png")

	created, err := s.svc.SignUp(context.Background(), req)
	Expect(err).ToNot(HaveOccurred())

	user, err := s.svc.GetUser(context.Background(), created.ID)

	Expect(err).ToNot(HaveOccurred())
	Expect(user.Name).To(Equal(req.Name))
	Expect(user.Email).To(Equal(req.Email))
	Expect(user.MobileNo).To(Equal(req.MobileNo))
	Expect(*user.ProfilePic).To(Equal("me.png"))
	Expect(user.PasswordDigest).To(BeEmpty())
}

func (s *AccountServiceSuite) TestGetUser_NotFound() {
	_, err := s.svc.GetUser(context.Background(), 42)

	expectAppError(err, apperror.ErrNotFound, service.MsgUserNotFound)
}

func (s *AccountServiceSuite) TestGetUser_ServedFromCacheUntilEdited() {
	ctx := context.Background()
	created := s.signUp()

	_, err := s.svc.GetUser(ctx, created.ID)
	Expect(err).ToNot(HaveOccurred())

	_, err = s.repo.Update(ctx, created.ID, domain.UserPatch{Name: ptr("Changed behind the cache")})
	Expect(err).ToNot(HaveOccurred())

	cached, err := s.svc.GetUser(ctx, created.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(cached.Name).To(Equal("Al"))

	_, err = s.svc.EditProfile(ctx, created.ID, editRequest(`{"name":"Bob"}`))
	Expect(err).ToNot(HaveOccurred())

	fresh, err := s.svc.GetUser(ctx, created.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(fresh.Name).To(Equal("Bob"))

	data, err := s.cache.Get(ctx, "user:"+strconv.Itoa(created.ID))
	Expect(err).ToNot(HaveOccurred())

	var entry domain.User
	Expect(json.Unmarshal(data, &entry)).To(Succeed())
	Expect(entry.Name).To(Equal("Bob"))
	Expect(entry.PasswordDigest).To(BeEmpty())
}

func (s *AccountServiceSuite) TestEditProfile_ProfilePicOnlyLeavesContactUnchanged() {
	created := s.signUp()

	user, err := s.svc.EditProfile(context.Background(), created.ID, editRequest(`{"profilepic":"new.png"}`))

	Expect(err).ToNot(HaveOccurred())
	Expect(user.Name).To(Equal(created.Name))
	Expect(user.Email).To(Equal(created.Email))
	Expect(user.MobileNo).To(Equal(created.MobileNo))
	Expect(*user.ProfilePic).To(Equal("new.png"))
}

func (s *AccountServiceSuite) TestEditProfile_ExplicitNullProfilePic() {
	req := signUpRequest()
	req.ProfilePic = ptr("me.png")
	created, _ := s.svc.SignUp(context.Background(), req)

	user, err := s.svc.EditProfile(context.Background(), created.ID, editRequest(`{"profilepic":null}`))

	Expect(err).ToNot(HaveOccurred())
	Expect(user.ProfilePic).To(BeNil())
}

func (s *AccountServiceSuite) TestEditProfile_Validation() {
	created := s.signUp()

	cases := map[string]string{
		`{"name":"A"}`:              service.MsgInvalidName,
		`{"email":"nope"}`:          service.MsgInvalidEmail,
		`{"mobileno":"123"}`:        service.MsgInvalidMobile,
		`{"name":"A","email":"x"}`:  service.MsgInvalidName,
		`{}`:                        service.MsgNoFieldsToUpdate,
		`{"name":null}`:             service.MsgNoFieldsToUpdate,
		`{"password":"newsecret1"}`: service.MsgNoFieldsToUpdate,
	}

	for body, message := range cases {
		_, err := s.svc.EditProfile(context.Background(), created.ID, editRequest(body))

		expectAppError(err, apperror.ErrValidation, message)
	}
}

func (s *AccountServiceSuite) TestEditProfile_MissingUser() {
	_, err := s.svc.EditProfile(context.Background(), 99, editRequest(`{"name":"Bob"}`))

	expectAppError(err, apperror.ErrNotFound, service.MsgUserNotFound)
}

func (s *AccountServiceSuite) TestEditProfile_Conflict() {
	created := s.signUp()

	req := signUpRequest()
	req.Email = "other@b.com"
	req.MobileNo = "0987654321"
	other, err := s.svc.SignUp(context.Background(), req)
	Expect(err).ToNot(HaveOccurred())

	_, err = s.svc.EditProfile(context.Background(), other.ID, editRequest(`{"email":"a@b.com"}`))
	expectAppError(err, apperror.ErrConflict, service.MsgUserExists)

	_, err = s.svc.EditProfile(context.Background(), other.ID, editRequest(`{"mobileno":"1234567890"}`))
	expectAppError(err, apperror.ErrConflict, service.MsgUserExists)

	// keeping your own email is not a conflict
	user, err := s.svc.EditProfile(context.Background(), created.ID, editRequest(`{"email":"a@b.com","name":"Alan"}`))
	Expect(err).ToNot(HaveOccurred())
	Expect(user.Name).To(Equal("Alan"))
}

func (s *AccountServiceSuite) TestChangePassword() {
	ctx := context.Background()
	created := s.signUp()

	err := s.svc.ChangePassword(ctx, created.ID, &request.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret2"})
	Expect(err).ToNot(HaveOccurred())

	_, err = s.svc.Login(ctx, &request.LoginRequest{Email: "a@b.com", Password: "secret1"})
	Expect(err).To(MatchError(apperror.ErrUnauthorized))

	_, err = s.svc.Login(ctx, &request.LoginRequest{Email: "a@b.com", Password: "secret2"})
	Expect(err).ToNot(HaveOccurred())
}

func (s *AccountServiceSuite) TestChangePassword_Failures() {
	ctx := context.Background()
	created := s.signUp()

	err := s.svc.ChangePassword(ctx, created.ID, &request.ChangePasswordRequest{CurrentPassword: "secret1"})
	expectAppError(err, apperror.ErrValidation, service.MsgPasswordsMissing)

	// strength is checked before the current password
	err = s.svc.ChangePassword(ctx, created.ID, &request.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "12345"})
	expectAppError(err, apperror.ErrValidation, service.MsgWeakNewPassword)

	err = s.svc.ChangePassword(ctx, 99, &request.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret2"})
	expectAppError(err, apperror.ErrNotFound, service.MsgUserNotFound)

	err = s.svc.ChangePassword(ctx, created.ID, &request.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "secret2"})
	expectAppError(err, apperror.ErrUnauthorized, service.MsgWrongPassword)
}

func TestNewAccountService_WithoutCache(t *testing.T) {
	RegisterTestingT(t)

	db := InitTestDB()
	defer db.Close()

	svc := service.NewAccountService(service.AccountServiceConfig{
		Repo:      repository.NewUserRepository(db, nil),
		Hasher:    util.NewSaltedSHA256("salt"),
		Validator: validation.MustNew(),
	})

	created, err := svc.SignUp(context.Background(), signUpRequest())
	Expect(err).ToNot(HaveOccurred())

	user, err := svc.GetUser(context.Background(), created.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(user.Email).To(Equal("a@b.com"))
}
