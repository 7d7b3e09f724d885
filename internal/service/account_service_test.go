package service

import (
	"context"
	"testing"

	"posbackend/internal/apperror"
	"posbackend/internal/authz"
	"posbackend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func validPayload() AccountPayload {
	return AccountPayload{
		FullName:        "Jane Smith",
		Username:        "janesmith",
		Email:           "jane@example.com",
		Phone:           "9841000001",
		Gender:          model.GenderFemale,
		Role:            model.RoleSupplier,
		Password:        "secret1234",
		ConfirmPassword: "secret1234",
	}
}

func newAccountFixture() (*fakeUserRepo, *fakeTokenRepo, AccountService) {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	svc := NewAccountService(users, tokens, &fakeAudit{}, []byte("test-secret"))
	return users, tokens, svc
}

func TestRegisterCreatesAccount(t *testing.T) {
	users, _, svc := newAccountFixture()

	res, err := svc.Register(context.Background(), RegisterRequest{AccountPayload: validPayload()})
	require.NoError(t, err)
	assert.Equal(t, "janesmith", res.Username)
	assert.Equal(t, model.RoleSupplier, res.Role)

	stored, err := users.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1234", stored.Password, "password must be stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1234")))
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	_, _, svc := newAccountFixture()

	payload := validPayload()
	payload.Role = model.RoleAdmin
	_, err := svc.Register(context.Background(), RegisterRequest{AccountPayload: payload})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestRegisterDuplicateEmailLeavesStoreUnchanged(t *testing.T) {
	users, _, svc := newAccountFixture()

	_, err := svc.Register(context.Background(), RegisterRequest{AccountPayload: validPayload()})
	require.NoError(t, err)

	dup := validPayload()
	dup.Username = "othername"
	dup.Phone = "9841000002"
	_, err = svc.Register(context.Background(), RegisterRequest{AccountPayload: dup})
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "already in use", apperror.FieldsOf(err)["email"])

	_, total, err := users.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "failed registration must not add a row")
}

func TestRegisterAccumulatesFieldErrors(t *testing.T) {
	_, _, svc := newAccountFixture()

	payload := validPayload()
	payload.Email = "not-an-email"
	payload.Phone = "abc"
	payload.Password = "short"
	payload.ConfirmPassword = "different"
	_, err := svc.Register(context.Background(), RegisterRequest{AccountPayload: payload})
	require.ErrorIs(t, err, apperror.ErrValidation)

	fields := apperror.FieldsOf(err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "confirm_password")
}

func TestPasswordPolicy(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"secret1234", true},
		{"abc1", false},          // too short
		{"alllettersx", false},   // no digit
		{"123456789012", false},  // no letter
		{"pass1234", true},
	}
	for _, tc := range cases {
		reason := checkPasswordPolicy(tc.password)
		if tc.ok {
			assert.Empty(t, reason, "password %q should pass", tc.password)
		} else {
			assert.NotEmpty(t, reason, "password %q should fail", tc.password)
		}
	}
}

func TestLoginAndRefreshRotation(t *testing.T) {
	_, tokens, svc := newAccountFixture()

	_, err := svc.Register(context.Background(), RegisterRequest{AccountPayload: validPayload()})
	require.NoError(t, err)

	tokenRes, err := svc.Login(context.Background(), LoginRequest{Email: "jane@example.com", Password: "secret1234"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokenRes.Token)
	assert.NotEmpty(t, tokenRes.RefreshToken)

	rotated, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: tokenRes.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokenRes.RefreshToken, rotated.RefreshToken)

	// The old token is revoked by rotation
	_, err = tokens.GetByToken(context.Background(), tokenRes.RefreshToken)
	assert.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	_, _, svc := newAccountFixture()

	_, err := svc.Register(context.Background(), RegisterRequest{AccountPayload: validPayload()})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "jane@example.com", Password: "wrongpass1"})
	assert.ErrorIs(t, err, apperror.ErrAuthentication)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "secret1234"})
	assert.ErrorIs(t, err, apperror.ErrAuthentication)
}

func TestUpdateUserRoleImmutable(t *testing.T) {
	_, _, svc := newAccountFixture()

	res, err := svc.Register(context.Background(), RegisterRequest{AccountPayload: validPayload()})
	require.NoError(t, err)

	admin := authz.Principal{UserID: res.ID, Role: model.RoleAdmin}
	_, err = svc.UpdateUser(context.Background(), admin, res.ID.String(), UpdateUserRequest{Role: model.RoleBiller})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestChangePassword(t *testing.T) {
	users, _, svc := newAccountFixture()

	res, err := svc.Register(context.Background(), RegisterRequest{AccountPayload: validPayload()})
	require.NoError(t, err)
	owner := authz.Principal{UserID: res.ID, Role: model.RoleSupplier}

	// Wrong current password
	err = svc.ChangePassword(context.Background(), owner, res.ID.String(), ChangePasswordRequest{
		OldPassword:     "wrongpass1",
		Password:        "newsecret1",
		ConfirmPassword: "newsecret1",
	})
	assert.ErrorIs(t, err, apperror.ErrAuthentication)

	// Weak replacement
	err = svc.ChangePassword(context.Background(), owner, res.ID.String(), ChangePasswordRequest{
		OldPassword:     "secret1234",
		Password:        "short",
		ConfirmPassword: "short",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// Success
	err = svc.ChangePassword(context.Background(), owner, res.ID.String(), ChangePasswordRequest{
		OldPassword:     "secret1234",
		Password:        "newsecret1",
		ConfirmPassword: "newsecret1",
	})
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), res.ID.String())
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newsecret1")))
}

func TestDeleteUser(t *testing.T) {
	users, _, svc := newAccountFixture()

	res, err := svc.Register(context.Background(), RegisterRequest{AccountPayload: validPayload()})
	require.NoError(t, err)

	admin := authz.Principal{UserID: res.ID, Role: model.RoleAdmin}
	require.NoError(t, svc.DeleteUser(context.Background(), admin, res.ID.String()))

	_, err = users.GetByID(context.Background(), res.ID.String())
	assert.Error(t, err)
}
