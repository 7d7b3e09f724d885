package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/mail"
	"regexp"
	"time"
	"unicode"

	"posbackend/internal/apperror"
	"posbackend/internal/authz"
	"posbackend/internal/model"
	"posbackend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AccountPayload is the nested "user" object shared by registration and the
// role-scoped profile creators.
type AccountPayload struct {
	FullName        string `json:"full_name" binding:"required,max=100"`
	Username        string `json:"username" binding:"required,max=150"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required"`
	Gender          string `json:"gender" binding:"omitempty,oneof=male female other"`
	Role            string `json:"role" binding:"omitempty,oneof=Admin Supplier Customer Biller"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type RegisterRequest struct {
	AccountPayload
}

type UpdateUserRequest struct {
	FullName     string `json:"full_name"`
	Username     string `json:"username"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
	Gender       string `json:"gender" binding:"omitempty,oneof=male female other"`
	Role         string `json:"role"`
	ProfileImage string `json:"profile_image"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// UserResponse returns account data without the credential hash.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Gender       string    `json:"gender"`
	Role         string    `json:"role"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
}

// AccountService defines the business logic for the identity store.
type AccountService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actor authz.Principal, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actor authz.Principal, id string) error
	ChangePassword(ctx context.Context, actor authz.Principal, id string, req ChangePasswordRequest) error
}

type accountService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	audit     AuditService
	jwtSecret []byte
}

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// NewAccountService returns a new instance of AccountService
func NewAccountService(userRepo repository.UserRepository, tokenRepo repository.RefreshTokenRepository, audit AuditService, jwtSecret []byte) AccountService {
	return &accountService{userRepo: userRepo, tokenRepo: tokenRepo, audit: audit, jwtSecret: jwtSecret}
}

// --- Validation helpers (shared with the profile service) ---

// phoneRegex: numeric with optional leading +, plausible length
var phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// checkPasswordPolicy enforces the minimum strength rule: 8+ characters with
// at least one letter and one digit.
func checkPasswordPolicy(password string) string {
	if len(password) < 8 {
		return "must be at least 8 characters"
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return "must contain at least one letter and one digit"
	}
	return ""
}

// validateNewAccount runs format, policy and uniqueness checks for a new
// account payload, accumulating per-field reasons.
func validateNewAccount(ctx context.Context, userRepo repository.UserRepository, p AccountPayload) error {
	fields := map[string]string{}

	if _, err := mail.ParseAddress(p.Email); err != nil {
		fields["email"] = "invalid email format"
	}
	if !phoneRegex.MatchString(p.Phone) {
		fields["phone"] = "must be numeric with 7 to 15 digits"
	}
	if reason := checkPasswordPolicy(p.Password); reason != "" {
		fields["password"] = reason
	}
	if p.Password != p.ConfirmPassword {
		fields["confirm_password"] = "the two password fields did not match"
	}

	if _, ok := fields["email"]; !ok {
		if _, err := userRepo.GetByEmail(ctx, p.Email); err == nil {
			fields["email"] = "already in use"
		}
	}
	if _, err := userRepo.GetByUsername(ctx, p.Username); err == nil {
		fields["username"] = "already in use"
	}
	if _, ok := fields["phone"]; !ok {
		if _, err := userRepo.GetByPhone(ctx, p.Phone); err == nil {
			fields["phone"] = "already in use"
		}
	}

	if len(fields) > 0 {
		return apperror.NewValidationFields(fields)
	}
	return nil
}

// buildUser hashes the credential and assembles the model. The plaintext
// password is never stored or logged.
func buildUser(p AccountPayload) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &model.User{
		FullName: p.FullName,
		Username: p.Username,
		Email:    p.Email,
		Phone:    p.Phone,
		Gender:   p.Gender,
		Role:     p.Role,
		Password: string(hashed),
	}, nil
}

func mapToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		FullName:     user.FullName,
		Username:     user.Username,
		Email:        user.Email,
		Phone:        user.Phone,
		Gender:       user.Gender,
		Role:         user.Role,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    user.UpdatedAt.Format(time.RFC3339),
	}
}

// --- Registration / auth ---

func (s *accountService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if req.Role == "" {
		return nil, apperror.NewValidation("role", "is required")
	}
	if req.Role == model.RoleAdmin {
		return nil, apperror.NewValidation("role", "cannot self-register as Admin")
	}
	if err := validateNewAccount(ctx, s.userRepo, req.AccountPayload); err != nil {
		return nil, err
	}

	user, err := buildUser(req.AccountPayload)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, nil, model.ActionRegisterUser, user.ID.String(), user.Username, map[string]string{"role": user.Role})

	return mapToUserResponse(user), nil
}

func (s *accountService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Generic message: do not leak whether the account exists
		return nil, fmt.Errorf("%w: invalid email or password", apperror.ErrAuthentication)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", apperror.ErrAuthentication)
	}

	return s.issueTokens(ctx, user)
}

func (s *accountService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  time.Now().Add(accessTokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refresh := hex.EncodeToString(raw)

	if err := s.tokenRepo.Create(ctx, &model.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, err
	}

	return &TokenResponse{Token: signed, RefreshToken: refresh}, nil
}

func (s *accountService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	stored, err := s.tokenRepo.GetByToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", apperror.ErrAuthentication)
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokenRepo.Delete(ctx, stored.Token)
		return nil, fmt.Errorf("%w: refresh token expired", apperror.ErrAuthentication)
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperror.ErrAuthentication)
	}

	// Rotate: the old token is single-use
	if err := s.tokenRepo.Delete(ctx, stored.Token); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *accountService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokenRepo.Delete(ctx, refreshToken)
}

// --- CRUD ---

func (s *accountService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: user", apperror.ErrNotFound)
	}
	return mapToUserResponse(user), nil
}

func (s *accountService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.userRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, *mapToUserResponse(&u))
	}

	return responses, total, nil
}

func (s *accountService) UpdateUser(ctx context.Context, actor authz.Principal, id string, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: user", apperror.ErrNotFound)
	}

	// Role is immutable once set: changing it would orphan the role profile
	if req.Role != "" && req.Role != user.Role {
		return nil, fmt.Errorf("%w: role is immutable", apperror.ErrConflict)
	}

	if req.Username != "" && req.Username != user.Username {
		if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
			return nil, apperror.NewValidation("username", "already in use")
		}
		user.Username = req.Username
	}
	if req.Email != "" && req.Email != user.Email {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return nil, apperror.NewValidation("email", "invalid email format")
		}
		if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
			return nil, apperror.NewValidation("email", "already in use")
		}
		user.Email = req.Email
	}
	if req.Phone != "" && req.Phone != user.Phone {
		if !phoneRegex.MatchString(req.Phone) {
			return nil, apperror.NewValidation("phone", "must be numeric with 7 to 15 digits")
		}
		if _, err := s.userRepo.GetByPhone(ctx, req.Phone); err == nil {
			return nil, apperror.NewValidation("phone", "already in use")
		}
		user.Phone = req.Phone
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	if req.ProfileImage != "" {
		user.ProfileImage = req.ProfileImage
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &actor.UserID, model.ActionUpdateUser, user.ID.String(), user.Username, req)

	return mapToUserResponse(user), nil
}

func (s *accountService) DeleteUser(ctx context.Context, actor authz.Principal, id string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: user", apperror.ErrNotFound)
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, &actor.UserID, model.ActionDeleteUser, id, user.Username, nil)
	return nil
}

// ChangePassword replaces the stored hash after verifying the old credential.
// Ownership/admin is enforced by the authorization gate before dispatch;
// the old password check applies to every caller, admins included.
func (s *accountService) ChangePassword(ctx context.Context, actor authz.Principal, id string, req ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: user", apperror.ErrNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return fmt.Errorf("%w: old password is not correct", apperror.ErrAuthentication)
	}

	if reason := checkPasswordPolicy(req.Password); reason != "" {
		return apperror.NewValidation("password", reason)
	}
	if req.Password != req.ConfirmPassword {
		return apperror.NewValidation("confirm_password", "the two password fields did not match")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.audit.Record(ctx, &actor.UserID, model.ActionChangePassword, id, user.Username, nil)
	return nil
}
