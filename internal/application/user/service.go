package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"inventory-backend/internal/application/auth"
	"inventory-backend/internal/domain"
	"inventory-backend/internal/pkg/apperr"
	"inventory-backend/internal/pkg/constants"
	"inventory-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

// TokenIssuer signs credentials for authenticated users.
type TokenIssuer interface {
	Issue(userID uint, email, role string) (string, time.Time, error)
}

// Service holds DB and token issuer for user operations.
type Service struct {
	DB     *gorm.DB
	Tokens TokenIssuer
	// Hash is replaceable in tests; nil means bcrypt.
	Hash func(password string) (string, error)
}

func (s *Service) hash(password string) (string, error) {
	if s.Hash != nil {
		return s.Hash(password)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(b), err
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Profile is the public view of a user.
type Profile struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func profileOf(u *domain.User) *Profile {
	return &Profile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Signup creates an account. Roles other than admin and user become user.
// The duplicate check runs before the password is hashed.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, apperr.Validation("Name, email and password are required")
	}
	if !validation.IsValidEmail(email) {
		return nil, apperr.Validation("Invalid email format")
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, apperr.Validation("Password must be at least 6 characters long")
	}
	role := in.Role
	if !constants.IsValidRole(role) {
		role = constants.User
	}

	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("LOWER(email) = LOWER(?)", email).Count(&n).Error; err != nil {
		return nil, apperr.Storage("", err)
	}
	if n > 0 {
		return nil, apperr.Validation("User already exists with this email")
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, apperr.Storage("", err)
	}
	u := &domain.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
		Status:   constants.StatusActive,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, apperr.Storage("", err)
	}
	return u, nil
}

type SigninResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *Profile  `json:"data"`
}

// Signin verifies credentials. Unknown email is NotFound, a blocked account
// is Authorization, a wrong password is Authentication.
func (s *Service) Signin(ctx context.Context, email, password string) (*SigninResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Invalid email or password")
		}
		return nil, apperr.Storage("", err)
	}
	if u.Status == constants.StatusBlocked {
		return nil, apperr.Authorization("Your account has been blocked. Please contact administrator.")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, apperr.Authentication("Invalid email or password")
	}
	token, exp, err := s.Tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, apperr.Storage("", err)
	}
	return &SigninResult{Token: token, ExpiresAt: exp, User: profileOf(&u)}, nil
}

// Current returns the profile of the token's user.
func (s *Service) Current(ctx context.Context, id uint) (*Profile, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return profileOf(u), nil
}

// IsBlocked reports whether the user is blocked. Unknown users are not blocked.
func (s *Service) IsBlocked(ctx context.Context, id uint) (bool, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.Status == constants.StatusBlocked, nil
}

// List returns every user, newest first.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	var users []domain.User
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, apperr.Storage("", err)
	}
	out := make([]Profile, 0, len(users))
	for i := range users {
		u := &users[i]
		out = append(out, Profile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Status: u.Status, CreatedAt: &u.CreatedAt})
	}
	return out, nil
}

// ChangePassword sets a new password for any user.
func (s *Service) ChangePassword(ctx context.Context, id uint, newPassword string) error {
	if id == 0 || newPassword == "" {
		return apperr.Validation("User ID and new password are required")
	}
	if !validation.IsValidPassword(newPassword) {
		return apperr.Validation("Password must be at least 6 characters long")
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return apperr.Storage("", err)
	}
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password", hash).Error; err != nil {
		return apperr.Storage("", err)
	}
	return nil
}

// ToggleStatus flips a user between active and blocked and returns the new status.
func (s *Service) ToggleStatus(ctx context.Context, id uint) (string, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	next := constants.StatusBlocked
	if u.Status == constants.StatusBlocked {
		next = constants.StatusActive
	}
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("status", next).Error; err != nil {
		return "", apperr.Storage("", err)
	}
	return next, nil
}

func (s *Service) find(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Storage("", err)
	}
	return &u, nil
}

var _ TokenIssuer = (*auth.TokenService)(nil)
