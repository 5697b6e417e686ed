package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// --- DTOs ---

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"max=100"`
	Role     string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role"`
	IsActive bool    `json:"is_active"`
}

// --- Interface ---

type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenPair, UserResponse, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// --- Implementation ---

func validRole(role string) bool {
	return role == model.RoleAdmin || role == model.RoleFinance || role == model.RoleViewer
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	if !validRole(req.Role) {
		return UserResponse{}, &ValidationError{Messages: []string{"Role must be admin, finance or viewer."}}
	}

	existing, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return UserResponse{}, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return UserResponse{}, &ValidationError{Messages: []string{"Username is already taken."}}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hashed),
		FullName:     optional(req.FullName),
		Role:         req.Role,
		IsActive:     true,
	}
	user.TouchCreated(time.Now().UTC())

	if err := s.users.Create(ctx, user); err != nil {
		var constraintErr *repository.ConstraintViolationError
		if errors.As(err, &constraintErr) {
			return UserResponse{}, &ValidationError{Messages: []string{"Username is already taken."}}
		}
		return UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (TokenPair, UserResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return TokenPair{}, UserResponse{}, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil || !user.IsActive {
		return TokenPair{}, UserResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return TokenPair{}, UserResponse{}, ErrInvalidCredentials
	}

	access, err := signToken(user, 24*time.Hour)
	if err != nil {
		return TokenPair{}, UserResponse{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := signToken(user, 7*24*time.Hour)
	if err != nil {
		return TokenPair{}, UserResponse{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, toUserResponse(user), nil
}

func signToken(user *model.User, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(middleware.GetJWTSecret())
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
		IsActive: user.IsActive,
	}
}
