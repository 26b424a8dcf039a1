package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/model"
	"go-notes-api/pkg/apierror"
)

// UserRepository is the slice of persistence the auth flows need.
type UserRepository interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindPublicByID(ctx context.Context, id string) (model.PublicUser, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetRefreshToken(ctx context.Context, userID string, token string) error
	RotateRefreshToken(ctx context.Context, userID string, oldToken string, newToken string) error
	ClearRefreshToken(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	UpdateEmail(ctx context.Context, userID string, email string) error
	UpdateFullname(ctx context.Context, userID string, fullname string) error
}

// AuthService sequences registration, login, logout, refresh rotation and
// password changes. Every failure leaves this layer as an *apierror.APIError;
// raw repository or signing errors never reach the handler.
type AuthService struct {
	users  UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, email string, fullname string, password string) (model.PublicUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fullname = strings.TrimSpace(fullname)

	if email == "" || fullname == "" || strings.TrimSpace(password) == "" {
		return model.PublicUser{}, apierror.Validation("all fields are required")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		slog.Error("register: email lookup failed", "error", err)
		return model.PublicUser{}, apierror.Internal("something went wrong while registering the user")
	}
	if exists {
		return model.PublicUser{}, apierror.Conflict("user with same email already exists")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) {
			return model.PublicUser{}, apiErr
		}
		slog.Error("register: password hashing failed", "error", err)
		return model.PublicUser{}, apierror.Internal("something went wrong while registering the user")
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Fullname:     fullname,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		slog.Error("register: create user failed", "error", err)
		return model.PublicUser{}, apierror.Internal("something went wrong while registering the user")
	}

	return user.Public(), nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return model.LoginResult{}, apierror.Validation("email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.LoginResult{}, apierror.NotFound("user with email does not exist")
	}
	if err != nil {
		slog.Error("login: user lookup failed", "error", err)
		return model.LoginResult{}, apierror.Internal("something went wrong while logging in")
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return model.LoginResult{}, apierror.Authentication("invalid user credentials")
	}

	// Token minting and persistence fail as one unit: the client never
	// receives tokens whose refresh half was not stored.
	pair, err := s.tokens.IssuePair(user.ID)
	if err == nil {
		err = s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken)
	}
	if err != nil {
		slog.Error("login: token issuance failed", "error", err)
		return model.LoginResult{}, apierror.Internal("token generation failed")
	}

	return model.LoginResult{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		slog.Error("logout: clear refresh token failed", "error", err)
		return apierror.Internal("something went wrong while logging out")
	}
	return nil
}

// Refresh validates the presented refresh token against both its signature
// and the stored copy, then rotates it. A cryptographically valid token
// that no longer matches the stored value is a replayed or logged-out
// session and is rejected.
func (s *AuthService) Refresh(ctx context.Context, presented string) (model.TokenPair, error) {
	if strings.TrimSpace(presented) == "" {
		return model.TokenPair{}, apierror.Unauthorized("unauthorized request")
	}

	claims, err := s.tokens.VerifyRefreshToken(presented)
	if errors.Is(err, model.ErrTokenExpired) {
		return model.TokenPair{}, apierror.Unauthorized("refresh token is expired")
	}
	if err != nil {
		return model.TokenPair{}, apierror.Unauthorized("invalid refresh token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID())
	if errors.Is(err, model.ErrUserNotFound) {
		return model.TokenPair{}, apierror.Unauthorized("invalid refresh token")
	}
	if err != nil {
		slog.Error("refresh: user lookup failed", "error", err)
		return model.TokenPair{}, apierror.Internal("something went wrong while refreshing the token")
	}

	if user.RefreshToken == "" ||
		subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(presented)) != 1 {
		return model.TokenPair{}, apierror.Unauthorized("refresh token is expired")
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		slog.Error("refresh: token issuance failed", "error", err)
		return model.TokenPair{}, apierror.Internal("token generation failed")
	}

	err = s.users.RotateRefreshToken(ctx, user.ID, presented, pair.RefreshToken)
	if errors.Is(err, model.ErrSessionConflict) {
		return model.TokenPair{}, apierror.Conflict("session was rotated concurrently")
	}
	if err != nil {
		slog.Error("refresh: rotation failed", "error", err)
		return model.TokenPair{}, apierror.Internal("token generation failed")
	}

	return pair, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, oldPassword string, newPassword string, confirmPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return apierror.Unauthorized("authentication required")
	}
	if err != nil {
		slog.Error("change password: user lookup failed", "error", err)
		return apierror.Internal("something went wrong while changing the password")
	}

	if !auth.VerifyPassword(oldPassword, user.PasswordHash) {
		return apierror.Authentication("incorrect password")
	}

	if strings.TrimSpace(newPassword) == "" {
		return apierror.Validation("new password is required")
	}
	if newPassword == oldPassword {
		return apierror.Validation("new password is same as old password")
	}
	if newPassword != confirmPassword {
		return apierror.Validation("passwords do not match")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		slog.Error("change password: hashing failed", "error", err)
		return apierror.Internal("something went wrong while changing the password")
	}

	// Existing sessions stay valid: only the hash is touched.
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		slog.Error("change password: update failed", "error", err)
		return apierror.Internal("something went wrong while changing the password")
	}

	return nil
}

func (s *AuthService) UpdateAccount(ctx context.Context, userID string, email string, fullname string) (model.PublicUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fullname = strings.TrimSpace(fullname)

	if email == "" && fullname == "" {
		return model.PublicUser{}, apierror.Validation("either fullname or email is required")
	}

	if email != "" {
		existing, err := s.users.FindByEmail(ctx, email)
		if err == nil && existing.ID != userID {
			return model.PublicUser{}, apierror.Conflict("user with same email already exists")
		}
		if err != nil && !errors.Is(err, model.ErrUserNotFound) {
			slog.Error("update account: email lookup failed", "error", err)
			return model.PublicUser{}, apierror.Internal("something went wrong while updating the account")
		}

		if err := s.users.UpdateEmail(ctx, userID, email); err != nil {
			slog.Error("update account: email update failed", "error", err)
			return model.PublicUser{}, apierror.Internal("something went wrong while updating the account")
		}
	}

	if fullname != "" {
		if err := s.users.UpdateFullname(ctx, userID, fullname); err != nil {
			slog.Error("update account: fullname update failed", "error", err)
			return model.PublicUser{}, apierror.Internal("something went wrong while updating the account")
		}
	}

	updated, err := s.users.FindPublicByID(ctx, userID)
	if err != nil {
		slog.Error("update account: reload failed", "error", err)
		return model.PublicUser{}, apierror.Internal("something went wrong while updating the account")
	}

	return updated, nil
}
