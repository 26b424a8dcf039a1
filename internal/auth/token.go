package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-notes-api/internal/model"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the decoded token payload. The user id travels in the
// registered Subject claim.
type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}

// TokenManager signs and verifies access and refresh tokens. Access and
// refresh tokens use distinct secrets so one class can never stand in for
// the other.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(accessSecret string, refreshSecret string, accessTTL time.Duration, refreshTTL time.Duration) (*TokenManager, error) {
	if strings.TrimSpace(accessSecret) == "" {
		return nil, errors.New("access token secret is required")
	}
	if strings.TrimSpace(refreshSecret) == "" {
		return nil, errors.New("refresh token secret is required")
	}

	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

func (m *TokenManager) IssueAccessToken(userID string) (string, error) {
	return m.sign(userID, TokenTypeAccess, m.accessSecret, m.accessTTL)
}

func (m *TokenManager) IssueRefreshToken(userID string) (string, error) {
	return m.sign(userID, TokenTypeRefresh, m.refreshSecret, m.refreshTTL)
}

// IssuePair mints a fresh access/refresh pair. Persisting the refresh token
// is the caller's responsibility.
func (m *TokenManager) IssuePair(userID string) (model.TokenPair, error) {
	accessToken, err := m.IssueAccessToken(userID)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := m.IssueRefreshToken(userID)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (m *TokenManager) VerifyAccessToken(tokenString string) (*Claims, error) {
	return m.verify(tokenString, m.accessSecret, TokenTypeAccess)
}

func (m *TokenManager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return m.verify(tokenString, m.refreshSecret, TokenTypeRefresh)
}

func (m *TokenManager) sign(userID string, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}

	return signed, nil
}

func (m *TokenManager) verify(tokenString string, secret []byte, expectedType string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenInvalid
	}

	if !parsed.Valid || claims.TokenType != expectedType || claims.Subject == "" {
		return nil, model.ErrTokenInvalid
	}

	return claims, nil
}
