package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"interview-api/internal/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserIDContextKey contextKey = "user_id"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthService verifies bearer tokens from the identity provider. The subject
// claim carries the user id.
type AuthService interface {
	VerifyToken(tokenString string) (string, error)
	IssueToken(userID string, ttl time.Duration) (string, error)
	ValidServiceKey(key string) bool
}

type authService struct {
	jwtSecret  []byte
	issuer     string
	serviceKey string
}

func NewAuthService(cfg config.AuthConfig) AuthService {
	return &authService{
		jwtSecret:  []byte(cfg.JWTSecret),
		issuer:     cfg.Issuer,
		serviceKey: cfg.ServiceKey,
	}
}

func (s *authService) VerifyToken(tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *authService) IssueToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// ValidServiceKey reports whether key matches the configured service key. An
// unset service key rejects everything.
func (s *authService) ValidServiceKey(key string) bool {
	return s.serviceKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(s.serviceKey)) == 1
}

// Helper function to add the caller's user id to context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// Helper function to get the caller's user id from context
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(string)
	return userID, ok && userID != ""
}
