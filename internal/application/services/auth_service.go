package services

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/practicas/core/internal/domain/entities"
	"github.com/practicas/core/internal/infrastructure/config"
	"github.com/practicas/core/internal/infrastructure/logger"
	"github.com/practicas/core/internal/ports"
)

// Authentication methods reported on the principal
const (
	AuthMethodStatic = "static"
	AuthMethodHash   = "hash"
	AuthMethodJWT    = "jwt"
)

// DefaultRole is assigned to principals that carry no role claim
const DefaultRole = "admin"

// Claims represents the JWT claims
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService checks the Authorization header of mutating requests
type AuthService struct {
	authConfig config.AuthConfig
	logger     *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(authConfig config.AuthConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		authConfig: authConfig,
		logger:     logger.WithComponent("auth"),
	}
}

// Authenticate resolves an Authorization header value to a principal.
// A missing header yields ErrMissingCredentials; anything present but not
// accepted yields ErrInvalidCredentials.
func (s *AuthService) Authenticate(authorization string) (*ports.Principal, error) {
	token := strings.TrimSpace(authorization)
	if token == "" {
		return nil, entities.ErrMissingCredentials
	}

	if scheme, rest, ok := strings.Cut(token, " "); ok && strings.EqualFold(scheme, "Bearer") {
		token = strings.TrimSpace(rest)
	} else if strings.EqualFold(token, "Bearer") {
		token = ""
	}
	if token == "" {
		return nil, entities.ErrMissingCredentials
	}

	if s.authConfig.Token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(s.authConfig.Token)) == 1 {
		return &ports.Principal{Subject: "static", Role: DefaultRole, Method: AuthMethodStatic}, nil
	}

	if s.authConfig.TokenHash != "" && bcrypt.CompareHashAndPassword([]byte(s.authConfig.TokenHash), []byte(token)) == nil {
		return &ports.Principal{Subject: "hash", Role: DefaultRole, Method: AuthMethodHash}, nil
	}

	if s.authConfig.JWTSecret != "" {
		claims, err := s.validateToken(token)
		if err == nil {
			role := claims.Role
			if role == "" {
				role = DefaultRole
			}
			return &ports.Principal{Subject: claims.Subject, Role: role, Method: AuthMethodJWT}, nil
		}
		s.logger.Debugw("Rejected bearer token", "error", err)
	}

	return nil, entities.ErrInvalidCredentials
}

// IssueToken signs an HS256 token for subject, valid for ttl.
// A zero ttl falls back to the configured expiry.
func (s *AuthService) IssueToken(subject string, ttl time.Duration) (string, error) {
	if s.authConfig.JWTSecret == "" {
		return "", entities.NewValidationError("auth.jwt_secret must be set to issue tokens")
	}
	if strings.TrimSpace(subject) == "" {
		return "", entities.NewValidationError("subject cannot be empty")
	}
	if ttl <= 0 {
		ttl = s.authConfig.JWTExpiresIn
	}

	now := time.Now()
	claims := &Claims{
		Role: DefaultRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.authConfig.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.authConfig.JWTSecret))
	if err != nil {
		return "", entities.NewInternalError("failed to sign token", err)
	}

	s.logger.Infow("Token issued", "subject", subject, "expires_at", claims.ExpiresAt.Time)

	return tokenString, nil
}

// HashToken returns the bcrypt hash to store as auth.token_hash
func HashToken(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", entities.NewValidationError("token cannot be empty")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}

	return string(hashed), nil
}

func (s *AuthService) validateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.authConfig.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(s.authConfig.JWTIssuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authConfig.JWTSecret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
