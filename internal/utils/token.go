package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const (
	jwtIssuer         = "careerexchange-api"
	minJWTSecretBytes = 32
	defaultTokenTTL   = 24 * time.Hour
)

// Claims is the signed session payload handed out by login and register.
type Claims struct {
	UserID int         `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	raw := strings.TrimSpace(secret)
	if raw == "" {
		return nil, errors.New("JWT secret is required")
	}
	if len(raw) < minJWTSecretBytes {
		return nil, fmt.Errorf("JWT secret must be at least %d characters", minJWTSecretBytes)
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{secret: []byte(raw), ttl: ttl, now: time.Now}, nil
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// GenerateToken generates a new JWT token for a user.
func (m *TokenManager) GenerateToken(user models.User) (string, error) {
	if user.ID <= 0 {
		return "", errors.New("invalid user ID")
	}

	now := m.now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken validates the JWT token and returns the claims.
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, errors.New("token is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(jwtIssuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.UserID <= 0 {
		return nil, errors.New("invalid token user")
	}

	if claims.Subject != strconv.Itoa(claims.UserID) {
		return nil, errors.New("invalid token subject")
	}

	if !claims.Role.Valid() {
		return nil, errors.New("invalid token role")
	}

	return claims, nil
}
