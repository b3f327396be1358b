package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleStaff = "staff"

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims structure to store staff info in the token
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies staff tokens with a shared HMAC secret.
type TokenIssuer struct {
	log    *slog.Logger
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(log *slog.Logger, secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	log.Info("[auth] JWT configuration loaded and signing key initialized.")
	return &TokenIssuer{
		log:    log,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now
	return t
}

// GenerateJWT creates a new signed JWT for the staff member.
func (t *TokenIssuer) GenerateJWT(username, role string) (string, error) {
	issuedAt := t.now()
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		t.log.Error(fmt.Sprintf("[auth] Failed to sign JWT for %s: %v", username, err))
		return "", err
	}

	t.log.Info(fmt.Sprintf("[auth] Successfully generated JWT for %s (Role: %s).", username, role))
	return tokenString, nil
}

// Parse validates the signature and expiry and returns the claims.
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
