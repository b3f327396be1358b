package auth

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthDisabled       = errors.New("staff login is not configured")
)

// LoginStaffUC checks the single configured staff account.
type LoginStaffUC struct {
	log          *slog.Logger
	issuer       *TokenIssuer
	username     string
	passwordHash []byte
}

func NewLoginStaffUC(log *slog.Logger, issuer *TokenIssuer, username, passwordHash string) *LoginStaffUC {
	return &LoginStaffUC{
		log:          log,
		issuer:       issuer,
		username:     username,
		passwordHash: []byte(passwordHash),
	}
}

// Enabled is false when no password hash is configured; the API is open then.
func (uc *LoginStaffUC) Enabled() bool {
	return len(uc.passwordHash) > 0
}

func (uc *LoginStaffUC) Invoke(username, password string) (token string, role string, err error) {
	uc.log.Info(fmt.Sprintf("[auth] Staff login attempt started for: %s", username))

	if !uc.Enabled() {
		uc.log.Warn("[auth] Staff login rejected: no password hash configured.")
		return "", "", ErrAuthDisabled
	}

	if username != uc.username {
		uc.log.Warn(fmt.Sprintf("[auth] Staff login failed for %s: unknown user.", username))
		return "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(password)); err != nil {
		uc.log.Warn(fmt.Sprintf("[auth] Staff login failed for %s: Password mismatch.", username))
		return "", "", ErrInvalidCredentials
	}

	token, err = uc.issuer.GenerateJWT(username, RoleStaff)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate JWT: %w", err)
	}

	uc.log.Info(fmt.Sprintf("[auth] Staff login successful for %s. JWT issued.", username))
	return token, RoleStaff, nil
}
