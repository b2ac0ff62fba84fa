package auth

import (
	"crypto/subtle"
	"fmt"

	"github.com/cozyren/catalog-api/internal/application/dto"
	"github.com/cozyren/catalog-api/internal/domain"
	"github.com/cozyren/catalog-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig token generation settings.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Admin the single administrator identity. PasswordHash (bcrypt) wins over Password.
type Admin struct {
	Username     string
	Password     string
	PasswordHash string
}

// AuthUseCase admin login and token validation.
type AuthUseCase struct {
	username string
	hash     []byte
	jwtCfg   JWTConfig
}

// NewAuthUseCase builds the use case. A plain password is hashed once here so
// every login goes through bcrypt.
func NewAuthUseCase(admin Admin, jwtCfg JWTConfig) (*AuthUseCase, error) {
	if admin.Username == "" {
		return nil, fmt.Errorf("auth: empty admin username")
	}
	hash := []byte(admin.PasswordHash)
	if len(hash) == 0 {
		if admin.Password == "" {
			return nil, fmt.Errorf("auth: empty admin password")
		}
		h, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash password: %w", err)
		}
		hash = h
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("auth: invalid password hash: %w", err)
	}
	return &AuthUseCase{username: admin.Username, hash: hash, jwtCfg: jwtCfg}, nil
}

// Login checks the credentials and issues a token. ErrUnauthorized on mismatch.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(in.Username), []byte(uc.username)) == 1
	// always run bcrypt so a wrong username costs the same as a wrong password
	passErr := bcrypt.CompareHashAndPassword(uc.hash, []byte(in.Password))
	if !userOK || passErr != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.username, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Message: "Login successful"}, nil
}

// ValidateToken returns the admin username carried by token.
// ErrUnauthorized when the token is valid but issued for someone else.
func (uc *AuthUseCase) ValidateToken(token string) (string, error) {
	username, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return "", err
	}
	if username != uc.username {
		return "", domain.ErrUnauthorized
	}
	return username, nil
}
