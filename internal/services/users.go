package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"strings"

	"patrimonio/internal/models"
)

// UserService authenticates operator accounts against the usuarios
// table. Passwords are stored as hex-encoded SHA-256 digests.
type UserService struct {
	DB *sql.DB
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{DB: db}
}

// Authenticate verifies credentials and returns the account. Inactive
// accounts are rejected even with a correct password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	var storedHash string
	err := s.DB.QueryRowContext(ctx, `
		SELECT id_usuario, nome, email, senha, nivel_acesso, ativo
		FROM usuarios WHERE LOWER(email) = LOWER($1)
	`, strings.TrimSpace(email)).Scan(&user.ID, &user.Name, &user.Email, &storedHash, &user.AccessLevel, &user.Active)
	if err == sql.ErrNoRows {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, models.ErrUserInactive
	}
	digest := sha256.Sum256([]byte(password))
	if subtle.ConstantTimeCompare([]byte(hex.EncodeToString(digest[:])), []byte(storedHash)) != 1 {
		return nil, models.ErrInvalidCredentials
	}
	return &user, nil
}
