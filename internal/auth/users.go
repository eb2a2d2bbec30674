package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"florist-backend/internal/config"
	"florist-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid login or password")

// Authenticate checks a login against the static user table. Digests are
// unsalted SHA-256 hex; entries starting with "$2" are bcrypt hashes.
func Authenticate(users map[string]models.User, login, password string) (models.User, error) {
	login = strings.TrimSpace(login)
	password = strings.TrimSpace(password)

	user, ok := users[login]
	if !ok || login == "" {
		return models.User{}, ErrInvalidCredentials
	}

	if strings.HasPrefix(user.PasswordHash, "$2") {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return models.User{}, ErrInvalidCredentials
		}
		return user, nil
	}

	digest := config.SHA256Hex(password)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(user.PasswordHash))) != 1 {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}
