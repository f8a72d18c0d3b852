package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashKey produces the value expected in ADMIN_KEY_HASH.
func HashKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CompareKey(hash, key string) error {
	if hash == "" || key == "" {
		return errors.New("missing hash or key")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
}
