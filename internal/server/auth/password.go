package auth

import (
	"errors"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasscodeCost matches the work factor existing vault registries were written with.
const PasscodeCost = 10

// HashPasscode returns the bcrypt hash of passcode.
func HashPasscode(passcode string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(passcode), PasscodeCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ComparePasscode reports common.ErrorUnauthorized when passcode does not match hash.
func ComparePasscode(hash, passcode string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrorUnauthorized
	}
	return err
}
