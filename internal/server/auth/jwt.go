// Package auth issues and verifies vault tokens and hashes vault passcodes.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims and the vault prefix the token grants access to.
type Claims struct {
	jwt.RegisteredClaims
	VaultPrefix string `json:"vaultPrefix"`
}

// GenerateToken signs an HS256 token for vaultPrefix that expires after validityDuration.
func GenerateToken(vaultPrefix string, secretKey []byte, validityDuration time.Duration) (string, error) {
	id, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		VaultPrefix: vaultPrefix,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetVaultPrefixFromToken validates tokenString and returns the vault prefix it carries.
// Expired tokens yield common.ErrTokenExpired, everything else that fails
// verification yields common.ErrInvalidToken.
func GetVaultPrefixFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.VaultPrefix == "" {
		return "", common.ErrInvalidToken
	}

	return claims.VaultPrefix, nil
}
