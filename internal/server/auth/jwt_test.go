package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	prefix := "vault_123"

	tok, err := GenerateToken(prefix, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := GetVaultPrefixFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetVaultPrefixFromToken error: %v", err)
	}
	if got != prefix {
		t.Fatalf("prefix mismatch: got %q want %q", got, prefix)
	}
}

func TestGetVaultPrefixFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("vault_1", secret, -1*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetVaultPrefixFromToken(tok, secret)
	if err != common.ErrTokenExpired {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestGetVaultPrefixFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("vault_2", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetVaultPrefixFromToken(tok, []byte("wrong-secret"))
	if err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestGetVaultPrefixFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := GetVaultPrefixFromToken("not.a.jwt", []byte("k"))
	if err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestGetVaultPrefixFromToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		VaultPrefix:      "vault_9",
	})
	s, err := tok.SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	if _, err := GetVaultPrefixFromToken(s, secret); err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestGetVaultPrefixFromToken_MissingPrefix(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := GenerateToken("", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := GetVaultPrefixFromToken(tok, secret); err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestGenerateToken_UniqueIDs(t *testing.T) {
	secret := []byte("s")
	ids := map[string]bool{}
	for i := 0; i < 3; i++ {
		tok, err := GenerateToken("vault_1", secret, time.Minute)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		claims := &Claims{}
		if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(claims.ID) != 32 {
			t.Fatalf("expected 32-char token id, got %q", claims.ID)
		}
		ids[claims.ID] = true
	}
	if len(ids) != 3 {
		t.Fatalf("token ids repeat: %v", ids)
	}
}
