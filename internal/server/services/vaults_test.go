package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/dmitrijs2005/storjvault/internal/logging"
	"github.com/dmitrijs2005/storjvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storjvault/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVaultService(t *testing.T) (*VaultService, *storage.MemoryStore, repomanager.RepositoryManager) {
	t.Helper()
	rm, err := repomanager.NewFileRepositoryManager(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, err)
	store := storage.NewMemoryStore("file-storage")
	return NewVaultService(rm, store, "secret", time.Hour, logging.NewDiscardLogger()), store, rm
}

func TestVaultService_RegisterThenLogin(t *testing.T) {
	svc, store, _ := newVaultService(t)
	ctx := context.Background()

	s, err := svc.Register(ctx, "7", "1234")
	require.NoError(t, err)
	assert.Equal(t, "vault_7", s.VaultPrefix)
	assert.NotEmpty(t, s.Token)
	assert.Contains(t, store.Keys(), "vault_7/")

	prefix, err := svc.Verify(s.Token)
	require.NoError(t, err)
	assert.Equal(t, "vault_7", prefix)

	s2, err := svc.Login(ctx, "7", "1234")
	require.NoError(t, err)
	assert.Equal(t, "vault_7", s2.VaultPrefix)
}

func TestVaultService_Register_Validation(t *testing.T) {
	svc, _, _ := newVaultService(t)
	ctx := context.Background()

	for _, tc := range []struct{ id, pass string }{
		{"", "1234"},
		{"7", ""},
		{"a/b", "1234"},
		{"../x", "1234"},
	} {
		_, err := svc.Register(ctx, tc.id, tc.pass)
		assert.ErrorIs(t, err, common.ErrorValidation, "id=%q", tc.id)
	}
}

func TestVaultService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newVaultService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "7", "1234")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "7", "other")
	require.ErrorIs(t, err, common.ErrorConflict)
	msg, ok := common.PublicMessage(err)
	require.True(t, ok)
	assert.Contains(t, msg, "already exists")
}

func TestVaultService_Register_MarkerFailureRollsBack(t *testing.T) {
	svc, store, rm := newVaultService(t)
	ctx := context.Background()
	store.InjectFault("put", "vault_9/", errors.New("gateway down"))

	_, err := svc.Register(ctx, "9", "1234")
	require.Error(t, err)

	_, err = rm.Vaults().GetByPrefix(ctx, "vault_9")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestVaultService_Register_ExistingMarkerIsKept(t *testing.T) {
	svc, store, _ := newVaultService(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, storage.PutInput{Key: "vault_3/"}))

	_, err := svc.Register(ctx, "3", "1234")
	require.NoError(t, err)
	assert.Equal(t, []string{"vault_3/"}, store.Keys())
}

func TestVaultService_Login_Failures(t *testing.T) {
	svc, _, _ := newVaultService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "7", "1234")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "7", "wrong")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	msg, _ := common.PublicMessage(err)
	assert.Equal(t, "Invalid passcode.", msg)

	_, err = svc.Login(ctx, "8", "1234")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	msg, _ = common.PublicMessage(err)
	assert.Equal(t, "Vault not found.", msg)

	_, err = svc.Login(ctx, "bad id", "1234")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestVaultService_Verify_Rejects(t *testing.T) {
	svc, _, _ := newVaultService(t)

	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	other := NewVaultService(nil, nil, "another-secret", time.Hour, logging.NewDiscardLogger())
	s, err := other.issue("vault_1")
	require.NoError(t, err)
	_, err = svc.Verify(s.Token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
