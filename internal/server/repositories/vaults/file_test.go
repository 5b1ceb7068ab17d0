package vaults

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/dmitrijs2005/storjvault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepository_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	r, err := NewFileRepository(path)
	require.NoError(t, err)

	_, err = r.GetByPrefix(context.Background(), "vault_1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.NoFileExists(t, path)
}

func TestFileRepository_ReadsLegacyFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"vault_7":{"hashedPassword":"$2a$10$abc"}}`), 0o600))

	r, err := NewFileRepository(path)
	require.NoError(t, err)

	v, err := r.GetByPrefix(context.Background(), "vault_7")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$abc", v.HashedPasscode)
	assert.True(t, v.CreatedAt.IsZero())

	_, err = r.GetByPrefix(context.Background(), "vault_8")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFileRepository_PersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")

	r, err := NewFileRepository(path)
	require.NoError(t, err)

	_, err = r.Create(ctx, &models.Vault{Prefix: "vault_1", HashedPasscode: "h1"})
	require.NoError(t, err)

	_, err = r.Create(ctx, &models.Vault{Prefix: "vault_1", HashedPasscode: "h2"})
	assert.ErrorIs(t, err, common.ErrorConflict)

	reloaded, err := NewFileRepository(path)
	require.NoError(t, err)
	v, err := reloaded.GetByPrefix(ctx, "vault_1")
	require.NoError(t, err)
	assert.Equal(t, "h1", v.HashedPasscode)
	assert.False(t, v.CreatedAt.IsZero())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileRepository_ConcurrentCreatesAreNotLost(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")
	r, err := NewFileRepository(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.Create(ctx, &models.Vault{Prefix: fmt.Sprintf("vault_%d", i), HashedPasscode: "h"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	reloaded, err := NewFileRepository(path)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		_, err := reloaded.GetByPrefix(ctx, fmt.Sprintf("vault_%d", i))
		assert.NoError(t, err, i)
	}
}

func TestFileRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := NewFileRepository(path)
	assert.Error(t, err)
}

func TestFileRepository_WithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")
	r, err := NewFileRepository(path)
	require.NoError(t, err)

	boom := fmt.Errorf("marker write failed")
	err = r.WithinTx(ctx, func(ctx context.Context, tx Repository) error {
		if _, err := tx.Create(ctx, &models.Vault{Prefix: "vault_1", HashedPasscode: "h"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = r.GetByPrefix(ctx, "vault_1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing should be written on rollback")
}
