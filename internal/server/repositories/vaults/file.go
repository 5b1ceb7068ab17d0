package vaults

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/dmitrijs2005/storjvault/internal/server/models"
)

// fileRecord is one entry of the registry file:
//
//	{"vault_7": {"hashedPassword": "$2a$10$..."}}
type fileRecord struct {
	HashedPassword string     `json:"hashedPassword"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

// FileRepository keeps vaults in a JSON file. The whole registry lives in
// memory and every committed change rewrites the file through a temp file
// and rename, so readers never see a partial document.
type FileRepository struct {
	mu      sync.RWMutex
	path    string
	records map[string]fileRecord
}

// NewFileRepository loads path. A missing file is an empty registry.
func NewFileRepository(path string) (*FileRepository, error) {
	r := &FileRepository{path: path, records: make(map[string]fileRecord)}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return r, nil
		}
		return nil, fmt.Errorf("read vault registry: %w", err)
	}
	if len(b) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(b, &r.records); err != nil {
		return nil, fmt.Errorf("parse vault registry %s: %w", path, err)
	}
	return r, nil
}

func (r *FileRepository) Create(ctx context.Context, vault *models.Vault) (*models.Vault, error) {
	var created *models.Vault
	err := r.WithinTx(ctx, func(ctx context.Context, tx Repository) error {
		v, err := tx.Create(ctx, vault)
		created = v
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *FileRepository) GetByPrefix(ctx context.Context, prefix string) (*models.Vault, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fileTx{records: r.records}.GetByPrefix(ctx, prefix)
}

// WithinTx runs fn against a private copy of the registry while holding the
// write lock. The copy replaces the registry and is flushed to disk only
// when fn succeeds.
func (r *FileRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := fileTx{records: maps.Clone(r.records)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	prev := r.records
	r.records = tx.records
	if err := r.save(); err != nil {
		r.records = prev
		return err
	}
	return nil
}

// fileTx is the unlocked view handed to WithinTx callbacks.
type fileTx struct {
	records map[string]fileRecord
}

func (t fileTx) Create(ctx context.Context, vault *models.Vault) (*models.Vault, error) {
	if _, ok := t.records[vault.Prefix]; ok {
		return nil, common.ErrorConflict
	}
	if vault.CreatedAt.IsZero() {
		vault.CreatedAt = time.Now().UTC()
	}
	created := vault.CreatedAt
	t.records[vault.Prefix] = fileRecord{HashedPassword: vault.HashedPasscode, CreatedAt: &created}
	return vault, nil
}

func (t fileTx) GetByPrefix(ctx context.Context, prefix string) (*models.Vault, error) {
	rec, ok := t.records[prefix]
	if !ok {
		return nil, common.ErrorNotFound
	}
	v := &models.Vault{Prefix: prefix, HashedPasscode: rec.HashedPassword}
	if rec.CreatedAt != nil {
		v.CreatedAt = *rec.CreatedAt
	}
	return v, nil
}

// save must be called with mu held.
func (r *FileRepository) save() error {
	b, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write vault registry: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write vault registry: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("write vault registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write vault registry: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("write vault registry: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("write vault registry: %w", err)
	}
	return nil
}
