// Package vaults persists vault records either in PostgreSQL or in the flat
// JSON registry file.
package vaults

import (
	"context"

	"github.com/dmitrijs2005/storjvault/internal/server/models"
)

// Repository stores vault records.
//
// Create fails with common.ErrorConflict when the prefix is taken and
// GetByPrefix with common.ErrorNotFound when it is not.
type Repository interface {
	Create(ctx context.Context, vault *models.Vault) (*models.Vault, error)
	GetByPrefix(ctx context.Context, prefix string) (*models.Vault, error)
}
