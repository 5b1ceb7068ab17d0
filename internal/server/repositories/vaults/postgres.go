package vaults

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/dmitrijs2005/storjvault/internal/dbx"
	"github.com/dmitrijs2005/storjvault/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, vault *models.Vault) (*models.Vault, error) {

	query :=
		`INSERT INTO vaults (prefix, hashed_passcode)
		 VALUES ($1, $2)
		 ON CONFLICT (prefix) DO NOTHING
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, vault.Prefix, vault.HashedPasscode).Scan(&vault.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorConflict
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return vault, nil
}

func (r *PostgresRepository) GetByPrefix(ctx context.Context, prefix string) (*models.Vault, error) {
	query :=
		`SELECT prefix, hashed_passcode, created_at FROM vaults
		 WHERE prefix = $1
		 `

	vault := &models.Vault{}
	err := r.db.QueryRowContext(ctx, query, prefix).Scan(&vault.Prefix, &vault.HashedPasscode, &vault.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return vault, nil
}
