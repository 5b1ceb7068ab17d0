package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/dmitrijs2005/storjvault/internal/server/models"
	"github.com/dmitrijs2005/storjvault/internal/server/repositories/vaults"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func withOpenDB(t *testing.T, db *sql.DB, err error) {
	t.Helper()
	orig := openDB
	openDB = func(dsn string) (*sql.DB, error) { return db, err }
	t.Cleanup(func() { openDB = orig })
}

func TestNewPostgresRepositoryManager_Pings(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()
	withOpenDB(t, db, nil)

	mock.ExpectPing()

	m, err := NewPostgresRepositoryManager(context.Background(), "postgres://x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var _ RepositoryManager = m
	if v := m.Vaults(); v == nil {
		t.Fatal("Vaults() nil")
	}
	var _ vaults.Repository = m.Vaults()
}

func TestNewPostgresRepositoryManager_PingError(t *testing.T) {
	db, mock := newDB(t)
	withOpenDB(t, db, nil)

	mock.ExpectPing().WillReturnError(errors.New("refused"))

	if _, err := NewPostgresRepositoryManager(context.Background(), "postgres://x"); err == nil {
		t.Fatal("expected ping error")
	}
}

func TestNewPostgresRepositoryManager_OpenError(t *testing.T) {
	withOpenDB(t, nil, errors.New("bad dsn"))

	if _, err := NewPostgresRepositoryManager(context.Background(), "::"); err == nil {
		t.Fatal("expected open error")
	}
}

func TestWithinTx_CommitsAndRollsBack(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()
	m := &PostgresRepositoryManager{db: db}

	q := regexp.QuoteMeta("INSERT INTO vaults")

	mock.ExpectBegin()
	mock.ExpectQuery(q).WithArgs("vault_1", "h").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectRollback()

	boom := errors.New("marker failed")
	err := m.WithinTx(context.Background(), func(ctx context.Context, repo vaults.Repository) error {
		if _, err := repo.Create(ctx, &models.Vault{Prefix: "vault_1", HashedPasscode: "h"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery(q).WithArgs("vault_2", "h").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))
	mock.ExpectRollback()

	err = m.WithinTx(context.Background(), func(ctx context.Context, repo vaults.Repository) error {
		_, err := repo.Create(ctx, &models.Vault{Prefix: "vault_2", HashedPasscode: "h"})
		return err
	})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want conflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{db: db}
	if err := m.RunMigrations(context.Background()); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{db: db}
	if err := m.RunMigrations(context.Background()); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestFileRepositoryManager(t *testing.T) {
	ctx := context.Background()
	m, err := NewFileRepositoryManager(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if err := m.RunMigrations(ctx); err != nil {
		t.Fatal(err)
	}

	err = m.WithinTx(ctx, func(ctx context.Context, repo vaults.Repository) error {
		_, err := repo.Create(ctx, &models.Vault{Prefix: "vault_1", HashedPasscode: "h"})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Vaults().GetByPrefix(ctx, "vault_1"); err != nil {
		t.Fatalf("committed vault missing: %v", err)
	}
}
