package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/dmitrijs2005/storjvault/internal/logging"
	"github.com/dmitrijs2005/storjvault/internal/server/auth"
	"github.com/dmitrijs2005/storjvault/internal/server/keyspace"
	"github.com/dmitrijs2005/storjvault/internal/server/models"
	"github.com/dmitrijs2005/storjvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storjvault/internal/server/repositories/vaults"
	"github.com/dmitrijs2005/storjvault/internal/server/storage"
)

// Session is the result of a successful register or login.
type Session struct {
	VaultPrefix string
	Token       string
}

type VaultService struct {
	repomanager   repomanager.RepositoryManager
	store         storage.ObjectStore
	jwtSecret     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

func NewVaultService(m repomanager.RepositoryManager, store storage.ObjectStore, secret string, tokenValidity time.Duration, logger logging.Logger) *VaultService {
	return &VaultService{
		repomanager:   m,
		store:         store,
		jwtSecret:     []byte(secret),
		tokenValidity: tokenValidity,
		logger:        logger.With("module", "vaults"),
	}
}

func requireCredentials(vaultID, passcode string) error {
	if strings.TrimSpace(vaultID) == "" || passcode == "" {
		return common.Errorf(common.ErrorValidation, "Vault number and passcode are required.")
	}
	return nil
}

// Register creates the vault record and its root folder marker in one
// step: if the marker cannot be written the record is rolled back.
func (s *VaultService) Register(ctx context.Context, vaultID, passcode string) (*Session, error) {
	if err := requireCredentials(vaultID, passcode); err != nil {
		return nil, err
	}
	prefix, err := keyspace.VaultPrefix(vaultID)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPasscode(passcode)
	if err != nil {
		return nil, fmt.Errorf("hash passcode: %w", err)
	}

	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, repo vaults.Repository) error {
		if _, err := repo.Create(ctx, &models.Vault{Prefix: prefix, HashedPasscode: hash}); err != nil {
			return err
		}
		return s.ensureRootFolder(ctx, prefix)
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.Errorf(common.ErrorConflict, "Vault number already exists. Please choose another or log in.")
		}
		return nil, fmt.Errorf("register vault: %w", err)
	}

	s.logger.Info(ctx, "vault registered", "vault", prefix)
	return s.issue(prefix)
}

func (s *VaultService) Login(ctx context.Context, vaultID, passcode string) (*Session, error) {
	if err := requireCredentials(vaultID, passcode); err != nil {
		return nil, err
	}
	prefix, err := keyspace.VaultPrefix(vaultID)
	if err != nil {
		return nil, common.Errorf(common.ErrorUnauthorized, "Vault not found.")
	}

	vault, err := s.repomanager.Vaults().GetByPrefix(ctx, prefix)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Errorf(common.ErrorUnauthorized, "Vault not found.")
		}
		return nil, fmt.Errorf("load vault: %w", err)
	}

	if err := auth.ComparePasscode(vault.HashedPasscode, passcode); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Warn(ctx, "login with wrong passcode", "vault", prefix)
			return nil, common.Errorf(common.ErrorUnauthorized, "Invalid passcode.")
		}
		return nil, fmt.Errorf("compare passcode: %w", err)
	}

	return s.issue(prefix)
}

// Verify returns the vault prefix bound to token.
func (s *VaultService) Verify(token string) (string, error) {
	return auth.GetVaultPrefixFromToken(token, s.jwtSecret)
}

func (s *VaultService) issue(prefix string) (*Session, error) {
	token, err := auth.GenerateToken(prefix, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{VaultPrefix: prefix, Token: token}, nil
}

func (s *VaultService) ensureRootFolder(ctx context.Context, prefix string) error {
	key := keyspace.RootKey(prefix)
	_, err := s.store.Head(ctx, key)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return s.store.Put(ctx, storage.PutInput{
		Key:         key,
		Body:        strings.NewReader(""),
		Size:        0,
		ContentType: keyspace.FolderContentType,
		Metadata:    folderMetadata(prefix),
	})
}

func folderMetadata(prefix string) map[string]string {
	return map[string]string{
		"isFolder":    "true",
		"vault":       prefix,
		"createdDate": time.Now().UTC().Format(time.RFC3339),
	}
}
