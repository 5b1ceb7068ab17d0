// Package models defines server-side data models persisted by the vault store.
package models

import "time"

// Vault is a tenant: every object key under Prefix + "/" belongs to it.
type Vault struct {
	// Prefix is "vault_" followed by the vault number.
	Prefix string
	// HashedPasscode is the bcrypt hash of the vault passcode.
	HashedPasscode string
	// CreatedAt is zero for vaults imported from registries that did not record it.
	CreatedAt time.Time
}
