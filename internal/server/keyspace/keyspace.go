// Package keyspace maps vaults and logical folder paths onto flat object keys.
//
// A vault owns every key under "vault_{id}/". Folders are zero-byte marker
// objects whose key ends in "/".
package keyspace

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/storjvault/internal/common"
)

const (
	// VaultKeyPrefix starts every vault prefix.
	VaultKeyPrefix = "vault_"
	// FolderContentType marks folder marker objects.
	FolderContentType = "application/x-directory"

	maxVaultIDLen = 64
)

var vaultIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// VaultPrefix derives the key prefix for a vault id.
func VaultPrefix(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", common.Errorf(common.ErrorValidation, "Vault number is required")
	}
	if len(id) > maxVaultIDLen || !vaultIDPattern.MatchString(id) {
		return "", common.Errorf(common.ErrorValidation, "Vault number may contain only letters, digits, '_' and '-'")
	}
	return VaultKeyPrefix + id, nil
}

// NormalizePath trims leading and trailing slashes and collapses repeated ones.
func NormalizePath(p string) string {
	parts := strings.Split(p, "/")
	kept := parts[:0]
	for _, s := range parts {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "/")
}

// ValidateRelativePath rejects parent references and control characters
// in a vault-relative path.
func ValidateRelativePath(p string) error {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." || seg == "." {
			return common.Errorf(common.ErrorValidation, "Path may not contain %q", seg)
		}
	}
	if strings.IndexFunc(p, unicode.IsControl) >= 0 {
		return common.Errorf(common.ErrorValidation, "Path contains control characters")
	}
	return nil
}

// ValidateName checks a single path segment such as a rename target.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return common.Errorf(common.ErrorValidation, "New name is required")
	}
	if strings.ContainsAny(name, `/\`) {
		return common.Errorf(common.ErrorValidation, "Name may not contain '/' or '\\'")
	}
	if name == "." || name == ".." {
		return common.Errorf(common.ErrorValidation, "Name may not be %q", name)
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return common.Errorf(common.ErrorValidation, "Name contains control characters")
	}
	return nil
}

// Authorize fails with common.ErrorForbidden unless key lies inside the vault.
func Authorize(vaultPrefix, key string) error {
	if vaultPrefix == "" || !strings.HasPrefix(key, vaultPrefix+"/") {
		return common.Errorf(common.ErrorForbidden, "Access denied. Not in your vault.")
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return common.Errorf(common.ErrorForbidden, "Access denied. Path traversal is not allowed.")
		}
	}
	return nil
}

// RootKey is the marker key of the vault itself.
func RootKey(vaultPrefix string) string {
	return vaultPrefix + "/"
}

// FolderKey returns the marker key for a vault-relative folder path.
func FolderKey(vaultPrefix, rel string) string {
	rel = NormalizePath(rel)
	if rel == "" {
		return RootKey(vaultPrefix)
	}
	return vaultPrefix + "/" + rel + "/"
}

// FileKey joins a vault-relative folder and a file name.
func FileKey(vaultPrefix, folder, name string) string {
	return FolderKey(vaultPrefix, folder) + name
}

// IsFolderKey reports whether key addresses a folder marker.
func IsFolderKey(key string) bool {
	return strings.HasSuffix(key, "/")
}

// Base returns the last segment of key, ignoring a trailing slash.
func Base(key string) string {
	key = strings.TrimSuffix(key, "/")
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

// Dir returns key without its last segment and without a trailing slash.
func Dir(key string) string {
	key = strings.TrimSuffix(key, "/")
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[:i]
	}
	return ""
}

// Ext returns the lowercased extension of name including the dot.
func Ext(name string) string {
	return strings.ToLower(path.Ext(name))
}

// ParentPath returns the display path one level above current, or nil at the
// vault root.
func ParentPath(current string) *string {
	current = NormalizePath(current)
	if current == "" {
		return nil
	}
	parent := ""
	if i := strings.LastIndex(current, "/"); i >= 0 {
		parent = current[:i]
	}
	return &parent
}

// DownloadURL is the API path serving key as an attachment.
func DownloadURL(key string) string {
	return "/f/" + url.PathEscape(key)
}

// StreamURL is the range-capable API path for videos, nil for other files.
func StreamURL(key string) *string {
	if !IsVideo(Base(key)) {
		return nil
	}
	u := "/stream/" + url.PathEscape(key)
	return &u
}

// CompressedURL is the API path serving an artifact from the compressed bucket.
func CompressedURL(key string) string {
	return "/compressed/" + url.PathEscape(key)
}
