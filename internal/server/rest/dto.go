package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/server/keyspace"
)

// VaultNumber accepts a JSON string or number.
type VaultNumber string

func (v *VaultNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = VaultNumber(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("vaultNumber: %w", err)
		}
		*v = VaultNumber(n.String())
		return nil
	}
}

type credentialsRequest struct {
	VaultNumber VaultNumber `json:"vaultNumber"`
	Passcode    string      `json:"passcode"`
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type checkAuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	VaultPrefix   string `json:"vaultPrefix"`
}

type itemResponse struct {
	Path         string     `json:"path"`
	Name         string     `json:"name"`
	OriginalName string     `json:"originalName,omitempty"`
	Size         int64      `json:"size"`
	Created      *time.Time `json:"created"`
	Modified     *time.Time `json:"modified"`
	*keyspace.Flags
	IsFolder    bool    `json:"isFolder"`
	DownloadURL string  `json:"downloadUrl,omitempty"`
	StreamURL   *string `json:"streamUrl,omitempty"`
}

type listResponse struct {
	Items       []itemResponse `json:"items"`
	CurrentPath string         `json:"currentPath"`
	ParentPath  *string        `json:"parentPath"`
}

type uploadedFile struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	Mimetype     string    `json:"mimetype"`
	UploadDate   time.Time `json:"uploadDate"`
	IsFolder     bool      `json:"isFolder"`
	ParentPath   string    `json:"parentPath"`
	DownloadURL  string    `json:"downloadUrl"`
	StreamURL    *string   `json:"streamUrl"`
	CanCompress  bool      `json:"canCompress"`
}

type uploadResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	File    uploadedFile `json:"file"`
}

type presignResponse struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expiresIn"`
}

type propertiesResponse struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType"`
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"lastModified"`
	keyspace.Flags
	CanCompress bool              `json:"canCompress"`
	DownloadURL string            `json:"downloadUrl"`
	StreamURL   *string           `json:"streamUrl"`
	Metadata    map[string]string `json:"metadata"`
}

type previewResponse struct {
	Type        string  `json:"type"`
	URL         string  `json:"url,omitempty"`
	Content     *string `json:"content,omitempty"`
	ContentType string  `json:"contentType,omitempty"`
	Message     string  `json:"message,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
}

type renameRequest struct {
	NewName  string `json:"newName"`
	IsFolder bool   `json:"isFolder"`
}

type moveRequest struct {
	Destination string `json:"destination"`
	IsFolder    bool   `json:"isFolder"`
}

type moveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OldPath string `json:"oldPath"`
	NewPath string `json:"newPath"`
	NewName string `json:"newName"`
}

type folderRequest struct {
	Path string `json:"path"`
}

type folderInfo struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	IsFolder bool      `json:"isFolder"`
	Created  time.Time `json:"created"`
}

type folderResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Folder  folderInfo `json:"folder"`
}

type canCompressResponse struct {
	Path                 string           `json:"path"`
	Name                 string           `json:"name"`
	OriginalName         string           `json:"originalName"`
	CanCompress          bool             `json:"canCompress"`
	FileType             string           `json:"fileType"`
	Size                 int64            `json:"size"`
	SizeFormatted        string           `json:"sizeFormatted"`
	SupportedPercentages []int            `json:"supportedPercentages"`
	SupportedFormats     []string         `json:"supportedFormats"`
	EstimatedSavings     map[string]int64 `json:"estimatedSavings"`
}

type compressRequest struct {
	Percentage *int   `json:"percentage"`
	Format     string `json:"format"`
}

type compressResponse struct {
	Success          bool   `json:"success"`
	OriginalSize     int64  `json:"originalSize"`
	CompressedSize   int64  `json:"compressedSize"`
	CompressionRatio string `json:"compressionRatio"`
	TargetPercentage string `json:"targetPercentage"`
	DownloadURL      string `json:"downloadUrl"`
	Type             string `json:"type"`
	Format           string `json:"format"`
	CanCompress      bool   `json:"canCompress"`
	Message          string `json:"message"`
}

type healthResponse struct {
	Status           string    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
	Storage          string    `json:"storage"`
	Bucket           string    `json:"bucket"`
	CompressedBucket string    `json:"compressedBucket"`
	StorjConnection  string    `json:"storjConnection"`
	Error            string    `json:"error,omitempty"`
}

type signalRequest struct {
	Kind    string          `json:"kind"`
	From    string          `json:"from"`
	Payload json.RawMessage `json:"payload"`
}

type signalSessionResponse struct {
	Session string `json:"session"`
}
