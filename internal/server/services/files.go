package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/dmitrijs2005/storjvault/internal/logging"
	"github.com/dmitrijs2005/storjvault/internal/server/keyspace"
	"github.com/dmitrijs2005/storjvault/internal/server/storage"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

// PreviewSnippetBytes bounds how much of a text file a preview returns.
const PreviewSnippetBytes = 5 * 1024

// Item is one entry of a folder listing.
type Item struct {
	Key          string
	Name         string
	OriginalName string
	IsFolder     bool
	Size         int64
	Modified     time.Time
	Flags        keyspace.Flags
}

// Listing is the content of one folder.
type Listing struct {
	Items       []Item
	CurrentPath string
	ParentPath  *string
}

// UploadInput is one uploaded file. Body is rewound after content sniffing
// when it implements io.Seeker.
type UploadInput struct {
	Folder      string
	FileName    string
	Body        io.Reader
	Size        int64
	ContentType string
}

// UploadedFile describes a stored upload.
type UploadedFile struct {
	Key         string
	Name        string
	Size        int64
	ContentType string
	UploadedAt  time.Time
	ParentPath  string
}

// Properties is the metadata of a single object.
type Properties struct {
	Key          string
	Name         string
	OriginalName string
	Size         int64
	ContentType  string
	LastModified time.Time
	Flags        keyspace.Flags
	Metadata     map[string]string
}

// Download is an open object ready to be copied to a client.
type Download struct {
	Object      *storage.Object
	FileName    string
	ContentType string
	Size        int64
	// Range is set for partial responses.
	Range *storage.ByteRange
}

// Preview tells a client how to render a file.
type Preview struct {
	Kind        keyspace.PreviewKind
	URL         string
	Content     string
	ContentType string
	Message     string
}

// DeleteResult reports a completed delete.
type DeleteResult struct {
	Key      string
	Name     string
	IsFolder bool
	Deleted  int
}

// MoveResult reports a completed rename or move.
type MoveResult struct {
	OldKey  string
	NewKey  string
	NewName string
	Moved   int
}

// RangeError is returned for Range headers that cannot be served. Size is
// the full object size for the Content-Range header of the 416 response.
type RangeError struct {
	Size int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range not satisfiable for object of %d bytes", e.Size)
}

func (e *RangeError) Unwrap() error { return common.ErrorRangeNotSatisfiable }

// BatchError reports keys a multi-object operation could not process.
// Keys not listed were processed; nothing is rolled back.
type BatchError struct {
	Op     string
	Failed []string
	Err    error
}

func (e *BatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %d keys failed: %v", e.Op, len(e.Failed), e.Err)
	}
	return fmt.Sprintf("%s: %d keys failed", e.Op, len(e.Failed))
}

func (e *BatchError) Unwrap() error { return e.Err }

type FileService struct {
	store         storage.ObjectStore
	concurrency   int
	maxUpload     int64
	presignExpiry time.Duration
	logger        logging.Logger
	now           func() time.Time
}

// FileServiceOptions tunes a FileService. Zero values pick defaults.
type FileServiceOptions struct {
	Concurrency   int
	MaxUploadSize int64
	PresignExpiry time.Duration
}

func NewFileService(store storage.ObjectStore, opts FileServiceOptions, logger logging.Logger) *FileService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.PresignExpiry <= 0 {
		opts.PresignExpiry = 15 * time.Minute
	}
	return &FileService{
		store:         store,
		concurrency:   opts.Concurrency,
		maxUpload:     opts.MaxUploadSize,
		presignExpiry: opts.PresignExpiry,
		logger:        logger.With("module", "files"),
		now:           time.Now,
	}
}

// List returns the direct children of folder, following every result page.
func (s *FileService) List(ctx context.Context, vault, folder string) (*Listing, error) {
	folder = keyspace.NormalizePath(folder)
	if err := keyspace.ValidateRelativePath(folder); err != nil {
		return nil, err
	}

	prefix := keyspace.FolderKey(vault, folder)
	res, err := s.store.List(ctx, prefix, "/")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	items := make([]Item, 0, len(res.CommonPrefixes)+len(res.Objects))
	for _, cp := range res.CommonPrefixes {
		name := keyspace.Base(cp)
		if name == "" {
			continue
		}
		items = append(items, Item{
			Key:      strings.TrimSuffix(cp, "/"),
			Name:     name,
			IsFolder: true,
		})
	}
	for _, o := range res.Objects {
		if keyspace.IsFolderKey(o.Key) {
			continue
		}
		name := keyspace.Base(o.Key)
		original := o.Meta("originalName")
		if original == "" {
			original = name
		}
		items = append(items, Item{
			Key:          o.Key,
			Name:         name,
			OriginalName: original,
			Size:         o.Size,
			Modified:     o.LastModified,
			Flags:        keyspace.FlagsFor(name),
		})
	}

	return &Listing{
		Items:       items,
		CurrentPath: folder,
		ParentPath:  keyspace.ParentPath(folder),
	}, nil
}

// CreateFolder writes the marker for a vault-relative folder path.
func (s *FileService) CreateFolder(ctx context.Context, vault, path string) (*Item, error) {
	rel := keyspace.NormalizePath(path)
	if rel == "" {
		return nil, common.Errorf(common.ErrorValidation, "Invalid folder path")
	}
	if err := keyspace.ValidateRelativePath(rel); err != nil {
		return nil, err
	}

	key := keyspace.FolderKey(vault, rel)
	_, err := s.store.Head(ctx, key)
	if err == nil {
		return nil, common.Errorf(common.ErrorConflict, "Folder with this name already exists at this path.")
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("check folder %s: %w", key, err)
	}

	if err := s.putFolderMarker(ctx, vault, key); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "folder created", "key", key)
	return &Item{Key: key, Name: keyspace.Base(rel), IsFolder: true, Modified: s.now().UTC()}, nil
}

func (s *FileService) putFolderMarker(ctx context.Context, vault, key string) error {
	err := s.store.Put(ctx, storage.PutInput{
		Key:         key,
		Body:        strings.NewReader(""),
		Size:        0,
		ContentType: keyspace.FolderContentType,
		Metadata:    folderMetadata(vault),
	})
	if err != nil {
		return fmt.Errorf("write folder marker %s: %w", key, err)
	}
	return nil
}

// Upload stores in under its original name, replacing any object with the
// same key.
func (s *FileService) Upload(ctx context.Context, vault string, in UploadInput) (*UploadedFile, error) {
	name := uploadName(in.FileName)
	if name == "" {
		return nil, common.Errorf(common.ErrorValidation, "No file uploaded")
	}
	if err := keyspace.ValidateName(name); err != nil {
		return nil, err
	}
	folder := keyspace.NormalizePath(in.Folder)
	if err := keyspace.ValidateRelativePath(folder); err != nil {
		return nil, err
	}
	if s.maxUpload > 0 && in.Size > s.maxUpload {
		return nil, common.Errorf(common.ErrorTooLarge, "File exceeds the %d byte upload limit", s.maxUpload)
	}

	contentType, err := detectContentType(name, in.ContentType, in.Body)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}

	key := keyspace.FileKey(vault, folder, name)
	folderPath := ""
	if folder != "" {
		folderPath = folder + "/"
	}
	uploadedAt := s.now().UTC()

	err = s.store.Put(ctx, storage.PutInput{
		Key:         key,
		Body:        in.Body,
		Size:        in.Size,
		ContentType: contentType,
		Metadata: map[string]string{
			"originalName": name,
			"uploadDate":   uploadedAt.Format(time.RFC3339),
			"mimetype":     contentType,
			"folderPath":   folderPath,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("put %s: %w", key, err)
	}

	s.logger.Info(ctx, "file uploaded", "key", key, "size", in.Size, "content_type", contentType)
	return &UploadedFile{
		Key:         key,
		Name:        name,
		Size:        in.Size,
		ContentType: contentType,
		UploadedAt:  uploadedAt,
		ParentPath:  folder,
	}, nil
}

// uploadName drops any client-side directory from a multipart file name.
func uploadName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// detectContentType prefers the declared type, then the extension table,
// then content sniffing.
func detectContentType(name, declared string, body io.Reader) (string, error) {
	if declared != "" && declared != keyspace.DefaultContentType {
		return declared, nil
	}
	if t := keyspace.MimeType(name); t != keyspace.DefaultContentType {
		return t, nil
	}
	rs, ok := body.(io.ReadSeeker)
	if !ok {
		return keyspace.DefaultContentType, nil
	}
	mt, err := mimetype.DetectReader(rs)
	if err != nil {
		return "", err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mt.String(), nil
}

func (s *FileService) headFile(ctx context.Context, vault, key string) (*storage.ObjectInfo, error) {
	if err := keyspace.Authorize(vault, key); err != nil {
		return nil, err
	}
	if keyspace.IsFolderKey(key) {
		return nil, common.Errorf(common.ErrorValidation, "Folders cannot be downloaded")
	}
	info, err := s.store.Head(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Errorf(common.ErrorNotFound, "File not found")
		}
		return nil, fmt.Errorf("head %s: %w", key, err)
	}
	return info, nil
}

func contentTypeOf(info *storage.ObjectInfo, name string) string {
	if info.ContentType != "" {
		return info.ContentType
	}
	return keyspace.MimeType(name)
}

// Download opens key for an attachment response.
func (s *FileService) Download(ctx context.Context, vault, key string) (*Download, error) {
	info, err := s.headFile(ctx, vault, key)
	if err != nil {
		return nil, err
	}

	fileName := info.Meta("originalName")
	if fileName == "" {
		fileName = keyspace.Base(key)
	}

	obj, err := s.store.Get(ctx, key, nil)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Errorf(common.ErrorNotFound, "File not found")
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	return &Download{
		Object:      obj,
		FileName:    fileName,
		ContentType: contentTypeOf(info, fileName),
		Size:        info.Size,
	}, nil
}

// PresignDownload returns a time-limited direct URL to key on the store.
func (s *FileService) PresignDownload(ctx context.Context, vault, key string) (string, error) {
	if _, err := s.headFile(ctx, vault, key); err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, key, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u, nil
}

// Stream opens key, or the part of it selected by rangeHeader.
func (s *FileService) Stream(ctx context.Context, vault, key, rangeHeader string) (*Download, error) {
	info, err := s.headFile(ctx, vault, key)
	if err != nil {
		return nil, err
	}

	d := &Download{
		FileName:    keyspace.Base(key),
		ContentType: contentTypeOf(info, key),
		Size:        info.Size,
	}

	if rangeHeader != "" {
		rng, err := ParseRange(rangeHeader, info.Size)
		if err != nil {
			return nil, err
		}
		d.Range = &rng
	}

	obj, err := s.store.Get(ctx, key, d.Range)
	if err != nil {
		if errors.Is(err, common.ErrorRangeNotSatisfiable) {
			return nil, &RangeError{Size: info.Size}
		}
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Errorf(common.ErrorNotFound, "File not found")
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	d.Object = obj
	return d, nil
}

// ParseRange parses a single-range "bytes=" header against an object of
// size bytes. Supported forms are "start-end", "start-" and "-suffix". The
// end is clamped to the last byte.
func ParseRange(header string, size int64) (storage.ByteRange, error) {
	bad := &RangeError{Size: size}

	spec, ok := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !ok || strings.Contains(spec, ",") || size <= 0 {
		return storage.ByteRange{}, bad
	}
	startStr, endStr, ok := strings.Cut(strings.TrimSpace(spec), "-")
	if !ok {
		return storage.ByteRange{}, bad
	}

	if startStr == "" {
		n, err := parseOffset(endStr)
		if err != nil || n == 0 {
			return storage.ByteRange{}, bad
		}
		return storage.ByteRange{Start: max(0, size-n), End: size - 1}, nil
	}

	start, err := parseOffset(startStr)
	if err != nil || start >= size {
		return storage.ByteRange{}, bad
	}
	end := size - 1
	if endStr != "" {
		e, err := parseOffset(endStr)
		if err != nil || e < start {
			return storage.ByteRange{}, bad
		}
		end = min(e, size-1)
	}
	return storage.ByteRange{Start: start, End: end}, nil
}

func parseOffset(s string) (int64, error) {
	var n int64
	if s == "" {
		return 0, errors.New("empty offset")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid offset %q", s)
		}
		if n > (1<<62)/10 {
			return 0, fmt.Errorf("offset %q overflows", s)
		}
		n = n*10 + int64(c-'0')
	}
	return n, nil
}

// Properties returns the metadata of key.
func (s *FileService) Properties(ctx context.Context, vault, key string) (*Properties, error) {
	info, err := s.headFile(ctx, vault, key)
	if err != nil {
		return nil, err
	}
	name := keyspace.Base(key)
	original := info.Meta("originalName")
	if original == "" {
		original = name
	}
	return &Properties{
		Key:          key,
		Name:         name,
		OriginalName: original,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
		Flags:        keyspace.FlagsFor(name),
		Metadata:     info.Metadata,
	}, nil
}

// Preview classifies key and, for text files, returns a bounded snippet.
func (s *FileService) Preview(ctx context.Context, vault, key string) (*Preview, error) {
	info, err := s.headFile(ctx, vault, key)
	if err != nil {
		return nil, err
	}
	name := keyspace.Base(key)
	contentType := contentTypeOf(info, name)

	switch keyspace.PreviewKindOf(name) {
	case keyspace.PreviewURL:
		return &Preview{Kind: keyspace.PreviewURL, URL: keyspace.DownloadURL(key), ContentType: contentType}, nil

	case keyspace.PreviewText:
		p := &Preview{Kind: keyspace.PreviewText, ContentType: contentType}
		if info.Size == 0 {
			return p, nil
		}
		rng := storage.ByteRange{Start: 0, End: min(info.Size, PreviewSnippetBytes) - 1}
		obj, err := s.store.Get(ctx, key, &rng)
		if err != nil {
			return nil, fmt.Errorf("get preview of %s: %w", key, err)
		}
		defer obj.Body.Close()

		b, err := io.ReadAll(io.LimitReader(obj.Body, PreviewSnippetBytes))
		if err != nil {
			return nil, fmt.Errorf("read preview of %s: %w", key, err)
		}
		// the cut may split a multi-byte rune
		p.Content = strings.ToValidUTF8(string(b), "")
		if info.Size > PreviewSnippetBytes {
			p.Content += "..."
		}
		return p, nil

	default:
		return &Preview{Kind: keyspace.PreviewNone, ContentType: contentType, Message: "Preview not available for this file type."}, nil
	}
}

// Delete removes one file, or with a trailing slash every key under the
// folder prefix.
func (s *FileService) Delete(ctx context.Context, vault, key string) (*DeleteResult, error) {
	if err := keyspace.Authorize(vault, key); err != nil {
		return nil, err
	}
	if key == keyspace.RootKey(vault) {
		return nil, common.Errorf(common.ErrorForbidden, "Cannot delete your root vault folder directly.")
	}

	res := &DeleteResult{Key: key, Name: keyspace.Base(key), IsFolder: keyspace.IsFolderKey(key)}

	if res.IsFolder {
		keys, err := s.listKeys(ctx, key)
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, common.Errorf(common.ErrorNotFound, "File or folder not found")
		}
		if err := s.deleteKeys(ctx, keys); err != nil {
			return nil, err
		}
		res.Deleted = len(keys)
		s.logger.Info(ctx, "folder deleted", "key", key, "objects", len(keys))
		return res, nil
	}

	if _, err := s.store.Head(ctx, key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Errorf(common.ErrorNotFound, "File or folder not found")
		}
		return nil, fmt.Errorf("head %s: %w", key, err)
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("delete %s: %w", key, err)
	}
	res.Deleted = 1
	s.logger.Info(ctx, "file deleted", "key", key)
	return res, nil
}

func (s *FileService) listKeys(ctx context.Context, prefix string) ([]string, error) {
	res, err := s.store.List(ctx, prefix, "")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	keys := make([]string, 0, len(res.Objects))
	for _, o := range res.Objects {
		keys = append(keys, o.Key)
	}
	return keys, nil
}

// deleteKeys removes keys in DeleteBatchSize batches, running up to
// concurrency batches at once. Every batch is attempted even when an
// earlier one failed.
func (s *FileService) deleteKeys(ctx context.Context, keys []string) error {
	var (
		g        errgroup.Group
		mu       sync.Mutex
		failed   []string
		firstErr error
	)
	g.SetLimit(s.concurrency)

	for start := 0; start < len(keys); start += storage.DeleteBatchSize {
		batch := keys[start:min(start+storage.DeleteBatchSize, len(keys))]
		g.Go(func() error {
			f, err := s.store.DeleteBatch(ctx, batch)
			mu.Lock()
			defer mu.Unlock()
			failed = append(failed, f...)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 || firstErr != nil {
		sort.Strings(failed)
		s.logger.Error(ctx, "delete batch failed", "failed", len(failed), "error", firstErr)
		return &BatchError{Op: "delete", Failed: failed, Err: firstErr}
	}
	return nil
}

// Rename gives key a new last segment inside the same parent folder. A file
// keeps its extension when newName has none.
func (s *FileService) Rename(ctx context.Context, vault, key, newName string, isFolder bool) (*MoveResult, error) {
	if err := keyspace.Authorize(vault, key); err != nil {
		return nil, err
	}
	newName = strings.TrimSpace(newName)
	if err := keyspace.ValidateName(newName); err != nil {
		return nil, err
	}

	parent := keyspace.Dir(key)
	if isFolder {
		oldKey := strings.TrimSuffix(key, "/") + "/"
		newKey := parent + "/" + newName + "/"
		res, err := s.movePrefix(ctx, vault, oldKey, newKey)
		if err != nil {
			return nil, err
		}
		res.NewName = newName
		return res, nil
	}

	if keyspace.Ext(newName) == "" {
		newName += path.Ext(key)
	}
	newKey := parent + "/" + newName
	res, err := s.moveObject(ctx, key, newKey)
	if err != nil {
		return nil, err
	}
	res.NewName = newName
	return res, nil
}

// Move relocates key into the vault-relative destination folder.
func (s *FileService) Move(ctx context.Context, vault, key, destination string, isFolder bool) (*MoveResult, error) {
	if err := keyspace.Authorize(vault, key); err != nil {
		return nil, err
	}
	dest := keyspace.NormalizePath(destination)
	if err := keyspace.ValidateRelativePath(dest); err != nil {
		return nil, err
	}
	destFolder := keyspace.FolderKey(vault, dest)
	name := keyspace.Base(key)

	if isFolder || keyspace.IsFolderKey(key) {
		oldKey := strings.TrimSuffix(key, "/") + "/"
		newKey := destFolder + name + "/"
		if strings.HasPrefix(newKey, oldKey) {
			return nil, common.Errorf(common.ErrorValidation, "A folder cannot be moved into itself")
		}
		res, err := s.movePrefix(ctx, vault, oldKey, newKey)
		if err != nil {
			return nil, err
		}
		res.NewName = name
		return res, nil
	}

	res, err := s.moveObject(ctx, key, destFolder+name)
	if err != nil {
		return nil, err
	}
	res.NewName = name
	return res, nil
}

func (s *FileService) moveObject(ctx context.Context, oldKey, newKey string) (*MoveResult, error) {
	if oldKey == newKey {
		return &MoveResult{OldKey: oldKey, NewKey: newKey}, nil
	}
	if _, err := s.store.Head(ctx, oldKey); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Errorf(common.ErrorNotFound, "Item not found")
		}
		return nil, fmt.Errorf("head %s: %w", oldKey, err)
	}
	_, err := s.store.Head(ctx, newKey)
	if err == nil {
		return nil, common.Errorf(common.ErrorConflict, "An item named %q already exists here", keyspace.Base(newKey))
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("head %s: %w", newKey, err)
	}

	if err := s.store.Copy(ctx, oldKey, newKey); err != nil {
		return nil, fmt.Errorf("copy %s: %w", oldKey, err)
	}
	if err := s.store.Delete(ctx, oldKey); err != nil {
		return nil, &BatchError{Op: "move", Failed: []string{oldKey}, Err: err}
	}

	s.logger.Info(ctx, "file moved", "from", oldKey, "to", newKey)
	return &MoveResult{OldKey: oldKey, NewKey: newKey, Moved: 1}, nil
}

// movePrefix copies every key under oldPrefix to newPrefix with bounded
// concurrency, then deletes the originals whose copy succeeded.
func (s *FileService) movePrefix(ctx context.Context, vault, oldPrefix, newPrefix string) (*MoveResult, error) {
	if oldPrefix == keyspace.RootKey(vault) {
		return nil, common.Errorf(common.ErrorForbidden, "The vault root folder cannot be renamed or moved.")
	}
	if err := keyspace.Authorize(vault, newPrefix); err != nil {
		return nil, err
	}
	if oldPrefix == newPrefix {
		return &MoveResult{OldKey: oldPrefix, NewKey: newPrefix}, nil
	}

	existing, err := s.listKeys(ctx, newPrefix)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, common.Errorf(common.ErrorConflict, "A folder named %q already exists here", keyspace.Base(newPrefix))
	}

	keys, err := s.listKeys(ctx, oldPrefix)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, common.Errorf(common.ErrorNotFound, "Item not found")
	}

	var (
		g        errgroup.Group
		mu       sync.Mutex
		failed   []string
		firstErr error
	)
	g.SetLimit(s.concurrency)
	copied := make([]bool, len(keys))

	for i, k := range keys {
		g.Go(func() error {
			dst := newPrefix + strings.TrimPrefix(k, oldPrefix)
			if err := s.store.Copy(ctx, k, dst); err != nil {
				mu.Lock()
				defer mu.Unlock()
				failed = append(failed, k)
				if firstErr == nil {
					firstErr = err
				}
				return nil
			}
			copied[i] = true
			return nil
		})
	}
	_ = g.Wait()

	done := make([]string, 0, len(keys))
	for i, k := range keys {
		if copied[i] {
			done = append(done, k)
		}
	}

	delErr := s.deleteKeys(ctx, done)

	if len(failed) > 0 {
		sort.Strings(failed)
		s.logger.Error(ctx, "folder move incomplete", "from", oldPrefix, "to", newPrefix, "failed", len(failed), "error", firstErr)
		return nil, &BatchError{Op: "move", Failed: failed, Err: firstErr}
	}
	if delErr != nil {
		return nil, delErr
	}

	s.logger.Info(ctx, "folder moved", "from", oldPrefix, "to", newPrefix, "objects", len(keys))
	return &MoveResult{OldKey: oldPrefix, NewKey: newPrefix, Moved: len(keys)}, nil
}
