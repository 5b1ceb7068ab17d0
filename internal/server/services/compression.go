package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/dmitrijs2005/storjvault/internal/logging"
	"github.com/dmitrijs2005/storjvault/internal/server/compress"
	"github.com/dmitrijs2005/storjvault/internal/server/keyspace"
	"github.com/dmitrijs2005/storjvault/internal/server/storage"
	"github.com/dustin/go-humanize"
)

// SupportedPercentages are the reductions offered to clients.
var SupportedPercentages = []int{20, 30, 40, 50, 60, 70, 80}

// CompressionInfo tells a client whether and how a file can be compressed.
type CompressionInfo struct {
	Key                  string
	Name                 string
	OriginalName         string
	CanCompress          bool
	FileType             string
	Size                 int64
	SizeFormatted        string
	SupportedPercentages []int
	SupportedFormats     []string
	// EstimatedSavings maps "20%", "50%" and "80%" to an expected output
	// size. Nil when the file cannot be compressed.
	EstimatedSavings map[string]int64
}

// CompressionResult describes an artifact written to the compressed bucket.
type CompressionResult struct {
	Key            string
	OriginalSize   int64
	CompressedSize int64
	// Ratio is the saved share of the original size in percent.
	Ratio      float64
	Percentage int
	FileType   string
	Format     string
}

type CompressionService struct {
	store      storage.ObjectStore
	compressed storage.ObjectStore
	compressor *compress.Compressor
	logger     logging.Logger
	now        func() time.Time
}

func NewCompressionService(store, compressed storage.ObjectStore, compressor *compress.Compressor, logger logging.Logger) *CompressionService {
	return &CompressionService{
		store:      store,
		compressed: compressed,
		compressor: compressor,
		logger:     logger.With("module", "compression"),
		now:        time.Now,
	}
}

func (s *CompressionService) headSource(ctx context.Context, vault, key string) (*storage.ObjectInfo, error) {
	if err := keyspace.Authorize(vault, key); err != nil {
		return nil, err
	}
	if keyspace.IsFolderKey(key) {
		return nil, common.Errorf(common.ErrorValidation, "Folders cannot be compressed.")
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

// CanCompress inspects key without reading its body.
func (s *CompressionService) CanCompress(ctx context.Context, vault, key string) (*CompressionInfo, error) {
	info, err := s.headSource(ctx, vault, key)
	if err != nil {
		return nil, err
	}

	name := keyspace.Base(key)
	original := info.Meta("originalName")
	if original == "" {
		original = name
	}
	can := keyspace.CanCompress(name)
	if keyspace.IsVideo(name) && !s.compressor.VideoEnabled() {
		can = false
	}

	ci := &CompressionInfo{
		Key:                  key,
		Name:                 name,
		OriginalName:         original,
		CanCompress:          can,
		FileType:             compress.FileType(name),
		Size:                 info.Size,
		SizeFormatted:        humanize.Bytes(uint64(info.Size)),
		SupportedPercentages: []int{},
		SupportedFormats:     []string{},
	}
	if can {
		ci.SupportedPercentages = SupportedPercentages
		ci.SupportedFormats = compress.SupportedFormats(name)
		ci.EstimatedSavings = map[string]int64{
			"20%": estimate(info.Size, 0.6),
			"50%": estimate(info.Size, 0.3),
			"80%": estimate(info.Size, 0.1),
		}
	}
	return ci, nil
}

func estimate(size int64, factor float64) int64 {
	return int64(float64(size)*factor + 0.5)
}

// Compress writes a compressed copy of key to the compressed bucket under
// the same folder. The source is left untouched.
func (s *CompressionService) Compress(ctx context.Context, vault, key string, percentage int, format string) (*CompressionResult, error) {
	if err := keyspace.Authorize(vault, key); err != nil {
		return nil, err
	}
	if keyspace.IsFolderKey(key) {
		return nil, common.Errorf(common.ErrorValidation, "Folders cannot be compressed.")
	}
	name := keyspace.Base(key)
	opts, err := compress.Validate(name, compress.Options{Percentage: percentage, Format: format})
	if err != nil {
		return nil, err
	}

	info, err := s.headSource(ctx, vault, key)
	if err != nil {
		return nil, err
	}
	if keyspace.IsImage(name) && info.Size > compress.MaxImageBytes {
		return nil, common.Errorf(common.ErrorTooLarge, "Images above %s cannot be compressed", humanize.IBytes(compress.MaxImageBytes))
	}

	src, err := s.store.Get(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer src.Body.Close()

	start := s.now()
	res, err := s.compressor.Compress(ctx, name, src.Body, opts)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	outKey := artifactKey(key, opts.Percentage, start, res.Ext)
	err = s.compressed.Put(ctx, storage.PutInput{
		Key:         outKey,
		Body:        res.Body,
		Size:        res.Size,
		ContentType: res.ContentType,
		Metadata: map[string]string{
			"originalPath":          key,
			"compressionPercentage": strconv.Itoa(opts.Percentage),
			"compressionFormat":     opts.Format,
			"compressionDate":       start.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("put %s: %w", outKey, err)
	}

	out := &CompressionResult{
		Key:            outKey,
		OriginalSize:   info.Size,
		CompressedSize: res.Size,
		Percentage:     opts.Percentage,
		FileType:       compress.FileType(name),
		Format:         res.Format,
	}
	if info.Size > 0 {
		out.Ratio = float64(info.Size-res.Size) / float64(info.Size) * 100
	}

	s.logger.Info(ctx, "file compressed",
		"key", key, "artifact", outKey,
		"original_size", info.Size, "compressed_size", res.Size,
		"duration", s.now().Sub(start))
	return out, nil
}

// artifactKey names an artifact next to its source:
// dir/compressed_{pct}pct_{unixMillis}_{name} with the extension of the
// output format.
func artifactKey(key string, pct int, at time.Time, ext string) string {
	name := keyspace.Base(key)
	if ext != "" {
		name = strings.TrimSuffix(name, path.Ext(name)) + ext
	}
	return fmt.Sprintf("%s/compressed_%dpct_%d_%s", keyspace.Dir(key), pct, at.UnixMilli(), name)
}

// Download opens an artifact from the compressed bucket.
func (s *CompressionService) Download(ctx context.Context, vault, key string) (*Download, error) {
	if err := keyspace.Authorize(vault, key); err != nil {
		return nil, err
	}
	if keyspace.IsFolderKey(key) {
		return nil, common.Errorf(common.ErrorValidation, "Folders cannot be downloaded")
	}
	obj, err := s.compressed.Get(ctx, key, nil)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Errorf(common.ErrorNotFound, "File not found")
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	name := keyspace.Base(key)
	ct := obj.ContentType
	if ct == "" {
		ct = keyspace.MimeType(name)
	}
	return &Download{Object: obj, FileName: name, ContentType: ct, Size: obj.Size}, nil
}
