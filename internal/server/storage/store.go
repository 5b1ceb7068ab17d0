// Package storage wraps the S3-compatible object store behind a small
// bucket-bound interface.
package storage

import (
	"context"
	"io"
	"strings"
	"time"
)

// DeleteBatchSize is the most keys one DeleteObjects request accepts.
const DeleteBatchSize = 1000

// ObjectInfo describes a stored object without its body.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Meta looks up a user metadata value ignoring case. S3 gateways
// lowercase metadata names on the way back, so "originalName" may come
// back as "originalname".
func (o *ObjectInfo) Meta(name string) string {
	if v, ok := o.Metadata[name]; ok {
		return v
	}
	for k, v := range o.Metadata {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Object is an open object body. Callers must Close Body.
type Object struct {
	ObjectInfo
	// ContentLength is the number of bytes in Body, which differs from Size
	// for ranged reads.
	ContentLength int64
	Body          io.ReadCloser
}

// ByteRange is an inclusive byte interval.
type ByteRange struct {
	Start int64
	End   int64
}

// Len returns the number of bytes covered by r.
func (r ByteRange) Len() int64 { return r.End - r.Start + 1 }

// PutInput carries everything needed to write one object.
type PutInput struct {
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ListResult is a fully paginated listing.
type ListResult struct {
	Objects        []ObjectInfo
	CommonPrefixes []string
}

// ObjectStore is a single bucket of an S3-compatible store.
//
// Missing objects or buckets surface as common.ErrorNotFound and
// unsatisfiable ranges as common.ErrorRangeNotSatisfiable.
type ObjectStore interface {
	Bucket() string
	Head(ctx context.Context, key string) (*ObjectInfo, error)
	// Get opens key, or only rng of it when rng is non-nil.
	Get(ctx context.Context, key string, rng *ByteRange) (*Object, error)
	Put(ctx context.Context, in PutInput) error
	Copy(ctx context.Context, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error
	// DeleteBatch removes up to DeleteBatchSize keys and returns the keys
	// the store refused to delete.
	DeleteBatch(ctx context.Context, keys []string) ([]string, error)
	// List returns every object under prefix, following all pages. With a
	// non-empty delimiter deeper keys are folded into CommonPrefixes.
	List(ctx context.Context, prefix, delimiter string) (*ListResult, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// CheckBucket reports whether the bucket is reachable.
	CheckBucket(ctx context.Context) error
	// EnsureBucket creates the bucket when it does not exist.
	EnsureBucket(ctx context.Context) (created bool, err error)
}
