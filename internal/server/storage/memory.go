package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/common"
)

type memObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
	modified    time.Time
}

// MemoryStore is an in-process ObjectStore used by tests and local runs
// without an S3 endpoint.
type MemoryStore struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]memObject
	faults  map[string]error
	exists  bool
	now     func() time.Time
}

var _ ObjectStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty, existing bucket.
func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{
		bucket:  bucket,
		objects: make(map[string]memObject),
		faults:  make(map[string]error),
		exists:  true,
		now:     time.Now,
	}
}

// InjectFault makes op ("put", "copy", "delete", "get", "head", "list")
// fail with err for key. An empty key matches every key.
func (m *MemoryStore) InjectFault(op, key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[op+":"+key] = err
}

// Keys returns every stored key in order.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DropBucket makes the bucket disappear until EnsureBucket recreates it.
func (m *MemoryStore) DropBucket() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exists = false
	m.objects = make(map[string]memObject)
}

func (m *MemoryStore) fault(op, key string) error {
	if err, ok := m.faults[op+":"+key]; ok {
		return err
	}
	if err, ok := m.faults[op+":"]; ok {
		return err
	}
	if !m.exists {
		return fmt.Errorf("%w: bucket %s", common.ErrorNotFound, m.bucket)
	}
	return nil
}

func (m *MemoryStore) Bucket() string { return m.bucket }

func (m *MemoryStore) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fault("head", key); err != nil {
		return nil, err
	}
	o, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrorNotFound, key)
	}
	return m.info(key, o), nil
}

func (m *MemoryStore) info(key string, o memObject) *ObjectInfo {
	return &ObjectInfo{
		Key:          key,
		Size:         int64(len(o.data)),
		ContentType:  o.contentType,
		LastModified: o.modified,
		Metadata:     maps.Clone(o.metadata),
	}
}

func (m *MemoryStore) Get(ctx context.Context, key string, rng *ByteRange) (*Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fault("get", key); err != nil {
		return nil, err
	}
	o, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrorNotFound, key)
	}

	data := o.data
	if rng != nil {
		size := int64(len(o.data))
		if rng.Start < 0 || rng.Start >= size || rng.End < rng.Start {
			return nil, fmt.Errorf("%w: %s", common.ErrorRangeNotSatisfiable, key)
		}
		end := min(rng.End, size-1)
		data = o.data[rng.Start : end+1]
	}

	return &Object{
		ObjectInfo:    *m.info(key, o),
		ContentLength: int64(len(data)),
		Body:          io.NopCloser(bytes.NewReader(data)),
	}, nil
}

func (m *MemoryStore) Put(ctx context.Context, in PutInput) error {
	var data []byte
	if in.Body != nil {
		b, err := io.ReadAll(in.Body)
		if err != nil {
			return err
		}
		data = b
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault("put", in.Key); err != nil {
		return err
	}
	m.objects[in.Key] = memObject{
		data:        data,
		contentType: in.ContentType,
		metadata:    maps.Clone(in.Metadata),
		modified:    m.now(),
	}
	return nil
}

func (m *MemoryStore) Copy(ctx context.Context, srcKey, dstKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault("copy", srcKey); err != nil {
		return err
	}
	o, ok := m.objects[srcKey]
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrorNotFound, srcKey)
	}
	o.modified = m.now()
	o.metadata = maps.Clone(o.metadata)
	m.objects[dstKey] = o
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault("delete", key); err != nil {
		return err
	}
	// S3 deletes are idempotent
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) DeleteBatch(ctx context.Context, keys []string) ([]string, error) {
	if len(keys) > DeleteBatchSize {
		return nil, fmt.Errorf("%w: %d keys in one delete batch", common.ErrorValidation, len(keys))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.faults["delete:"]; ok {
		return keys, err
	}
	var failed []string
	for _, k := range keys {
		if _, ok := m.faults["delete:"+k]; ok {
			failed = append(failed, k)
			continue
		}
		delete(m.objects, k)
	}
	return failed, nil
}

func (m *MemoryStore) List(ctx context.Context, prefix, delimiter string) (*ListResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fault("list", prefix); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	res := &ListResult{}
	seen := make(map[string]struct{})
	for _, k := range keys {
		if delimiter != "" {
			rest := k[len(prefix):]
			if i := strings.Index(rest, delimiter); i >= 0 {
				cp := prefix + rest[:i+len(delimiter)]
				if _, ok := seen[cp]; !ok {
					seen[cp] = struct{}{}
					res.CommonPrefixes = append(res.CommonPrefixes, cp)
				}
				continue
			}
		}
		res.Objects = append(res.Objects, *m.info(k, m.objects[k]))
	}
	return res, nil
}

func (m *MemoryStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("memory://%s/%s?expires=%d", m.bucket, key, int64(expiry.Seconds())), nil
}

func (m *MemoryStore) CheckBucket(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.faults["bucket:"]; ok {
		return err
	}
	if !m.exists {
		return fmt.Errorf("%w: bucket %s", common.ErrorNotFound, m.bucket)
	}
	return nil
}

func (m *MemoryStore) EnsureBucket(ctx context.Context) (bool, error) {
	if err := m.CheckBucket(ctx); err == nil {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.faults["bucket:"]; ok {
		return false, err
	}
	m.exists = true
	return true, nil
}
