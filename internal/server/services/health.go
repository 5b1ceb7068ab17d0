package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/logging"
	"github.com/dmitrijs2005/storjvault/internal/server/storage"
)

// HealthReport is the outcome of a bucket probe.
type HealthReport struct {
	OK               bool
	Timestamp        time.Time
	Bucket           string
	CompressedBucket string
	Err              error
}

type HealthService struct {
	store      storage.ObjectStore
	compressed storage.ObjectStore
	logger     logging.Logger
}

func NewHealthService(store, compressed storage.ObjectStore, logger logging.Logger) *HealthService {
	return &HealthService{store: store, compressed: compressed, logger: logger.With("module", "health")}
}

// Check probes both buckets. It never fails; problems are reported in the
// returned report.
func (s *HealthService) Check(ctx context.Context) *HealthReport {
	r := &HealthReport{
		Timestamp:        time.Now().UTC(),
		Bucket:           s.store.Bucket(),
		CompressedBucket: s.compressed.Bucket(),
	}
	r.Err = errors.Join(s.store.CheckBucket(ctx), s.compressed.CheckBucket(ctx))
	r.OK = r.Err == nil
	if !r.OK {
		s.logger.Warn(ctx, "storage health check failed", "error", r.Err)
	}
	return r
}
