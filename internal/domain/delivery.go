package domain

import (
	"context"
	"io"
	"time"
)

// FileDelivery hands a finished artifact to its destination and returns a
// location string (a path or an object URI).
type FileDelivery interface {
	Deliver(ctx context.Context, artifact ExportArtifact) (string, error)
}

// BlobWriter uploads data to object storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
	PutMultipart(ctx context.Context, path string, data io.Reader, contentType string, partSize int64) error
}

// CatalogCache keeps recently fetched categories and stats.
// Get methods return ErrCacheMiss when nothing is cached.
type CatalogCache interface {
	GetCategories(ctx context.Context) ([]Category, error)
	SetCategories(ctx context.Context, categories []Category, ttl time.Duration) error
	GetStats(ctx context.Context) (Stats, error)
	SetStats(ctx context.Context, stats Stats, ttl time.Duration) error
}

// ExportLog persists an append-only history of delivered exports.
type ExportLog interface {
	Record(ctx context.Context, rec ExportRecord) error
	ListRecent(ctx context.Context, limit int) ([]ExportRecord, error)
}
