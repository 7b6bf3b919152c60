package s3blob

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

// ArtifactConfig controls where and how artifacts are uploaded.
type ArtifactConfig struct {
	Bucket string
	Prefix string
	// MultipartThreshold is the payload size at which uploads switch to the
	// multipart manager.
	MultipartThreshold int64
	PartSize           int64
}

// ArtifactWriter implements domain.FileDelivery by uploading artifacts under
// a key prefix.
type ArtifactWriter struct {
	blobs domain.BlobWriter
	cfg   ArtifactConfig
}

var _ domain.FileDelivery = (*ArtifactWriter)(nil)

// NewArtifactWriter creates an ArtifactWriter. A zero threshold or part size
// defaults to MinPartSize.
func NewArtifactWriter(blobs domain.BlobWriter, cfg ArtifactConfig) *ArtifactWriter {
	if cfg.MultipartThreshold <= 0 {
		cfg.MultipartThreshold = MinPartSize
	}
	if cfg.PartSize <= 0 {
		cfg.PartSize = MinPartSize
	}
	return &ArtifactWriter{blobs: blobs, cfg: cfg}
}

// Key returns the object key for a filename.
func (a *ArtifactWriter) Key(filename string) string {
	return path.Join(a.cfg.Prefix, filename)
}

// Deliver uploads the artifact and returns its s3:// URI.
func (a *ArtifactWriter) Deliver(ctx context.Context, artifact domain.ExportArtifact) (string, error) {
	key := a.Key(artifact.Filename)
	body := bytes.NewReader(artifact.Data)

	var err error
	if int64(len(artifact.Data)) >= a.cfg.MultipartThreshold {
		err = a.blobs.PutMultipart(ctx, key, body, artifact.MIMEType, a.cfg.PartSize)
	} else {
		err = a.blobs.Put(ctx, key, body, artifact.MIMEType)
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", a.cfg.Bucket, key), nil
}
