// Package uploader publishes written report artifacts to a GCS bucket.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/neehar-mavuduru/benchreport/config"
)

var log = logrus.WithField("component", "uploader")

// ErrStopped is returned for uploads attempted after Close.
var ErrStopped = errors.New("uploader stopped")

// Bucket opens object writers. It is satisfied by the GCS bucket adapter and
// by in-memory fakes in tests.
type Bucket interface {
	NewWriter(ctx context.Context, object, contentType string) io.WriteCloser
}

// Uploader copies local files to <bucket>/<prefix><basename>, retrying
// failed attempts.
type Uploader struct {
	config config.GCSUploadConfig
	bucket Bucket
	client *storage.Client

	ctx    context.Context
	cancel context.CancelFunc

	stats   Stats
	statsMu sync.RWMutex
}

// Stats tracks upload statistics
type Stats struct {
	TotalFiles     int64
	Successful     int64
	Failed         int64
	TotalBytes     int64
	TotalDuration  time.Duration
	LastUploadTime time.Time
}

// gcsBucket adapts a storage bucket handle to Bucket.
type gcsBucket struct {
	handle *storage.BucketHandle
}

func (b gcsBucket) NewWriter(ctx context.Context, object, contentType string) io.WriteCloser {
	w := b.handle.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	return w
}

// NewUploader creates a GCS client with a gRPC connection pool.
func NewUploader(cfg config.GCSUploadConfig) (*Uploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	u := newUploader(cfg, nil)
	client, err := storage.NewClient(u.ctx,
		option.WithGRPCConnectionPool(cfg.GRPCPoolSize),
	)
	if err != nil {
		u.cancel()
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	u.client = client
	u.bucket = gcsBucket{handle: client.Bucket(cfg.Bucket)}
	return u, nil
}

// NewWithBucket returns an uploader writing through b.
func NewWithBucket(cfg config.GCSUploadConfig, b Bucket) (*Uploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newUploader(cfg, b), nil
}

func newUploader(cfg config.GCSUploadConfig, b Bucket) *Uploader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Uploader{config: cfg, bucket: b, ctx: ctx, cancel: cancel}
}

// Close stops pending retries and releases the client.
func (u *Uploader) Close() error {
	u.cancel()
	if u.client != nil {
		return u.client.Close()
	}
	return nil
}

// GetStats returns current upload statistics
func (u *Uploader) GetStats() Stats {
	u.statsMu.RLock()
	defer u.statsMu.RUnlock()
	return u.stats
}

// ObjectName returns the object a local file is published as.
func ObjectName(prefix, path string) string {
	return prefix + filepath.Base(path)
}

// URL returns the gs:// location of the object for path.
func (u *Uploader) URL(path string) string {
	return fmt.Sprintf("gs://%s/%s", u.config.Bucket, ObjectName(u.config.ObjectPrefix, path))
}

// UploadAll uploads every path. A failed file does not stop the others; the
// returned map holds the error of each failed path. Local files are never
// modified.
func (u *Uploader) UploadAll(ctx context.Context, paths []string) map[string]error {
	failed := make(map[string]error)
	for _, path := range paths {
		if err := u.Upload(ctx, path); err != nil {
			failed[path] = err
		}
	}
	return failed
}

// Upload publishes one file with retries.
func (u *Uploader) Upload(ctx context.Context, path string) error {
	err := u.uploadFileWithRetry(ctx, path)

	u.statsMu.Lock()
	u.stats.TotalFiles++
	if err != nil {
		u.stats.Failed++
	} else {
		u.stats.Successful++
		u.stats.LastUploadTime = time.Now()
	}
	u.statsMu.Unlock()

	if err != nil {
		log.WithError(err).WithField("file", path).Error("upload failed")
	}
	return err
}

func (u *Uploader) uploadFileWithRetry(ctx context.Context, path string) error {
	var lastErr error
	for attempt := 0; attempt <= u.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-u.ctx.Done():
				return ErrStopped
			case <-time.After(u.config.RetryDelay):
			}
		}

		start := time.Now()
		n, err := u.uploadFile(ctx, path)
		if err == nil {
			u.statsMu.Lock()
			u.stats.TotalBytes += n
			u.stats.TotalDuration += time.Since(start)
			u.statsMu.Unlock()
			log.WithFields(logrus.Fields{"file": path, "object": u.URL(path), "bytes": n}).Info("uploaded")
			return nil
		}

		lastErr = err
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		if attempt < u.config.MaxRetries {
			log.Warnf("Upload attempt %d/%d failed for %s: %v, retrying...", attempt+1, u.config.MaxRetries+1, path, err)
		}
	}
	return fmt.Errorf("upload failed after %d attempts: %w", u.config.MaxRetries+1, lastErr)
}

func (u *Uploader) uploadFile(ctx context.Context, path string) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if u.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.config.Timeout)
		defer cancel()
	}

	w := u.bucket.NewWriter(ctx, ObjectName(u.config.ObjectPrefix, path), contentType(path))
	n, err := io.Copy(w, file)
	if err != nil {
		w.Close()
		return n, fmt.Errorf("write error: %w", err)
	}
	if err := w.Close(); err != nil {
		return n, fmt.Errorf("close error: %w", err)
	}
	return n, nil
}

func contentType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}
