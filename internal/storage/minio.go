// Package storage backs up the memory tree and embedding cache to MinIO.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bowerhall/vera/internal/logger"
)

type Client struct {
	mc     *minio.Client
	bucket string
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func NewClient(cfg Config) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "vera-backups"
	}

	return &Client{mc: mc, bucket: bucket}, nil
}

// Init creates the backup bucket if it doesn't exist.
func (c *Client) Init(ctx context.Context) error {
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", c.bucket, err)
	}

	if !exists {
		if err := c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", c.bucket, err)
		}
		logger.Info("bucket created", "bucket", c.bucket)
	}

	return nil
}

// Backup uploads every markdown file under memoryDir plus the cache database
// under a date-stamped prefix. Returns the number of files uploaded; partial
// failures are logged and skipped so one bad file cannot sink the run.
func (c *Client) Backup(ctx context.Context, memoryDir, cachePath string) (int, error) {
	prefix := time.Now().UTC().Format("2006-01-02") + "/"
	uploaded := 0

	err := filepath.WalkDir(memoryDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		rel, err := filepath.Rel(memoryDir, path)
		if err != nil {
			return err
		}

		if err := c.uploadFile(ctx, prefix+"memory/"+filepath.ToSlash(rel), path, "text/markdown"); err != nil {
			logger.Warn("backup upload failed", "file", rel, "error", err)
			return nil
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, fmt.Errorf("walk %s: %w", memoryDir, err)
	}

	if cachePath != "" {
		if err := c.uploadFile(ctx, prefix+filepath.Base(cachePath), cachePath, "application/octet-stream"); err != nil {
			logger.Warn("cache backup failed", "error", err)
		} else {
			uploaded++
		}
	}

	logger.Info("backup complete", "bucket", c.bucket, "prefix", prefix, "files", uploaded)
	return uploaded, nil
}

func (c *Client) uploadFile(ctx context.Context, name, path, contentType string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	_, err = c.mc.PutObject(ctx, c.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}

	logger.Debug("file uploaded", "bucket", c.bucket, "name", name, "size", len(data))
	return nil
}

// Download fetches one object from the backup bucket.
func (c *Client) Download(ctx context.Context, name string) ([]byte, error) {
	obj, err := c.mc.GetObject(ctx, c.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return data, nil
}

// List lists backup objects under a prefix.
func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string

	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}

	for obj := range c.mc.ListObjects(ctx, c.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, obj.Err)
		}
		names = append(names, obj.Key)
	}

	return names, nil
}

// Healthy checks if MinIO is reachable.
func (c *Client) Healthy(ctx context.Context) bool {
	_, err := c.mc.BucketExists(ctx, c.bucket)
	return err == nil
}
