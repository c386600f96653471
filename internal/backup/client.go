// Package backup ships the playbook ledger to an S3-compatible bucket. The
// ledger is the only state the system cannot rebuild from providers, so it
// is the only thing backed up.
package backup

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/oakmont/vantage/internal/config"
)

// ObjectInfo describes one stored backup object.
type ObjectInfo struct {
	Key       string    `json:"key"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
}

// Client is a thin S3 wrapper. Works against AWS or any S3-compatible
// endpoint (R2, MinIO) via BACKUP_ENDPOINT.
type Client struct {
	s3       *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// NewClient builds the S3 client from backup configuration.
func NewClient(ctx context.Context, cfg *config.BackupConfig) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{
		s3:       client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
	}, nil
}

// Upload streams one object into the bucket.
func (c *Client) Upload(ctx context.Context, key string, body io.Reader, metadata map[string]string) error {
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:   aws.String(c.bucket),
		Key:      aws.String(key),
		Body:     body,
		Metadata: metadata,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// List returns backup objects under the prefix, newest first. Keys that do
// not carry a parseable timestamp are skipped.
func (c *Client) List(ctx context.Context, prefix, suffix, timeLayout string) ([]ObjectInfo, error) {
	out, err := c.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	objects := make([]ObjectInfo, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if obj.Key == nil {
			continue
		}
		key := *obj.Key
		stampStr := strings.TrimSuffix(strings.TrimPrefix(key, prefix), suffix)
		stamp, err := time.Parse(timeLayout, stampStr)
		if err != nil {
			continue
		}
		info := ObjectInfo{Key: key, Timestamp: stamp}
		if obj.Size != nil {
			info.SizeBytes = *obj.Size
		}
		objects = append(objects, info)
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Timestamp.After(objects[j].Timestamp)
	})
	return objects, nil
}

// Delete removes one object.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
