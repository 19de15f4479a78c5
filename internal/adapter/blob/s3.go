// Package blob adapts the out-of-core image store onto AWS SDK v2, grounded
// on adhtanjung-maukmn-api-alpha's internal/storage/r2_client.go (an S3
// presign client aimed at Cloudflare R2's S3-compatible API).
package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/restorehq/control-plane/internal/domain"
)

// Config carries the bucket, endpoint, and credential settings needed to
// reach an S3-compatible object store (spec §6).
type Config struct {
	Bucket         string
	Region         string
	Endpoint       string // non-empty for R2/MinIO-style S3-compatible endpoints
	AccessKeyID    string
	SecretAccessKey string
	ForcePathStyle bool
	UploadURLTTL   time.Duration
	DownloadURLTTL time.Duration
}

// Store implements domain.BlobStore against S3 or an S3-compatible endpoint.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	cfg     Config
}

// New constructs a Store. When cfg.Endpoint is set, static credentials and a
// custom base endpoint are used (R2/MinIO shape); otherwise the SDK's
// default credential chain and region resolution apply.
func New(ctx context.Context, cfg Config) (*Store, error) {
	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.New(s3.Options{
			Region:       cfg.Region,
			BaseEndpoint: aws.String(cfg.Endpoint),
			Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			UsePathStyle: cfg.ForcePathStyle,
		})
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("op=blob.new.load_config: %w", err)
		}
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) { o.UsePathStyle = cfg.ForcePathStyle })
	}
	return &Store{client: client, presign: s3.NewPresignClient(client), cfg: cfg}, nil
}

func objectKey(ownerID, objectName string) string {
	return fmt.Sprintf("%s/%s", ownerID, objectName)
}

// IssueUploadURL mints a presigned PUT URL under a fresh object name scoped
// to the owner (spec §4.1 ISSUE_UPLOAD_TARGET).
func (s *Store) IssueUploadURL(ctx domain.Context, ownerID, contentType string) (string, string, time.Time, error) {
	objectName := uuid.New().String()
	ttl := s.cfg.UploadURLTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(objectKey(ownerID, objectName)),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("op=blob.issue_upload_url: %w", err)
	}
	return req.URL, objectName, time.Now().Add(ttl), nil
}

// IssueDownloadURL mints a presigned GET URL for a succeeded job's result
// (spec §4.8 point lookup).
func (s *Store) IssueDownloadURL(ctx domain.Context, ownerID, objectName, filename string) (string, time.Time, error) {
	ttl := s.cfg.DownloadURLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(objectKey(ownerID, objectName)),
	}
	if filename != "" {
		input.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", filename))
	}
	req, err := s.presign.PresignGetObject(ctx, input, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("op=blob.issue_download_url: %w", err)
	}
	return req.URL, time.Now().Add(ttl), nil
}

// Download fetches an object's bytes, used by the worker pipeline to
// materialize the source image before classification (spec §4.7 step 3).
func (s *Store) Download(ctx domain.Context, ownerID, objectName string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(objectKey(ownerID, objectName)),
	})
	if err != nil {
		return nil, fmt.Errorf("op=blob.download: %w", err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("op=blob.download.read: %w", err)
	}
	return data, nil
}

// Upload writes an object's bytes, used both for admission-time inline
// images and the worker's restored result (spec §4.7 step 7).
func (s *Store) Upload(ctx domain.Context, ownerID, objectName string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(objectKey(ownerID, objectName)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("op=blob.upload: %w", err)
	}
	return nil
}

var _ domain.BlobStore = (*Store)(nil)
