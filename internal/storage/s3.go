package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stockroom/stockroom/internal/models"
)

// UploadResult describes a stored blob.
type UploadResult struct {
	URL      string
	Size     string // human-readable, e.g. "1.24 MB"
	MimeType string
}

// Uploader stores file bytes and returns a public URL for them.
type Uploader interface {
	Upload(ctx context.Context, data []byte, fileName, mimeType string) (*UploadResult, error)
}

// S3Uploader stores blobs in an S3 bucket.
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	keyPrefix     string
	publicBaseURL string
	region        string
	logger        *slog.Logger
}

// NewS3Uploader creates an Uploader backed by S3.
func NewS3Uploader(region, bucket, keyPrefix, publicBaseURL string, logger *slog.Logger) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Uploader{
		client:        s3.NewFromConfig(cfg),
		bucket:        bucket,
		keyPrefix:     keyPrefix,
		publicBaseURL: publicBaseURL,
		region:        region,
		logger:        logger,
	}, nil
}

// Upload writes the bytes under a date-partitioned random key and returns
// the object's public URL. Failures map to models.ErrUploadFailed.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, fileName, mimeType string) (*UploadResult, error) {
	key := u.objectKey(fileName)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		u.logger.Error("failed to upload object to S3",
			slog.String("bucket", u.bucket),
			slog.String("key", key),
			slog.Any("error", err))
		return nil, models.ErrUploadFailed
	}

	return &UploadResult{
		URL:      u.objectURL(key),
		Size:     FormatFileSize(int64(len(data)), 2),
		MimeType: mimeType,
	}, nil
}

func (u *S3Uploader) objectKey(fileName string) string {
	d := time.Now()
	return path.Join(u.keyPrefix,
		fmt.Sprintf("%d/%02d/%02d", d.Year(), d.Month(), d.Day()),
		uuid.New().String()+"-"+path.Base(fileName))
}

func (u *S3Uploader) objectURL(key string) string {
	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}

// FormatFileSize renders a byte count with binary units and fixed decimals.
func FormatFileSize(size int64, decimals int) string {
	if size <= 0 {
		return "0 Bytes"
	}

	units := []string{"Bytes", "KB", "MB", "GB", "TB"}
	i := int(math.Floor(math.Log(float64(size)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}

	value := float64(size) / math.Pow(1024, float64(i))
	return fmt.Sprintf("%.*f %s", decimals, value, units[i])
}
