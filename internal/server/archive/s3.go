package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/ulmg70/internal/server/config"
	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/dmitrijs2005/ulmg70/internal/timex"
	"github.com/google/uuid"
)

// Uploader is satisfied by *manager.Uploader.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	newUploader = func(client *s3.Client) Uploader {
		return manager.NewUploader(client)
	}
	newKeyID = uuid.NewString
)

// Exporter uploads logbook snapshots to a bucket.
type Exporter struct {
	bucket   string
	uploader Uploader
	clock    timex.Clock
	loc      *time.Location
}

func NewExporter(bucket string, uploader Uploader, clock timex.Clock, loc *time.Location) *Exporter {
	return &Exporter{bucket: bucket, uploader: uploader, clock: clock, loc: loc}
}

// NewS3Exporter builds an Exporter from the S3 settings in cfg. The endpoint
// is addressed path-style so MinIO works without DNS buckets.
func NewS3Exporter(ctx context.Context, cfg *sc.Config, clock timex.Clock, loc *time.Location) (*Exporter, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("error loading s3 config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return NewExporter(cfg.S3Bucket, newUploader(client), clock, loc), nil
}

// Key returns a fresh object key under the day of now.
func (e *Exporter) Key() string {
	d := e.clock.Now().In(e.loc)
	return fmt.Sprintf("logbook/%04d/%02d/%02d/%s.csv", d.Year(), d.Month(), d.Day(), newKeyID())
}

// Export uploads entries as one CSV object and returns its key.
func (e *Exporter) Export(ctx context.Context, entries []*models.LogEntry) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries, e.loc); err != nil {
		return "", fmt.Errorf("error rendering csv: %w", err)
	}

	key := e.Key()
	_, err := e.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", key, err)
	}

	return key, nil
}
