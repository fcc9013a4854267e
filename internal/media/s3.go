package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/learnhubhq/learnhub/internal/config"
)

// S3 stores assets in an S3-compatible bucket (AWS S3 or MinIO).
type S3 struct {
	client        *s3.Client
	bucket        string
	region        string
	publicBaseURL string
}

func NewS3(ctx context.Context, cfg *config.Config) (*S3, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("media storage not configured: set S3_BUCKET")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{
		client:        client,
		bucket:        cfg.S3Bucket,
		region:        cfg.S3Region,
		publicBaseURL: cfg.S3PublicBaseURL,
	}, nil
}

func (m *S3) Upload(ctx context.Context, filename string, contentType string, r io.Reader) (Asset, error) {
	key := AvatarKey(filename)

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Asset{}, fmt.Errorf("media upload: %w", err)
	}

	return Asset{PublicID: key, URL: m.publicURL(key)}, nil
}

func (m *S3) Destroy(ctx context.Context, publicID string) error {
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("media destroy: %w", err)
	}
	return nil
}

func (m *S3) publicURL(key string) string {
	if m.publicBaseURL != "" {
		return m.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.bucket, m.region, key)
}

// AvatarKey builds a unique object key under a dated avatars/ prefix, keeping
// the original file extension so content type survives a re-serve.
func AvatarKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("avatars/%d/%02d/%02d/%s%s",
		d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(filename))
}
