package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/inkwell-cms/inkwell/pkg/config"
)

// S3Provider stores uploads in an S3-compatible bucket. A custom endpoint
// covers MinIO and the various S3 clones.
type S3Provider struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Provider builds an S3 provider from the Storage.* settings.
func NewS3Provider(cfg *config.Config) (*S3Provider, error) {
	bucket := cfg.GetString(config.KeyStorageS3Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 storage requires Storage.S3Bucket")
	}
	region := cfg.GetString(config.KeyStorageS3Region)
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if ak := cfg.GetString(config.KeyStorageS3AccessKey); ak != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(ak, cfg.GetString(config.KeyStorageS3SecretKey), "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := cfg.GetString(config.KeyStorageS3Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
			o.UsePathStyle = true
		}
	})

	baseURL := strings.TrimRight(cfg.GetString(config.KeyStorageS3BaseURL), "/")
	if baseURL == "" {
		if endpoint != "" {
			baseURL = strings.TrimRight(endpoint, "/") + "/" + bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
		}
	}

	return &S3Provider{client: client, bucket: bucket, baseURL: baseURL}, nil
}

func (p *S3Provider) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	key = strings.TrimLeft(key, "/")
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &p.bucket,
		Key:           &key,
		Body:          body,
		ContentLength: &size,
		ContentType:   &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put s3 object %s: %w", key, err)
	}
	return p.baseURL + "/" + key, nil
}
