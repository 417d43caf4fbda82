package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Provider represents the S3-compatible storage provider
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderWasabi Provider = "wasabi"
	ProviderMinio  Provider = "minio"
)

// ErrNotConfigured is returned when no bucket has been configured.
var ErrNotConfigured = errors.New("storage: bucket not configured")

// Config holds configuration for S3-compatible storage
type Config struct {
	Provider        Provider
	Endpoint        string // required for wasabi/minio, e.g. "s3.eu-central-1.wasabisys.com"
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// WasabiEndpoints maps regions to Wasabi endpoints
var WasabiEndpoints = map[string]string{
	"us-east-1":      "s3.us-east-1.wasabisys.com",
	"us-east-2":      "s3.us-east-2.wasabisys.com",
	"us-west-1":      "s3.us-west-1.wasabisys.com",
	"eu-central-1":   "s3.eu-central-1.wasabisys.com",
	"eu-west-1":      "s3.eu-west-1.wasabisys.com",
	"eu-west-2":      "s3.eu-west-2.wasabisys.com",
	"ap-southeast-1": "s3.ap-southeast-1.wasabisys.com",
}

// NewS3Client creates an S3 client for AWS or an S3-compatible endpoint.
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.Provider == ProviderWasabi {
		endpoint = WasabiEndpoints[cfg.Region]
	}

	switch cfg.Provider {
	case ProviderWasabi, ProviderMinio:
		if endpoint == "" {
			return nil, fmt.Errorf("storage: endpoint required for provider %q", cfg.Provider)
		}
		return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(withScheme(endpoint))
			o.UsePathStyle = true
		}), nil
	default:
		return s3.NewFromConfig(awsCfg), nil
	}
}

func withScheme(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return "https://" + endpoint
}

// Presigner hands out time-limited GET links for supporting files.
type Presigner struct {
	client *s3.PresignClient
	bucket string
}

func NewPresigner(client *s3.Client, bucket string) *Presigner {
	return &Presigner{client: s3.NewPresignClient(client), bucket: bucket}
}

// PresignDownload returns a link that serves objectKey as an attachment named fileName.
func (p *Presigner) PresignDownload(ctx context.Context, objectKey, fileName string, ttl time.Duration) (string, error) {
	if p == nil || p.bucket == "" {
		return "", ErrNotConfigured
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(objectKey),
	}
	if fileName != "" {
		input.ResponseContentDisposition = aws.String(
			mime.FormatMediaType("attachment", map[string]string{"filename": fileName}),
		)
	}

	req, err := p.client.PresignGetObject(ctx, input, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", objectKey, err)
	}
	return req.URL, nil
}
