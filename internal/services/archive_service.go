package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "github.com/breezedunord/tyms-backend/config"
)

// ArchiveService keeps a copy of every emailed invoice PDF in object storage
type ArchiveService interface {
	// StorePDF uploads the PDF and returns its public URL
	StorePDF(ctx context.Context, title string, pdf []byte) (string, error)
}

// R2ArchiveService implements ArchiveService using Cloudflare R2
type R2ArchiveService struct {
	client     *s3.Client
	bucketName string
	baseURL    string
}

// NewR2ArchiveService creates a new R2 archive service
func NewR2ArchiveService(cfg *appconfig.Config) (*R2ArchiveService, error) {
	// Create custom resolver to use R2 endpoint
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: cfg.ArchiveEndpoint,
		}, nil
	})

	// Configure AWS SDK
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.ArchiveRegion),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.ArchiveKey,
			cfg.ArchiveSecret,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Create S3 client
	client := s3.NewFromConfig(awsCfg)

	// Construct public base URL for the bucket
	baseURL := cfg.ArchiveEndpoint
	if !strings.HasPrefix(baseURL, "https://") {
		baseURL = fmt.Sprintf("https://%s", baseURL)
	}
	baseURL = fmt.Sprintf("%s/%s", baseURL, cfg.ArchiveBucket)

	return &R2ArchiveService{
		client:     client,
		bucketName: cfg.ArchiveBucket,
		baseURL:    baseURL,
	}, nil
}

// StorePDF implements ArchiveService.StorePDF for R2 storage
func (s *R2ArchiveService) StorePDF(ctx context.Context, title string, pdf []byte) (string, error) {
	// Key invoices by date so the bucket stays browsable
	objectKey := fmt.Sprintf("invoices/%s/%s-%s.pdf",
		time.Now().UTC().Format("2006-01"),
		slugify(title),
		uuid.New().String(),
	)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload PDF to R2: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, objectKey), nil
}

// slugify lowercases a title and replaces runs of non-alphanumerics with dashes
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
