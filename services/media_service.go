package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MediaService hands out presigned S3 PUT URLs so the admin UI uploads
// media straight to the bucket; this service never proxies file bytes.
type MediaService struct {
	presignClient *s3.PresignClient
	bucket        string
	cdnDomain     string
}

// NewMediaService builds the presign client from the ambient AWS
// configuration. An empty bucket disables the upload surface.
func NewMediaService(ctx context.Context, bucket, cdnDomain string) (*MediaService, error) {
	if bucket == "" {
		return &MediaService{}, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &MediaService{
		presignClient: s3.NewPresignClient(client),
		bucket:        bucket,
		cdnDomain:     cdnDomain,
	}, nil
}

// Enabled reports whether an upload bucket is configured.
func (s *MediaService) Enabled() bool {
	return s.presignClient != nil
}

// PresignUpload returns a presigned PUT URL, the object key, and the
// public URL the object will be served from.
func (s *MediaService) PresignUpload(ctx context.Context, folder, filename, contentType string, expiresSeconds int64) (string, string, string, error) {
	ext := filepath.Ext(filename)
	key := fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.New().String(), ext)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
	presignedReq, err := s.presignClient.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = time.Duration(expiresSeconds) * time.Second
	})
	if err != nil {
		return "", "", "", fmt.Errorf("failed to presign put object: %w", err)
	}

	var publicURL string
	if s.cdnDomain != "" {
		publicURL = fmt.Sprintf("https://%s/%s", strings.TrimRight(s.cdnDomain, "/"), key)
	} else {
		publicURL = fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	}
	return presignedReq.URL, key, publicURL, nil
}
