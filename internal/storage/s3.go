// Package storage persists certificate artifacts in S3-compatible object
// storage (MinIO, Ceph RGW, AWS S3).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/412449-PICCO/generadorDiplos/internal/config"
	"github.com/412449-PICCO/generadorDiplos/internal/model"
)

const keyPrefix = "certificates/"

// S3Store uploads and fetches certificate artifacts against an S3-compatible
// endpoint. The bucket is expected to allow public reads for asset URLs to
// resolve.
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
	logger    zerolog.Logger
}

func NewS3Store(cfg *config.Config, logger zerolog.Logger) *S3Store {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(cfg.S3Endpoint),
		Region:       cfg.S3Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		UsePathStyle: true,
	})

	publicURL := cfg.S3PublicURL
	if publicURL == "" {
		publicURL = strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}

	return &S3Store{
		client:    client,
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger.With().Str("component", "s3-store").Logger(),
	}
}

// UploadSVG stores a rendered certificate under certificates/<slug>.svg.
func (s *S3Store) UploadSVG(ctx context.Context, key string, body []byte) (model.Artifact, error) {
	return s.upload(ctx, keyPrefix+key+".svg", "image/svg+xml", body)
}

// UploadPNG stores a preview image under certificates/<slug>.png.
func (s *S3Store) UploadPNG(ctx context.Context, key string, body []byte) (model.Artifact, error) {
	return s.upload(ctx, keyPrefix+key+".png", "image/png", body)
}

func (s *S3Store) upload(ctx context.Context, objectKey, contentType string, body []byte) (model.Artifact, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return model.Artifact{}, fmt.Errorf("put object %s: %w", objectKey, err)
	}

	s.logger.Debug().Str("key", objectKey).Int("bytes", len(body)).Msg("uploaded artifact")

	return model.Artifact{
		Key: objectKey,
		URL: s.publicURL + "/" + objectKey,
	}, nil
}

// FetchSVG retrieves a stored certificate body by its full object key.
func (s *S3Store) FetchSVG(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return body, nil
}
