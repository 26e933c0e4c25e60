package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"salon-booking/internal/core/config"
)

// S3 stores objects in a bucket; Endpoint allows S3-compatible stores such
// as MinIO.
type S3 struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3(c config.S3) (*S3, error) {
	if c.Bucket == "" {
		return nil, errors.New("upload.s3.bucket is required")
	}
	opts := s3.Options{
		Region: c.Region,
	}
	if c.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")
	}
	if c.Endpoint != "" {
		opts.BaseEndpoint = aws.String(c.Endpoint)
		opts.UsePathStyle = true
	}
	public := strings.TrimRight(c.PublicURL, "/")
	if public == "" {
		if c.Endpoint != "" {
			public = strings.TrimRight(c.Endpoint, "/") + "/" + c.Bucket
		} else {
			public = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.Region)
		}
	}
	return &S3{client: s3.New(opts), bucket: c.Bucket, publicURL: public}, nil
}

func (s *S3) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *S3) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicURL+"/")
	if !ok || key == "" {
		return ErrForeignURL
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
