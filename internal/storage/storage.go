// Package storage persists uploaded images and turns object keys into
// public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"salon-booking/internal/core/config"
)

var ErrForeignURL = errors.New("url does not belong to this storage")

type Storage interface {
	// Put stores r under key (e.g. "users/<uuid>.png") and returns its URL.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object addressed by url.
	Delete(ctx context.Context, url string) error
}

// New builds the backend selected by upload.driver.
func New(c config.Upload, baseURL string) (Storage, error) {
	switch c.Driver {
	case "", "local":
		return NewLocal(c.Dir, baseURL)
	case "s3":
		return NewS3(c.S3)
	}
	return nil, fmt.Errorf("unknown upload driver %q", c.Driver)
}
