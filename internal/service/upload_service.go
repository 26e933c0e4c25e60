package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"salon-booking/internal/apperr"
	"salon-booking/internal/core/metrics"
	"salon-booking/internal/storage"
	"salon-booking/pkg/utils"
)

const DefaultMaxUploadBytes = 5 << 20

var (
	uploadFolders = map[string]struct{}{"users": {}, "categories": {}, "services": {}}
	imageTypes    = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
)

type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Mimetype string `json:"mimetype"`
}

type UploadService struct {
	store    storage.Storage
	maxBytes int64
	log      *zap.Logger
}

func NewUploadService(store storage.Storage, maxBytes int64, log *zap.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadService{store: store, maxBytes: maxBytes, log: log}
}

// SaveImage stores fh as <folder>/<uuid><ext> after sniffing its content.
func (s *UploadService) SaveImage(ctx context.Context, folder string, fh *multipart.FileHeader) (*UploadResult, error) {
	if _, ok := uploadFolders[folder]; !ok {
		return nil, apperr.BadRequest("Invalid upload folder")
	}
	if fh == nil {
		return nil, apperr.BadRequest("No file uploaded")
	}
	if fh.Size > s.maxBytes {
		return nil, apperr.BadRequest(fmt.Sprintf("File size exceeds %dMB limit", s.maxBytes>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperr.BadRequest("Unable to read uploaded file")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.maxBytes+1))
	if err != nil {
		return nil, apperr.BadRequest("Unable to read uploaded file")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, apperr.BadRequest(fmt.Sprintf("File size exceeds %dMB limit", s.maxBytes>>20))
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), imageTypes...) {
		return nil, apperr.BadRequest("Only image files are allowed")
	}
	name := utils.NewID() + mt.Extension()
	url, err := s.store.Put(ctx, folder+"/"+name, bytes.NewReader(data), int64(len(data)), mt.String())
	if err != nil {
		return nil, apperr.Internal(err)
	}
	metrics.UploadsStored.WithLabelValues(folder).Inc()
	s.log.Info("image stored", zap.String("folder", folder), zap.String("file", name), zap.Int("size", len(data)))
	return &UploadResult{URL: url, Filename: name, Size: int64(len(data)), Mimetype: mt.String()}, nil
}

// DeleteImage removes the image behind url. Storage failures are logged only.
func (s *UploadService) DeleteImage(ctx context.Context, url string) error {
	if url == "" {
		return apperr.BadRequest("url is required")
	}
	if err := s.store.Delete(ctx, url); err != nil {
		s.log.Warn("image delete failed", zap.String("url", url), zap.Error(err))
	}
	return nil
}
