package upload

import (
	"context"
	"errors"
	"log/slog"

	"github.com/delordemm1/gooddeeds-api/internal/storage"
	"github.com/gabriel-vasile/mimetype"
)

// Service validates uploads and stores them.
type Service interface {
	Upload(ctx context.Context, kind Kind, data []byte) (*Stored, error)
	// Limit is the largest accepted file for kind, or 0 for unknown kinds.
	Limit(kind Kind) int64
}

type service struct {
	store  storage.BlobStore
	logger *slog.Logger
}

// Config holds the dependencies for the upload service.
type Config struct {
	Store  storage.BlobStore
	Logger *slog.Logger
}

func NewService(cfg *Config) Service {
	return &service{store: cfg.Store, logger: cfg.Logger}
}

func (s *service) Limit(kind Kind) int64 {
	return rules[kind].maxBytes
}

// Upload sniffs the content type from the bytes rather than trusting the
// client, normalizes photos and saves the result.
func (s *service) Upload(ctx context.Context, kind Kind, data []byte) (*Stored, error) {
	r, ok := rules[kind]
	if !ok {
		return nil, ErrUnknownKind
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > r.maxBytes {
		return nil, ErrFileTooLarge
	}

	contentType := mimetype.Detect(data).String()
	if !r.accepts(contentType) {
		return nil, ErrUnsupportedType.WithContext(map[string]any{"detected": contentType, "accepted": r.accept})
	}

	if r.normalize {
		normalized, err := storage.NormalizeImage(data, maxPhotoPixels)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidImage) {
				return nil, ErrUnsupportedType.WithCause(err)
			}
			s.logger.Error("normalize image failed", "error", err, "kind", kind)
			return nil, ErrInternal.WithCause(err)
		}
		data, contentType = normalized, "image/jpeg"
	}

	url, err := s.store.Store(ctx, data, r.folder, contentType)
	if err != nil {
		s.logger.Error("store upload failed", "error", err, "kind", kind)
		return nil, ErrStoreFailed.WithCause(err)
	}
	s.logger.Info("file uploaded", "kind", kind, "size", len(data))
	return &Stored{URL: url, ContentType: contentType, Size: len(data)}, nil
}
