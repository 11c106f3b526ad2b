package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkwell-cms/inkwell/internal/infra/storage"
	"github.com/inkwell-cms/inkwell/pkg/config"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// allowedTypes maps accepted image extensions to their content type.
var allowedTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Service stores uploaded images and generates thumbnails.
type Service struct {
	provider   storage.Provider
	maxSize    int64
	thumbWidth int
	logger     zerolog.Logger
}

// NewService builds an upload service from the Upload.* settings.
func NewService(provider storage.Provider, cfg *config.Config, logger zerolog.Logger) *Service {
	maxMB := cfg.GetInt(config.KeyUploadMaxSizeMB)
	if maxMB <= 0 {
		maxMB = 10
	}
	thumbWidth := cfg.GetInt(config.KeyUploadThumbWidth)
	if thumbWidth <= 0 {
		thumbWidth = 480
	}
	return &Service{
		provider:   provider,
		maxSize:    int64(maxMB) << 20,
		thumbWidth: thumbWidth,
		logger:     logger.With().Str("service", "upload").Logger(),
	}
}

// Save validates and stores one uploaded image. JPEG and PNG uploads also
// get a width-capped thumbnail; animated formats are stored as-is.
func (s *Service) Save(ctx context.Context, header *multipart.FileHeader) (*model.UploadResult, error) {
	ext := strings.ToLower(path.Ext(header.Filename))
	contentType, ok := allowedTypes[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", constant.ErrValidation, ext)
	}
	if header.Size > s.maxSize {
		return nil, fmt.Errorf("%w: file exceeds %d MB limit", constant.ErrValidation, s.maxSize>>20)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%w: file exceeds %d MB limit", constant.ErrValidation, s.maxSize>>20)
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("%s/%s%s", now.Format("2006/01"), uuid.NewString(), ext)

	url, err := s.provider.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, err
	}

	result := &model.UploadResult{
		URL:      url,
		Filename: header.Filename,
		Size:     int64(len(data)),
		Type:     contentType,
	}

	if ext == ".jpg" || ext == ".jpeg" || ext == ".png" {
		if thumbURL, err := s.saveThumbnail(ctx, key, data); err != nil {
			// A failed thumbnail never fails the upload.
			s.logger.Warn().Err(err).Str("key", key).Msg("thumbnail generation failed")
		} else {
			result.ThumbnailURL = thumbURL
		}
	}
	return result, nil
}

func (s *Service) saveThumbnail(ctx context.Context, key string, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() <= s.thumbWidth {
		return "", nil
	}
	thumb := imaging.Resize(img, s.thumbWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(82)); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}

	ext := path.Ext(key)
	thumbKey := strings.TrimSuffix(key, ext) + "_thumb.jpg"
	return s.provider.Put(ctx, thumbKey, &buf, int64(buf.Len()), "image/jpeg")
}
