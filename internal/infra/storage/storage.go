package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/inkwell-cms/inkwell/pkg/config"
)

// Provider stores uploaded objects and returns their public URL.
type Provider interface {
	// Put stores the object under key and returns the URL it is served from.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// NewProvider selects the configured storage backend. Local disk is the
// default.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.GetString(config.KeyStorageType) {
	case "", "local":
		return NewLocalProvider(cfg)
	case "s3":
		return NewS3Provider(cfg)
	}
	return nil, fmt.Errorf("unsupported storage type %q (supported: local, s3)", cfg.GetString(config.KeyStorageType))
}
