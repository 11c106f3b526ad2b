package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/inkwell-cms/inkwell/pkg/config"
)

// LocalProvider writes uploads to a directory served under /uploads/.
type LocalProvider struct {
	dir     string
	baseURL string
}

// NewLocalProvider builds a disk-backed provider rooted at Upload.Dir.
func NewLocalProvider(cfg *config.Config) (*LocalProvider, error) {
	dir := cfg.GetString(config.KeyUploadDir)
	if dir == "" {
		dir = "data/uploads"
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalProvider{
		dir:     dir,
		baseURL: strings.TrimRight(cfg.GetString(config.KeyBaseURL), "/"),
	}, nil
}

// Dir exposes the upload root so the router can serve it statically.
func (p *LocalProvider) Dir() string {
	return p.dir
}

func (p *LocalProvider) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	// Keys are generated server-side, but reject traversal anyway.
	clean := path.Clean("/" + key)
	target := filepath.Join(p.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload subdirectory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, body); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return p.baseURL + "/uploads" + clean, nil
}
