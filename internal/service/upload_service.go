package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotImage     = errors.New("a valid image file is required")
	ErrFileTooLarge = errors.New("file must be smaller than 5MB")
)

// ImageStore 图片落地后端；默认本地磁盘，云端实现可替换
type ImageStore interface {
	// Save 写入并返回可访问 URL
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// UploadService 校验 multipart 图片并交给 ImageStore
type UploadService interface {
	Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error)
}

type uploadService struct {
	store   ImageStore
	maxSize int64
}

func NewUploadService(store ImageStore, maxSize int64) UploadService {
	if maxSize <= 0 {
		maxSize = 5 * 1024 * 1024
	}
	return &uploadService{store: store, maxSize: maxSize}
}

func (s *uploadService) Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}
	if size > s.maxSize {
		return "", ErrFileTooLarge
	}
	return s.store.Save(ctx, filename, contentType, r)
}

// DiskStore 本地磁盘实现，文件经静态路由对外服务
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (d *DiskStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	name := uuid.New().String() + ext
	f, err := os.Create(filepath.Join(d.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return d.baseURL + "/" + name, nil
}
