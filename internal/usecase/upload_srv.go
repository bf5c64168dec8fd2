package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"material-market/internal/storage"
	"material-market/pkg/utils"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// BlobStore persists uploaded files by name.
type BlobStore interface {
	Save(name string, r io.Reader) (int64, error)
	Delete(name string) error
}

// UploadFile is one part of a multipart upload.
type UploadFile struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

type UploadService interface {
	// Upload stores the files and returns their URLs in input order.
	Upload(ctx context.Context, files []UploadFile) ([]string, error)
	// Limits reports the per-upload file count and per-file byte caps.
	Limits() (maxFiles int, maxFileBytes int64)
}

var allowedImages = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

type uploadService struct {
	store  BlobStore
	config utils.UploadConfig
	log    *zap.Logger
}

func NewUploadService(store BlobStore, config utils.UploadConfig, log *zap.Logger) UploadService {
	return &uploadService{
		store:  store,
		config: config,
		log:    log.With(zap.String("service", "upload")),
	}
}

func (s *uploadService) Limits() (int, int64) {
	return s.config.MaxFiles, s.config.MaxFileBytes()
}

func (s *uploadService) Upload(ctx context.Context, files []UploadFile) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > s.config.MaxFiles {
		return nil, fmt.Errorf("%w: at most %d files per upload", ErrTooManyFiles, s.config.MaxFiles)
	}

	// Check every file before writing any of them.
	exts := make([]string, len(files))
	for i, f := range files {
		ext, err := s.check(f)
		if err != nil {
			s.log.Warn("Upload rejected", zap.String("filename", f.Filename), zap.Error(err))
			return nil, err
		}
		exts[i] = ext
	}

	urls := make([]string, 0, len(files))
	saved := make([]string, 0, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			s.cleanup(saved)
			return nil, err
		}

		name := storage.GenerateFileName(exts[i])
		if err := s.save(name, f); err != nil {
			s.cleanup(saved)
			return nil, err
		}
		saved = append(saved, name)
		urls = append(urls, s.config.URLPrefix+"/"+name)
	}

	s.log.Info("Files uploaded", zap.Int("count", len(urls)), zap.Strings("names", saved))
	return urls, nil
}

func (s *uploadService) check(f UploadFile) (string, error) {
	if f.Size > s.config.MaxFileBytes() {
		return "", fmt.Errorf("%w: %s exceeds %dMB", ErrFileTooLarge, f.Filename, s.config.MaxFileMB)
	}

	ext := strings.ToLower(filepath.Ext(f.Filename))
	want, ok := allowedImages[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s (allowed: jpg, jpeg, png, gif)", ErrUnsupportedType, f.Filename)
	}

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Filename, err)
	}
	defer rc.Close()

	mtype, err := mimetype.DetectReader(rc)
	if err != nil {
		return "", fmt.Errorf("detect type of %s: %w", f.Filename, err)
	}
	if !mtype.Is(want) {
		return "", fmt.Errorf("%w: %s content is %s", ErrUnsupportedType, f.Filename, mtype.String())
	}

	return ext, nil
}

func (s *uploadService) save(name string, f UploadFile) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Filename, err)
	}
	defer rc.Close()

	limit := s.config.MaxFileBytes()
	n, err := s.store.Save(name, io.LimitReader(rc, limit+1))
	if err != nil {
		s.log.Error("Failed to store upload", zap.String("filename", f.Filename), zap.Error(err))
		return fmt.Errorf("store %s: %w", f.Filename, err)
	}

	// Declared size is client supplied.
	if n > limit {
		_ = s.store.Delete(name)
		return fmt.Errorf("%w: %s exceeds %dMB", ErrFileTooLarge, f.Filename, s.config.MaxFileMB)
	}

	return nil
}

func (s *uploadService) cleanup(names []string) {
	for _, name := range names {
		if err := s.store.Delete(name); err != nil {
			s.log.Warn("Failed to remove partial upload", zap.String("name", name), zap.Error(err))
		}
	}
}
