package adaptor

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"material-market/internal/usecase"
	"material-market/pkg/utils"

	"go.uber.org/zap"
)

const uploadField = "images"

type UploadHandler struct {
	service usecase.UploadService
	log     *zap.Logger
}

func NewUploadHandler(service usecase.UploadService, log *zap.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		log:     log.With(zap.String("handler", "upload")),
	}
}

// Upload handles POST /api/upload (multipart field "images")
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}

	maxFiles, maxFileBytes := h.service.Limits()
	spool := &uploadSpool{}
	defer spool.remove(h.log)

	if err := spool.read(mr, maxFiles, maxFileBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ResponseTooLarge(w, "Upload too large")
			return
		}
		h.log.Warn("Failed to read multipart upload", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}

	urls, err := h.service.Upload(r.Context(), spool.files)
	if err != nil {
		handleServiceError(w, h.log, err, "upload")
		return
	}

	utils.ResponseList(w, "Files uploaded", urls)
}

// uploadSpool copies image parts to temp files while streaming the body.
// It stops reading once a part crosses the byte cap or one part past the
// count cap has arrived, leaving the rejection itself to the service.
type uploadSpool struct {
	files []usecase.UploadFile
	paths []string
}

func (s *uploadSpool) read(mr *multipart.Reader, maxFiles int, maxFileBytes int64) error {
	for len(s.files) <= maxFiles {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if part.FormName() != uploadField || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		size, err := s.add(part, maxFileBytes)
		_ = part.Close()
		if err != nil {
			return err
		}
		if size > maxFileBytes {
			return nil
		}
	}
	return nil
}

func (s *uploadSpool) add(part *multipart.Part, maxFileBytes int64) (int64, error) {
	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	s.paths = append(s.paths, tmp.Name())

	size, err := io.Copy(tmp, io.LimitReader(part, maxFileBytes+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}

	path := tmp.Name()
	s.files = append(s.files, usecase.UploadFile{
		Filename: part.FileName(),
		Size:     size,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	})
	return size, nil
}

func (s *uploadSpool) remove(log *zap.Logger) {
	for _, path := range s.paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("Failed to remove spooled upload", zap.String("path", path), zap.Error(err))
		}
	}
}
