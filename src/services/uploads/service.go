// Package uploads stores files attached to file fields and returns the value saved in the submission.
package uploads

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"Backend-FormGen/src/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// MaxFileSize is the largest accepted upload, 20MB.
const MaxFileSize int64 = 20 << 20

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	ErrTooLarge       = errors.New("file exceeds the 20MB limit")
	ErrTypeNotAllowed = errors.New("only images, PDF and DOCX files are allowed")
	ErrEmptyFile      = errors.New("file is empty")
)

// ObjectStore is the part of *minio.Client used here.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type Service struct {
	store   ObjectStore
	bucket  string
	baseURL string
	log     *zap.Logger
}

// NewService returns an upload service. A nil store runs in preview mode: images come back
// as data URLs and other files as their name.
func NewService(store ObjectStore, bucket, baseURL string, log *zap.Logger) *Service {
	return &Service{store: store, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// Persistent reports whether uploads are kept in object storage.
func (s *Service) Persistent() bool {
	return s.store != nil
}

// Upload checks size and content type, then stores the file.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader) (*models.UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	contentType, ok := allowedType(fileName, data)
	if !ok {
		return nil, ErrTypeNotAllowed
	}

	result := &models.UploadResult{
		FileName:    filepath.Base(fileName),
		ContentType: contentType,
		Size:        int64(len(data)),
	}

	if s.store == nil {
		if strings.HasPrefix(contentType, "image/") {
			result.URL = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
		} else {
			result.URL = result.FileName
		}
		return result, nil
	}

	objectName := fmt.Sprintf("uploads/%s/%s%s", time.Now().UTC().Format("2006/01/02"), uuid.New().String(), strings.ToLower(filepath.Ext(fileName)))
	_, err = s.store.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	result.URL = s.baseURL + "/" + s.bucket + "/" + objectName
	result.Persistent = true
	s.log.Info("file uploaded", zap.String("object", objectName), zap.String("content_type", contentType), zap.Int64("size", result.Size))
	return result, nil
}

// allowedType sniffs the content and matches it against the allow-list.
func allowedType(fileName string, data []byte) (string, bool) {
	mt := mimetype.Detect(data)
	switch {
	case strings.HasPrefix(mt.String(), "image/"):
		return mt.String(), true
	case mt.Is("application/pdf"):
		return "application/pdf", true
	case mt.Is(docxMIME):
		return docxMIME, true
	case mt.Is("application/zip") && strings.EqualFold(filepath.Ext(fileName), ".docx"):
		return docxMIME, true
	}
	return mt.String(), false
}
