package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShehanaHewage/TheCloset/models"
	"github.com/ShehanaHewage/TheCloset/repository"
)

// MaxUploadSize is the upload boundary: 5 MB.
const MaxUploadSize = 5 << 20

// FileUpload carries one incoming multipart file.
type FileUpload struct {
	OriginalName string
	Mimetype     string
	Size         int64
	Content      io.Reader
}

// FileService stores uploaded images on disk and records their metadata.
type FileService interface {
	Store(ctx context.Context, upload *FileUpload) (*models.StoredFile, *ServiceError)
	Resolve(filename string) (string, *ServiceError)
}

type fileServiceImpl struct {
	repo        repository.FileRepository
	storagePath string
	logger      *zap.Logger
}

// NewFileService creates a FileService writing under storagePath.
func NewFileService(repo repository.FileRepository, storagePath string, logger *zap.Logger) FileService {
	return &fileServiceImpl{repo: repo, storagePath: storagePath, logger: logger}
}

// Store writes the upload to disk under a generated name (random uuid, original
// extension preserved) and persists its metadata. If the metadata insert fails
// the disk artifact is removed so no orphan is left behind.
func (s *fileServiceImpl) Store(ctx context.Context, upload *FileUpload) (*models.StoredFile, *ServiceError) {
	if upload.Size > MaxUploadSize {
		return nil, NewServiceError(400, "File exceeds the 5MB size limit")
	}
	if !strings.HasPrefix(upload.Mimetype, "image/") {
		return nil, NewServiceError(400, "Only image files are allowed")
	}

	filename := uuid.New().String() + strings.ToLower(filepath.Ext(upload.OriginalName))
	path := filepath.Join(s.storagePath, filename)

	dst, err := os.Create(path)
	if err != nil {
		s.logger.Error("Failed to create upload file", zap.String("path", path), zap.Error(err))
		return nil, NewServiceError(500, "Failed to store file")
	}

	written, err := io.Copy(dst, io.LimitReader(upload.Content, MaxUploadSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > MaxUploadSize {
		err = os.ErrInvalid
	}
	if err != nil {
		s.removeArtifact(path)
		s.logger.Error("Failed to write upload file", zap.String("path", path), zap.Error(err))
		return nil, NewServiceError(500, "Failed to store file")
	}

	file := &models.StoredFile{
		Filename:     filename,
		OriginalName: upload.OriginalName,
		Mimetype:     upload.Mimetype,
		Size:         written,
		UploadDate:   nowUTC(),
	}

	id, err := s.repo.Create(ctx, file)
	if err != nil {
		s.removeArtifact(path)
		s.logger.Error("Failed to record file metadata", zap.String("filename", filename), zap.Error(err))
		return nil, NewServiceError(500, "Failed to store file")
	}
	file.ID = id

	s.logger.Info("File stored", zap.String("filename", filename), zap.Int64("size", written))
	return file, nil
}

// Resolve maps a public filename to its on-disk path. The name is reduced to
// its base component so a crafted filename cannot escape the storage root.
func (s *fileServiceImpl) Resolve(filename string) (string, *ServiceError) {
	clean := filepath.Base(filename)
	if clean == "." || clean == string(filepath.Separator) {
		return "", NewServiceError(404, "File not found")
	}

	path := filepath.Join(s.storagePath, clean)
	if _, err := os.Stat(path); err != nil {
		return "", NewServiceError(404, "File not found")
	}
	return path, nil
}

func (s *fileServiceImpl) removeArtifact(path string) {
	if err := os.Remove(path); err != nil {
		s.logger.Warn("Failed to remove orphaned upload", zap.String("path", path), zap.Error(err))
	}
}
