package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/campusguard/campusguard-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAttachmentTooLarge  = errors.New("attachment exceeds maximum size")
	ErrUnsupportedFileType = errors.New("unsupported attachment type")
)

var allowedMimetypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"text/plain":      true,
}

// AttachmentService stores evidence files against a report. Blobs are
// written under a random name so client filenames never touch the
// filesystem; only metadata goes in the database.
type AttachmentService interface {
	Save(ctx context.Context, trackingID string, file *multipart.FileHeader) (*models.Attachment, error)
	ListForReport(ctx context.Context, trackingID string) ([]models.Attachment, error)
}

type attachmentService struct {
	db      *gorm.DB
	dir     string
	maxSize int64
}

func NewAttachmentService(db *gorm.DB, dir string, maxSize int64) AttachmentService {
	return &attachmentService{db: db, dir: dir, maxSize: maxSize}
}

func (s *attachmentService) Save(ctx context.Context, trackingID string, file *multipart.FileHeader) (*models.Attachment, error) {
	var report models.Report
	if err := s.db.WithContext(ctx).First(&report, "tracking_id = ?", trackingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}

	if file.Size > s.maxSize {
		return nil, ErrAttachmentTooLarge
	}
	mimetype := file.Header.Get("Content-Type")
	if !allowedMimetypes[mimetype] {
		return nil, ErrUnsupportedFileType
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("failed to write attachment: %w", err)
	}

	attachment := models.Attachment{
		ReportID:   report.ID,
		Filename:   filepath.Base(file.Filename),
		StoredName: storedName,
		Mimetype:   mimetype,
		Size:       file.Size,
	}
	if err := s.db.WithContext(ctx).Create(&attachment).Error; err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}
	return &attachment, nil
}

func (s *attachmentService) ListForReport(ctx context.Context, trackingID string) ([]models.Attachment, error) {
	var report models.Report
	if err := s.db.WithContext(ctx).First(&report, "tracking_id = ?", trackingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}

	attachments := make([]models.Attachment, 0)
	if err := s.db.WithContext(ctx).Where("report_id = ?", report.ID).Order("created_at ASC").Find(&attachments).Error; err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}
