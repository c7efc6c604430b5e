package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/campusguard/campusguard-backend/internal/dto"
	"github.com/campusguard/campusguard-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrInvalidStatus   = errors.New("invalid status: must be pending, in_review, or resolved")
	ErrTrackingIDTaken = errors.New("tracking id already in use")
)

var validStatuses = map[string]bool{
	"pending":   true,
	"in_review": true,
	"resolved":  true,
}

// ReportFilters narrows a listing. Zero-valued fields are ignored;
// predicates are ANDed together.
type ReportFilters struct {
	Status   string
	Severity string
	Category string
	Limit    int
	Offset   int
}

// ReportService owns the report lifecycle: tracking-ID issuance,
// status transitions with their audit trail, filtered listing and
// aggregate analytics. Input validation happens at the HTTP boundary;
// methods here assume well-formed values except for the status set,
// which is enforced again before any write.
type ReportService interface {
	Submit(ctx context.Context, category, severity, description string, reporterEmail *string) (*models.Report, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*models.Report, error)
	List(ctx context.Context, f ReportFilters) ([]models.Report, int64, error)
	UpdateStatus(ctx context.Context, reportID uint, status string, adminID *uint, notes *string) (*models.Report, error)
	Analytics(ctx context.Context) (*dto.ReportAnalytics, error)
}

type reportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

// generateTrackingID draws 8 bytes from the CSPRNG and hex-encodes
// them behind a fixed prefix, e.g. CG3F9A0B12C4D5E6F7. Collisions are
// astronomically unlikely at this width but the insert still goes
// through the unique index rather than assuming so.
func generateTrackingID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate tracking id: %w", err)
	}
	return "CG" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func (s *reportService) Submit(ctx context.Context, category, severity, description string, reporterEmail *string) (*models.Report, error) {
	trackingID, err := generateTrackingID()
	if err != nil {
		return nil, err
	}

	report := models.Report{
		TrackingID:    trackingID,
		Category:      category,
		Severity:      severity,
		Description:   description,
		ReporterEmail: reporterEmail,
		Status:        "pending",
	}

	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTrackingIDTaken
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	// re-read so storage-assigned fields are authoritative
	var saved models.Report
	if err := s.db.WithContext(ctx).First(&saved, "tracking_id = ?", trackingID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload report: %w", err)
	}
	return &saved, nil
}

func (s *reportService) GetByTrackingID(ctx context.Context, trackingID string) (*models.Report, error) {
	var report models.Report
	if err := s.db.WithContext(ctx).First(&report, "tracking_id = ?", trackingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}
	return &report, nil
}

func (s *reportService) List(ctx context.Context, f ReportFilters) ([]models.Report, int64, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	query := s.db.WithContext(ctx).Model(&models.Report{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Severity != "" {
		query = query.Where("severity = ?", f.Severity)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}

	// total counts the filtered set before pagination
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	reports := make([]models.Report, 0, limit)
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

func (s *reportService) UpdateStatus(ctx context.Context, reportID uint, status string, adminID *uint, notes *string) (*models.Report, error) {
	if !validStatuses[status] {
		return nil, ErrInvalidStatus
	}

	// row update and audit append commit together or not at all
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return err
		}

		if err := tx.Model(&report).Update("status", status).Error; err != nil {
			return err
		}

		update := models.ReportUpdate{
			ReportID: report.ID,
			AdminID:  adminID,
			Status:   status,
			Notes:    notes,
		}
		return tx.Create(&update).Error
	})
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}

	var saved models.Report
	if err := s.db.WithContext(ctx).First(&saved, "id = ?", reportID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload report: %w", err)
	}
	return &saved, nil
}

func (s *reportService) Analytics(ctx context.Context) (*dto.ReportAnalytics, error) {
	analytics := &dto.ReportAnalytics{
		SeverityDistribution: make([]dto.SeverityCount, 0),
		StatusDistribution:   make([]dto.StatusCount, 0),
		CategoryDistribution: make([]dto.CategoryCount, 0),
	}

	if err := s.db.WithContext(ctx).Model(&models.Report{}).Count(&analytics.TotalReports).Error; err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Report{}).
		Select("severity, count(*) as count").
		Group("severity").Order("count DESC").
		Scan(&analytics.SeverityDistribution).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate severities: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Report{}).
		Select("status, count(*) as count").
		Group("status").Order("count DESC").
		Scan(&analytics.StatusDistribution).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate statuses: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Report{}).
		Select("category, count(*) as count").
		Group("category").Order("count DESC").
		Scan(&analytics.CategoryDistribution).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}

	return analytics, nil
}
