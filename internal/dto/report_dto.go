package dto

import "github.com/campusguard/campusguard-backend/internal/models"

type SubmitReportRequest struct {
	Category      string  `json:"category" validate:"required,oneof=bullying harassment cyberbullying other"`
	Severity      string  `json:"severity" validate:"required,oneof=low medium high"`
	Description   string  `json:"description" validate:"required,max=5000"`
	ReporterEmail *string `json:"reporter_email" validate:"omitempty,email,max=255"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending in_review resolved"`
	Notes  *string `json:"notes" validate:"omitempty,max=5000"`
}

type ReportListResponse struct {
	Reports []models.Report `json:"reports"`
	Total   int64           `json:"total"`
}

type SeverityCount struct {
	Severity string `json:"severity"`
	Count    int64  `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// ReportAnalytics mirrors the admin dashboard summary: full row count
// plus per-field (value, count) distributions ordered by count.
type ReportAnalytics struct {
	TotalReports         int64           `json:"totalReports"`
	SeverityDistribution []SeverityCount `json:"severityDistribution"`
	StatusDistribution   []StatusCount   `json:"statusDistribution"`
	CategoryDistribution []CategoryCount `json:"categoryDistribution"`
}

type AttachmentListResponse struct {
	Attachments []models.Attachment `json:"attachments"`
}
