package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/campusguard/campusguard-backend/internal/dto"
	"github.com/campusguard/campusguard-backend/internal/middleware"
	"github.com/campusguard/campusguard-backend/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService services.ReportService
	validate      *validator.Validate
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		validate:      validator.New(),
	}
}

// Submit accepts an anonymous report and answers with the stored row,
// tracking ID included. No authentication.
func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Description) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Description is required",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: validationMessage(err),
		})
	}

	report, err := h.reportService.Submit(c.UserContext(), req.Category, req.Severity, req.Description, req.ReporterEmail)
	if err != nil {
		if errors.Is(err, services.ErrTrackingIDTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		return internalError(c, "submit_report", err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// Status resolves a tracking ID to the current report state. Lookup is
// case-sensitive; the public form upper-cases input before calling.
func (h *ReportHandler) Status(c *fiber.Ctx) error {
	trackingID := c.Params("tracking_id")

	report, err := h.reportService.GetByTrackingID(c.UserContext(), trackingID)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "Report not found",
			})
		}
		return internalError(c, "report_status", err)
	}

	return c.JSON(report)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	filters := services.ReportFilters{
		Status:   c.Query("status", ""),
		Severity: c.Query("severity", ""),
		Category: c.Query("category", ""),
		Limit:    limit,
		Offset:   offset,
	}

	reports, total, err := h.reportService.List(c.UserContext(), filters)
	if err != nil {
		return internalError(c, "list_reports", err)
	}

	return c.JSON(dto.ReportListResponse{Reports: reports, Total: total})
}

func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	reportID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid report ID",
		})
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: validationMessage(err),
		})
	}

	var adminID *uint
	if admin, err := middleware.TokenAdmin(c); err == nil {
		adminID = &admin.ID
	}

	report, err := h.reportService.UpdateStatus(c.UserContext(), uint(reportID), req.Status, adminID, req.Notes)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		if errors.Is(err, services.ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		return internalError(c, "update_report_status", err)
	}

	return c.JSON(report)
}

func (h *ReportHandler) Analytics(c *fiber.Ctx) error {
	analytics, err := h.reportService.Analytics(c.UserContext())
	if err != nil {
		return internalError(c, "report_analytics", err)
	}
	return c.JSON(analytics)
}
