package handlers

import (
	"errors"

	"github.com/campusguard/campusguard-backend/internal/dto"
	"github.com/campusguard/campusguard-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AttachmentHandler struct {
	attachmentService services.AttachmentService
}

func NewAttachmentHandler(attachmentService services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// Upload stores one evidence file against the report addressed by its
// tracking ID. Anonymous by design: holding the tracking ID is the
// only proof of ownership a reporter has.
func (h *AttachmentHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Attachment file is required",
		})
	}

	attachment, err := h.attachmentService.Save(c.UserContext(), c.Params("tracking_id"), file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "Report not found",
			})
		case errors.Is(err, services.ErrAttachmentTooLarge),
			errors.Is(err, services.ErrUnsupportedFileType):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		return internalError(c, "upload_attachment", err)
	}

	return c.Status(fiber.StatusCreated).JSON(attachment)
}

func (h *AttachmentHandler) List(c *fiber.Ctx) error {
	attachments, err := h.attachmentService.ListForReport(c.UserContext(), c.Params("tracking_id"))
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "Report not found",
			})
		}
		return internalError(c, "list_attachments", err)
	}

	return c.JSON(dto.AttachmentListResponse{Attachments: attachments})
}
