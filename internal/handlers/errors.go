package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/jobfit-analyzer/internal/services"
)

const (
	reasonInvalidSessionID = "invalid_session_id"
	reasonInvalidBody      = "invalid_body"
	reasonInvalidFormat    = "invalid_format"
	reasonFileTooLarge     = "file_too_large"
	reasonMissingLabel     = "missing_label"
	reasonEntryNotFound    = "history_entry_not_found"
	reasonSessionNotFound  = "session_not_found"
	reasonSessionBusy      = "session_busy"
	reasonExtraction       = "extraction_failed"
	reasonExport           = "export_failed"
	reasonInternal         = "internal_error"
)

func errorResponse(c *fiber.Ctx, status int, reason, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":  message,
		"reason": reason,
		"code":   status,
	})
}

// respondError maps a service error onto its HTTP status and reason code.
func respondError(c *fiber.Ctx, err error) error {
	var (
		validationErr *services.ValidationError
		externalErr   *services.ExternalServiceError
		extractionErr *services.ExtractionError
		exportErr     *services.ExportError
	)

	switch {
	case errors.As(err, &validationErr):
		return errorResponse(c, fiber.StatusBadRequest, string(validationErr.Reason), err.Error())
	case errors.As(err, &externalErr):
		if externalErr.Reason == services.ReasonRateLimited {
			return errorResponse(c, fiber.StatusTooManyRequests, string(externalErr.Reason), err.Error())
		}
		log.Error().Err(err).Str("path", c.Path()).Msg("❌ Model provider failed")
		return errorResponse(c, fiber.StatusBadGateway, string(externalErr.Reason), err.Error())
	case errors.As(err, &extractionErr):
		return errorResponse(c, fiber.StatusUnprocessableEntity, reasonExtraction, err.Error())
	case errors.As(err, &exportErr):
		log.Error().Err(err).Str("path", c.Path()).Msg("❌ Export failed")
		return errorResponse(c, fiber.StatusInternalServerError, reasonExport, err.Error())
	case errors.Is(err, services.ErrSessionNotFound):
		return errorResponse(c, fiber.StatusNotFound, reasonSessionNotFound, "Session not found")
	case errors.Is(err, services.ErrSessionBusy):
		return errorResponse(c, fiber.StatusConflict, reasonSessionBusy, err.Error())
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("❌ Unhandled error")
		return errorResponse(c, fiber.StatusInternalServerError, reasonInternal, "Internal server error")
	}
}
