package handlers

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/jobfit-analyzer/internal/models"
	"alfredoptarigan/jobfit-analyzer/internal/services"
)

type AnalyzeHandler struct {
	sessionService services.SessionService
	maxFileSize    int64
}

func NewAnalyzeHandler(sessionService services.SessionService, maxFileSize int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		sessionService: sessionService,
		maxFileSize:    maxFileSize,
	}
}

// HandleAnalyze runs one analysis. The form carries job_description, the
// resume PDF, and either a catalog intent key or a free-form query.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidSessionID(c)
	}

	resume, err := h.readResume(c)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			return errorResponse(c, fiber.StatusBadRequest, reasonFileTooLarge,
				fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
		}
		return errorResponse(c, fiber.StatusBadRequest, reasonInvalidBody, err.Error())
	}

	intent := strings.TrimSpace(c.FormValue("intent"))
	if intent == "" {
		intent = c.FormValue("query")
	}
	if strings.TrimSpace(intent) == "" {
		intent = string(models.IntentOverview)
	}

	entry, state, err := h.sessionService.Analyze(c.UserContext(), id, services.AnalysisInput{
		IntentOrQuery:  intent,
		JobDescription: c.FormValue("job_description"),
		Resume:         resume,
		Model:          c.FormValue("model"),
	}, c.FormValue("label"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.AnalyzeResponse{
		Label:          entry.Label,
		Intent:         entry.Result.Intent,
		Model:          entry.Result.Model,
		Response:       entry.Result.Text,
		ElapsedSeconds: entry.Result.ElapsedSeconds(),
		Percentage:     entry.Result.Percentage,
		Timestamp:      entry.DisplayTime,
		APICallCount:   state.APICallCount,
	})
}

var errFileTooLarge = errors.New("resume file too large")

// readResume loads the uploaded file into memory once. A missing file yields
// nil so the pipeline reports it as a validation error.
func (h *AnalyzeHandler) readResume(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile("resume")
	if err != nil {
		return nil, nil
	}

	if file.Size > h.maxFileSize {
		return nil, errFileTooLarge
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open resume upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read resume upload: %w", err)
	}
	if int64(len(data)) > h.maxFileSize {
		return nil, errFileTooLarge
	}
	return data, nil
}
