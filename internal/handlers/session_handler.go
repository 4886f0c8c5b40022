package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/jobfit-analyzer/internal/models"
	"alfredoptarigan/jobfit-analyzer/internal/services"
	"alfredoptarigan/jobfit-analyzer/internal/session"
)

type SessionHandler struct {
	sessionService services.SessionService
	timeout        time.Duration
	maxAPICalls    int
}

func NewSessionHandler(
	sessionService services.SessionService,
	timeout time.Duration,
	maxAPICalls int,
) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		timeout:        timeout,
		maxAPICalls:    maxAPICalls,
	}
}

func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	state, err := h.sessionService.Create()
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.CreateSessionResponse{
		ID:        state.ID.String(),
		StartedAt: state.StartedAt,
		ExpiresAt: session.ExpiresAt(state, h.timeout),
	})
}

func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidSessionID(c)
	}

	state, err := h.sessionService.Get(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(h.sessionResponse(state))
}

func (h *SessionHandler) HandleConsent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidSessionID(c)
	}

	var req models.ConsentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, reasonInvalidBody, "Invalid request body")
	}

	state, err := h.sessionService.SetConsent(id, req.Consent, req.PrivacyAck)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(h.sessionResponse(state))
}

// HandleHistory lists entries newest first unless order=asc is given.
func (h *SessionHandler) HandleHistory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidSessionID(c)
	}

	newestFirst := !strings.EqualFold(c.Query("order"), "asc")
	entries, err := h.sessionService.History(id, newestFirst)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.HistoryResponse{
		SessionID: id.String(),
		Count:     len(entries),
		Entries:   entries,
	})
}

func (h *SessionHandler) HandleLatest(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidSessionID(c)
	}

	label := c.Query("label")
	if strings.TrimSpace(label) == "" {
		return errorResponse(c, fiber.StatusBadRequest, reasonMissingLabel, "Query parameter 'label' is required")
	}

	entry, ok, err := h.sessionService.Latest(id, label)
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return errorResponse(c, fiber.StatusNotFound, reasonEntryNotFound, fmt.Sprintf("No analysis labeled %q in this session", label))
	}

	return c.JSON(entry)
}

func (h *SessionHandler) HandleClear(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidSessionID(c)
	}

	state, err := h.sessionService.Clear(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(h.sessionResponse(state))
}

func (h *SessionHandler) HandleExport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidSessionID(c)
	}

	format, err := services.ParseExportFormat(c.Query("format"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, reasonInvalidFormat, err.Error())
	}

	data, err := h.sessionService.Export(id, format)
	if err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("resume_analysis_%s%s", time.Now().Format("20060102_150405"), format.Extension())
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(data)
}

func (h *SessionHandler) sessionResponse(state models.SessionState) models.SessionResponse {
	remaining := h.maxAPICalls - state.APICallCount
	if remaining < 0 {
		remaining = 0
	}

	return models.SessionResponse{
		ID:             state.ID.String(),
		StartedAt:      state.StartedAt,
		ExpiresAt:      session.ExpiresAt(state, h.timeout),
		Consent:        state.Consent,
		PrivacyAck:     state.PrivacyAck,
		APICallCount:   state.APICallCount,
		RemainingCalls: remaining,
		HistoryLength:  len(state.History),
	}
}

func invalidSessionID(c *fiber.Ctx) error {
	return errorResponse(c, fiber.StatusBadRequest, reasonInvalidSessionID, "Invalid session ID format")
}
