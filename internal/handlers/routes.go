package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(
	api fiber.Router,
	sessionHandler *SessionHandler,
	analyzeHandler *AnalyzeHandler,
	catalogHandler *CatalogHandler,
) {
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Get("/models", catalogHandler.HandleModels)
	api.Get("/intents", catalogHandler.HandleIntents)

	sessions := api.Group("/sessions")
	sessions.Post("/", sessionHandler.HandleCreate)
	sessions.Get("/:id", sessionHandler.HandleGet)
	sessions.Post("/:id/consent", sessionHandler.HandleConsent)
	sessions.Post("/:id/analyze", analyzeHandler.HandleAnalyze)
	sessions.Get("/:id/history", sessionHandler.HandleHistory)
	sessions.Get("/:id/history/latest", sessionHandler.HandleLatest)
	sessions.Delete("/:id/history", sessionHandler.HandleClear)
	sessions.Get("/:id/export", sessionHandler.HandleExport)
}
