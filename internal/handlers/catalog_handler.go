package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/jobfit-analyzer/internal/services"
)

type CatalogHandler struct {
	prompts      services.PromptCatalog
	modelCatalog services.ModelCatalog
}

func NewCatalogHandler(prompts services.PromptCatalog, modelCatalog services.ModelCatalog) *CatalogHandler {
	return &CatalogHandler{
		prompts:      prompts,
		modelCatalog: modelCatalog,
	}
}

func (h *CatalogHandler) HandleModels(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"default": h.modelCatalog.Default(),
		"models":  h.modelCatalog.Options(),
	})
}

func (h *CatalogHandler) HandleIntents(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"intents": h.prompts.Intents(),
	})
}
