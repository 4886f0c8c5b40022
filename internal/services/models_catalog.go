package services

import (
	"strings"

	"alfredoptarigan/jobfit-analyzer/internal/models"
)

var defaultModelOptions = []models.ModelOption{
	{ID: "gemini-2.5-flash", Label: "Gemini 2.5 Flash (Fast & Smart)"},
	{ID: "gemini-2.0-flash", Label: "Gemini 2.0 Flash (Next-Gen Fast & Smart)"},
	{ID: "gemini-2.0-flash-lite", Label: "Gemini 2.0 Flash-Lite (Low Latency)"},
	{ID: "gemini-1.5-flash", Label: "Gemini 1.5 Flash (Fast & Versatile)"},
	{ID: "gemini-1.5-flash-8b", Label: "Gemini 1.5 Flash-8B (High Volume)"},
	{ID: "gemini-1.5-pro", Label: "Gemini 1.5 Pro (Advanced Reasoning)"},
}

// ModelCatalog is the fixed set of selectable model identifiers. The first
// entry is the default.
type ModelCatalog interface {
	Resolve(selector string) (string, bool)
	Default() string
	Options() []models.ModelOption
}

type modelCatalog struct {
	options []models.ModelOption
}

// NewModelCatalog builds the catalog from configured IDs, or the built-in list
// when ids is empty.
func NewModelCatalog(ids []string) ModelCatalog {
	var options []models.ModelOption
	if len(ids) == 0 {
		options = append(options, defaultModelOptions...)
	} else {
		for _, id := range ids {
			options = append(options, models.ModelOption{ID: id, Label: labelFor(id)})
		}
	}
	options[0].Default = true
	return &modelCatalog{options: options}
}

func labelFor(id string) string {
	for _, opt := range defaultModelOptions {
		if opt.ID == id {
			return opt.Label
		}
	}
	return id
}

// Resolve accepts a model ID or its display label. Blank selects the default.
func (m *modelCatalog) Resolve(selector string) (string, bool) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return m.Default(), true
	}
	for _, opt := range m.options {
		if opt.ID == selector || opt.Label == selector {
			return opt.ID, true
		}
	}
	return "", false
}

func (m *modelCatalog) Default() string {
	return m.options[0].ID
}

func (m *modelCatalog) Options() []models.ModelOption {
	out := make([]models.ModelOption, len(m.options))
	copy(out, m.options)
	return out
}
