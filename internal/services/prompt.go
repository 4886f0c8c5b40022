package services

import (
	"strings"

	"alfredoptarigan/jobfit-analyzer/internal/models"
)

type PromptCatalog interface {
	Resolve(intentKeyOrText string) (models.AnalysisIntent, string)
	Intents() []models.AnalysisIntent
}

type promptCatalog struct {
	intents []models.AnalysisIntent
	byKey   map[models.IntentKey]models.AnalysisIntent
}

func NewPromptCatalog() PromptCatalog {
	intents := []models.AnalysisIntent{
		{
			Key:   models.IntentOverview,
			Label: "Tell Me About the Resume",
			Instruction: `You are an experienced Technical Human Resource Manager. Your task is to review the provided resume
against the job description. Highlight the strengths and weaknesses of the applicant in relation to the role.`,
		},
		{
			Key:   models.IntentSkillGap,
			Label: "How Can I Improve my Skills",
			Instruction: `You are a Technical Human Resource Manager with data science expertise. Review the resume against the
job description. Suggest concrete skill improvements and comment on the candidate's suitability for the role.`,
		},
		{
			Key:   models.IntentKeywordGap,
			Label: "What are the Keywords That are Missing",
			Instruction: `You are an ATS (Applicant Tracking System) scanner with deep HR experience. Evaluate the resume against
the job description, list the keywords that are missing from the resume and suggest skill improvements.`,
		},
		{
			Key:   models.IntentMatchPercentage,
			Label: "Percentage Match",
			Instruction: `You are an ATS (Applicant Tracking System) scanner. Evaluate the resume for its percentage match to the
job description. Output, in this order:
1. Match percentage (as a number followed by %)
2. Missing keywords
3. Final thoughts`,
		},
		{
			Key:   models.IntentInterviewChance,
			Label: "Interview Likelihood",
			Instruction: `You are a senior technical recruiter. Based on the resume and the job description, estimate how likely
the candidate is to be invited to an interview (Low / Medium / High), explain the main reasons, and list the
three changes to the resume that would raise that likelihood the most.`,
		},
	}

	byKey := make(map[models.IntentKey]models.AnalysisIntent, len(intents))
	for _, intent := range intents {
		byKey[intent.Key] = intent
	}

	return &promptCatalog{intents: intents, byKey: byKey}
}

// Resolve returns the catalog template for a known intent key. Any other input
// is used as-is as a custom instruction.
func (c *promptCatalog) Resolve(intentKeyOrText string) (models.AnalysisIntent, string) {
	key := models.IntentKey(strings.TrimSpace(intentKeyOrText))
	if intent, ok := c.byKey[key]; ok {
		return intent, intent.Instruction
	}

	return models.AnalysisIntent{
		Key:         models.IntentCustom,
		Label:       "Custom Query",
		Instruction: intentKeyOrText,
	}, intentKeyOrText
}

func (c *promptCatalog) Intents() []models.AnalysisIntent {
	out := make([]models.AnalysisIntent, len(c.intents))
	copy(out, c.intents)
	return out
}
