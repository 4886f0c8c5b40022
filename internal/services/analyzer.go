package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"alfredoptarigan/jobfit-analyzer/internal/models"
	"alfredoptarigan/jobfit-analyzer/internal/session"
)

// AnalysisInput is what one button press supplies.
type AnalysisInput struct {
	IntentOrQuery  string
	JobDescription string
	Resume         []byte
	Model          string
}

type AnalyzerPolicy struct {
	Timeout        time.Duration
	MaxAPICalls    int
	RequireConsent bool
}

type AnalyzerService interface {
	// Run validates the input against the session, calls the model and
	// returns the next session state with the result. The returned state is
	// meaningful on error too: an expired session comes back reset.
	Run(ctx context.Context, state models.SessionState, in AnalysisInput) (models.SessionState, *models.AnalysisResult, error)
}

type analyzerService struct {
	pdfParser PDFParserService
	prompts   PromptCatalog
	models    ModelCatalog
	detector  SensitiveDataDetector
	generator AnswerGenerator
	policy    AnalyzerPolicy
	now       func() time.Time
}

func NewAnalyzerService(
	pdfParser PDFParserService,
	prompts PromptCatalog,
	modelCatalog ModelCatalog,
	detector SensitiveDataDetector,
	generator AnswerGenerator,
	policy AnalyzerPolicy,
	now func() time.Time,
) AnalyzerService {
	if now == nil {
		now = time.Now
	}
	return &analyzerService{
		pdfParser: pdfParser,
		prompts:   prompts,
		models:    modelCatalog,
		detector:  detector,
		generator: generator,
		policy:    policy,
		now:       now,
	}
}

func (a *analyzerService) Run(ctx context.Context, state models.SessionState, in AnalysisInput) (models.SessionState, *models.AnalysisResult, error) {
	if strings.TrimSpace(in.JobDescription) == "" {
		return state, nil, validation(ReasonMissingJobDescription)
	}
	if len(in.Resume) == 0 {
		return state, nil, validation(ReasonMissingResume)
	}
	if a.policy.RequireConsent && !(state.Consent && state.PrivacyAck) {
		return state, nil, validation(ReasonConsentRequired)
	}

	now := a.now()
	if session.IsExpired(state, now, a.policy.Timeout) {
		log.Info().Str("session_id", state.ID.String()).Msg("⏰ Session expired, resetting")
		return session.Reset(state, now), nil, validation(ReasonSessionExpired)
	}

	if state.APICallCount >= a.policy.MaxAPICalls {
		return state, nil, &ExternalServiceError{Reason: ReasonRateLimited}
	}

	resumeText, err := a.pdfParser.ExtractText(in.Resume)
	if err != nil {
		var extractionErr *ExtractionError
		if !errors.As(err, &extractionErr) {
			err = &ExtractionError{Cause: err}
		}
		return state, nil, err
	}

	if hits := a.detector.Detect(resumeText); len(hits) > 0 {
		log.Warn().
			Str("session_id", state.ID.String()).
			Int("patterns", len(hits)).
			Msg("🔒 Sensitive data detected in resume, request blocked")
		return state, nil, validation(ReasonSensitiveData)
	}

	intent, instruction := a.prompts.Resolve(in.IntentOrQuery)

	model, ok := a.models.Resolve(in.Model)
	if !ok {
		return state, nil, validation(ReasonUnknownModel)
	}

	req := models.AnalysisRequest{
		JobDescription: in.JobDescription,
		ResumeText:     resumeText,
		Intent:         intent.Key,
		Instruction:    instruction,
		Model:          model,
	}

	log.Debug().
		Str("session_id", state.ID.String()).
		Str("intent", string(req.Intent)).
		Str("model", req.Model).
		Int("resume_chars", len(req.ResumeText)).
		Msg("🤖 Calling model")

	start := a.now()
	text, err := a.generator.GenerateAnswer(ctx, req.Model, ComposeQuery(req))
	elapsed := a.now().Sub(start)
	if err != nil {
		return state, nil, &ExternalServiceError{Reason: ReasonProviderFailure, Cause: err}
	}
	if elapsed < 0 {
		elapsed = 0
	}

	next := state.Clone()
	next.APICallCount++

	result := &models.AnalysisResult{
		Intent:  req.Intent,
		Model:   req.Model,
		Text:    text,
		Elapsed: elapsed,
	}
	if req.Intent == models.IntentMatchPercentage {
		result.Percentage = ExtractPercentage(text)
	}

	log.Info().
		Str("session_id", state.ID.String()).
		Str("intent", string(req.Intent)).
		Dur("elapsed", elapsed).
		Int("api_calls", next.APICallCount).
		Msg("✅ Analysis completed")

	return next, result, nil
}

// ComposeQuery orders the parts of the single user turn: instruction, resume
// text, job description.
func ComposeQuery(req models.AnalysisRequest) []string {
	return []string{req.Instruction, req.ResumeText, req.JobDescription}
}
