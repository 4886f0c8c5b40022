package services

import (
	"errors"
	"fmt"
)

type ValidationReason string

const (
	ReasonMissingJobDescription ValidationReason = "missing_job_description"
	ReasonMissingResume         ValidationReason = "missing_resume"
	ReasonConsentRequired       ValidationReason = "consent_required"
	ReasonSessionExpired        ValidationReason = "session_expired"
	ReasonSensitiveData         ValidationReason = "sensitive_data_detected"
	ReasonUnknownModel          ValidationReason = "unknown_model"
)

var validationMessages = map[ValidationReason]string{
	ReasonMissingJobDescription: "Please enter a job description before submitting.",
	ReasonMissingResume:         "Please upload a PDF resume to proceed.",
	ReasonConsentRequired:       "Please accept the data processing consent and privacy notice first.",
	ReasonSessionExpired:        "Your session expired and has been reset. Please start again.",
	ReasonSensitiveData:         "The resume appears to contain sensitive personal data. Remove it and upload again.",
	ReasonUnknownModel:          "The selected model is not available.",
}

// ValidationError is a locally recoverable input or gating failure.
type ValidationError struct {
	Reason ValidationReason
}

func (e *ValidationError) Error() string {
	if msg, ok := validationMessages[e.Reason]; ok {
		return msg
	}
	return string(e.Reason)
}

type ExternalReason string

const (
	ReasonRateLimited     ExternalReason = "rate_limited"
	ReasonProviderFailure ExternalReason = "provider_failure"
)

// ExternalServiceError covers the locally enforced call ceiling and failures
// reported by the model provider.
type ExternalServiceError struct {
	Reason ExternalReason
	Cause  error
}

func (e *ExternalServiceError) Error() string {
	if e.Reason == ReasonRateLimited {
		return "API call limit reached for this session"
	}
	if e.Cause != nil {
		return fmt.Sprintf("model provider failed: %v", e.Cause)
	}
	return "model provider failed"
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Cause
}

type ExtractionError struct {
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract resume text: %v", e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

type ExportError struct {
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export history: %v", e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("another analysis is already running for this session")
)

func validation(reason ValidationReason) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a ValidationError with the given reason.
func IsValidation(err error, reason ValidationReason) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Reason == reason
}

func IsExternal(err error, reason ExternalReason) bool {
	var ee *ExternalServiceError
	return errors.As(err, &ee) && ee.Reason == reason
}
