package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"alfredoptarigan/jobfit-analyzer/internal/config"
	"alfredoptarigan/jobfit-analyzer/internal/models"
	"alfredoptarigan/jobfit-analyzer/internal/repositories"
)

// blockingAnalyzer holds Run until release is closed.
type blockingAnalyzer struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingAnalyzer) Run(_ context.Context, state models.SessionState, _ AnalysisInput) (models.SessionState, *models.AnalysisResult, error) {
	close(b.started)
	<-b.release
	next := state.Clone()
	next.APICallCount++
	return next, &models.AnalysisResult{Intent: models.IntentOverview, Text: "done"}, nil
}

type SessionServiceSuite struct {
	suite.Suite
	clock     *fakeClock
	repo      repositories.SessionRepository
	generator *echoGenerator
	service   SessionService
}

func (s *SessionServiceSuite) SetupTest() {
	s.clock = &fakeClock{now: time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)}
	s.repo = repositories.NewMemorySessionRepository()
	s.generator = &echoGenerator{clock: s.clock, delay: time.Second}

	detector, err := NewSensitiveDataDetector(config.DefaultSensitivePatterns)
	s.Require().NoError(err)
	exporter, err := NewExporter()
	s.Require().NoError(err)

	prompts := NewPromptCatalog()
	analyzer := NewAnalyzerService(&stubParser{}, prompts, NewModelCatalog(nil), detector, s.generator,
		AnalyzerPolicy{Timeout: 30 * time.Minute, MaxAPICalls: 5, RequireConsent: true}, s.clock.Now)

	s.service = NewSessionService(s.repo, analyzer, prompts, exporter, s.clock.Now)
}

func TestSessionServiceSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceSuite))
}

func (s *SessionServiceSuite) newConsentedSession() uuid.UUID {
	state, err := s.service.Create()
	s.Require().NoError(err)
	_, err = s.service.SetConsent(state.ID, true, true)
	s.Require().NoError(err)
	return state.ID
}

func (s *SessionServiceSuite) analyze(id uuid.UUID, intent, label string) (models.HistoryEntry, error) {
	entry, _, err := s.service.Analyze(context.Background(), id, AnalysisInput{
		IntentOrQuery:  intent,
		JobDescription: "Backend engineer, Go",
		Resume:         []byte("Five years of Go"),
	}, label)
	return entry, err
}

func (s *SessionServiceSuite) TestAnalyzePersistsHistory() {
	id := s.newConsentedSession()

	entry, err := s.analyze(id, string(models.IntentOverview), "")
	s.Require().NoError(err)
	s.Equal("Tell Me About the Resume", entry.Label, "label defaults to the intent label")
	s.Equal("2026-07-01 09:00:01", entry.DisplayTime)

	_, err = s.analyze(id, "Is this a good fit?", "my question")
	s.Require().NoError(err)

	state, err := s.service.Get(id)
	s.Require().NoError(err)
	s.Equal(2, state.APICallCount)
	s.Require().Len(state.History, 2)
	s.Equal("my question", state.History[1].Label)

	newest, err := s.service.History(id, true)
	s.Require().NoError(err)
	s.Equal("my question", newest[0].Label)

	latest, ok, err := s.service.Latest(id, "Tell Me About the Resume")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(models.IntentOverview, latest.Result.Intent)

	_, ok, err = s.service.Latest(id, "never used")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *SessionServiceSuite) TestFailedAnalysisLeavesStateUntouched() {
	id := s.newConsentedSession()

	_, _, err := s.service.Analyze(context.Background(), id, AnalysisInput{
		IntentOrQuery:  string(models.IntentOverview),
		JobDescription: "Backend engineer",
		Resume:         []byte("SSN 123-45-6789"),
	}, "")
	s.True(IsValidation(err, ReasonSensitiveData))

	state, err := s.service.Get(id)
	s.Require().NoError(err)
	s.Zero(state.APICallCount)
	s.Empty(state.History)
	s.True(state.Consent)
}

func (s *SessionServiceSuite) TestExpiryResetIsPersisted() {
	id := s.newConsentedSession()
	_, err := s.analyze(id, string(models.IntentOverview), "")
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	_, err = s.analyze(id, string(models.IntentOverview), "")
	s.True(IsValidation(err, ReasonSessionExpired))

	state, err := s.service.Get(id)
	s.Require().NoError(err)
	s.Equal(id, state.ID)
	s.Empty(state.History)
	s.Zero(state.APICallCount)
	s.False(state.Consent)
	s.Equal(s.clock.now, state.StartedAt)
}

func (s *SessionServiceSuite) TestUnknownSession() {
	_, err := s.service.Get(uuid.New())
	s.ErrorIs(err, ErrSessionNotFound)

	_, err = s.analyze(uuid.New(), string(models.IntentOverview), "")
	s.ErrorIs(err, ErrSessionNotFound)

	_, err = s.service.Export(uuid.New(), FormatMarkdown)
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *SessionServiceSuite) TestClear() {
	id := s.newConsentedSession()
	_, err := s.analyze(id, string(models.IntentOverview), "")
	s.Require().NoError(err)

	state, err := s.service.Clear(id)
	s.Require().NoError(err)
	s.Equal(id, state.ID)
	s.Empty(state.History)
	s.Zero(state.APICallCount)
}

func (s *SessionServiceSuite) TestExportMarkdown() {
	id := s.newConsentedSession()
	_, err := s.analyze(id, string(models.IntentOverview), "A")
	s.Require().NoError(err)
	_, err = s.analyze(id, string(models.IntentSkillGap), "B")
	s.Require().NoError(err)

	out, err := s.service.Export(id, FormatMarkdown)
	s.Require().NoError(err)
	s.Contains(string(out), "## A (")
	s.Contains(string(out), "## B (")
}

func (s *SessionServiceSuite) TestConcurrentAnalyzeIsRejected() {
	analyzer := &blockingAnalyzer{started: make(chan struct{}), release: make(chan struct{})}
	exporter, err := NewExporter()
	s.Require().NoError(err)
	service := NewSessionService(s.repo, analyzer, NewPromptCatalog(), exporter, s.clock.Now)

	state, err := service.Create()
	s.Require().NoError(err)

	done := make(chan error, 1)
	go func() {
		_, _, err := service.Analyze(context.Background(), state.ID, AnalysisInput{}, "first")
		done <- err
	}()
	<-analyzer.started

	_, _, err = service.Analyze(context.Background(), state.ID, AnalysisInput{}, "second")
	s.ErrorIs(err, ErrSessionBusy)
	_, err = service.SetConsent(state.ID, true, true)
	s.ErrorIs(err, ErrSessionBusy)

	close(analyzer.release)
	s.Require().NoError(<-done)

	stored, err := service.Get(state.ID)
	s.Require().NoError(err)
	s.Require().Len(stored.History, 1)
	s.Equal("first", stored.History[0].Label)
}

func (s *SessionServiceSuite) TestAnalyzeOnEvictedSessionIsNotFound() {
	analyzer := &blockingAnalyzer{started: make(chan struct{}), release: make(chan struct{})}
	exporter, err := NewExporter()
	s.Require().NoError(err)
	service := NewSessionService(s.repo, analyzer, NewPromptCatalog(), exporter, s.clock.Now)

	state, err := service.Create()
	s.Require().NoError(err)

	done := make(chan error, 1)
	go func() {
		_, _, err := service.Analyze(context.Background(), state.ID, AnalysisInput{}, "first")
		done <- err
	}()
	<-analyzer.started

	// the sweeper drops the row while the analysis is in flight
	s.Require().NoError(s.repo.Delete(state.ID))
	close(analyzer.release)

	err = <-done
	s.ErrorIs(err, ErrSessionNotFound)
	s.NotErrorIs(err, repositories.ErrSessionNotFound)
}
