package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/jobfit-analyzer/internal/models"
	"alfredoptarigan/jobfit-analyzer/internal/repositories"
	"alfredoptarigan/jobfit-analyzer/internal/session"
)

type SessionService interface {
	Create() (models.SessionState, error)
	Get(id uuid.UUID) (models.SessionState, error)
	SetConsent(id uuid.UUID, consent, privacyAck bool) (models.SessionState, error)
	Analyze(ctx context.Context, id uuid.UUID, in AnalysisInput, label string) (models.HistoryEntry, models.SessionState, error)
	History(id uuid.UUID, newestFirst bool) ([]models.HistoryEntry, error)
	Latest(id uuid.UUID, label string) (models.HistoryEntry, bool, error)
	Clear(id uuid.UUID) (models.SessionState, error)
	Export(id uuid.UUID, format ExportFormat) ([]byte, error)
	Forget(id uuid.UUID)
}

type sessionService struct {
	repo     repositories.SessionRepository
	analyzer AnalyzerService
	prompts  PromptCatalog
	exporter Exporter
	now      func() time.Time

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
}

func NewSessionService(
	repo repositories.SessionRepository,
	analyzer AnalyzerService,
	prompts PromptCatalog,
	exporter Exporter,
	now func() time.Time,
) SessionService {
	if now == nil {
		now = time.Now
	}
	return &sessionService{
		repo:     repo,
		analyzer: analyzer,
		prompts:  prompts,
		exporter: exporter,
		now:      now,
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *sessionService) Create() (models.SessionState, error) {
	state := session.New(uuid.New(), s.now())
	if err := s.repo.Create(state); err != nil {
		return models.SessionState{}, fmt.Errorf("failed to create session: %w", err)
	}
	log.Info().Str("session_id", state.ID.String()).Msg("🆕 Session created")
	return state, nil
}

func (s *sessionService) Get(id uuid.UUID) (models.SessionState, error) {
	return s.find(id)
}

func (s *sessionService) SetConsent(id uuid.UUID, consent, privacyAck bool) (models.SessionState, error) {
	unlock, err := s.lock(id)
	if err != nil {
		return models.SessionState{}, err
	}
	defer unlock()

	state, err := s.find(id)
	if err != nil {
		return models.SessionState{}, err
	}

	state.Consent = consent
	state.PrivacyAck = privacyAck
	if err := s.save(state, "failed to save consent"); err != nil {
		return models.SessionState{}, err
	}
	return state, nil
}

// Analyze runs the pipeline for one session. Whatever state the pipeline hands
// back is persisted, so an expiry reset sticks even though the request fails.
func (s *sessionService) Analyze(ctx context.Context, id uuid.UUID, in AnalysisInput, label string) (models.HistoryEntry, models.SessionState, error) {
	unlock, err := s.lock(id)
	if err != nil {
		return models.HistoryEntry{}, models.SessionState{}, err
	}
	defer unlock()

	state, err := s.find(id)
	if err != nil {
		return models.HistoryEntry{}, models.SessionState{}, err
	}

	next, result, runErr := s.analyzer.Run(ctx, state, in)
	if runErr != nil {
		if IsValidation(runErr, ReasonSessionExpired) {
			if err := s.save(next, "failed to save reset session"); err != nil {
				return models.HistoryEntry{}, state, err
			}
		}
		return models.HistoryEntry{}, next, runErr
	}

	if strings.TrimSpace(label) == "" {
		intent, _ := s.prompts.Resolve(in.IntentOrQuery)
		label = intent.Label
	}

	next = session.Append(next, label, *result, s.now())
	if err := s.save(next, "failed to save analysis"); err != nil {
		return models.HistoryEntry{}, state, err
	}

	return next.History[len(next.History)-1], next, nil
}

func (s *sessionService) History(id uuid.UUID, newestFirst bool) ([]models.HistoryEntry, error) {
	state, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if newestFirst {
		return session.Newest(state), nil
	}
	return state.History, nil
}

func (s *sessionService) Latest(id uuid.UUID, label string) (models.HistoryEntry, bool, error) {
	state, err := s.find(id)
	if err != nil {
		return models.HistoryEntry{}, false, err
	}
	entry, ok := session.MostRecent(state, label)
	return entry, ok, nil
}

func (s *sessionService) Clear(id uuid.UUID) (models.SessionState, error) {
	unlock, err := s.lock(id)
	if err != nil {
		return models.SessionState{}, err
	}
	defer unlock()

	state, err := s.find(id)
	if err != nil {
		return models.SessionState{}, err
	}

	state = session.Reset(state, s.now())
	if err := s.save(state, "failed to clear session"); err != nil {
		return models.SessionState{}, err
	}
	log.Info().Str("session_id", id.String()).Msg("🧹 Session cleared")
	return state, nil
}

func (s *sessionService) Export(id uuid.UUID, format ExportFormat) ([]byte, error) {
	state, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return s.exporter.Render(state.History, s.now(), format)
}

// Forget drops the per-session lock of a deleted session.
func (s *sessionService) Forget(id uuid.UUID) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	delete(s.locks, id)
}

func (s *sessionService) find(id uuid.UUID) (models.SessionState, error) {
	state, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return models.SessionState{}, ErrSessionNotFound
		}
		return models.SessionState{}, err
	}
	return state, nil
}

// save persists state. A session evicted while the caller held its lock is
// reported as not found.
func (s *sessionService) save(state models.SessionState, action string) error {
	if err := s.repo.Save(state); err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("%s: %w", action, err)
	}
	return nil
}

// lock allows one mutating operation per session at a time. A second caller
// is turned away instead of queued.
func (s *sessionService) lock(id uuid.UUID) (func(), error) {
	if _, err := s.find(id); err != nil {
		return nil, err
	}

	s.locksMu.Lock()
	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	s.locksMu.Unlock()

	if !mu.TryLock() {
		return nil, ErrSessionBusy
	}
	return mu.Unlock, nil
}
