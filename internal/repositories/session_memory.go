package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/jobfit-analyzer/internal/models"
)

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]models.SessionState
}

// NewMemorySessionRepository keeps sessions in process memory. States are
// copied on the way in and out.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[uuid.UUID]models.SessionState),
	}
}

func (m *memorySessionRepository) Create(state models.SessionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[state.ID]; exists {
		return fmt.Errorf("session %s already exists", state.ID)
	}
	m.sessions[state.ID] = state.Clone()
	return nil
}

func (m *memorySessionRepository) FindByID(id uuid.UUID) (models.SessionState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return models.SessionState{}, ErrSessionNotFound
	}
	return state.Clone(), nil
}

func (m *memorySessionRepository) Save(state models.SessionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[state.ID]; !ok {
		return ErrSessionNotFound
	}
	m.sessions[state.ID] = state.Clone()
	return nil
}

func (m *memorySessionRepository) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memorySessionRepository) FindStartedBefore(cutoff time.Time) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []uuid.UUID
	for id, state := range m.sessions {
		if state.StartedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
