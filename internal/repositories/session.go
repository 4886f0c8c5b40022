package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/jobfit-analyzer/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(state models.SessionState) error
	FindByID(id uuid.UUID) (models.SessionState, error)
	Save(state models.SessionState) error
	Delete(id uuid.UUID) error
	FindStartedBefore(cutoff time.Time) ([]uuid.UUID, error)
}
