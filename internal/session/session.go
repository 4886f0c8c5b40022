// Package session holds the operations over a user's SessionState. Every
// function takes the state by value and returns the next state; none of them
// touch storage.
package session

import (
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/jobfit-analyzer/internal/models"
)

func New(id uuid.UUID, now time.Time) models.SessionState {
	return models.SessionState{
		ID:        id,
		StartedAt: now,
		History:   []models.HistoryEntry{},
	}
}

// IsExpired reports whether the session outlived its timeout, counted from
// StartedAt.
func IsExpired(state models.SessionState, now time.Time, timeout time.Duration) bool {
	return now.Sub(state.StartedAt) > timeout
}

// ExpiresAt is the first instant at which IsExpired turns true.
func ExpiresAt(state models.SessionState, timeout time.Duration) time.Time {
	return state.StartedAt.Add(timeout)
}

// Reset clears history, call count and both consent flags, and restarts the
// clock. The session ID survives.
func Reset(state models.SessionState, now time.Time) models.SessionState {
	return models.SessionState{
		ID:        state.ID,
		StartedAt: now,
		History:   []models.HistoryEntry{},
	}
}

func Append(state models.SessionState, label string, result models.AnalysisResult, now time.Time) models.SessionState {
	next := state
	next.History = make([]models.HistoryEntry, len(state.History), len(state.History)+1)
	copy(next.History, state.History)
	next.History = append(next.History, models.HistoryEntry{
		Label:       label,
		Timestamp:   now,
		DisplayTime: now.Format(models.DisplayTimeFormat),
		Result:      result,
	})
	return next
}

func MostRecent(state models.SessionState, label string) (models.HistoryEntry, bool) {
	for i := len(state.History) - 1; i >= 0; i-- {
		if state.History[i].Label == label {
			return state.History[i], true
		}
	}
	return models.HistoryEntry{}, false
}

// Newest returns the history newest-first for display. The state is untouched.
func Newest(state models.SessionState) []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(state.History))
	for i, entry := range state.History {
		out[len(state.History)-1-i] = entry
	}
	return out
}
