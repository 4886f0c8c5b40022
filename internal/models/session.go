package models

import (
	"time"

	"github.com/google/uuid"
)

const DisplayTimeFormat = "2006-01-02 15:04:05"

type HistoryEntry struct {
	Label       string         `json:"label"`
	Timestamp   time.Time      `json:"timestamp"`
	DisplayTime string         `json:"display_time"`
	Result      AnalysisResult `json:"result"`
}

// SessionState is everything one user session owns. It is passed by value
// into the pipeline and the session operations, which return the next state.
type SessionState struct {
	ID           uuid.UUID
	StartedAt    time.Time
	Consent      bool
	PrivacyAck   bool
	APICallCount int
	History      []HistoryEntry
}

// Clone returns a copy whose history does not share a backing array with s.
func (s SessionState) Clone() SessionState {
	out := s
	if s.History != nil {
		out.History = make([]HistoryEntry, len(s.History))
		copy(out.History, s.History)
	}
	return out
}
