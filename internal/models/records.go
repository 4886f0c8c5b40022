package models

import (
	"time"

	"github.com/google/uuid"
)

// Time columns carry no explicit type so the postgres dialect maps them to
// timestamptz. Values are written in UTC.
type SessionRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StartedAt    time.Time `gorm:"not null" json:"started_at"`
	Consent      bool      `gorm:"not null;default:false" json:"consent"`
	PrivacyAck   bool      `gorm:"not null;default:false" json:"privacy_ack"`
	APICallCount int       `gorm:"not null;default:0" json:"api_call_count"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	History []HistoryRecord `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SessionRecord) TableName() string {
	return "sessions"
}

type HistoryRecord struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	SessionID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_history_session_seq" json:"session_id"`
	Seq          int       `gorm:"not null;uniqueIndex:idx_history_session_seq" json:"seq"`
	Label        string    `gorm:"type:text" json:"label"`
	Intent       string    `gorm:"type:text" json:"intent"`
	Model        string    `gorm:"type:text" json:"model"`
	ResponseText string    `gorm:"type:text" json:"response_text"`
	ElapsedMs    int64     `json:"elapsed_ms"`
	Percentage   *int      `json:"percentage,omitempty"`
	Timestamp    time.Time `gorm:"not null" json:"timestamp"`
	DisplayTime  string    `gorm:"type:text" json:"display_time"`
}

func (HistoryRecord) TableName() string {
	return "history_entries"
}
