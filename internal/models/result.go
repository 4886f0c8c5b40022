package models

import "time"

type CreateSessionResponse struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionResponse struct {
	ID             string    `json:"id"`
	StartedAt      time.Time `json:"started_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	Consent        bool      `json:"consent"`
	PrivacyAck     bool      `json:"privacy_ack"`
	APICallCount   int       `json:"api_call_count"`
	RemainingCalls int       `json:"remaining_calls"`
	HistoryLength  int       `json:"history_length"`
}

type ConsentRequest struct {
	Consent    bool `json:"consent"`
	PrivacyAck bool `json:"privacy_ack"`
}

type AnalyzeResponse struct {
	Label          string    `json:"label"`
	Intent         IntentKey `json:"intent"`
	Model          string    `json:"model"`
	Response       string    `json:"response"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	Percentage     *int      `json:"percentage,omitempty"`
	Timestamp      string    `json:"timestamp"`
	APICallCount   int       `json:"api_call_count"`
}

type HistoryResponse struct {
	SessionID string         `json:"session_id"`
	Count     int            `json:"count"`
	Entries   []HistoryEntry `json:"entries"`
}

type ModelOption struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Default bool   `json:"default"`
}
