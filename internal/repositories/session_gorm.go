package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/jobfit-analyzer/internal/models"
)

type gormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) SessionRepository {
	return &gormSessionRepository{db: db}
}

func (r *gormSessionRepository) Create(state models.SessionState) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		record := toSessionRecord(state)
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		return insertHistory(tx, state, 0)
	})
}

func (r *gormSessionRepository) FindByID(id uuid.UUID) (models.SessionState, error) {
	var record models.SessionRecord
	err := r.db.
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SessionState{}, ErrSessionNotFound
		}
		return models.SessionState{}, fmt.Errorf("failed to find session: %w", err)
	}
	return fromSessionRecord(record), nil
}

// Save updates the session row and brings history_entries in line with the
// state. History only grows between resets, so only the tail is inserted;
// a shorter history means a reset and the stored rows are dropped first.
func (r *gormSessionRepository) Save(state models.SessionState) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		record := toSessionRecord(state)

		result := tx.Model(&models.SessionRecord{}).
			Where("id = ?", state.ID).
			Updates(map[string]interface{}{
				"started_at":     record.StartedAt,
				"consent":        record.Consent,
				"privacy_ack":    record.PrivacyAck,
				"api_call_count": record.APICallCount,
				"updated_at":     time.Now().UTC(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to save session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrSessionNotFound
		}

		var stored int64
		if err := tx.Model(&models.HistoryRecord{}).Where("session_id = ?", state.ID).Count(&stored).Error; err != nil {
			return fmt.Errorf("failed to count history: %w", err)
		}

		if int(stored) > len(state.History) {
			if err := tx.Where("session_id = ?", state.ID).Delete(&models.HistoryRecord{}).Error; err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			stored = 0
		}

		return insertHistory(tx, state, int(stored))
	})
}

func (r *gormSessionRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.HistoryRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete history: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&models.SessionRecord{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
}

func (r *gormSessionRepository) FindStartedBefore(cutoff time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.SessionRecord{}).
		Where("started_at < ?", cutoff.UTC()).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find stale sessions: %w", err)
	}
	return ids, nil
}

func insertHistory(tx *gorm.DB, state models.SessionState, from int) error {
	if from >= len(state.History) {
		return nil
	}

	records := make([]models.HistoryRecord, 0, len(state.History)-from)
	for i := from; i < len(state.History); i++ {
		records = append(records, toHistoryRecord(state.ID, i, state.History[i]))
	}

	if err := tx.Create(&records).Error; err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

func toSessionRecord(state models.SessionState) models.SessionRecord {
	return models.SessionRecord{
		ID:           state.ID,
		StartedAt:    state.StartedAt.UTC(),
		Consent:      state.Consent,
		PrivacyAck:   state.PrivacyAck,
		APICallCount: state.APICallCount,
	}
}

func fromSessionRecord(record models.SessionRecord) models.SessionState {
	state := models.SessionState{
		ID:           record.ID,
		StartedAt:    record.StartedAt,
		Consent:      record.Consent,
		PrivacyAck:   record.PrivacyAck,
		APICallCount: record.APICallCount,
		History:      make([]models.HistoryEntry, 0, len(record.History)),
	}
	for _, h := range record.History {
		state.History = append(state.History, fromHistoryRecord(h))
	}
	return state
}

func toHistoryRecord(sessionID uuid.UUID, seq int, entry models.HistoryEntry) models.HistoryRecord {
	return models.HistoryRecord{
		SessionID:    sessionID,
		Seq:          seq,
		Label:        entry.Label,
		Intent:       string(entry.Result.Intent),
		Model:        entry.Result.Model,
		ResponseText: entry.Result.Text,
		ElapsedMs:    entry.Result.Elapsed.Milliseconds(),
		Percentage:   entry.Result.Percentage,
		Timestamp:    entry.Timestamp.UTC(),
		DisplayTime:  entry.DisplayTime,
	}
}

// fromHistoryRecord keeps the display time as it was first shown; older rows
// without one fall back to the stored timestamp.
func fromHistoryRecord(record models.HistoryRecord) models.HistoryEntry {
	displayTime := record.DisplayTime
	if displayTime == "" {
		displayTime = record.Timestamp.Format(models.DisplayTimeFormat)
	}

	return models.HistoryEntry{
		Label:       record.Label,
		Timestamp:   record.Timestamp,
		DisplayTime: displayTime,
		Result: models.AnalysisResult{
			Intent:     models.IntentKey(record.Intent),
			Model:      record.Model,
			Text:       record.ResponseText,
			Elapsed:    time.Duration(record.ElapsedMs) * time.Millisecond,
			Percentage: record.Percentage,
		},
	}
}
