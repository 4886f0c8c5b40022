package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/jobfit-analyzer/internal/models"
)

var t0 = time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

func result(text string) models.AnalysisResult {
	return models.AnalysisResult{Intent: models.IntentOverview, Text: text}
}

func TestIsExpired(t *testing.T) {
	state := New(uuid.New(), t0)
	timeout := 30 * time.Minute

	assert.False(t, IsExpired(state, t0, timeout))
	assert.False(t, IsExpired(state, t0.Add(timeout), timeout), "exactly at the timeout is still alive")
	assert.True(t, IsExpired(state, t0.Add(timeout+time.Second), timeout))
	assert.Equal(t, t0.Add(timeout), ExpiresAt(state, timeout))
}

func TestResetKeepsID(t *testing.T) {
	id := uuid.New()
	state := New(id, t0)
	state.Consent = true
	state.PrivacyAck = true
	state.APICallCount = 7
	state = Append(state, "A", result("a"), t0)

	later := t0.Add(time.Hour)
	reset := Reset(state, later)

	assert.Equal(t, id, reset.ID)
	assert.Equal(t, later, reset.StartedAt)
	assert.False(t, reset.Consent)
	assert.False(t, reset.PrivacyAck)
	assert.Zero(t, reset.APICallCount)
	assert.Empty(t, reset.History)
	assert.Len(t, state.History, 1, "input state is not modified")
}

func TestAppendOrderAndMostRecent(t *testing.T) {
	state := New(uuid.New(), t0)
	state = Append(state, "A", result("first A"), t0.Add(1*time.Minute))
	state = Append(state, "B", result("B"), t0.Add(2*time.Minute))
	state = Append(state, "C", result("C"), t0.Add(3*time.Minute))

	require.Len(t, state.History, 3)
	assert.Equal(t, []string{"A", "B", "C"}, labels(state.History))

	entry, ok := MostRecent(state, "A")
	require.True(t, ok)
	assert.Equal(t, "first A", entry.Result.Text)
	assert.Equal(t, "2026-01-02 09:01:00", entry.DisplayTime)

	state = Append(state, "A", result("second A"), t0.Add(4*time.Minute))
	entry, ok = MostRecent(state, "A")
	require.True(t, ok)
	assert.Equal(t, "second A", entry.Result.Text)

	_, ok = MostRecent(state, "missing")
	assert.False(t, ok)
}

func TestAppendDoesNotAlias(t *testing.T) {
	base := Append(New(uuid.New(), t0), "A", result("a"), t0)

	left := Append(base, "L", result("l"), t0)
	right := Append(base, "R", result("r"), t0)

	assert.Equal(t, []string{"A", "L"}, labels(left.History))
	assert.Equal(t, []string{"A", "R"}, labels(right.History))
	assert.Len(t, base.History, 1)
}

func TestAppendNeverDeduplicates(t *testing.T) {
	state := New(uuid.New(), t0)
	state = Append(state, "A", result("same"), t0)
	state = Append(state, "A", result("same"), t0)

	assert.Len(t, state.History, 2)
}

func TestNewest(t *testing.T) {
	state := New(uuid.New(), t0)
	state = Append(state, "A", result("a"), t0)
	state = Append(state, "B", result("b"), t0)

	assert.Equal(t, []string{"B", "A"}, labels(Newest(state)))
	assert.Equal(t, []string{"A", "B"}, labels(state.History))
}

func labels(entries []models.HistoryEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Label)
	}
	return out
}
