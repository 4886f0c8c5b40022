package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nguyenthenguyen/docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/jobfit-analyzer/internal/models"
	"alfredoptarigan/jobfit-analyzer/internal/session"
)

var exportTime = time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)

func sampleHistory() []models.HistoryEntry {
	state := session.New(uuid.New(), exportTime)
	state = session.Append(state, "A", models.AnalysisResult{Text: "alpha line one\nalpha line two"}, exportTime.Add(time.Minute))
	state = session.Append(state, "B", models.AnalysisResult{Text: "bravo <R&D>"}, exportTime.Add(2*time.Minute))
	state = session.Append(state, "C", models.AnalysisResult{Text: "charlie"}, exportTime.Add(3*time.Minute))
	return state.History
}

func readDocx(t *testing.T, data []byte) string {
	t.Helper()
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	defer doc.Close()
	return doc.Editable().GetContent()
}

func TestExportDocxKeepsInsertionOrder(t *testing.T) {
	exporter, err := NewExporter()
	require.NoError(t, err)

	history := sampleHistory()
	out, err := exporter.Render(history, exportTime, FormatDocx)
	require.NoError(t, err)

	content := readDocx(t, out)
	assert.NotContains(t, content, bodyMarker)
	assert.Contains(t, content, reportTitle)
	assert.Contains(t, content, "Generated on 2026-06-01 08:30:00")
	assert.Contains(t, content, reportFooter)
	assert.Contains(t, content, "bravo &lt;R&amp;D&gt;")

	a := strings.Index(content, "A (2026-06-01 08:31:00)")
	b := strings.Index(content, "B (2026-06-01 08:32:00)")
	c := strings.Index(content, "C (2026-06-01 08:33:00)")
	require.True(t, a >= 0 && b >= 0 && c >= 0)
	assert.Less(t, a, b)
	assert.Less(t, b, c)

	lineOne := strings.Index(content, "alpha line one")
	lineTwo := strings.Index(content, "alpha line two")
	assert.Less(t, lineOne, lineTwo)
}

func TestExportIsDeterministic(t *testing.T) {
	exporter, err := NewExporter()
	require.NoError(t, err)
	history := sampleHistory()

	for _, format := range []ExportFormat{FormatDocx, FormatMarkdown} {
		first, err := exporter.Render(history, exportTime, format)
		require.NoError(t, err)
		second, err := exporter.Render(history, exportTime, format)
		require.NoError(t, err)
		assert.Equal(t, first, second, string(format))
	}
}

func TestExportDoesNotMutateHistory(t *testing.T) {
	exporter, err := NewExporter()
	require.NoError(t, err)

	history := sampleHistory()
	before := make([]models.HistoryEntry, len(history))
	copy(before, history)

	_, err = exporter.Render(history, exportTime, FormatDocx)
	require.NoError(t, err)
	assert.Equal(t, before, history)
}

func TestExportMarkdown(t *testing.T) {
	exporter, err := NewExporter()
	require.NoError(t, err)

	out, err := exporter.Render(sampleHistory(), exportTime, FormatMarkdown)
	require.NoError(t, err)

	md := string(out)
	assert.True(t, strings.HasPrefix(md, "# "+reportTitle))
	assert.Contains(t, md, "## A (2026-06-01 08:31:00)\n\nalpha line one\nalpha line two")
	assert.Less(t, strings.Index(md, "## A"), strings.Index(md, "## C"))
	assert.True(t, strings.HasSuffix(md, "*"+reportFooter+"*\n"))
}

func TestExportEmptyHistory(t *testing.T) {
	exporter, err := NewExporter()
	require.NoError(t, err)

	out, err := exporter.Render(nil, exportTime, FormatDocx)
	require.NoError(t, err)
	assert.Contains(t, readDocx(t, out), "No analyses recorded")
}

func TestExportUnknownFormat(t *testing.T) {
	exporter, err := NewExporter()
	require.NoError(t, err)

	_, err = exporter.Render(sampleHistory(), exportTime, ExportFormat("pdf"))
	var exportErr *ExportError
	assert.ErrorAs(t, err, &exportErr)
}

func TestParseExportFormat(t *testing.T) {
	tests := map[string]ExportFormat{
		"":         FormatDocx,
		"DOCX":     FormatDocx,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
	}
	for in, want := range tests {
		got, err := ParseExportFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseExportFormat("pdf")
	assert.Error(t, err)
}
