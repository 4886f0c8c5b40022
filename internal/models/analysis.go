package models

import (
	"encoding/json"
	"time"
)

type IntentKey string

const (
	IntentOverview        IntentKey = "overview"
	IntentSkillGap        IntentKey = "skill-gap"
	IntentKeywordGap      IntentKey = "keyword-gap"
	IntentMatchPercentage IntentKey = "match-percentage"
	IntentInterviewChance IntentKey = "interview-chance"
	IntentCustom          IntentKey = "custom"
)

// AnalysisIntent is one entry of the prompt catalog. For IntentCustom the
// instruction is the caller's own text.
type AnalysisIntent struct {
	Key         IntentKey `json:"key"`
	Label       string    `json:"label"`
	Instruction string    `json:"-"`
}

// AnalysisRequest is the fully resolved input sent to the answer generator.
type AnalysisRequest struct {
	JobDescription string
	ResumeText     string
	Intent         IntentKey
	Instruction    string
	Model          string
}

type AnalysisResult struct {
	Intent     IntentKey     `json:"intent"`
	Model      string        `json:"model"`
	Text       string        `json:"text"`
	Elapsed    time.Duration `json:"-"`
	Percentage *int          `json:"percentage,omitempty"`
}

// ElapsedSeconds is the response time shown under the answer.
func (r AnalysisResult) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	type plain AnalysisResult
	return json.Marshal(struct {
		plain
		ElapsedSeconds float64 `json:"elapsed_seconds"`
	}{plain(r), r.ElapsedSeconds()})
}
