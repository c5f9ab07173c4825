package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ScenarioStep is one command envelope in a suite together with its
// expected outcome. Command is kept raw so a step can exercise malformed
// payloads as well as well-formed ones.
type ScenarioStep struct {
	Label          string          `json:"label,omitempty"`
	Command        json.RawMessage `json:"command"`
	ExpectReward   int             `json:"expect_reward"`
	ExpectFeedback string          `json:"expect_feedback,omitempty"`
}

// ScenarioSuite is an ordered list of steps replayed against one fresh table.
type ScenarioSuite struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Steps       []ScenarioStep `json:"steps"`
}

// StepResult records the outcome of a single replayed step.
type StepResult struct {
	Index    int     `json:"index"`
	Label    string  `json:"label,omitempty"`
	Reward   int     `json:"reward"`
	Feedback string  `json:"feedback"`
	Passed   bool    `json:"passed"`
	Duration float64 `json:"duration_ms"`
}

// SuiteReport summarizes one suite run. Error is set when the suite could
// not be set up at all; its steps are then empty.
type SuiteReport struct {
	RunID    uuid.UUID    `json:"run_id"`
	Suite    string       `json:"suite"`
	Steps    []StepResult `json:"steps"`
	Passed   int          `json:"passed"`
	Failed   int          `json:"failed"`
	Error    string       `json:"error,omitempty"`
	Duration float64      `json:"duration_ms"`
}

// LatencySummary aggregates per-step processing latency across a run.
type LatencySummary struct {
	MeanMs   float64 `json:"mean_ms"`
	MedianMs float64 `json:"median_ms"`
	P95Ms    float64 `json:"p95_ms"`
}

// ScenarioReport is the aggregate result of running a set of suites.
type ScenarioReport struct {
	RunID       uuid.UUID      `json:"run_id"`
	Suites      []SuiteReport  `json:"suites"`
	TotalSteps  int            `json:"total_steps"`
	PassedSteps int            `json:"passed_steps"`
	FailedSteps int            `json:"failed_steps"`
	SuccessRate float64        `json:"success_rate"`
	Latency     LatencySummary `json:"latency"`
}

// Ok reports whether every step in every suite passed and no suite failed
// to set up.
func (r ScenarioReport) Ok() bool {
	if r.FailedSteps > 0 {
		return false
	}
	for _, s := range r.Suites {
		if s.Error != "" {
			return false
		}
	}
	return true
}
