package model

import "time"

// RunStatus tracks a harvest run's lifecycle.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// HarvestRun is one batch execution over a roster selection.
type HarvestRun struct {
	ID          string     `json:"id"`
	Category    string     `json:"category"`
	Division    string     `json:"division,omitempty"`
	Conference  string     `json:"conference,omitempty"`
	Status      RunStatus  `json:"status"`
	OrgCount    int        `json:"org_count"`
	FoundCount  int        `json:"found_count"`
	RecordCount int        `json:"record_count"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}
