package models

import "time"

type JobState string

const (
	JobQueued    JobState = "queued"
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
)

// ImportJob tracks one asynchronous CSV import.
type ImportJob struct {
	ID         string     `json:"id"`
	State      JobState   `json:"state"`
	Rows       int        `json:"rows"`
	Imported   int        `json:"imported"`
	Error      string     `json:"error,omitempty"`
	QueuedAt   time.Time  `json:"queued_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
