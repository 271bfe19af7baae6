package models

import "time"

// Run is the ledger entry for a single pipeline run.
type Run struct {
	ID          string     `json:"id"`
	Mode        string     `json:"mode"`
	WindowStart time.Time  `json:"window_start"`
	WindowEnd   *time.Time `json:"window_end,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Fetched     int        `json:"fetched"`
	Unique      int        `json:"unique"`
	InWindow    int        `json:"in_window"`
	Excluded    int        `json:"excluded"`
	Duplicates  int        `json:"duplicates"`
	Irrelevant  int        `json:"irrelevant"`
	Rejected    int        `json:"rejected"`
	Failed      int        `json:"failed"`
	Persisted   int        `json:"persisted"`
	Error       string     `json:"error,omitempty"`
}
