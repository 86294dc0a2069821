package models

import "time"

type AdmissionView struct {
	Capacity int64 `json:"capacity"`
	Active   int64 `json:"active"`
	Rejected int64 `json:"rejected"`
}

// StatsView is what GET /api/v1/stats returns.
type StatsView struct {
	Items           map[string]int64 `json:"items"`
	TotalItems      int64            `json:"total_items"`
	CustomersServed int64            `json:"customers_served"`
	ActiveSessions  int64            `json:"active_sessions"`
	QueueDepth      int              `json:"queue_depth"`
	Workers         []string         `json:"workers"`
	Admission       AdmissionView    `json:"admission"`
	TakenAt         time.Time        `json:"taken_at"`
}

type Health struct {
	Status  string `json:"status"`
	Workers int    `json:"workers_running"`
}
