package dto

import "time"

type RunResponse struct {
	RunID         string    `json:"run_id"`
	Mode          string    `json:"mode"`
	GroupCount    int       `json:"group_count"`
	NodeCount     int       `json:"node_count"`
	Visited       int       `json:"visited"`
	TotalDistance float64   `json:"total_distance"`
	TotalTime     float64   `json:"total_time"`
	CreatedAt     time.Time `json:"created_at"`
}

type ListRunsResponse struct {
	Runs []RunResponse `json:"runs"`
}
