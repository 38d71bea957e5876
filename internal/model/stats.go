package model

// BoardStats feeds the dashboard summary cards: aggregate counts per status
// and triage level plus the average wait of visits still in the department.
type BoardStats struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	ByTriageLevel  map[int]int    `json:"by_triage_level"`
	AvgWaitMinutes float64        `json:"avg_wait_minutes"`
	PendingTriage  int            `json:"pending_triage"`
	PendingAssign  int            `json:"pending_assign"`
}
