package dto

// ListAbsencesRequest filters for the absence queue.
type ListAbsencesRequest struct {
	PaginationRequest
	Status    string `form:"status"`
	TeamID    string `form:"team_id"`
	WorkerID  string `form:"worker_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}
