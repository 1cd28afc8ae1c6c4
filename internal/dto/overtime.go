package dto

// ListOvertimesRequest filters for the overtime queue.
type ListOvertimesRequest struct {
	PaginationRequest
	Status    string `form:"status"`
	TeamID    string `form:"team_id"`
	WorkerID  string `form:"worker_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}
