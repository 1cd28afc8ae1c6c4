package dto

// SubmitJustificationRequest opens a justification. Individual requests
// set absence_id; team requests set team_id and date instead.
type SubmitJustificationRequest struct {
	AbsenceID     string `json:"absence_id"`
	TeamID        string `json:"team_id"`
	Date          string `json:"date"`
	Reason        string `json:"reason" binding:"required"`
	AttachmentURL string `json:"attachment_url"`
}

// ListJustificationsRequest filters for the justification queue.
type ListJustificationsRequest struct {
	PaginationRequest
	Status string `form:"status"`
	TeamID string `form:"team_id"`
	Kind   string `form:"kind"`
}
