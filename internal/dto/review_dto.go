package dto

// Review ingestion DTOs

type ReceiveReviewRequest struct {
	Source string `json:"source" validate:"required"`
	URL    string `json:"url" validate:"required,url"`
	Text   string `json:"text" validate:"required"`
}

type ReceiveReviewResponse struct {
	Accepted      bool   `json:"accepted"`
	PipelineState string `json:"pipeline_state"`
}
