package dto

// ErrorResponse is the body of every non-2xx response. Message is safe to show to the
// user as a dismissible notice.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	// Upsell is set on 402 responses.
	Upsell *PlanDTO `json:"upsell,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PageDTO[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
