// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// IDResponse returns a created entity ID.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic success message.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps list results.
type ListResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}
