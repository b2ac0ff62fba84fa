package dto

// PaginationResponse page metadata for listings.
type PaginationResponse struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ErrorResponse HTTP error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// InfoResponse root endpoint body.
type InfoResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// HealthResponse health check body.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Error    string `json:"error,omitempty"`
}
