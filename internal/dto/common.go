package dto

// ErrorResponse is the uniform error body of the tool surface.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// PaginationParams are shared by every listing tool. Limit is capped at
// the service's page maximum by validation, not silently truncated.
type PaginationParams struct {
	Page  int `json:"page" binding:"omitempty,min=1"`
	Limit int `json:"limit" binding:"omitempty,min=1,max=200"`
}
