// Package common holds the JSON envelopes shared by the admin API.
package common

type ErrorResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Message: message}
}

type SuccessResponse struct {
	Data any `json:"data"`
}

func NewSuccessResponse(data any) *SuccessResponse {
	return &SuccessResponse{Data: data}
}

type Pagination struct {
	Total int64 `json:"total"`
}

// SearchResponse wraps list endpoints. Lists are never paged, so Total is
// the length of Data.
type SearchResponse struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewSearchResponse(data any, total int64) *SearchResponse {
	return &SearchResponse{
		Data:       data,
		Pagination: Pagination{Total: total},
	}
}
