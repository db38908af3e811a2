package handler

import "github.com/jpashop/backend/internal/interfaces/http/dto"

// Swagger models. The handlers write dto.Response; these types only give
// the generated docs a typed data field.

// APIResponse is a success envelope carrying T
type APIResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    T         `json:"data"`
	Meta    *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse is the envelope of every failed request
type ErrorResponse struct {
	Success bool          `json:"success" example:"false"`
	Error   dto.ErrorInfo `json:"error"`
}
