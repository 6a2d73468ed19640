package dto

// ErrorResponse cuerpo de error HTTP del backend.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
