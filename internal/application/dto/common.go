package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ConflictResponse error 409 de un borrado bloqueado; Count es el número de referencias.
type ConflictResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// MessageResponse confirmación simple (borrados).
type MessageResponse struct {
	Message string `json:"message"`
}
