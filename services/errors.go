package services

import "net/http"

// ServiceError is a typed error with an HTTP status code. Storage
// failures are logged at the call site and surfaced with a generic
// message so internal detail never reaches the client.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func badRequest(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Message: message}
}

func notFound(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Message: message}
}

func payloadTooLarge(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusRequestEntityTooLarge, Message: message}
}

func storageError() *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Internal server error"}
}
