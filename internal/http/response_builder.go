package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"moneynote/internal/core"
	"moneynote/internal/records"
)

// JSONResponseBuilder provides a fluent API for JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	payload    any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets the value encoded as the body.
func (b *JSONResponseBuilder) JSON(v any) *JSONResponseBuilder {
	b.payload = v
	return b
}

// Write sends the built response. A nil payload writes no body.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.payload == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	body, err := json.Marshal(b.payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(body)
	_, _ = w.Write([]byte("\n"))
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// ErrorResponse creates a {"error": message} response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).JSON(errorBody{Error: message})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// ErrorFor maps an error to its response:
//
//	*FieldError                      422
//	records.ErrNotFound              404
//	*records.Error                   502
//	ErrInvalidKind, ErrInvalidMonth  400
//	anything else                    500
func ErrorFor(err error) *JSONResponseBuilder {
	var fe *FieldError
	switch {
	case errors.As(err, &fe):
		return NewJSONResponse().
			Status(http.StatusUnprocessableEntity).
			JSON(errorBody{Error: fe.Err.Error(), Field: fe.Field})
	case errors.Is(err, records.ErrNotFound):
		return NotFoundError(records.ErrNotFound.Error())
	case records.IsStoreError(err):
		return ErrorResponse(http.StatusBadGateway, storeErrorMessage(err))
	case errors.Is(err, core.ErrInvalidKind), errors.Is(err, core.ErrInvalidMonth):
		return BadRequestError(err.Error())
	default:
		return ErrorResponse(http.StatusInternalServerError, "internal error")
	}
}

func storeErrorMessage(err error) string {
	var se *records.Error
	if errors.As(err, &se) {
		return se.Error()
	}
	return err.Error()
}
