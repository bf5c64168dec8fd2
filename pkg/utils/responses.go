package utils

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Response is the envelope every API answer is wrapped in.
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// FieldErrors maps a JSON field name to the reason it was rejected.
type FieldErrors map[string]string

const MsgValidationFailed = "Validation failed"

// ResponseJSON writes the envelope with a custom status code. The body is
// encoded before the header goes out so an unencodable payload still
// answers 500.
func ResponseJSON(w http.ResponseWriter, code int, status bool, message string, data, errors any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(Response{
		Status:  status,
		Message: message,
		Data:    data,
		Errors:  errors,
	}); err != nil {
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(Response{Message: "Internal server error"})
		code = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, true, message, data, nil)
}

// ResponseList answers 200 with items. A nil slice is written as [].
func ResponseList[T any](w http.ResponseWriter, message string, items []T) {
	if items == nil {
		items = []T{}
	}
	ResponseJSON(w, http.StatusOK, true, message, items, nil)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, true, message, data, nil)
}

// ------------- Error responses -------------

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseJSON(w, http.StatusBadRequest, false, message, nil, errors)
}

// ResponseValidation answers 400 with the per-field reasons.
func ResponseValidation(w http.ResponseWriter, fields FieldErrors) {
	ResponseJSON(w, http.StatusBadRequest, false, MsgValidationFailed, nil, fields)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusUnauthorized, false, message, nil, nil)
}

// returns 403 Forbidden
func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusForbidden, false, message, nil, nil)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusNotFound, false, message, nil, nil)
}

// returns 413 Request Entity Too Large
func ResponseTooLarge(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusRequestEntityTooLarge, false, message, nil, nil)
}

// returns 429 Too Many Requests
func ResponseTooManyRequests(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusTooManyRequests, false, message, nil, nil)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusInternalServerError, false, message, nil, nil)
}

// returns 503 Service Unavailable
func ResponseUnavailable(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusServiceUnavailable, false, message, nil, nil)
}
