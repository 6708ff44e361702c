// Package apperr описывает ошибки, которые доходят до клиента как {message, code?, details?}
// со статусом HTTP, и единственное место, где они записываются в ответ.
package apperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Code: "bad_request"}
}

func Validation(details any) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: "Validation error",
		Code:    "validation_error",
		Details: details,
	}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

func Forbidden() *Error {
	return &Error{Status: http.StatusForbidden, Message: "Forbidden"}
}

func NotFound() *Error {
	return &Error{Status: http.StatusNotFound, Message: "Not found"}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

func Unavailable(message string) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Message: message}
}

// StatusOf возвращает статус ошибки, 500 для всего, что не *Error
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Is сравнивает статус: apperr.Is(err, http.StatusNotFound)
func Is(err error, status int) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Status == status
}

// Write пишет ошибку в ответ. Ошибки 5xx логируются, а неизвестные клиент видит только как общий текст.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Int("status", status).Msg("request failed")
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = New(status, "Internal Server Error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(appErr)
}
