package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/go-chi/chi/v5"
)

// handlerFunc - обработчик, который возвращает ошибку вместо того, чтобы писать ее сам
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle превращает handlerFunc в http.HandlerFunc; все ошибки уходят в apperr.Write
func handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			apperr.Write(w, r, err)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

func noContent(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// decodeJSON читает тело, уже проверенное validate.Middleware
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	// пустое тело валидатор считает объектом {}
	if err != nil && !errors.Is(err, io.EOF) {
		return apperr.BadRequest("Invalid JSON body")
	}
	return nil
}

// idParam читает числовой параметр пути. Формат проверен схемой, поэтому
// переполнение uint означает, что такой записи нет.
func idParam(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 || id > uint64(^uint(0)) {
		return 0, apperr.NotFound()
	}
	return uint(id), nil
}
