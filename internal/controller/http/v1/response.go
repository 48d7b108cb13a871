package v1

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/kurochkinivan/iot_center/internal/domain"
)

const maxBodyBytes = 4 << 20

type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	data, err := json.Marshal(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func ok(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func created(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

// fail maps err onto a status code and writes the error envelope. Storage
// and unexpected errors are logged and reported without internal details.
func fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status := statusOf(err)

	body := envelope{Message: err.Error()}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Message = domain.ErrValidation.Error()
		body.Errors = verr.Problems
	}

	switch status {
	case http.StatusInternalServerError:
		log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()))
		body.Message = "internal server error"

	case http.StatusRequestTimeout, http.StatusServiceUnavailable:
		log.WarnContext(r.Context(), "storage is unavailable",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()))
		body.Message = domain.Reason(err)
	}

	writeJSON(w, status, body)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrBusinessRule):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrLockTimeout):
		return http.StatusRequestTimeout
	case errors.Is(err, domain.ErrTransientStorage):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// decode reads a JSON body into v. Malformed bodies, including a single
// object where a list is expected, are validation errors.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.ValidationError{Problems: []string{fmt.Sprintf("invalid request body: %v", err)}}
	}

	return nil
}
