package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"marcador/internal/models"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

type errorResponse struct {
	Error     string           `json:"error"`
	Code      models.ErrorKind `json:"code"`
	RequestID string           `json:"requestId,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
	MatchID int    `json:"partidoId,omitempty"`
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object. Malformed bodies are invalid
// arguments, an empty body is only accepted when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return models.InvalidArgument("invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}, log Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && log != nil {
		log.Error("failed to encode response: %v", err)
	}
}

// writeError maps the error kind to a status code. Storage failures never
// leak driver details to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error, log Logger) {
	kind := models.KindOf(err)
	status := statusForKind(kind)

	message := err.Error()
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("%s %s failed: %v", r.Method, r.URL.Path, err)
		}
		message = "internal error"
	}

	writeJSON(w, status, errorResponse{
		Error:     message,
		Code:      kind,
		RequestID: RequestIDFromContext(r.Context()),
	}, log)
}

func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindInvalidArgument, models.KindInvalidStatus, models.KindInvalidTransition:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
