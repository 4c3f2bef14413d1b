package web

// errors.go provides unified error response handling for the web layer.
//
// Every failure returns a structured JSON body with a
// machine-distinguishable code and a human-readable message. The full
// technical error is logged server-side with the request ID for
// correlation; clients only see the sanitized message.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/kasuwa/server/internal/catalog"
	"github.com/kasuwa/server/internal/ingest"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError maps err to an HTTP status and writes the structured
// error body.
//
// Pipeline failures carry their stage: validation surfaces as a client
// error, blob rejections as client errors, blob I/O and persistence as
// server errors. Everything else is an internal error.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "INT001"
	message := "internal error"

	var perr *ingest.Error
	switch {
	case errors.As(err, &perr):
		code = perr.Code
		message = perr.Message
		switch perr.Kind {
		case ingest.KindValidation:
			status = http.StatusBadRequest
		case ingest.KindUpload:
			status = uploadStatus(perr)
		case ingest.KindPersistence:
			status = http.StatusInternalServerError
		}
	case errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
		code = "CAT001"
		message = "product not found"
	}

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	writeError(w, status, code, message)
}

// uploadStatus distinguishes client-caused blob failures from I/O
// failures.
func uploadStatus(perr *ingest.Error) int {
	switch perr.Code {
	case ingest.CodeUnsupportedType:
		return http.StatusUnsupportedMediaType
	case ingest.CodeImageTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// writeJSON encodes v as JSON and writes it to w with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
