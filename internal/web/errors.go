package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/timetab/timetab/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code,omitempty"`
}

// respondError logs the technical error server-side and returns a
// user-friendly JSON error to the client. When the error matches a known
// pattern the mapped message replaces the fallback one.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, statusCode int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if msg, ok := mapError(err); ok {
		resp = ErrorResponse{Error: msg.Message, Action: msg.Action, Code: msg.Code}
	}

	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	if resp.Code != "" {
		attrs = append(attrs, "code", resp.Code)
	}
	logging.FromContext(r.Context()).Error("request error", attrs...)

	writeJSON(w, statusCode, resp)
}

// writeJSON encodes v as JSON and writes it with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
