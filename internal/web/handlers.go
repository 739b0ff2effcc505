package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/timetab/timetab/internal/importer"
)

// readCSVUpload extracts the raw CSV text from a request. It accepts
// either a multipart form with a "file" field or a raw body, both capped
// at the configured maximum file size.
func (s *Server) readCSVUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxSize); err != nil {
			s.respondError(w, r, http.StatusBadRequest, "file too large or invalid form", err)
			return "", false
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "no file provided", err)
			return "", false
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
			return "", false
		}
		return string(data), true
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to read request body", err)
		return "", false
	}
	return string(data), true
}

// handleValidate runs the header format check without touching the store.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readCSVUpload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.service.Validate(raw))
}

// previewResponse pairs a generated preview with the ID needed to commit it.
type previewResponse struct {
	PreviewID string                  `json:"previewId"`
	Preview   *importer.ImportPreview `json:"preview"`
}

// handlePreview parses an uploaded CSV and returns a side-effect-free
// preview of what a commit would create.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readCSVUpload(w, r)
	if !ok {
		return
	}

	previewID, preview, err := s.service.Preview(r.Context(), raw)
	if err != nil {
		if errors.Is(err, importer.ErrUnknownFormat) {
			s.respondError(w, r, http.StatusBadRequest, err.Error(), err)
			return
		}
		s.respondError(w, r, http.StatusBadGateway, "entity store unavailable", err)
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{PreviewID: previewID, Preview: preview})
}

// handleGetPreview returns a cached preview by ID.
func (s *Server) handleGetPreview(w http.ResponseWriter, r *http.Request) {
	previewID := chi.URLParam(r, "previewID")

	preview, err := s.service.Get(previewID)
	if err != nil {
		s.respondError(w, r, http.StatusNotFound, "preview not found", err)
		return
	}
	writeJSON(w, http.StatusOK, previewResponse{PreviewID: previewID, Preview: preview})
}

// handleCancelPreview discards a cached preview.
func (s *Server) handleCancelPreview(w http.ResponseWriter, r *http.Request) {
	s.service.Cancel(chi.URLParam(r, "previewID"))
	w.WriteHeader(http.StatusNoContent)
}

// commitRequest is the JSON body for a commit. Preview, when present, is
// the user-edited copy and replaces the cached one.
type commitRequest struct {
	PreviewID string                  `json:"previewId"`
	Preview   *importer.ImportPreview `json:"preview,omitempty"`
}

// handleCommit applies a preview, creating entities in the store. The
// result is returned with status 200 even when some entities failed;
// clients inspect the embedded errors.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.PreviewID == "" {
		s.respondError(w, r, http.StatusBadRequest, "missing previewId", nil)
		return
	}

	result, err := s.service.Commit(r.Context(), req.PreviewID, req.Preview)
	if err != nil {
		s.respondError(w, r, http.StatusNotFound, "preview not found", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
